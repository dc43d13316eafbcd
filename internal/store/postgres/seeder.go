package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
)

// Seeder fills the feed database with fake video posts, users, likes and
// comments for local development.
type Seeder struct {
	Logger *slog.Logger
	DB     *DB
}

func (s *Seeder) Init(_ context.Context) error {
	s.Logger = s.Logger.With("component", "postgres.Seeder")
	return nil
}

func (s *Seeder) Seed(ctx context.Context, posts, users int) error {
	// Every post needs an author.
	users = max(1, users)

	userModels := make([]UserModel, 0, users)
	for range users {
		userModels = append(userModels, UserModel{
			ID:        uuid.NewString(),
			Username:  gofakeit.Username(),
			CreatedAt: gofakeit.DateRange(time.Now().AddDate(-1, 0, 0), time.Now()),
		})
	}
	if err := s.DB.Model(&UserModel{}).WithContext(ctx).Create(&userModels).Error; err != nil {
		return fmt.Errorf("seed users: %w", err)
	}

	postModels := make([]PostModel, 0, posts)
	commentModels := []CommentModel{}
	for range posts {
		author := userModels[gofakeit.Number(0, len(userModels)-1)]
		post := PostModel{
			ID:              uuid.NewString(),
			Type:            videoPostType,
			MediaURL:        fmt.Sprintf("https://videos.example.com/%s.mp4", uuid.NewString()),
			Caption:         gofakeit.Sentence(gofakeit.Number(3, 12)),
			AuthorID:        author.ID,
			AuthorUsername:  author.Username,
			AuthorAvatarURL: fmt.Sprintf("https://avatars.example.com/%s.png", author.ID),
			LikeCount:       gofakeit.Number(0, 50000),
			ViewCount:       gofakeit.Number(0, 1000000),
			CreatedAt:       gofakeit.DateRange(time.Now().AddDate(0, -3, 0), time.Now()),
		}

		for range gofakeit.Number(0, 5) {
			commenter := userModels[gofakeit.Number(0, len(userModels)-1)]
			commentModels = append(commentModels, CommentModel{
				ID:        uuid.NewString(),
				PostID:    post.ID,
				AuthorID:  commenter.ID,
				Body:      gofakeit.HipsterSentence(gofakeit.Number(2, 10)),
				CreatedAt: gofakeit.DateRange(post.CreatedAt, time.Now()),
			})
			post.CommentCount++
		}

		postModels = append(postModels, post)
	}
	if len(postModels) > 0 {
		if err := s.DB.Model(&PostModel{}).WithContext(ctx).Create(&postModels).Error; err != nil {
			return fmt.Errorf("seed posts: %w", err)
		}
	}
	if len(commentModels) > 0 {
		if err := s.DB.Model(&CommentModel{}).WithContext(ctx).Create(&commentModels).Error; err != nil {
			return fmt.Errorf("seed comments: %w", err)
		}
	}

	s.Logger.Info("seeded demo data",
		"users", len(userModels), "posts", len(postModels), "comments", len(commentModels))
	return nil
}
