package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"reelfeed/internal/config"
	"reelfeed/internal/core"
)

// Repository implements core.Store over the feed database. The "current user"
// of a direct-database deployment comes from configuration, since there is no
// session in front of it.
type Repository struct {
	Logger *slog.Logger
	Config *config.Config
	DB     *DB
}

func (r *Repository) Init(_ context.Context) error {
	r.Logger = r.Logger.With("component", "postgres.Repository")
	return nil
}

func (r *Repository) ListVideoPosts(ctx context.Context) ([]core.FeedItem, error) {
	var posts []PostModel
	err := r.DB.Model(&PostModel{}).
		WithContext(ctx).
		Where("type = ?", videoPostType).
		Order("created_at desc").
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("%w: list posts: %v", core.ErrTransport, err)
	}

	posts = lo.Filter(posts, func(p PostModel, _ int) bool {
		return p.ID != ""
	})

	return lo.Map(posts, func(p PostModel, _ int) core.FeedItem {
		return core.FeedItem{
			ID:               p.ID,
			MediaURL:         p.MediaURL,
			Caption:          p.Caption,
			AuthorID:         p.AuthorID,
			AuthorUsername:   p.AuthorUsername,
			AuthorAvatarURL:  p.AuthorAvatarURL,
			CreatedAt:        p.CreatedAt,
			LikeCountSeed:    p.LikeCount,
			CommentCountSeed: p.CommentCount,
			ViewCountSeed:    p.ViewCount,
		}
	}), nil
}

func (r *Repository) CurrentUser(ctx context.Context) (*core.User, error) {
	if r.Config.UserID == "" {
		return nil, nil
	}

	var user UserModel
	err := r.DB.Model(&UserModel{}).
		WithContext(ctx).
		Where("id = ?", r.Config.UserID).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: current user: %v", core.ErrTransport, err)
	}

	return &core.User{ID: user.ID, Username: user.Username}, nil
}

func (r *Repository) HasLiked(ctx context.Context, userID, postID string) (bool, error) {
	var like LikeModel
	err := r.DB.Model(&LikeModel{}).
		WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		First(&like).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: like lookup: %v", core.ErrTransport, err)
	}
	return true, nil
}

func (r *Repository) InsertLike(ctx context.Context, userID, postID string) error {
	res := r.DB.Model(&LikeModel{}).
		WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&LikeModel{UserID: userID, PostID: postID, CreatedAt: time.Now()})
	if res.Error != nil {
		return fmt.Errorf("%w: insert like: %v", core.ErrTransport, res.Error)
	}

	if res.RowsAffected > 0 {
		return r.bumpLikeCount(ctx, postID, +1)
	}
	return nil
}

func (r *Repository) DeleteLike(ctx context.Context, userID, postID string) error {
	res := r.DB.Model(&LikeModel{}).
		WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&LikeModel{})
	if res.Error != nil {
		return fmt.Errorf("%w: delete like: %v", core.ErrTransport, res.Error)
	}

	if res.RowsAffected > 0 {
		return r.bumpLikeCount(ctx, postID, -1)
	}
	return nil
}

func (r *Repository) bumpLikeCount(ctx context.Context, postID string, delta int) error {
	err := r.DB.Model(&PostModel{}).
		WithContext(ctx).
		Where("id = ?", postID).
		UpdateColumn("like_count", gorm.Expr("GREATEST(like_count + ?, 0)", delta)).Error
	if err != nil {
		return fmt.Errorf("%w: update like count: %v", core.ErrTransport, err)
	}
	return nil
}

// InsertComment stores a comment and returns the realtime event to publish
// for it.
func (r *Repository) InsertComment(ctx context.Context, postID, authorID, body string) (core.CommentEvent, error) {
	comment := CommentModel{
		ID:        uuid.NewString(),
		PostID:    postID,
		AuthorID:  authorID,
		Body:      body,
		CreatedAt: time.Now(),
	}

	err := r.DB.Model(&CommentModel{}).
		WithContext(ctx).
		Create(&comment).Error
	if err != nil {
		return core.CommentEvent{}, fmt.Errorf("%w: insert comment: %v", core.ErrTransport, err)
	}

	err = r.DB.Model(&PostModel{}).
		WithContext(ctx).
		Where("id = ?", postID).
		UpdateColumn("comment_count", gorm.Expr("comment_count + 1")).Error
	if err != nil {
		r.Logger.Warn("comment count update failed", "post", postID, "error", err)
	}

	return core.CommentEvent{
		CommentID: comment.ID,
		PostID:    comment.PostID,
		AuthorID:  comment.AuthorID,
		CreatedAt: comment.CreatedAt,
	}, nil
}
