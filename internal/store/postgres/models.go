package postgres

import "time"

const videoPostType = "video"

type PostModel struct {
	ID              string `gorm:"primaryKey"`
	Type            string `gorm:"index"`
	MediaURL        string
	Caption         string
	AuthorID        string
	AuthorUsername  string
	AuthorAvatarURL string
	LikeCount       int
	CommentCount    int
	ViewCount       int
	CreatedAt       time.Time
}

func (PostModel) TableName() string {
	return "posts"
}

type UserModel struct {
	ID        string `gorm:"primaryKey"`
	Username  string
	CreatedAt time.Time
}

func (UserModel) TableName() string {
	return "users"
}

// LikeModel is keyed by (user, post); inserting it twice is a no-op.
type LikeModel struct {
	UserID    string `gorm:"primaryKey"`
	PostID    string `gorm:"primaryKey"`
	CreatedAt time.Time
}

func (LikeModel) TableName() string {
	return "likes"
}

type CommentModel struct {
	ID        string `gorm:"primaryKey"`
	PostID    string `gorm:"index"`
	AuthorID  string
	Body      string
	CreatedAt time.Time
}

func (CommentModel) TableName() string {
	return "comments"
}
