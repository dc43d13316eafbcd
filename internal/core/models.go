package core

import "time"

// FeedItem is one video post as fetched from the remote store. It is immutable
// for the lifetime of a fetch; a refetch replaces the whole list.
type FeedItem struct {
	ID              string
	MediaURL        string
	Caption         string
	AuthorID        string
	AuthorUsername  string
	AuthorAvatarURL string
	CreatedAt       time.Time

	// Seed counters captured at fetch time. Live state is owned by the
	// engagement synchronizer, not by the item.
	LikeCountSeed    int
	CommentCountSeed int
	ViewCountSeed    int
}

// User is the signed-in identity, resolved once per screen activation.
type User struct {
	ID       string
	Username string
}

// Session carries the current user for one screen activation. A nil User means
// signed out, which is a valid state.
type Session struct {
	User *User
}

// SignedIn reports whether the session carries an authenticated user.
func (s Session) SignedIn() bool {
	return s.User != nil
}

// CommentEvent is a single comment-insert notification delivered over a
// realtime channel. Delivery is at-least-once and unordered across reconnects.
type CommentEvent struct {
	CommentID string    `json:"commentId"`
	PostID    string    `json:"postId"`
	AuthorID  string    `json:"authorId"`
	CreatedAt time.Time `json:"createdAt"`
}
