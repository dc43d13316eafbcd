package core

import "context"

// Store is the remote data store the feed client orchestrates against. All
// failures are reported as errors wrapping ErrTransport; absence of a record is
// never a transport error.
type Store interface {
	// ListVideoPosts returns the feed, newest first, video posts only.
	ListVideoPosts(ctx context.Context) ([]FeedItem, error)

	// CurrentUser returns the signed-in user, or nil when signed out.
	CurrentUser(ctx context.Context) (*User, error)

	// HasLiked reports whether a like record exists for (userID, postID).
	// A missing record is (false, nil).
	HasLiked(ctx context.Context, userID, postID string) (bool, error)

	InsertLike(ctx context.Context, userID, postID string) error
	DeleteLike(ctx context.Context, userID, postID string) error
}

// CommentSource delivers comment-insert notifications for a single post.
// One subscription per mounted card; the handle must be released on unmount.
type CommentSource interface {
	Subscribe(ctx context.Context, postID string, fn func(CommentEvent)) (Subscription, error)
}

// Subscription is a live realtime channel bound to one post. Unsubscribe is
// synchronous: once it returns, fn is never invoked again.
type Subscription interface {
	Unsubscribe()
}

// MediaPlayer is the playback backend for one card. Commands may fail for
// unsupported sources; such failures are non-fatal to the feed.
type MediaPlayer interface {
	Play() error
	Pause() error
}

// PlayerFactory builds the media player for a card when it mounts.
type PlayerFactory func(item FeedItem, index int) MediaPlayer

type MetricsServer interface{}
