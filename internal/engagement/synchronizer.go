// Package engagement owns per-post like and comment-count state, reconciling
// optimistic local mutations with the remote store and realtime events.
package engagement

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"reelfeed/internal/core"
)

var (
	toggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reelfeed_like_toggles_total",
		Help: "The total number of like toggle attempts by outcome",
	}, []string{"result"})

	commentEvents = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reelfeed_comment_events_total",
		Help: "The total number of realtime comment events merged",
	})
)

// Snapshot is the externally observable engagement state of one post.
type Snapshot struct {
	HasLiked     bool
	LikeCount    int
	CommentCount int
	Pending      bool
}

// Config assembles a Synchronizer for one mounted card.
type Config struct {
	Logger  *slog.Logger
	Store   core.Store
	Session core.Session
	Item    core.FeedItem

	// OnChange is invoked outside the state lock after every observable
	// change. May be nil.
	OnChange func(Snapshot)
}

// Synchronizer maintains the engagement state of a single post under concurrent
// user interaction and remote events. Toggles are serialized by the pending
// guard; Close invalidates the instance so late-arriving remote results are
// discarded instead of applied to a detached state.
type Synchronizer struct {
	logger   *slog.Logger
	store    core.Store
	session  core.Session
	postID   string
	onChange func(Snapshot)

	mu           sync.Mutex
	hasLiked     bool
	likeCount    int
	commentCount int
	mutation     likeMutation
	hydrated     bool
	touched      bool
	closed       bool
}

func New(cfg Config) *Synchronizer {
	return &Synchronizer{
		logger:       cfg.Logger.With("component", "engagement.Synchronizer", "post", cfg.Item.ID),
		store:        cfg.Store,
		session:      cfg.Session,
		postID:       cfg.Item.ID,
		onChange:     cfg.OnChange,
		likeCount:    max(0, cfg.Item.LikeCountSeed),
		commentCount: max(0, cfg.Item.CommentCountSeed),
	}
}

// Hydrate performs the one-shot like-status lookup for the session user.
// Absence of a like record is plain "not liked"; any other failure is logged
// and leaves the default, so rendering is never blocked on the lookup.
func (s *Synchronizer) Hydrate(ctx context.Context) {
	s.mu.Lock()
	if s.hydrated || s.closed || !s.session.SignedIn() {
		s.mu.Unlock()
		return
	}
	s.hydrated = true
	userID := s.session.User.ID
	s.mu.Unlock()

	liked, err := s.store.HasLiked(ctx, userID, s.postID)
	if err != nil {
		if !errors.Is(err, core.ErrNotFound) {
			s.logger.Warn("like-status lookup failed", "error", err)
		}
		return
	}
	if !liked {
		return
	}

	s.mu.Lock()
	// A toggle that raced the lookup already knows better.
	if s.closed || s.touched {
		s.mu.Unlock()
		return
	}
	s.hasLiked = true
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

// Toggle flips the like state optimistically, then confirms it against the
// remote store, rolling back to the captured pre-toggle snapshot on failure.
// It blocks until the mutation settles; the optimistic state is observable
// through Snapshot from the moment Toggle applies it. A toggle while another
// mutation is pending is a no-op.
func (s *Synchronizer) Toggle(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	if !s.session.SignedIn() {
		s.mu.Unlock()
		toggles.WithLabelValues("auth_required").Inc()
		return core.ErrAuthRequired
	}
	if s.mutation.pending() {
		s.mu.Unlock()
		toggles.WithLabelValues("suppressed").Inc()
		s.logger.Debug("toggle ignored, mutation already in flight")
		return nil
	}

	s.mutation.begin(s.hasLiked, s.likeCount)
	liked := !s.hasLiked
	s.hasLiked = liked
	if liked {
		s.likeCount++
	} else {
		s.likeCount = max(0, s.likeCount-1)
	}
	s.touched = true
	userID := s.session.User.ID
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)

	var err error
	if liked {
		err = s.store.InsertLike(ctx, userID, s.postID)
	} else {
		err = s.store.DeleteLike(ctx, userID, s.postID)
	}

	s.mu.Lock()
	if s.closed {
		// The card unmounted while the mutation was in flight; the result
		// must not touch the detached state.
		s.mu.Unlock()
		s.logger.Debug("discarding like mutation result after close", "error", err)
		return nil
	}

	if err != nil {
		s.hasLiked, s.likeCount = s.mutation.rollback()
		snap = s.snapshotLocked()
		s.mu.Unlock()

		s.notify(snap)
		toggles.WithLabelValues("rolled_back").Inc()
		s.logger.Warn("like mutation failed, rolled back", "liked", liked, "error", err)
		return err
	}

	s.mutation.reconcile()
	snap = s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	toggles.WithLabelValues("confirmed").Inc()
	return nil
}

// ApplyCommentEvent merges one realtime comment-insert notification. The
// channel is additive-only; every delivered notification counts once.
func (s *Synchronizer) ApplyCommentEvent(core.CommentEvent) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.commentCount++
	snap := s.snapshotLocked()
	s.mu.Unlock()

	commentEvents.Inc()
	s.notify(snap)
}

// Snapshot returns the current observable state.
func (s *Synchronizer) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Close invalidates the synchronizer on card unmount. In-flight mutations are
// not aborted, but their results are discarded.
func (s *Synchronizer) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

func (s *Synchronizer) snapshotLocked() Snapshot {
	return Snapshot{
		HasLiked:     s.hasLiked,
		LikeCount:    s.likeCount,
		CommentCount: s.commentCount,
		Pending:      s.mutation.pending(),
	}
}

func (s *Synchronizer) notify(snap Snapshot) {
	if s.onChange != nil {
		s.onChange(snap)
	}
}
