package engagement_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reelfeed/internal/core"
	"reelfeed/internal/engagement"
)

// fakeStore implements core.Store with scriptable like operations. A non-nil
// gate blocks InsertLike/DeleteLike until the test releases it, letting tests
// observe the optimistic state mid-flight.
type fakeStore struct {
	mu        sync.Mutex
	likeErr   error
	liked     bool
	likedErr  error
	gate      chan struct{}
	inserts   int
	deletes   int
	lookups   int
}

func (f *fakeStore) ListVideoPosts(context.Context) ([]core.FeedItem, error) { return nil, nil }
func (f *fakeStore) CurrentUser(context.Context) (*core.User, error)         { return nil, nil }

func (f *fakeStore) HasLiked(context.Context, string, string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	return f.liked, f.likedErr
}

func (f *fakeStore) InsertLike(context.Context, string, string) error {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserts++
	return f.likeErr
}

func (f *fakeStore) DeleteLike(context.Context, string, string) error {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes++
	return f.likeErr
}

var errDown = fmt.Errorf("%w: connection refused", core.ErrTransport)

func newSync(store core.Store, user *core.User, seedLikes, seedComments int) *engagement.Synchronizer {
	return engagement.New(engagement.Config{
		Logger:  slog.New(slog.DiscardHandler),
		Store:   store,
		Session: core.Session{User: user},
		Item: core.FeedItem{
			ID:               "post-1",
			LikeCountSeed:    seedLikes,
			CommentCountSeed: seedComments,
		},
	})
}

func alice() *core.User {
	return &core.User{ID: "user-alice", Username: "alice"}
}

func TestToggleAppliesOptimisticallyBeforeConfirmation(t *testing.T) {
	t.Parallel()

	store := &fakeStore{gate: make(chan struct{})}
	s := newSync(store, alice(), 10, 0)

	done := make(chan error, 1)
	go func() { done <- s.Toggle(context.Background()) }()

	// The optimistic flip must be observable while the insert is blocked.
	require.Eventually(t, func() bool {
		return s.Snapshot().Pending
	}, time.Second, time.Millisecond)

	snap := s.Snapshot()
	assert.True(t, snap.HasLiked)
	assert.Equal(t, 11, snap.LikeCount)
	assert.True(t, snap.Pending)

	close(store.gate)
	require.NoError(t, <-done)

	snap = s.Snapshot()
	assert.True(t, snap.HasLiked)
	assert.Equal(t, 11, snap.LikeCount)
	assert.False(t, snap.Pending)
}

func TestToggleRollsBackExactlyOnFailure(t *testing.T) {
	t.Parallel()

	store := &fakeStore{likeErr: errDown}
	s := newSync(store, alice(), 10, 0)

	err := s.Toggle(context.Background())
	require.ErrorIs(t, err, core.ErrTransport)

	snap := s.Snapshot()
	assert.False(t, snap.HasLiked)
	assert.Equal(t, 10, snap.LikeCount)
	assert.False(t, snap.Pending)
}

func TestToggleRollbackKeepsConcurrentCommentMerge(t *testing.T) {
	t.Parallel()

	gate := make(chan struct{})
	store := &fakeStore{likeErr: errDown, gate: gate}
	s := newSync(store, alice(), 10, 3)

	done := make(chan error, 1)
	go func() { done <- s.Toggle(context.Background()) }()

	require.Eventually(t, func() bool {
		return s.Snapshot().Pending
	}, time.Second, time.Millisecond)

	// A realtime comment event interleaves with the in-flight mutation.
	s.ApplyCommentEvent(core.CommentEvent{CommentID: "c1", PostID: "post-1"})

	close(gate)
	require.Error(t, <-done)

	snap := s.Snapshot()
	assert.Equal(t, 10, snap.LikeCount, "like count restored from the captured snapshot")
	assert.False(t, snap.HasLiked)
	assert.Equal(t, 4, snap.CommentCount, "comment merge survives the rollback")
}

func TestToggleTwiceReturnsToOriginalState(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	s := newSync(store, alice(), 7, 0)

	require.NoError(t, s.Toggle(context.Background()))
	require.NoError(t, s.Toggle(context.Background()))

	snap := s.Snapshot()
	assert.False(t, snap.HasLiked)
	assert.Equal(t, 7, snap.LikeCount)
	assert.Equal(t, 1, store.inserts)
	assert.Equal(t, 1, store.deletes)
}

func TestToggleWhilePendingIsNoOp(t *testing.T) {
	t.Parallel()

	store := &fakeStore{gate: make(chan struct{})}
	s := newSync(store, alice(), 5, 0)

	done := make(chan error, 1)
	go func() { done <- s.Toggle(context.Background()) }()

	require.Eventually(t, func() bool {
		return s.Snapshot().Pending
	}, time.Second, time.Millisecond)
	before := s.Snapshot()

	require.NoError(t, s.Toggle(context.Background()))
	assert.Equal(t, before, s.Snapshot())

	close(store.gate)
	require.NoError(t, <-done)
	assert.Equal(t, 1, store.inserts)
	assert.Zero(t, store.deletes)
}

func TestToggleSignedOutFailsWithoutMutation(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	s := newSync(store, nil, 5, 0)

	err := s.Toggle(context.Background())
	require.ErrorIs(t, err, core.ErrAuthRequired)

	snap := s.Snapshot()
	assert.False(t, snap.HasLiked)
	assert.Equal(t, 5, snap.LikeCount)
	assert.False(t, snap.Pending)
	assert.Zero(t, store.inserts)
}

func TestHydrateSetsLikedFromRecord(t *testing.T) {
	t.Parallel()

	store := &fakeStore{liked: true}
	s := newSync(store, alice(), 5, 0)

	s.Hydrate(context.Background())
	assert.True(t, s.Snapshot().HasLiked)
	assert.Equal(t, 5, s.Snapshot().LikeCount, "hydration does not touch the count")
}

func TestHydrateRunsExactlyOnce(t *testing.T) {
	t.Parallel()

	store := &fakeStore{liked: true}
	s := newSync(store, alice(), 5, 0)

	s.Hydrate(context.Background())
	s.Hydrate(context.Background())
	assert.Equal(t, 1, store.lookups)
}

func TestHydrateMissingRecordMeansNotLiked(t *testing.T) {
	t.Parallel()

	store := &fakeStore{liked: false}
	s := newSync(store, alice(), 5, 0)

	s.Hydrate(context.Background())
	assert.False(t, s.Snapshot().HasLiked)
}

func TestHydrateLookupFailureLeavesDefault(t *testing.T) {
	t.Parallel()

	store := &fakeStore{likedErr: errDown}
	s := newSync(store, alice(), 5, 0)

	s.Hydrate(context.Background())
	assert.False(t, s.Snapshot().HasLiked)
}

func TestHydrateSkippedWhenSignedOut(t *testing.T) {
	t.Parallel()

	store := &fakeStore{liked: true}
	s := newSync(store, nil, 5, 0)

	s.Hydrate(context.Background())
	assert.Zero(t, store.lookups)
	assert.False(t, s.Snapshot().HasLiked)
}

func TestHydrateDoesNotClobberRacingToggle(t *testing.T) {
	t.Parallel()

	// The record said liked, but the user already unliked locally: the stale
	// lookup result must not resurrect the like.
	store := &fakeStore{liked: true}
	s := newSync(store, alice(), 5, 0)

	require.NoError(t, s.Toggle(context.Background())) // like
	require.NoError(t, s.Toggle(context.Background())) // unlike
	s.Hydrate(context.Background())

	assert.False(t, s.Snapshot().HasLiked)
}

func TestCommentEventIncrementsByOne(t *testing.T) {
	t.Parallel()

	s := newSync(&fakeStore{}, alice(), 0, 2)

	s.ApplyCommentEvent(core.CommentEvent{CommentID: "c1"})
	assert.Equal(t, 3, s.Snapshot().CommentCount)
}

func TestCloseDiscardsLateMutationResult(t *testing.T) {
	t.Parallel()

	store := &fakeStore{likeErr: errDown, gate: make(chan struct{})}
	s := newSync(store, alice(), 10, 0)

	done := make(chan error, 1)
	go func() { done <- s.Toggle(context.Background()) }()

	require.Eventually(t, func() bool {
		return s.Snapshot().Pending
	}, time.Second, time.Millisecond)

	s.Close()
	close(store.gate)

	// The failure arrives after unmount: no rollback is applied to the
	// detached state and no error is surfaced.
	require.NoError(t, <-done)
}

func TestCloseRejectsFurtherOperations(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	s := newSync(store, alice(), 1, 1)
	s.Close()

	require.NoError(t, s.Toggle(context.Background()))
	s.ApplyCommentEvent(core.CommentEvent{})

	snap := s.Snapshot()
	assert.Equal(t, 1, snap.LikeCount)
	assert.Equal(t, 1, snap.CommentCount)
	assert.Zero(t, store.inserts)
}

func TestOnChangeFiresForEveryObservableTransition(t *testing.T) {
	t.Parallel()

	store := &fakeStore{likeErr: errors.Join(errDown)}
	var mu sync.Mutex
	var seen []engagement.Snapshot

	s := engagement.New(engagement.Config{
		Logger:  slog.New(slog.DiscardHandler),
		Store:   store,
		Session: core.Session{User: alice()},
		Item:    core.FeedItem{ID: "post-1", LikeCountSeed: 2},
		OnChange: func(snap engagement.Snapshot) {
			mu.Lock()
			seen = append(seen, snap)
			mu.Unlock()
		},
	})

	require.Error(t, s.Toggle(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 2)
	assert.Equal(t, engagement.Snapshot{HasLiked: true, LikeCount: 3, Pending: true}, seen[0])
	assert.Equal(t, engagement.Snapshot{HasLiked: false, LikeCount: 2, Pending: false}, seen[1])
}
