// Package feed composes the feed screen: it fetches the post list once per
// activation, mounts a card per item, and routes viewport observations and
// user gestures to the playback controller and engagement synchronizers.
package feed

import (
	"context"
	"log/slog"
	"sync"

	"github.com/samber/lo"

	"reelfeed/internal/config"
	"reelfeed/internal/core"
	"reelfeed/internal/engagement"
	"reelfeed/internal/playback"
	"reelfeed/internal/viewport"
)

type EventKind string

const (
	// EventActiveChanged fires when the viewport tracker picks a new card.
	EventActiveChanged EventKind = "active_changed"
	// EventEngagement fires on every observable engagement state change.
	EventEngagement EventKind = "engagement"
)

// Event is a screen notification for the presentation layer. Events arrive on
// whatever goroutine produced the change.
type Event struct {
	Kind       EventKind
	Index      int
	PostID     string
	Engagement engagement.Snapshot
}

type nopPlayer struct{}

func (nopPlayer) Play() error  { return nil }
func (nopPlayer) Pause() error { return nil }

// Screen drives one screenful of feed. Activate fetches everything fresh;
// there is no pagination and no caching across activations.
type Screen struct {
	Logger   *slog.Logger
	Config   *config.Config
	Store    core.Store
	Comments core.CommentSource

	mu         sync.Mutex
	session    core.Session
	cards      []*Card
	tracker    *viewport.Tracker
	controller *playback.Controller
	onEvent    func(Event)
	active     bool
}

func (s *Screen) Init(_ context.Context) error {
	s.Logger = s.Logger.With("component", "feed.Screen")
	return nil
}

// SetEventSink registers the presentation callback. Set it before Activate.
func (s *Screen) SetEventSink(fn func(Event)) {
	s.mu.Lock()
	s.onEvent = fn
	s.mu.Unlock()
}

// Activate resolves the session, fetches the feed and mounts a card per item.
// A fetch failure still activates, with an empty feed; the error is returned
// so the presentation can tell a broken fetch from a genuinely empty one.
// newPlayer may be nil.
func (s *Screen) Activate(ctx context.Context, newPlayer core.PlayerFactory) error {
	s.Deactivate()

	user, err := s.Store.CurrentUser(ctx)
	if err != nil {
		s.Logger.Warn("current user lookup failed, continuing signed out", "error", err)
		user = nil
	}
	session := core.Session{User: user}

	items, fetchErr := s.Store.ListVideoPosts(ctx)
	if fetchErr != nil {
		s.Logger.Warn("feed fetch failed, showing empty feed", "error", fetchErr)
		items = nil
	}
	items = lo.Filter(items, func(item core.FeedItem, _ int) bool {
		return item.ID != ""
	})

	controller := playback.NewController(s.Logger)
	tracker := viewport.NewTracker(s.Config.Threshold, func(index int) {
		controller.SetActive(index)
		s.emit(Event{Kind: EventActiveChanged, Index: index})
	})

	cards := make([]*Card, 0, len(items))
	for i, item := range items {
		card := &Card{Index: i, Item: item}

		var player core.MediaPlayer = nopPlayer{}
		if newPlayer != nil {
			player = newPlayer(item, i)
		}
		controller.Attach(i, player)

		index, postID := i, item.ID
		card.sync = engagement.New(engagement.Config{
			Logger:  s.Logger,
			Store:   s.Store,
			Session: session,
			Item:    item,
			OnChange: func(snap engagement.Snapshot) {
				s.emit(Event{Kind: EventEngagement, Index: index, PostID: postID, Engagement: snap})
			},
		})

		sub, err := s.Comments.Subscribe(ctx, item.ID, card.sync.ApplyCommentEvent)
		if err != nil {
			s.Logger.Warn("comment subscription failed", "post", item.ID, "error", err)
		} else {
			card.sub = sub
		}

		cards = append(cards, card)
	}

	s.mu.Lock()
	s.session = session
	s.cards = cards
	s.tracker = tracker
	s.controller = controller
	s.active = true
	s.mu.Unlock()

	// One like-status lookup per card, off the activation path.
	go func() {
		for _, card := range cards {
			card.sync.Hydrate(ctx)
		}
	}()

	s.Logger.Info("feed activated", "posts", len(cards), "signed_in", session.SignedIn())
	return fetchErr
}

// Deactivate unmounts every card: realtime channels are released and
// synchronizers invalidated so nothing mutates detached state.
func (s *Screen) Deactivate() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	cards := s.cards
	controller := s.controller
	s.cards = nil
	s.tracker = nil
	s.controller = nil
	s.active = false
	s.mu.Unlock()

	for _, card := range cards {
		card.unmount()
		controller.Detach(card.Index)
	}
}

func (s *Screen) Shutdown(_ context.Context) error {
	s.Deactivate()
	return nil
}

// Observe forwards a visibility observation to the tracker.
func (s *Screen) Observe(items []viewport.Visibility) {
	s.mu.Lock()
	tracker := s.tracker
	s.mu.Unlock()

	if tracker != nil {
		tracker.Observe(items)
	}
}

// SetFocus propagates screen focus to the playback controller; losing focus
// pauses every card.
func (s *Screen) SetFocus(focused bool) {
	s.mu.Lock()
	controller := s.controller
	s.mu.Unlock()

	if controller != nil {
		controller.SetFocus(focused)
	}
}

// ToggleLike toggles the like on the card at index. It blocks until the
// mutation settles, so call it off the render loop.
func (s *Screen) ToggleLike(ctx context.Context, index int) error {
	card, ok := s.card(index)
	if !ok {
		return nil
	}
	return card.sync.Toggle(ctx)
}

// ActiveIndex returns the tracker's current pick, or viewport.None.
func (s *Screen) ActiveIndex() int {
	s.mu.Lock()
	tracker := s.tracker
	s.mu.Unlock()

	if tracker == nil {
		return viewport.None
	}
	return tracker.Active()
}

// IsPlaying reports the card's playback state.
func (s *Screen) IsPlaying(index int) bool {
	s.mu.Lock()
	controller := s.controller
	s.mu.Unlock()

	return controller != nil && controller.IsPlaying(index)
}

// Cards returns the mounted cards in feed order.
func (s *Screen) Cards() []*Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cards
}

// Session returns the activation's session.
func (s *Screen) Session() core.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

func (s *Screen) card(index int) (*Card, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.cards) {
		return nil, false
	}
	return s.cards[index], true
}

func (s *Screen) emit(event Event) {
	s.mu.Lock()
	onEvent := s.onEvent
	s.mu.Unlock()

	if onEvent != nil {
		onEvent(event)
	}
}
