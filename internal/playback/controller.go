// Package playback keeps at most one card playing, driven by the viewport's
// active index and the screen's focus.
package playback

import (
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"reelfeed/internal/core"
	"reelfeed/internal/viewport"
)

var (
	transitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reelfeed_playback_transitions_total",
		Help: "The total number of play/pause transitions issued to media players",
	}, []string{"state"})

	playerErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reelfeed_playback_errors_total",
		Help: "The total number of media player command failures",
	})
)

// Controller derives each attached card's state from a single rule: Playing
// iff the card's index equals the active index and the screen is focused.
// Cards never start playback on their own. Player command failures are logged
// and counted, never retried and never fatal.
type Controller struct {
	logger *slog.Logger

	mu      sync.Mutex
	players map[int]core.MediaPlayer
	playing map[int]bool
	active  int
	focused bool
}

func NewController(logger *slog.Logger) *Controller {
	return &Controller{
		logger:  logger.With("component", "playback.Controller"),
		players: map[int]core.MediaPlayer{},
		playing: map[int]bool{},
		active:  viewport.None,
		focused: true,
	}
}

// Attach mounts a card's player and immediately drives it to its derived
// state. A new card attaches paused unless it is already the active one.
func (c *Controller) Attach(index int, player core.MediaPlayer) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.players[index] = player
	c.playing[index] = false
	c.apply()
}

// Detach unmounts a card's player without issuing further commands to it.
func (c *Controller) Detach(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.players, index)
	delete(c.playing, index)
}

// SetActive re-derives every card's state against the new active index.
func (c *Controller) SetActive(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.active = index
	c.apply()
}

// SetFocus forces every card paused while the screen is unfocused, and
// restores the derived state when focus returns.
func (c *Controller) SetFocus(focused bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.focused = focused
	c.apply()
}

// Active returns the index the controller is currently deriving from.
func (c *Controller) Active() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// IsPlaying reports whether the card at index is in the Playing state.
func (c *Controller) IsPlaying(index int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing[index]
}

// Playing returns the single playing index, if any.
func (c *Controller) Playing() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for index, playing := range c.playing {
		if playing {
			return index, true
		}
	}
	return viewport.None, false
}

// apply issues commands only for cards whose derived state changed, pauses
// before plays so two players are never commanded to play at once. The card
// is recorded in its derived state even when the player command fails, so a
// broken source is not retried on every re-derivation. Callers hold mu.
func (c *Controller) apply() {
	for index, player := range c.players {
		if want := c.focused && index == c.active; !want && c.playing[index] {
			c.transition(index, player, false)
		}
	}
	for index, player := range c.players {
		if want := c.focused && index == c.active; want && !c.playing[index] {
			c.transition(index, player, true)
		}
	}
}

func (c *Controller) transition(index int, player core.MediaPlayer, playing bool) {
	c.playing[index] = playing

	var err error
	if playing {
		transitions.WithLabelValues("playing").Inc()
		err = player.Play()
	} else {
		transitions.WithLabelValues("paused").Inc()
		err = player.Pause()
	}
	if err != nil {
		playerErrors.Inc()
		c.logger.Warn("media player command failed", "index", index, "playing", playing, "error", err)
	}
}
