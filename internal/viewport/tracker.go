// Package viewport reduces raw list-visibility observations to the single
// active feed index that should be playing.
package viewport

import "sync"

// DefaultThreshold is the visible fraction an item must cross to qualify as
// active.
const DefaultThreshold = 0.8

// None is the active index before any observation qualified an item.
const None = -1

// Visibility is one item's share of the viewport in an observation.
type Visibility struct {
	Index    int
	Fraction float64
}

// Tracker consumes visibility observations and owns the active index. Only the
// most recent observation matters; an observation with no qualifying item
// retains the previous index so playback does not flicker during a fling.
type Tracker struct {
	mu        sync.Mutex
	threshold float64
	active    int
	onChange  func(int)
}

// NewTracker returns a tracker with the given qualifying threshold. onChange
// fires only when the active index actually changes; it may be nil. A
// threshold outside (0, 1] falls back to DefaultThreshold.
func NewTracker(threshold float64, onChange func(int)) *Tracker {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	return &Tracker{
		threshold: threshold,
		active:    None,
		onChange:  onChange,
	}
}

// Observe processes one visibility observation, superseding all previous ones.
// The first qualifying item wins; with several qualifying at once the lowest
// index is taken, matching scroll continuity in a single-column feed.
func (t *Tracker) Observe(items []Visibility) {
	next := None
	for _, item := range items {
		if item.Fraction < t.threshold {
			continue
		}
		if next == None || item.Index < next {
			next = item.Index
		}
	}

	t.mu.Lock()
	if next == None || next == t.active {
		t.mu.Unlock()
		return
	}
	t.active = next
	onChange := t.onChange
	t.mu.Unlock()

	if onChange != nil {
		onChange(next)
	}
}

// Active returns the current active index, or None.
func (t *Tracker) Active() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}
