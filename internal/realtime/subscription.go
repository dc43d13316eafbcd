// Package realtime delivers per-post comment-insert events from a push
// transport. One subscription per mounted card; cancellation is synchronous
// and race-free against in-flight delivery.
package realtime

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"reelfeed/internal/core"
)

var events = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "reelfeed_realtime_events_total",
	Help: "The total number of realtime comment events by transport and outcome",
}, []string{"transport", "status"})

// handlerSub binds one handler to a live channel. deliver and Unsubscribe
// contend on the same lock, so once Unsubscribe returns the handler is never
// invoked again; events that raced the cancellation are dropped, not queued.
type handlerSub struct {
	mu     sync.Mutex
	closed bool
	fn     func(core.CommentEvent)
	cancel func()
}

func (s *handlerSub) deliver(ev core.CommentEvent) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	s.fn(ev)
	return true
}

func (s *handlerSub) Unsubscribe() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	cancel := s.cancel
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}
