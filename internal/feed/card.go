package feed

import (
	"reelfeed/internal/core"
	"reelfeed/internal/engagement"
)

// Card is one mounted feed item: the immutable item plus its engagement
// synchronizer and realtime subscription, both scoped to the mount.
type Card struct {
	Index int
	Item  core.FeedItem

	sync *engagement.Synchronizer
	sub  core.Subscription
}

// Engagement returns the card's observable engagement state.
func (c *Card) Engagement() engagement.Snapshot {
	return c.sync.Snapshot()
}

func (c *Card) unmount() {
	if c.sub != nil {
		c.sub.Unsubscribe()
		c.sub = nil
	}
	c.sync.Close()
}
