package realtime

import (
	"context"
	"encoding/json"
	"log/slog"

	libnats "github.com/nats-io/nats.go"

	"reelfeed/internal/config"
	"reelfeed/internal/core"
)

const subjectPrefix = "reelfeed.comments."

func commentSubject(postID string) string {
	return subjectPrefix + postID
}

// NATS is the default comment source: one NATS subscription per mounted card
// on the post's subject. It also publishes events for the comment utility.
type NATS struct {
	Logger *slog.Logger
	Config *config.Config

	conn *libnats.Conn
}

func (n *NATS) Init(_ context.Context) error {
	n.Logger = n.Logger.With("component", "realtime.NATS")

	conn, err := libnats.Connect(n.Config.NATSURL)
	if err != nil {
		return err
	}
	n.conn = conn

	return nil
}

func (n *NATS) HealthCheck(context.Context) error {
	_, err := n.conn.RTT()
	return err
}

func (n *NATS) Shutdown(context.Context) error {
	return n.conn.Drain()
}

// Subscribe opens the post's channel. fn is called on the transport's
// delivery goroutine; after Unsubscribe returns it is never called again.
func (n *NATS) Subscribe(_ context.Context, postID string, fn func(core.CommentEvent)) (core.Subscription, error) {
	sub := &handlerSub{fn: fn}

	nsub, err := n.conn.Subscribe(commentSubject(postID), func(msg *libnats.Msg) {
		var ev core.CommentEvent
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			events.WithLabelValues("nats", "decode_error").Inc()
			n.Logger.Warn("dropping undecodable comment event", "subject", msg.Subject, "error", err)
			return
		}
		if sub.deliver(ev) {
			events.WithLabelValues("nats", "delivered").Inc()
		} else {
			events.WithLabelValues("nats", "dropped").Inc()
		}
	})
	if err != nil {
		return nil, err
	}

	sub.cancel = func() {
		if err := nsub.Unsubscribe(); err != nil {
			n.Logger.Warn("unsubscribe failed", "post", postID, "error", err)
		}
	}

	return sub, nil
}

// PublishComment emits a comment-insert event on the post's subject.
func (n *NATS) PublishComment(_ context.Context, ev core.CommentEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return n.conn.Publish(commentSubject(ev.PostID), payload)
}
