package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/samber/lo"
	"github.com/zhulik/pips"
	"github.com/zhulik/pips/apply"

	"reelfeed/internal/config"
	"reelfeed/internal/core"
	"reelfeed/pkg/retry"
)

// controlFrame is the client→gateway subscribe/unsubscribe message.
type controlFrame struct {
	Op     string `json:"op"`
	PostID string `json:"postId"`
}

// Gateway is the websocket comment source: a single socket to the comments
// gateway with a per-post handler registry. The gateway pushes one JSON
// comment event per frame; the client tells it which posts to scope to.
type Gateway struct {
	Logger *slog.Logger
	Config *config.Config

	mu   sync.Mutex
	conn *websocket.Conn
	subs map[string][]*handlerSub

	wmu    sync.Mutex
	frames chan pips.D[[]byte]
}

func (g *Gateway) Init(_ context.Context) error {
	g.Logger = g.Logger.With("component", "realtime.Gateway")
	g.subs = map[string][]*handlerSub{}
	g.frames = make(chan pips.D[[]byte])
	return nil
}

// Run owns the socket: it connects, re-subscribes after reconnects, and feeds
// frames through the decode/route pipeline until the context is canceled.
func (g *Gateway) Run(ctx context.Context) error {
	go g.readLoop(ctx)

	return pips.New[[]byte, any]().
		Then(apply.Each(g.route)).
		Run(ctx, g.frames).
		Wait(ctx)
}

func (g *Gateway) readLoop(ctx context.Context) {
	defer close(g.frames)

	err := retry.WrapWithRetry(func() error {
		return g.readOnce(ctx)
	}, func(err error, _ int) bool {
		if ctx.Err() != nil {
			return false
		}
		g.Logger.Warn("gateway connection lost, reconnecting", "error", err)
		time.Sleep(time.Second)
		return true
	}, 10)()

	if err != nil && ctx.Err() == nil {
		g.Logger.Error("gateway read loop gave up", "error", err)
	}
}

func (g *Gateway) readOnce(ctx context.Context) error {
	if ctx.Err() != nil {
		return nil
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, g.Config.GatewayURL, nil)
	if err != nil {
		return err
	}
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	g.mu.Lock()
	g.conn = conn
	posts := lo.Keys(g.subs)
	g.mu.Unlock()

	// Re-scope the fresh socket to every mounted card.
	for _, postID := range posts {
		g.writeFrame(conn, controlFrame{Op: "subscribe", PostID: postID})
	}

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		select {
		case g.frames <- pips.NewD(message):
		case <-ctx.Done():
			return nil
		}
	}
}

func (g *Gateway) route(_ context.Context, raw []byte) error {
	var ev core.CommentEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		events.WithLabelValues("websocket", "decode_error").Inc()
		g.Logger.Warn("dropping undecodable gateway frame", "error", err)
		return nil
	}

	g.mu.Lock()
	handlers := slices.Clone(g.subs[ev.PostID])
	g.mu.Unlock()

	if len(handlers) == 0 {
		// No mounted card for this post; the event has no observable effect.
		events.WithLabelValues("websocket", "dropped").Inc()
		return nil
	}

	for _, h := range handlers {
		if h.deliver(ev) {
			events.WithLabelValues("websocket", "delivered").Inc()
		} else {
			events.WithLabelValues("websocket", "dropped").Inc()
		}
	}
	return nil
}

// Subscribe registers a handler for the post and scopes the gateway to it.
func (g *Gateway) Subscribe(_ context.Context, postID string, fn func(core.CommentEvent)) (core.Subscription, error) {
	sub := &handlerSub{fn: fn}
	sub.cancel = func() { g.remove(postID, sub) }

	g.mu.Lock()
	g.subs[postID] = append(g.subs[postID], sub)
	first := len(g.subs[postID]) == 1
	conn := g.conn
	g.mu.Unlock()

	if first && conn != nil {
		g.writeFrame(conn, controlFrame{Op: "subscribe", PostID: postID})
	}
	return sub, nil
}

func (g *Gateway) remove(postID string, sub *handlerSub) {
	g.mu.Lock()
	g.subs[postID] = lo.Without(g.subs[postID], sub)
	last := len(g.subs[postID]) == 0
	if last {
		delete(g.subs, postID)
	}
	conn := g.conn
	g.mu.Unlock()

	if last && conn != nil {
		g.writeFrame(conn, controlFrame{Op: "unsubscribe", PostID: postID})
	}
}

func (g *Gateway) writeFrame(conn *websocket.Conn, frame controlFrame) {
	g.wmu.Lock()
	defer g.wmu.Unlock()

	if err := conn.WriteJSON(frame); err != nil {
		g.Logger.Warn("gateway write failed", "op", frame.Op, "post", frame.PostID, "error", err)
	}
}
