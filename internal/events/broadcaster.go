package events

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"pump-token-core/internal/domain"
)

// BroadcasterConfig configures WebSocket broadcast behavior.
type BroadcasterConfig struct {
	// WriteTimeout is timeout for writing a frame to a subscriber.
	WriteTimeout time.Duration
	// SendBuffer is the per-subscriber outbound queue length. Slow
	// subscribers are dropped when their queue fills.
	SendBuffer int
}

// DefaultBroadcasterConfig returns default broadcaster configuration.
func DefaultBroadcasterConfig() BroadcasterConfig {
	return BroadcasterConfig{
		WriteTimeout: 10 * time.Second,
		SendBuffer:   64,
	}
}

// frame is the wire form of a broadcast event.
type frame struct {
	Kind    string          `json:"kind"`
	Token   string          `json:"token"`
	Payload json.RawMessage `json:"payload"`
}

// Broadcaster is a Sink that fans emitted events out to WebSocket
// subscribers. Delivery is best effort: subscriber failures never fail
// the emitting request.
type Broadcaster struct {
	config   BroadcasterConfig
	upgrader websocket.Upgrader

	mu     sync.Mutex
	subs   map[*subscriber]struct{}
	closed bool
}

type subscriber struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
}

// NewBroadcaster creates a new WebSocket event broadcaster.
func NewBroadcaster(config *BroadcasterConfig) *Broadcaster {
	cfg := DefaultBroadcasterConfig()
	if config != nil {
		cfg = *config
	}

	return &Broadcaster{
		config: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		subs: make(map[*subscriber]struct{}),
	}
}

// Emit encodes the event and queues it to every subscriber.
func (b *Broadcaster) Emit(_ context.Context, e domain.Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	msg, err := json.Marshal(frame{
		Kind:    e.EventKind(),
		Token:   e.EventToken(),
		Payload: payload,
	})
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for sub := range b.subs {
		select {
		case sub.send <- msg:
		default:
			// Queue full: drop the subscriber rather than block emission.
			b.removeLocked(sub)
		}
	}
	return nil
}

// Handler upgrades an HTTP request to a WebSocket subscription.
func (b *Broadcaster) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := b.upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}

		sub := &subscriber{
			conn: conn,
			send: make(chan []byte, b.config.SendBuffer),
			done: make(chan struct{}),
		}

		b.mu.Lock()
		if b.closed {
			b.mu.Unlock()
			conn.Close()
			return
		}
		b.subs[sub] = struct{}{}
		b.mu.Unlock()

		go b.writeLoop(sub)
		b.readLoop(sub)
	})
}

// writeLoop drains the subscriber queue onto the connection.
func (b *Broadcaster) writeLoop(sub *subscriber) {
	for {
		select {
		case msg, ok := <-sub.send:
			if !ok {
				sub.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			sub.conn.SetWriteDeadline(time.Now().Add(b.config.WriteTimeout))
			if err := sub.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				b.remove(sub)
				return
			}
		case <-sub.done:
			return
		}
	}
}

// readLoop discards inbound frames and detects disconnects.
func (b *Broadcaster) readLoop(sub *subscriber) {
	defer b.remove(sub)
	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (b *Broadcaster) remove(sub *subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.removeLocked(sub)
}

func (b *Broadcaster) removeLocked(sub *subscriber) {
	if _, ok := b.subs[sub]; !ok {
		return
	}
	delete(b.subs, sub)
	close(sub.done)
	sub.conn.Close()
}

// SubscriberCount returns the number of connected subscribers.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close disconnects all subscribers and rejects new ones.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	for sub := range b.subs {
		b.removeLocked(sub)
	}
}

var _ Sink = (*Broadcaster)(nil)
