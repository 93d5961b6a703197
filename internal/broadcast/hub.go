// Package broadcast pushes stage frames, roster changes and results to
// display clients. The stage API stays synchronous; the hub only observes.
package broadcast

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/stream-orbs/internal/registry"
	"github.com/vovakirdan/stream-orbs/internal/stage"
)

// Message types.
const (
	TypeFrame  = "frame"
	TypeChange = "change"
	TypeResult = "result"
	TypeAck    = "ack"
	TypeError  = "error"
)

// Message is one event sent to a subscriber. Exactly one payload field is
// set, matching Type.
type Message struct {
	Type   string           `json:"type"`
	Frame  *stage.Frame     `json:"frame,omitempty"`
	Change *stage.Change    `json:"change,omitempty"`
	Result *registry.Result `json:"result,omitempty"`
	ID     string           `json:"id,omitempty"`
	Error  string           `json:"error,omitempty"`
}

// Subscriber receives messages on a buffered channel. When the buffer is
// full the oldest message is dropped so a slow client never stalls the
// frame loop.
type Subscriber struct {
	id       string
	events   chan Message
	done     chan struct{}
	doneOnce sync.Once
}

func newSubscriber(buffer int) *Subscriber {
	if buffer < 1 {
		buffer = 64
	}
	return &Subscriber{
		id:     uuid.NewString(),
		events: make(chan Message, buffer),
		done:   make(chan struct{}),
	}
}

// ID returns the subscriber identifier.
func (s *Subscriber) ID() string { return s.id }

// Send queues a message without blocking.
func (s *Subscriber) Send(msg Message) {
	select {
	case <-s.done:
		return
	default:
	}

	select {
	case s.events <- msg:
		return
	default:
	}

	// Buffer full, drop oldest and retry
	select {
	case <-s.events:
	default:
	}
	select {
	case s.events <- msg:
	default:
	}
}

// Events returns the channel to receive messages from.
func (s *Subscriber) Events() <-chan Message { return s.events }

// Done returns a channel closed when the subscriber is removed.
func (s *Subscriber) Done() <-chan struct{} { return s.done }

func (s *Subscriber) close() {
	s.doneOnce.Do(func() { close(s.done) })
}

// Hub fans messages out to every subscriber.
type Hub struct {
	logger *log.Logger

	mu   sync.RWMutex
	subs map[string]*Subscriber
}

// NewHub creates an empty hub. A nil logger discards output.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Hub{logger: logger, subs: make(map[string]*Subscriber)}
}

// Subscribe registers a new subscriber with the given buffer size.
func (h *Hub) Subscribe(buffer int) *Subscriber {
	sub := newSubscriber(buffer)

	h.mu.Lock()
	h.subs[sub.id] = sub
	n := len(h.subs)
	h.mu.Unlock()

	h.logger.Debug("subscriber joined", "id", sub.id, "subscribers", n)
	return sub
}

// Unsubscribe removes a subscriber and closes its done channel.
func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	sub, ok := h.subs[id]
	delete(h.subs, id)
	n := len(h.subs)
	h.mu.Unlock()

	if ok {
		sub.close()
		h.logger.Debug("subscriber left", "id", id, "subscribers", n)
	}
}

// Count returns the number of subscribers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Broadcast sends msg to every subscriber.
func (h *Hub) Broadcast(msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sub := range h.subs {
		sub.Send(msg)
	}
}

// PublishFrame broadcasts a frame snapshot. Suitable as a driver frame hook.
func (h *Hub) PublishFrame(f stage.Frame) {
	h.Broadcast(Message{Type: TypeFrame, Frame: &f})
}

// PublishChange broadcasts a roster or mode change.
func (h *Hub) PublishChange(c stage.Change) {
	h.Broadcast(Message{Type: TypeChange, Change: &c})
}

// PublishResult broadcasts a score or finishing position.
func (h *Hub) PublishResult(r registry.Result) {
	h.Broadcast(Message{Type: TypeResult, Result: &r})
}

// Close removes every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	subs := h.subs
	h.subs = make(map[string]*Subscriber)
	h.mu.Unlock()

	for _, sub := range subs {
		sub.close()
	}
}
