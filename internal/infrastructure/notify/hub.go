// Package notify fans participation changes out to live observers.
//
// Publish never blocks and never fails: messages go through a bounded queue that a
// single dispatcher goroutine drains. An observer whose delivery fails is dropped
// from the registry; other observers are unaffected.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"eventcore/internal/domain/entities"
	"eventcore/internal/infrastructure/metrics"
	"eventcore/internal/ports/output"
)

var _ output.Notifier = (*Hub)(nil)

// Observer receives broadcast messages. Send must not block for long; slow
// transports should buffer internally and fail when the buffer is full.
type Observer interface {
	ID() string
	Send(ctx context.Context, msg entities.Notification) error
}

type Hub struct {
	mu          sync.RWMutex
	observers   map[string]Observer
	queue       chan entities.Notification
	origin      string
	sendTimeout time.Duration
	now         func() time.Time
	logger      *slog.Logger
	metrics     *metrics.Metrics
}

// Option configures a Hub.
type Option func(*Hub)

// WithQueueSize sets the publish buffer. Messages published while it is full are dropped.
func WithQueueSize(n int) Option {
	return func(h *Hub) {
		if n > 0 {
			h.queue = make(chan entities.Notification, n)
		}
	}
}

// WithOrigin sets the node id stamped on locally published messages.
func WithOrigin(id string) Option {
	return func(h *Hub) { h.origin = id }
}

func WithSendTimeout(d time.Duration) Option {
	return func(h *Hub) { h.sendTimeout = d }
}

func WithLogger(l *slog.Logger) Option {
	return func(h *Hub) { h.logger = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Hub) { h.metrics = m }
}

func WithClock(now func() time.Time) Option {
	return func(h *Hub) { h.now = now }
}

func NewHub(opts ...Option) *Hub {
	h := &Hub{
		observers:   make(map[string]Observer),
		queue:       make(chan entities.Notification, 256),
		origin:      uuid.NewString(),
		sendTimeout: 5 * time.Second,
		now:         time.Now,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Origin is the node id of this hub.
func (h *Hub) Origin() string { return h.origin }

// Connect registers o. Registering an id that is already present is a no-op.
func (h *Hub) Connect(o Observer) {
	h.mu.Lock()
	if _, ok := h.observers[o.ID()]; !ok {
		h.observers[o.ID()] = o
	}
	n := len(h.observers)
	h.mu.Unlock()
	h.metrics.SetObservers(n)
}

// Disconnect removes the observer with id, if present.
func (h *Hub) Disconnect(id string) {
	h.mu.Lock()
	delete(h.observers, id)
	n := len(h.observers)
	h.mu.Unlock()
	h.metrics.SetObservers(n)
}

// Len returns the number of registered observers.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.observers)
}

// Publish enqueues msg for asynchronous delivery. Messages without an origin are
// stamped with this hub's; relayed messages keep theirs.
func (h *Hub) Publish(msg entities.Notification) {
	if msg.Origin == "" {
		msg.Origin = h.origin
	}
	if msg.SentAt.IsZero() {
		msg.SentAt = h.now().UTC()
	}
	select {
	case h.queue <- msg:
	default:
		h.metrics.Notification(metrics.ResultDropped)
		h.logger.Warn("notification queue full, message dropped",
			"kind", msg.Kind, "event_id", msg.EventID, "user_id", msg.UserID)
	}
}

// Run drains the queue until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-h.queue:
			h.Broadcast(ctx, msg)
		}
	}
}

// Broadcast delivers msg to a snapshot of the registry. Observers connected or
// removed while it runs do not affect the delivery in progress.
func (h *Hub) Broadcast(ctx context.Context, msg entities.Notification) {
	h.mu.RLock()
	targets := make([]Observer, 0, len(h.observers))
	for _, o := range h.observers {
		targets = append(targets, o)
	}
	h.mu.RUnlock()

	for _, o := range targets {
		if err := h.deliver(ctx, o, msg); err != nil {
			h.Disconnect(o.ID())
			h.metrics.Notification(metrics.ResultEvicted)
			h.logger.Warn("observer dropped after failed delivery",
				"observer", o.ID(), "kind", msg.Kind, "event_id", msg.EventID, "error", err)
			continue
		}
		h.metrics.Notification(metrics.ResultOK)
	}
}

func (h *Hub) deliver(ctx context.Context, o Observer, msg entities.Notification) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("observer panicked: %v", r)
		}
	}()
	ctx, cancel := context.WithTimeout(ctx, h.sendTimeout)
	defer cancel()
	return o.Send(ctx, msg)
}
