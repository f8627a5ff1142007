package live

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/avogel/juryvote/internal/logger"
	"github.com/avogel/juryvote/internal/models"
)

const (
	// DefaultSweepInterval is how often the liveness sweep runs
	DefaultSweepInterval = 15 * time.Second
	// DefaultStaleAfter is how long a subscriber may go without a
	// successful send before the sweep evicts it
	DefaultStaleAfter = 30 * time.Second

	// sendBuffer is the per-subscriber frame queue depth. A subscriber
	// whose queue is full is considered dead and gets evicted.
	sendBuffer = 16
)

// subscriber is one connected live-update client
type subscriber struct {
	id          string
	send        chan []byte
	lastContact time.Time
}

// Hub maintains the set of live subscribers and fans domain events out to
// all of them. One slow or dead subscriber never blocks delivery to the
// others: sends are non-blocking and a full queue evicts only that
// subscriber.
type Hub struct {
	log           logger.Logger
	sweepInterval time.Duration
	staleAfter    time.Duration

	mu          sync.Mutex
	subscribers map[string]*subscriber
	closed      bool

	done     chan struct{}
	stopOnce sync.Once
}

// New creates a new Hub with the default sweep timing
func New(log logger.Logger) *Hub {
	return NewWithIntervals(log, DefaultSweepInterval, DefaultStaleAfter)
}

// NewWithIntervals creates a new Hub with explicit sweep timing
func NewWithIntervals(log logger.Logger, sweepInterval, staleAfter time.Duration) *Hub {
	return &Hub{
		log:           log,
		sweepInterval: sweepInterval,
		staleAfter:    staleAfter,
		subscribers:   make(map[string]*subscriber),
		done:          make(chan struct{}),
	}
}

// Start begins the liveness sweep in a goroutine
func (h *Hub) Start() {
	go h.run()
}

func (h *Hub) run() {
	ticker := time.NewTicker(h.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-h.done:
			return
		case <-ticker.C:
			h.sweep()
		}
	}
}

// Subscriber is the handle returned to a transport for one connection.
// Closing it disconnects the subscriber; disconnecting twice is a no-op.
type Subscriber struct {
	ID     string
	hub    *Hub
	events chan []byte
}

// Events returns the outbound frame channel. It is closed when the
// subscriber is disconnected.
func (s *Subscriber) Events() <-chan []byte {
	return s.events
}

// Close disconnects the subscriber from the hub
func (s *Subscriber) Close() {
	s.hub.Disconnect(s.ID)
}

// Connect registers a new subscriber and immediately queues the synthetic
// connected handshake event carrying its id
func (h *Hub) Connect() *Subscriber {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		events := make(chan []byte)
		close(events)
		return &Subscriber{ID: uuid.NewString(), hub: h, events: events}
	}

	sub := &subscriber{
		id:          uuid.NewString(),
		send:        make(chan []byte, sendBuffer),
		lastContact: time.Now(),
	}
	h.subscribers[sub.id] = sub

	frame, _ := json.Marshal(models.Event{Type: models.EventConnected, SubscriberID: sub.id})
	h.trySendLocked(sub, frame)
	total := len(h.subscribers)
	h.mu.Unlock()

	h.log.Debug("Subscriber connected", "subscriber_id", sub.id, "total_subscribers", total)
	return &Subscriber{ID: sub.id, hub: h, events: sub.send}
}

// Disconnect removes a subscriber and releases its delivery channel.
// Idempotent: disconnecting an unknown or already-removed id is a no-op.
func (h *Hub) Disconnect(id string) {
	h.mu.Lock()
	h.removeLocked(id)
	h.mu.Unlock()
}

// Broadcast serializes the event once and pushes it to every subscriber.
// A subscriber that cannot accept the frame is removed; the rest still
// receive it.
func (h *Hub) Broadcast(event models.Event) {
	frame, err := json.Marshal(event)
	if err != nil {
		h.log.Error("Failed to encode event", "type", event.Type, "error", err)
		return
	}

	h.mu.Lock()
	for id, sub := range h.subscribers {
		if !h.trySendLocked(sub, frame) {
			h.removeLocked(id)
		}
	}
	total := len(h.subscribers)
	h.mu.Unlock()

	h.log.Debug("Event broadcast", "type", event.Type, "subscribers", total)
}

// SubscriberCount returns the number of registered subscribers
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// Shutdown stops the sweep and disconnects every subscriber. Used only at
// process teardown.
func (h *Hub) Shutdown() {
	h.stopOnce.Do(func() {
		close(h.done)
	})

	h.mu.Lock()
	h.closed = true
	for id := range h.subscribers {
		h.removeLocked(id)
	}
	h.mu.Unlock()
}

// sweep evicts subscribers whose last successful contact is older than the
// stale threshold and pings the fresh ones so intermediaries keep the
// connection open
func (h *Hub) sweep() {
	ping, _ := json.Marshal(models.Event{Type: models.EventPing})
	now := time.Now()

	h.mu.Lock()
	for id, sub := range h.subscribers {
		if now.Sub(sub.lastContact) > h.staleAfter {
			h.removeLocked(id)
			continue
		}
		if !h.trySendLocked(sub, ping) {
			h.removeLocked(id)
		}
	}
	h.mu.Unlock()
}

// trySendLocked queues a frame without blocking and refreshes lastContact on
// success. Caller holds h.mu.
func (h *Hub) trySendLocked(sub *subscriber, frame []byte) bool {
	select {
	case sub.send <- frame:
		sub.lastContact = time.Now()
		return true
	default:
		return false
	}
}

// removeLocked deletes a subscriber and closes its channel so the transport
// unblocks. Caller holds h.mu.
func (h *Hub) removeLocked(id string) {
	sub, ok := h.subscribers[id]
	if !ok {
		return
	}
	delete(h.subscribers, id)
	close(sub.send)
	h.log.Debug("Subscriber disconnected", "subscriber_id", id, "total_subscribers", len(h.subscribers))
}
