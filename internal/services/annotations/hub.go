package annotations

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"clipmark/internal/logger"

	"github.com/oklog/ulid/v2"
)

// Subscriber represents a live viewer connection on one video channel
type Subscriber struct {
	Channel string
	Ch      chan PublishEvent
	Done    chan struct{}
}

// ConnInfo holds connection metadata
type ConnInfo struct {
	ID          ulid.ULID
	ConnectedAt time.Time
	Subscriber  *Subscriber
}

// channelSubs holds subscribers for a single video channel
type channelSubs struct {
	mu sync.RWMutex
	m  map[ulid.ULID]ConnInfo
}

// Hub is the in-process notification bus: one channel per video public
// id, zero or more live subscribers per channel, at-most-once delivery.
// Events for a full subscriber outbox are dropped, never queued.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]*channelSubs
	connIndex   map[ulid.ULID]string
	bufferSize  int
	dropped     uint64
}

// NewHub creates a new event hub with configurable outbox buffer size
func NewHub(bufferSize int) *Hub {
	return &Hub{
		subscribers: make(map[string]*channelSubs),
		connIndex:   make(map[ulid.ULID]string),
		bufferSize:  bufferSize,
	}
}

// Subscribe registers a connection as a live viewer of channel
func (h *Hub) Subscribe(connULID ulid.ULID, channel string) (*Subscriber, func()) {
	log := logger.L()
	if log != nil && log.Enabled(context.Background(), slog.LevelDebug) {
		log.Debug("subscribing connection", "conn_id", connULID.String(), "channel", channel)
	}

	h.mu.Lock()
	bucket, exists := h.subscribers[channel]
	if !exists {
		bucket = &channelSubs{
			m: make(map[ulid.ULID]ConnInfo),
		}
		h.subscribers[channel] = bucket
	}
	h.mu.Unlock()

	bucket.mu.Lock()
	defer bucket.mu.Unlock()

	sub := &Subscriber{
		Channel: channel,
		Ch:      make(chan PublishEvent, h.bufferSize),
		Done:    make(chan struct{}),
	}

	bucket.m[connULID] = ConnInfo{
		ID:          connULID,
		ConnectedAt: time.Now(),
		Subscriber:  sub,
	}

	h.mu.Lock()
	h.connIndex[connULID] = channel
	h.mu.Unlock()

	cancel := func() {
		h.Unsubscribe(connULID)
	}
	return sub, cancel
}

// Unsubscribe removes a connection from the hub
func (h *Hub) Unsubscribe(connULID ulid.ULID) {
	log := logger.L()
	if log != nil && log.Enabled(context.Background(), slog.LevelDebug) {
		log.Debug("unsubscribing connection", "conn_id", connULID.String())
	}

	h.mu.RLock()
	channel, ok := h.connIndex[connULID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	h.mu.RLock()
	bucket := h.subscribers[channel]
	h.mu.RUnlock()
	if bucket == nil {
		h.mu.Lock()
		delete(h.connIndex, connULID)
		h.mu.Unlock()
		return
	}

	bucket.mu.Lock()
	connInfo, exists := bucket.m[connULID]
	if exists {
		delete(bucket.m, connULID)
	}
	empty := len(bucket.m) == 0
	bucket.mu.Unlock()

	if exists {
		close(connInfo.Subscriber.Ch)
		close(connInfo.Subscriber.Done)
	}

	h.mu.Lock()
	delete(h.connIndex, connULID)
	if empty {
		delete(h.subscribers, channel)
	}
	h.mu.Unlock()
}

// Publish delivers ev to every live subscriber of channel. No channel,
// no subscribers, or a full outbox all mean the event is simply gone.
func (h *Hub) Publish(_ context.Context, channel string, ev PublishEvent) {
	log := logger.L()
	if log != nil && log.Enabled(context.Background(), slog.LevelDebug) {
		log.Debug("broadcasting publish event", "channel", channel, "position", ev.Position)
	}

	bucket := h.bucket(channel)
	if bucket == nil {
		return
	}

	bucket.mu.RLock()
	for _, connInfo := range bucket.m {
		sendOrDrop(connInfo.Subscriber.Ch, ev, func() {
			atomic.AddUint64(&h.dropped, 1)
			if log != nil {
				log.Warn("outbox full, dropping event", "conn_id", connInfo.ID.String(), "channel", channel)
			}
		})
	}
	bucket.mu.RUnlock()
}

// SubscriberCount returns the current number of connections across all channels
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, bucket := range h.subscribers {
		bucket.mu.RLock()
		total += len(bucket.m)
		bucket.mu.RUnlock()
	}
	return total
}

// sendOrDrop is the only place that can decide to drop an event.
func sendOrDrop(ch chan PublishEvent, ev PublishEvent, onDrop func()) {
	select {
	case ch <- ev: // hot path, no nesting
	default:
		onDrop()
	}
}

// Stats returns current counters for observability / tests.
func (h *Hub) Stats() (subscribers int, dropped uint64) {
	return h.SubscriberCount(), atomic.LoadUint64(&h.dropped)
}

// helper: returns bucket or nil (tiny wrapper keeps Publish tidy)
func (h *Hub) bucket(channel string) *channelSubs {
	h.mu.RLock()
	b := h.subscribers[channel]
	h.mu.RUnlock()
	return b
}
