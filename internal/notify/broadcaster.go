package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"parking-booking/internal/pkg/clock"
	"parking-booking/internal/usecase/queries"
)

const (
	TopicBookings = "bookings"
	TopicSlots    = "slots"

	TypeBookingCreated = "booking.created"
	TypeBookingUpdated = "booking.updated"
	TypeSlotUpdated    = "slot.updated"
)

// Event is the envelope every observer receives. Data mirrors the REST
// Slot / Booking shapes.
type Event struct {
	Topic      string    `json:"topic"`
	Type       string    `json:"type"`
	Data       any       `json:"data"`
	OccurredAt time.Time `json:"occurredAt"`
	// Origin is the instance that produced the event; not sent to browsers.
	Origin string `json:"-"`
}

// Observer receives events in per-topic publish order. Deliver must not block.
type Observer interface {
	Deliver(ev Event)
}

type Broadcaster struct {
	instanceID string
	queueSize  int
	clock      clock.Clock
	logger     *slog.Logger

	mu        sync.RWMutex
	queues    map[string]chan Event
	observers []Observer
	stopped   bool
	wg        sync.WaitGroup
}

func NewBroadcaster(instanceID string, queueSize int, clk clock.Clock, logger *slog.Logger) *Broadcaster {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Broadcaster{
		instanceID: instanceID,
		queueSize:  queueSize,
		clock:      clk,
		logger:     logger,
		queues:     make(map[string]chan Event),
	}
}

func (b *Broadcaster) InstanceID() string {
	return b.instanceID
}

func (b *Broadcaster) Subscribe(o Observer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.observers = append(b.observers, o)
}

func (b *Broadcaster) PublishBookingCreated(v *queries.BookingView) {
	b.Publish(TopicBookings, TypeBookingCreated, v)
}

func (b *Broadcaster) PublishBookingUpdated(v *queries.BookingView) {
	b.Publish(TopicBookings, TypeBookingUpdated, v)
}

func (b *Broadcaster) PublishSlotUpdated(v *queries.SlotView) {
	b.Publish(TopicSlots, TypeSlotUpdated, v)
}

// Publish stamps a local event and enqueues it.
func (b *Broadcaster) Publish(topic, typ string, data any) {
	b.Inject(Event{
		Topic:      topic,
		Type:       typ,
		Data:       data,
		OccurredAt: b.clock.Now(),
		Origin:     b.instanceID,
	})
}

// Inject enqueues an event as is, keeping its origin. A full queue drops
// the event; the caller never waits. The send happens under the lock so
// Stop cannot close the queue underneath it.
func (b *Broadcaster) Inject(ev Event) {
	b.mu.RLock()
	if b.stopped {
		b.mu.RUnlock()
		return
	}
	if q, ok := b.queues[ev.Topic]; ok {
		b.enqueue(q, ev)
		b.mu.RUnlock()
		return
	}
	b.mu.RUnlock()

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.stopped {
		return
	}
	q, ok := b.queues[ev.Topic]
	if !ok {
		q = make(chan Event, b.queueSize)
		b.queues[ev.Topic] = q
		b.wg.Add(1)
		go b.drain(q)
	}
	b.enqueue(q, ev)
}

func (b *Broadcaster) enqueue(q chan Event, ev Event) {
	select {
	case q <- ev:
	default:
		b.logger.Warn("notification queue full, dropping event",
			"topic", ev.Topic,
			"type", ev.Type)
	}
}

// One goroutine per topic keeps delivery FIFO within the topic.
func (b *Broadcaster) drain(q chan Event) {
	defer b.wg.Done()
	for ev := range q {
		b.mu.RLock()
		observers := b.observers
		b.mu.RUnlock()
		for _, o := range observers {
			b.deliver(o, ev)
		}
	}
}

func (b *Broadcaster) deliver(o Observer, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("observer panicked", "topic", ev.Topic, "type", ev.Type, "panic", r)
		}
	}()
	o.Deliver(ev)
}

// Stop closes the topic queues and waits until queued events are delivered
// or ctx ends.
func (b *Broadcaster) Stop(ctx context.Context) error {
	b.mu.Lock()
	if b.stopped {
		b.mu.Unlock()
		return nil
	}
	b.stopped = true
	for _, q := range b.queues {
		close(q)
	}
	b.mu.Unlock()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
