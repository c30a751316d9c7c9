//go:build unit

package notify_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"parking-booking/internal/notify"
	"parking-booking/internal/pkg/clock"
	"parking-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	mu     sync.Mutex
	events []notify.Event
	gate   chan struct{}
}

func (o *recordingObserver) Deliver(ev notify.Event) {
	if o.gate != nil {
		<-o.gate
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, ev)
}

func (o *recordingObserver) snapshot() []notify.Event {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]notify.Event(nil), o.events...)
}

type panickingObserver struct{}

func (panickingObserver) Deliver(notify.Event) { panic("boom") }

func newBroadcaster(queueSize int) *notify.Broadcaster {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	return notify.NewBroadcaster("instance-a", queueSize, clock.NewMockClock(now), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestBroadcaster_FIFOPerTopic(t *testing.T) {
	b := newBroadcaster(256)
	obs := &recordingObserver{}
	b.Subscribe(panickingObserver{})
	b.Subscribe(obs)

	ids := make([]uuid.UUID, 50)
	for i := range ids {
		ids[i] = uuid.New()
		b.PublishBookingUpdated(&queries.BookingView{ID: ids[i]})
	}
	b.PublishSlotUpdated(&queries.SlotView{SlotNumber: "A-1"})

	require.NoError(t, b.Stop(context.Background()))

	var bookingIDs []uuid.UUID
	var slotEvents int
	for _, ev := range obs.snapshot() {
		assert.Equal(t, "instance-a", ev.Origin)
		switch ev.Topic {
		case notify.TopicBookings:
			assert.Equal(t, notify.TypeBookingUpdated, ev.Type)
			bookingIDs = append(bookingIDs, ev.Data.(*queries.BookingView).ID)
		case notify.TopicSlots:
			assert.Equal(t, notify.TypeSlotUpdated, ev.Type)
			slotEvents++
		}
	}
	assert.Equal(t, ids, bookingIDs)
	assert.Equal(t, 1, slotEvents)
}

func TestBroadcaster_FullQueueDropsWithoutBlocking(t *testing.T) {
	b := newBroadcaster(1)
	obs := &recordingObserver{gate: make(chan struct{})}
	b.Subscribe(obs)

	b.Publish(notify.TopicSlots, notify.TypeSlotUpdated, 1)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			b.Publish(notify.TopicSlots, notify.TypeSlotUpdated, i+2)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full queue")
	}

	close(obs.gate)
	require.NoError(t, b.Stop(context.Background()))
	// The worker holds one event in Deliver and the queue one more; the rest were dropped.
	got := obs.snapshot()
	require.NotEmpty(t, got)
	assert.LessOrEqual(t, len(got), 2)
	assert.Equal(t, 1, got[0].Data)
}

func TestBroadcaster_PublishAfterStopIsIgnored(t *testing.T) {
	b := newBroadcaster(8)
	obs := &recordingObserver{}
	b.Subscribe(obs)
	require.NoError(t, b.Stop(context.Background()))

	b.PublishSlotUpdated(&queries.SlotView{})

	assert.Empty(t, obs.snapshot())
}

func TestBroadcaster_InjectKeepsOrigin(t *testing.T) {
	b := newBroadcaster(8)
	obs := &recordingObserver{}
	b.Subscribe(obs)

	b.Inject(notify.Event{Topic: notify.TopicSlots, Type: notify.TypeSlotUpdated, Origin: "instance-b"})
	require.NoError(t, b.Stop(context.Background()))

	require.Len(t, obs.snapshot(), 1)
	assert.Equal(t, "instance-b", obs.snapshot()[0].Origin)
}
