//go:build unit

package pubsub

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"parking-booking/internal/notify"
	"parking-booking/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBridge() *RedisBridge {
	cfg := config.RedisConfig{Addr: "localhost:0", Channel: "parking-events"}
	return NewRedisBridge(NewRedisClient(cfg), cfg, "instance-a", nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRedisBridge_DeliverForwardsOnlyLocalEvents(t *testing.T) {
	b := newTestBridge()
	at := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	b.Deliver(notify.Event{Topic: notify.TopicSlots, Type: notify.TypeSlotUpdated, Data: map[string]any{"slotNumber": "A-1"}, OccurredAt: at, Origin: "instance-b"})
	b.Deliver(notify.Event{Topic: notify.TopicSlots, Type: notify.TypeSlotUpdated, Data: map[string]any{"slotNumber": "A-2"}, OccurredAt: at, Origin: "instance-a"})

	require.Len(t, b.outbox, 1)
	ev := <-b.outbox
	assert.Equal(t, "instance-a", ev.Origin)
	assert.Equal(t, notify.TopicSlots, ev.Topic)
	assert.JSONEq(t, `{"slotNumber":"A-2"}`, string(ev.Data))

	wire, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.JSONEq(t, `{"origin":"instance-a","topic":"slots","type":"slot.updated","data":{"slotNumber":"A-2"},"occurredAt":"2025-03-10T09:00:00Z"}`, string(wire))
}

func TestRedisBridge_DeliverDropsWhenQueueFull(t *testing.T) {
	b := newTestBridge()
	for i := 0; i < cap(b.outbox)+10; i++ {
		b.Deliver(notify.Event{Topic: notify.TopicBookings, Type: notify.TypeBookingUpdated, Origin: "instance-a"})
	}
	assert.Len(t, b.outbox, cap(b.outbox))
}
