package pubsub

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"parking-booking/internal/notify"
	"parking-booking/internal/pkg/config"

	"github.com/redis/go-redis/v9"
)

const publishTimeout = 2 * time.Second

// wireEvent is the cross-instance form of notify.Event. Data stays raw so
// the receiving side forwards it without knowing the concrete type.
type wireEvent struct {
	Origin     string          `json:"origin"`
	Topic      string          `json:"topic"`
	Type       string          `json:"type"`
	Data       json.RawMessage `json:"data"`
	OccurredAt time.Time       `json:"occurredAt"`
}

// Injector is the local fan-out the bridge feeds remote events into.
type Injector interface {
	Inject(ev notify.Event)
}

// RedisBridge forwards locally produced events to a Redis channel and
// injects events from other instances into the local broadcaster, so
// observers connected to any instance see every change.
type RedisBridge struct {
	client     *redis.Client
	channel    string
	instanceID string
	local      Injector
	logger     *slog.Logger

	outbox chan wireEvent
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

func NewRedisBridge(client *redis.Client, cfg config.RedisConfig, instanceID string, local Injector, logger *slog.Logger) *RedisBridge {
	return &RedisBridge{
		client:     client,
		channel:    cfg.Channel,
		instanceID: instanceID,
		local:      local,
		logger:     logger,
		outbox:     make(chan wireEvent, 256),
	}
}

// Deliver implements notify.Observer. Only events born on this instance
// leave it; remote ones were already published by their origin.
func (r *RedisBridge) Deliver(ev notify.Event) {
	if ev.Origin != r.instanceID {
		return
	}
	data, err := json.Marshal(ev.Data)
	if err != nil {
		r.logger.Warn("failed to encode event for redis", "type", ev.Type, "error", err.Error())
		return
	}
	select {
	case r.outbox <- wireEvent{Origin: ev.Origin, Topic: ev.Topic, Type: ev.Type, Data: data, OccurredAt: ev.OccurredAt}:
	default:
		r.logger.Warn("redis bridge queue full, dropping event", "type", ev.Type)
	}
}

func (r *RedisBridge) Start(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel

	sub := r.client.Subscribe(runCtx, r.channel)
	if _, err := sub.Receive(ctx); err != nil {
		cancel()
		_ = sub.Close()
		return err
	}

	r.wg.Add(2)
	go r.publishLoop(runCtx)
	go r.receiveLoop(runCtx, sub)

	r.logger.Info("redis bridge started", "channel", r.channel, "instance_id", r.instanceID)
	return nil
}

func (r *RedisBridge) Stop(_ context.Context) error {
	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()
	return r.client.Close()
}

func (r *RedisBridge) publishLoop(ctx context.Context) {
	defer r.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-r.outbox:
			payload, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
			if err := r.client.Publish(pubCtx, r.channel, payload).Err(); err != nil {
				r.logger.Warn("failed to publish event to redis", "type", ev.Type, "error", err.Error())
			}
			cancel()
		}
	}
}

func (r *RedisBridge) receiveLoop(ctx context.Context, sub *redis.PubSub) {
	defer r.wg.Done()
	defer func() { _ = sub.Close() }()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var ev wireEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				r.logger.Warn("dropping malformed redis event", "error", err.Error())
				continue
			}
			if ev.Origin == r.instanceID {
				continue
			}
			r.local.Inject(notify.Event{
				Topic:      ev.Topic,
				Type:       ev.Type,
				Data:       ev.Data,
				OccurredAt: ev.OccurredAt,
				Origin:     ev.Origin,
			})
		}
	}
}
