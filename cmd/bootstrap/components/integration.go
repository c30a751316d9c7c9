package components

import (
	"log/slog"

	"parking-booking/internal/infra/analytics"
	"parking-booking/internal/infra/broker"
	"parking-booking/internal/infra/pubsub"
	"parking-booking/internal/infra/validator"
	"parking-booking/internal/notify"
	"parking-booking/internal/pkg/clock"
	"parking-booking/internal/pkg/config"
	"parking-booking/internal/usecase/commands"
	"parking-booking/internal/usecase/queries"
	"parking-booking/internal/usecase/shared"
	"parking-booking/internal/worker"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

var IntegrationModule = fx.Module("integration",
	fx.Provide(
		fx.Annotate(
			NewSlotValidator,
			fx.As(new(shared.SlotValidator)),
		),
		fx.Annotate(
			NewAnalyticsClient,
			fx.As(new(queries.AnalyticsClient)),
		),
		fx.Annotate(
			NewBroadcaster,
			fx.As(fx.Self()),
			fx.As(new(commands.EventPublisher)),
		),
		NewMessagePublisher,
	),
	fx.Invoke(StartRedisBridge),
)

func NewSlotValidator(cfg config.Config) *validator.HTTPSlotValidator {
	return validator.NewHTTPSlotValidator(cfg.Validator)
}

func NewAnalyticsClient(cfg config.Config) *analytics.HTTPAnalyticsClient {
	return analytics.NewHTTPAnalyticsClient(cfg.Analytics)
}

func NewBroadcaster(lc fx.Lifecycle, cfg config.Config, clk clock.Clock, logger *slog.Logger) *notify.Broadcaster {
	instanceID := cfg.Server.InstanceID
	if instanceID == "" {
		instanceID = uuid.NewString()
	}

	b := notify.NewBroadcaster(instanceID, cfg.Realtime.TopicQueueSize, clk, logger)
	lc.Append(fx.Hook{OnStop: b.Stop})
	return b
}

// Events from other instances arrive via Redis only when the bridge is enabled;
// a single instance runs without it.
func StartRedisBridge(lc fx.Lifecycle, cfg config.Config, b *notify.Broadcaster, logger *slog.Logger) {
	if !cfg.Redis.Enabled {
		logger.Info("redis bridge disabled, realtime events stay local")
		return
	}

	bridge := pubsub.NewRedisBridge(pubsub.NewRedisClient(cfg.Redis), cfg.Redis, b.InstanceID(), b, logger)
	b.Subscribe(bridge)
	lc.Append(fx.Hook{
		OnStart: bridge.Start,
		OnStop:  bridge.Stop,
	})
}

// The relay owns the publisher and closes it on stop.
func NewMessagePublisher(cfg config.Config, logger *slog.Logger) worker.MessagePublisher {
	if !cfg.AMQP.Enabled {
		return broker.NewLogPublisher(logger)
	}
	return broker.NewAMQPPublisher(cfg.AMQP, logger)
}
