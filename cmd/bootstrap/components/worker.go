package components

import (
	"log/slog"

	"parking-booking/internal/pkg/clock"
	"parking-booking/internal/pkg/config"
	"parking-booking/internal/usecase/shared"
	"parking-booking/internal/worker"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Provide(NewOutboxRelay),
	fx.Invoke(func(*worker.OutboxRelay) {}),
)

func NewOutboxRelay(
	lc fx.Lifecycle,
	uow shared.UnitOfWork,
	publisher worker.MessagePublisher,
	cfg config.Config,
	clk clock.Clock,
	logger *slog.Logger,
) *worker.OutboxRelay {
	relay := worker.NewOutboxRelay(uow, publisher, cfg.Outbox, clk, logger)
	lc.Append(fx.Hook{
		OnStart: relay.Start,
		OnStop:  relay.Stop,
	})
	return relay
}
