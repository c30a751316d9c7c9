package components

import (
	"log/slog"

	"parking-booking/internal/handler/realtime"
	"parking-booking/internal/notify"
	"parking-booking/internal/pkg/config"

	"go.uber.org/fx"
)

var RealtimeModule = fx.Module("realtime",
	fx.Provide(NewHub),
)

func NewHub(lc fx.Lifecycle, cfg config.Config, b *notify.Broadcaster, logger *slog.Logger) *realtime.Hub {
	hub := realtime.NewHub(cfg.Realtime.ClientBuffer, logger)
	b.Subscribe(hub)
	lc.Append(fx.Hook{
		OnStart: hub.Start,
		OnStop:  hub.Stop,
	})
	return hub
}
