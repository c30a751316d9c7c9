package components

import (
	"parking-booking/internal/domain/booking"
	"parking-booking/internal/pkg/clock"
	"parking-booking/internal/pkg/config"
	"parking-booking/internal/usecase/commands"
	"parking-booking/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	fx.Annotate(
		NewFeeCalculator,
		fx.As(new(booking.FeeCalculator)),
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewSlotQueries,
		queries.NewBookingQueries,
		queries.NewAnalyticsQueries,
		queries.NewNotificationQueries,
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewBookingCommands,
		commands.NewSlotCommands,
	),
)

func NewFeeCalculator(cfg config.Config) *booking.DefaultFeeCalculator {
	return booking.NewFeeCalculator(cfg.Fee.BaseCents, cfg.Fee.RatePer15MinCents)
}
