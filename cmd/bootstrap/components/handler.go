package components

import (
	"parking-booking/internal/document"
	"parking-booking/internal/handler"
	"parking-booking/internal/handler/api"
	"parking-booking/internal/handler/middleware"
	"parking-booking/internal/handler/realtime"
	"parking-booking/internal/pkg/clock"
	"parking-booking/internal/pkg/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		NewIssuer,
		NewRateLimiter,
		api.NewSlotHandler,
		api.NewBookingHandler,
		api.NewAdminHandler,
		middleware.NewAuthMiddleware,
		NewHandlers,
		NewEngine,
	),
	fx.Invoke(handler.NewRouter),
)

func NewIssuer(cfg config.Config, clk clock.Clock) *document.Issuer {
	return document.NewIssuer(cfg.JWT.Secret, clk)
}

func NewRateLimiter(cfg config.Config) *middleware.RateLimiter {
	return middleware.NewRateLimiter(cfg.RateLimit)
}

func NewHandlers(slots *api.SlotHandler, bookings *api.BookingHandler, admin *api.AdminHandler, hub *realtime.Hub) handler.Handlers {
	return handler.Handlers{
		Slots:    slots,
		Bookings: bookings,
		Admin:    admin,
		Hub:      hub,
	}
}

func NewEngine() *gin.Engine {
	return gin.New()
}
