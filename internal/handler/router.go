package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"parking-booking/internal/domain/user"
	"parking-booking/internal/handler/api"
	"parking-booking/internal/handler/middleware"
	"parking-booking/internal/handler/realtime"
	"parking-booking/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Slots    *api.SlotHandler
	Bookings *api.BookingHandler
	Admin    *api.AdminHandler
	Hub      *realtime.Hub
}

func NewRouter(engine *gin.Engine, cfg config.Config, logger *middleware.Logger, h Handlers, authMiddleware *middleware.AuthMiddleware, limiter *middleware.RateLimiter) {
	setupMiddleware(engine, cfg, logger)
	setupRoutes(engine, h, authMiddleware, limiter)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *middleware.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(logger.LoggingMiddleware())
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h Handlers, authMiddleware *middleware.AuthMiddleware, limiter *middleware.RateLimiter) {
	engine.GET("/health", healthCheck)
	engine.GET("/ws", h.Hub.ServeWS)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	adminOnly := authMiddleware.RequireRole(user.RoleAdmin)

	apiGroup := engine.Group("/api")
	{
		slots := apiGroup.Group("/slots")
		addRoutes(slots, []route{
			{Method: http.MethodGet, Path: "", Handler: h.Slots.List},
			{Method: http.MethodGet, Path: "/:id", Handler: h.Slots.Get},
		})

		bookings := apiGroup.Group("/bookings")
		bookings.Use(authMiddleware.RequireAuth())
		{
			addRoutes(bookings, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Bookings.Create, Mw: []gin.HandlerFunc{limiter.Middleware()}},
				{Method: http.MethodGet, Path: "", Handler: h.Bookings.ListAll, Mw: []gin.HandlerFunc{adminOnly}},
				{Method: http.MethodGet, Path: "/mine", Handler: h.Bookings.ListMine},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Bookings.Get},
				{Method: http.MethodGet, Path: "/:id/fee", Handler: h.Bookings.Fee},
				{Method: http.MethodPost, Path: "/:id/check-in", Handler: h.Bookings.CheckIn},
				{Method: http.MethodPost, Path: "/:id/check-out", Handler: h.Bookings.CheckOut},
				{Method: http.MethodPost, Path: "/:id/payment", Handler: h.Bookings.Pay},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: h.Bookings.Cancel},
				{Method: http.MethodGet, Path: "/:id/receipt.pdf", Handler: h.Bookings.Receipt},
				{Method: http.MethodGet, Path: "/:id/pass.png", Handler: h.Bookings.Pass},
			})
		}

		admin := apiGroup.Group("/admin")
		admin.Use(authMiddleware.RequireAuth(), adminOnly)
		{
			addRoutes(admin, []route{
				{Method: http.MethodPost, Path: "/slots", Handler: h.Slots.Create},
				{Method: http.MethodPut, Path: "/slots/:id", Handler: h.Slots.Update},
				{Method: http.MethodDelete, Path: "/slots/:id", Handler: h.Slots.Delete},
				{Method: http.MethodPost, Path: "/slots/:id/release", Handler: h.Slots.Release},
				{Method: http.MethodGet, Path: "/notification-jobs", Handler: h.Admin.NotificationJobs},
			})
		}

		analytics := apiGroup.Group("/analytics")
		analytics.Use(authMiddleware.RequireAuth(), adminOnly)
		addRoutes(analytics, []route{
			{Method: http.MethodGet, Path: "/dashboard", Handler: h.Admin.Dashboard},
		})
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
