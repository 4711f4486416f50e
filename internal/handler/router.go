package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"vendor-booking/internal/domain/actor"
	"vendor-booking/internal/handler/api"
	"vendor-booking/internal/handler/middleware"
	"vendor-booking/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Booking      *api.BookingHandler
	Availability *api.AvailabilityHandler
	Calendar     *api.CalendarHandler
	Auth         *middleware.AuthMiddleware
}

func NewRouter(engine *gin.Engine, cfg config.Config, logger *slog.Logger, h Handlers) {
	setupMiddleware(engine, cfg, logger)
	setupRoutes(engine, h)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *slog.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h Handlers) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	apiGroup.Use(h.Auth.RequireAuth())
	{
		vendors := apiGroup.Group("/vendors/:vendorId")
		addRoutes(vendors, []route{
			{Method: http.MethodGet, Path: "/availability", Handler: h.Availability.List},
			{Method: http.MethodGet, Path: "/availability/summary", Handler: h.Availability.Summary},
			{Method: http.MethodGet, Path: "/availability/check", Handler: h.Availability.Check},
			{Method: http.MethodPost, Path: "/blocks", Handler: h.Availability.Block},
			{Method: http.MethodPost, Path: "/blocks/recurring", Handler: h.Availability.BlockRecurring},
			{Method: http.MethodDelete, Path: "/blocks/:date/:slot", Handler: h.Availability.Unblock},
			{
				Method:  http.MethodDelete,
				Path:    "/slots/:date/:slot",
				Handler: h.Availability.Release,
				Mw:      []gin.HandlerFunc{h.Auth.RequireRole(actor.RoleAdmin)},
			},
			{Method: http.MethodGet, Path: "/calendar.ics", Handler: h.Calendar.Feed},
			{Method: http.MethodGet, Path: "/bookings", Handler: h.Booking.ListByVendor},
		})

		bookings := apiGroup.Group("/bookings")
		addRoutes(bookings, []route{
			{Method: http.MethodPost, Path: "", Handler: h.Booking.Reserve},
			{Method: http.MethodPost, Path: "/offline", Handler: h.Booking.CreateOffline},
			{Method: http.MethodGet, Path: "/:id", Handler: h.Booking.Get},
			{Method: http.MethodPost, Path: "/:id/reservation", Handler: h.Booking.AttachSlot},
			{Method: http.MethodPost, Path: "/:id/confirm", Handler: h.Booking.Confirm},
			{Method: http.MethodPost, Path: "/:id/cancel", Handler: h.Booking.Cancel},
		})

		addRoutes(apiGroup, []route{
			{Method: http.MethodGet, Path: "/weddings/:weddingId/bookings", Handler: h.Booking.ListByWedding},
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
