package components

import (
	"time"

	"vendor-booking/internal/handler"
	"vendor-booking/internal/handler/api"
	"vendor-booking/internal/handler/middleware"
	"vendor-booking/internal/infra/icalfeed"
	"vendor-booking/internal/pkg/clock"
	"vendor-booking/internal/pkg/config"
	"vendor-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewBookingHandler,
		api.NewAvailabilityHandler,
		NewCalendarHandler,
		fx.Annotate(
			NewCalendarRenderer,
			fx.As(new(api.CalendarRenderer)),
		),
		middleware.NewAuthMiddleware,
		NewHandlers,
		NewEngine,
	),
	fx.Invoke(handler.NewRouter),
)

func NewCalendarHandler(q queries.AvailabilityQueries, renderer api.CalendarRenderer, clk clock.Clock, loc *time.Location, cfg config.Config) *api.CalendarHandler {
	return api.NewCalendarHandler(q, renderer, clk, loc, cfg.Reservation.MaxRangeDays)
}

func NewCalendarRenderer(loc *time.Location) *icalfeed.Renderer {
	return icalfeed.NewRenderer(loc)
}

func NewHandlers(
	booking *api.BookingHandler,
	availability *api.AvailabilityHandler,
	calendar *api.CalendarHandler,
	auth *middleware.AuthMiddleware,
) handler.Handlers {
	return handler.Handlers{
		Booking:      booking,
		Availability: availability,
		Calendar:     calendar,
		Auth:         auth,
	}
}

func NewEngine() *gin.Engine {
	gin.EnableJsonDecoderDisallowUnknownFields()
	return gin.New()
}
