package api

import (
	"net/http"
	"time"

	"vendor-booking/internal/domain/availability"
	reqdto "vendor-booking/internal/handler/dto/request"
	"vendor-booking/internal/handler/httperr"
	"vendor-booking/internal/pkg/civil"
	"vendor-booking/internal/pkg/clock"
	"vendor-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const calendarContentType = "text/calendar; charset=utf-8"

type CalendarRenderer interface {
	Render(vendorID uuid.UUID, records []availability.Record, stamp time.Time) []byte
}

type CalendarHandler struct {
	q        queries.AvailabilityQueries
	renderer CalendarRenderer
	clock    clock.Clock
	loc      *time.Location
	maxDays  int
}

// NewCalendarHandler exports maxDays days from start when no end is given.
func NewCalendarHandler(q queries.AvailabilityQueries, renderer CalendarRenderer, clk clock.Clock, loc *time.Location, maxDays int) *CalendarHandler {
	if loc == nil {
		loc = time.UTC
	}
	if maxDays <= 0 {
		maxDays = availability.DefaultMaxRangeDays
	}
	return &CalendarHandler{q: q, renderer: renderer, clock: clk, loc: loc, maxDays: maxDays}
}

// @Summary Vendor calendar feed
// @Description iCalendar export of booked and blocked slots. Without a range the longest allowed window from today is exported.
// @Tags availability
// @Produce text/calendar
// @Security BearerAuth
// @Param vendorId path string true "Vendor ID"
// @Param start query string false "First day (YYYY-MM-DD)"
// @Param end query string false "Last day (YYYY-MM-DD)"
// @Success 200 {string} string "text/calendar"
// @Failure 400 {object} httperr.Response
// @Router /api/vendors/{vendorId}/calendar.ics [get]
func (h *CalendarHandler) Feed(c *gin.Context) {
	vendorID, ok := uuidParam(c, "vendorId")
	if !ok {
		return
	}

	now := h.clock.Now()
	start := civil.Of(now.In(h.loc))
	var err error
	if v := c.Query("start"); v != "" {
		if start, err = reqdto.ParseDate("start", v); err != nil {
			httperr.AbortWithUsecaseError(c, err)
			return
		}
	}
	end := start.AddDays(h.maxDays - 1)
	if v := c.Query("end"); v != "" {
		if end, err = reqdto.ParseDate("end", v); err != nil {
			httperr.AbortWithUsecaseError(c, err)
			return
		}
	}

	records, err := h.q.ListByVendorAndRange(c.Request.Context(), vendorID, start, end)
	if err != nil {
		httperr.AbortWithUsecaseError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+vendorID.String()+`.ics"`)
	c.Data(http.StatusOK, calendarContentType, h.renderer.Render(vendorID, records, now))
}
