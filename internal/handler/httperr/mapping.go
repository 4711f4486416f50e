package httperr

import (
	"net/http"
	"strconv"
	"time"

	"vendor-booking/internal/domain/availability"
	"vendor-booking/internal/domain/booking"
	"vendor-booking/internal/pkg/errs"
	"vendor-booking/internal/usecase/commands"
	"vendor-booking/internal/usecase/shared"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RetryAfter is what a 503 tells callers to wait before resubmitting.
var RetryAfter = time.Second

type ValidationDetail struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

type BlockingSlot struct {
	Date      string     `json:"date"`
	Slot      string     `json:"slot"`
	Status    string     `json:"status"`
	BookingID *uuid.UUID `json:"bookingId,omitempty"`
	Reason    string     `json:"reason,omitempty"`
}

type ConflictDetail struct {
	Date      string         `json:"date"`
	Requested string         `json:"requested"`
	Blocking  []BlockingSlot `json:"blocking"`
}

// AbortWithUsecaseError maps command and query failures onto the API error contract.
func AbortWithUsecaseError(c *gin.Context, err error) {
	var validation *errs.ValidationError
	var conflict *availability.ConflictError

	switch {
	case errs.As(err, &conflict):
		AbortWithError(c, http.StatusConflict, err, "Requested slot is unavailable", conflictDetail(conflict))
	case errs.As(err, &validation):
		AbortWithError(c, http.StatusBadRequest, err, "Validation failed",
			ValidationDetail{Field: validation.Field, Reason: validation.Reason})
	case errs.Is(err, commands.ErrReservationBusy):
		c.Header("Retry-After", strconv.Itoa(int(RetryAfter.Seconds())))
		AbortWithError(c, http.StatusServiceUnavailable, err, "Calendar is busy, retry the request", nil)
	case errs.Is(err, booking.ErrNotFound):
		AbortWithError(c, http.StatusNotFound, err, "Booking not found", nil)
	case errs.Is(err, errs.ErrForbidden):
		AbortWithError(c, http.StatusForbidden, err, "Insufficient permissions", nil)
	case errs.Is(err, errs.ErrIdempotencyKeyReused):
		AbortWithError(c, http.StatusConflict, err, "Idempotency key was used for a different request", nil)
	case errs.Is(err, commands.ErrIdempotencyInProgress):
		AbortWithError(c, http.StatusConflict, err, "Request with this idempotency key is still being processed", nil)
	case errs.Is(err, booking.ErrInvalidTransition):
		AbortWithError(c, http.StatusConflict, err, "Booking status does not allow this change", nil)
	case errs.Is(err, booking.ErrAlreadyReserved):
		AbortWithError(c, http.StatusConflict, err, "Booking already holds a slot", nil)
	case errs.Is(err, shared.ErrSlotNotBlocked):
		AbortWithError(c, http.StatusConflict, err, "Slot is not blocked", nil)
	default:
		AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}

func conflictDetail(e *availability.ConflictError) ConflictDetail {
	d := ConflictDetail{
		Date:      e.Date.String(),
		Requested: e.Requested.String(),
		Blocking:  make([]BlockingSlot, 0, len(e.Blocking)),
	}
	for _, r := range e.Blocking {
		d.Blocking = append(d.Blocking, BlockingSlot{
			Date:      r.Date.String(),
			Slot:      r.Slot.String(),
			Status:    r.Status.String(),
			BookingID: r.BookingID,
			Reason:    r.Reason,
		})
	}
	return d
}
