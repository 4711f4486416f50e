package commands

import (
	"context"
	"errors"

	"vendor-booking/internal/domain/booking"
	"vendor-booking/internal/infra"
	"vendor-booking/internal/pkg/errs"
	"vendor-booking/internal/usecase/shared"
)

var (
	// ErrReservationBusy means the calendar could not be locked within the retry budget.
	// The request had no effect and may be retried as a whole.
	ErrReservationBusy       = errs.New("calendar is busy, retry the request")
	ErrIdempotencyInProgress = errs.New("a request with this idempotency key is still in progress")
)

// translate turns store and domain failures into the errors callers branch on.
func translate(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errs.Is(err, shared.ErrRetriesExhausted),
		errors.Is(err, context.DeadlineExceeded),
		infra.IsKind(err, infra.KindLockTimeout):
		return errs.Mark(err, ErrReservationBusy)
	case infra.IsKind(err, infra.KindNotFound):
		return errs.Mark(err, booking.ErrNotFound)
	}
	return validationFromDomain(err)
}

func validationFromDomain(err error) error {
	switch {
	case errors.Is(err, booking.ErrNegativeCost):
		return errs.Validation("estimatedCostCents", "must not be negative")
	case errors.Is(err, booking.ErrNotesTooLong):
		return errs.Validation("notes", err.Error())
	case errors.Is(err, booking.ErrInvalidSlot):
		return errs.Validation("slot", err.Error())
	case errors.Is(err, booking.ErrMissingDate):
		return errs.Validation("date", err.Error())
	case errors.Is(err, booking.ErrMissingReference):
		return errs.Validation("booking", err.Error())
	}
	return err
}
