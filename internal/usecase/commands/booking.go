package commands

import (
	"context"
	"log/slog"
	"strings"

	"vendor-booking/internal/domain/actor"
	"vendor-booking/internal/domain/booking"
	"vendor-booking/internal/pkg/clock"
	"vendor-booking/internal/pkg/errs"
	"vendor-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

const maxCancelReasonLength = 500

type OfflineBookingParams struct {
	Actor              actor.Actor
	WeddingID          uuid.UUID
	VendorID           uuid.UUID
	EventID            *uuid.UUID
	Notes              string
	EstimatedCostCents int64
}

type BookingCommands interface {
	// CreateOffline records a booking agreed outside the platform. It is confirmed at once
	// and holds no slot.
	CreateOffline(ctx context.Context, p OfflineBookingParams) (*booking.Booking, error)
	Confirm(ctx context.Context, bookingID uuid.UUID, act actor.Actor) (*booking.Booking, error)
	// Cancel is idempotent and frees the booking's slot when it still holds one.
	Cancel(ctx context.Context, bookingID uuid.UUID, act actor.Actor, reason string) (*booking.Booking, error)
}

type bookingCommandsImpl struct {
	uow    shared.UnitOfWork
	opts   Options
	clock  clock.Clock
	logger *slog.Logger
}

func NewBookingCommands(uow shared.UnitOfWork, opts Options, clk clock.Clock, logger *slog.Logger) BookingCommands {
	if logger == nil {
		logger = slog.Default()
	}
	return &bookingCommandsImpl{uow: uow, opts: opts.withDefaults(), clock: clk, logger: logger}
}

func (uc *bookingCommandsImpl) CreateOffline(ctx context.Context, p OfflineBookingParams) (*booking.Booking, error) {
	if p.VendorID == uuid.Nil {
		return nil, errs.Validation("vendorId", "is required")
	}
	if p.WeddingID == uuid.Nil {
		return nil, errs.Validation("weddingId", "is required")
	}
	if !p.Actor.CanManageVendor(p.VendorID) {
		return nil, errs.ErrForbidden
	}

	now := uc.clock.Now()
	b, err := booking.NewOffline(booking.NewParams{
		WeddingID:     p.WeddingID,
		VendorID:      p.VendorID,
		EventID:       p.EventID,
		CreatedBy:     p.Actor.ID,
		Notes:         p.Notes,
		EstimatedCost: p.EstimatedCostCents,
	}, now)
	if err != nil {
		return nil, validationFromDomain(err)
	}

	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Bookings().Create(ctx, b); err != nil {
			return err
		}
		return enqueueBookingEvent(ctx, tx, TopicBookingRecorded, b, now)
	})
	if err != nil {
		return nil, translate(err)
	}
	return b, nil
}

func (uc *bookingCommandsImpl) Confirm(ctx context.Context, bookingID uuid.UUID, act actor.Actor) (*booking.Booking, error) {
	var confirmed *booking.Booking
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		confirmed = nil
		b, err := tx.Bookings().Get(ctx, bookingID)
		if err != nil {
			return err
		}
		if !act.CanManageVendor(b.VendorID()) {
			return errs.ErrForbidden
		}

		now := uc.clock.Now()
		changed, err := b.Confirm(now)
		if err != nil {
			return err
		}
		confirmed = b
		if !changed {
			return nil
		}
		if err = tx.Bookings().Update(ctx, b); err != nil {
			return err
		}
		return enqueueBookingEvent(ctx, tx, TopicBookingConfirmed, b, now)
	})
	if err != nil {
		return nil, translate(err)
	}
	return confirmed, nil
}

func (uc *bookingCommandsImpl) Cancel(ctx context.Context, bookingID uuid.UUID, act actor.Actor, reason string) (*booking.Booking, error) {
	reason = strings.TrimSpace(reason)
	if len([]rune(reason)) > maxCancelReasonLength {
		return nil, errs.Validation("reason", "is too long")
	}

	ctx, cancel := context.WithTimeout(ctx, uc.opts.Timeout)
	defer cancel()

	var cancelled *booking.Booking
	released := false
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		cancelled, released = nil, false
		b, err := tx.Bookings().Get(ctx, bookingID)
		if err != nil {
			return err
		}
		if !b.IsCreatedBy(act.ID) && !act.CanManageVendor(b.VendorID()) {
			return errs.ErrForbidden
		}

		now := uc.clock.Now()
		changed, err := b.Cancel(reason, now)
		if err != nil {
			return err
		}
		cancelled = b
		if !changed {
			return nil
		}
		if err = tx.Bookings().Update(ctx, b); err != nil {
			return err
		}

		if ref := b.Reservation(); ref != nil {
			store := shared.NewAvailabilityStore(tx.Availability(), uc.opts.Policy, uc.clock)
			released, err = store.ReleaseForBooking(ctx, b.VendorID(), ref.Date, ref.Slot, b.ID())
			if err != nil {
				return err
			}
		}
		return enqueueBookingEvent(ctx, tx, TopicBookingCancelled, b, now)
	})
	if err != nil {
		return nil, translate(err)
	}

	if released {
		ref := cancelled.Reservation()
		uc.logger.Info("slot released by cancellation",
			"booking_id", cancelled.ID(),
			"vendor_id", cancelled.VendorID(),
			"date", ref.Date.String(),
			"slot", ref.Slot.String())
	}
	return cancelled, nil
}
