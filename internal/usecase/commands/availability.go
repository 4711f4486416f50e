package commands

import (
	"context"
	"log/slog"
	"strings"

	"vendor-booking/internal/domain/actor"
	"vendor-booking/internal/domain/availability"
	"vendor-booking/internal/domain/slot"
	"vendor-booking/internal/pkg/civil"
	"vendor-booking/internal/pkg/clock"
	"vendor-booking/internal/pkg/errs"
	"vendor-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

const maxBlockReasonLength = 500

type BlockParams struct {
	Actor    actor.Actor
	VendorID uuid.UUID
	Date     civil.Date
	Slot     slot.Slot
	Reason   string
}

type RecurringBlockParams struct {
	Actor    actor.Actor
	VendorID uuid.UUID
	RRule    string
	From     civil.Date
	To       civil.Date
	Slot     slot.Slot
	Reason   string
}

type AvailabilityCommands interface {
	// Block marks a slot unavailable using the same atomic check as a reservation.
	Block(ctx context.Context, p BlockParams) (availability.Record, error)
	// BlockRecurring blocks every date an RRULE yields in one transaction. One conflicting
	// date aborts the whole request.
	BlockRecurring(ctx context.Context, p RecurringBlockParams) ([]availability.Record, error)
	// Unblock frees a blocked slot. Booked slots are refused with shared.ErrSlotNotBlocked.
	Unblock(ctx context.Context, act actor.Actor, vendorID uuid.UUID, date civil.Date, s slot.Slot) error
	// Release frees any occupied slot; missing or free slots are a no-op.
	Release(ctx context.Context, act actor.Actor, vendorID uuid.UUID, date civil.Date, s slot.Slot) error
}

type availabilityCommandsImpl struct {
	uow    shared.UnitOfWork
	opts   Options
	clock  clock.Clock
	logger *slog.Logger
}

func NewAvailabilityCommands(uow shared.UnitOfWork, opts Options, clk clock.Clock, logger *slog.Logger) AvailabilityCommands {
	if logger == nil {
		logger = slog.Default()
	}
	return &availabilityCommandsImpl{uow: uow, opts: opts.withDefaults(), clock: clk, logger: logger}
}

func (uc *availabilityCommandsImpl) store(tx shared.Tx) *shared.AvailabilityStore {
	return shared.NewAvailabilityStore(tx.Availability(), uc.opts.Policy, uc.clock)
}

func normalizeReason(reason string) (string, error) {
	reason = strings.TrimSpace(reason)
	if len([]rune(reason)) > maxBlockReasonLength {
		return "", errs.Validation("reason", "is too long")
	}
	return reason, nil
}

func validateKey(vendorID uuid.UUID, date civil.Date, s slot.Slot) error {
	switch {
	case vendorID == uuid.Nil:
		return errs.Validation("vendorId", "is required")
	case date.IsZero():
		return errs.Validation("date", "is required")
	case !s.IsValid():
		return errs.Validation("slot", "unknown time slot \""+string(s)+"\"")
	}
	return nil
}

func (uc *availabilityCommandsImpl) Block(ctx context.Context, p BlockParams) (availability.Record, error) {
	if err := validateKey(p.VendorID, p.Date, p.Slot); err != nil {
		return availability.Record{}, err
	}
	reason, err := normalizeReason(p.Reason)
	if err != nil {
		return availability.Record{}, err
	}
	if !p.Actor.CanManageVendor(p.VendorID) {
		return availability.Record{}, errs.ErrForbidden
	}

	ctx, cancel := context.WithTimeout(ctx, uc.opts.Timeout)
	defer cancel()

	var rec availability.Record
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var werr error
		rec, werr = uc.store(tx).UpsertBlocked(ctx, p.VendorID, p.Date, p.Slot, reason)
		return werr
	})
	if err != nil {
		return availability.Record{}, translate(err)
	}
	return rec, nil
}

func (uc *availabilityCommandsImpl) BlockRecurring(ctx context.Context, p RecurringBlockParams) ([]availability.Record, error) {
	reason, err := normalizeReason(p.Reason)
	if err != nil {
		return nil, err
	}
	if p.VendorID == uuid.Nil {
		return nil, errs.Validation("vendorId", "is required")
	}
	if !p.Slot.IsValid() {
		return nil, errs.Validation("slot", "unknown time slot \""+string(p.Slot)+"\"")
	}
	if !p.Actor.CanManageVendor(p.VendorID) {
		return nil, errs.ErrForbidden
	}

	maxDates := availability.MaxRecurringDates
	if uc.opts.MaxRangeDays < maxDates {
		maxDates = uc.opts.MaxRangeDays
	}
	dates, err := availability.ExpandRule(p.RRule, p.From, p.To, maxDates)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, uc.opts.Timeout)
	defer cancel()

	var records []availability.Record
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		records = make([]availability.Record, 0, len(dates))
		store := uc.store(tx)
		// dates ascend, so day locks are always taken in the same order
		for _, d := range dates {
			rec, werr := store.UpsertBlocked(ctx, p.VendorID, d, p.Slot, reason)
			if werr != nil {
				return werr
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, translate(err)
	}

	uc.logger.Info("recurring block applied",
		"vendor_id", p.VendorID,
		"rrule", p.RRule,
		"slot", p.Slot.String(),
		"dates", len(records))
	return records, nil
}

func (uc *availabilityCommandsImpl) Unblock(ctx context.Context, act actor.Actor, vendorID uuid.UUID, date civil.Date, s slot.Slot) error {
	if err := validateKey(vendorID, date, s); err != nil {
		return err
	}
	if !act.CanManageVendor(vendorID) {
		return errs.ErrForbidden
	}

	ctx, cancel := context.WithTimeout(ctx, uc.opts.Timeout)
	defer cancel()

	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		_, werr := uc.store(tx).Unblock(ctx, vendorID, date, s)
		return werr
	})
	return translate(err)
}

func (uc *availabilityCommandsImpl) Release(ctx context.Context, act actor.Actor, vendorID uuid.UUID, date civil.Date, s slot.Slot) error {
	if err := validateKey(vendorID, date, s); err != nil {
		return err
	}
	if !act.IsAdmin() {
		return errs.ErrForbidden
	}

	ctx, cancel := context.WithTimeout(ctx, uc.opts.Timeout)
	defer cancel()

	var released bool
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var werr error
		released, werr = uc.store(tx).Release(ctx, vendorID, date, s)
		return werr
	})
	if err != nil {
		return translate(err)
	}
	if released {
		uc.logger.Info("slot released by admin",
			"actor_id", act.ID,
			"vendor_id", vendorID,
			"date", date.String(),
			"slot", s.String())
	}
	return nil
}
