package shared

import (
	"context"

	"vendor-booking/internal/domain/availability"
	"vendor-booking/internal/domain/slot"
	"vendor-booking/internal/infra"
	"vendor-booking/internal/pkg/civil"
	"vendor-booking/internal/pkg/clock"
	"vendor-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrSlotNotBlocked = errs.New("slot is not blocked")

// AvailabilityStore applies the check-and-write protocol for one vendor day on top of a
// transaction-bound repository: lock the day, read it, check conflicts, then write.
// Two writers of the same day can never both pass the check.
type AvailabilityStore struct {
	repo   AvailabilityRepository
	policy *slot.Policy
	clock  clock.Clock
}

func NewAvailabilityStore(repo AvailabilityRepository, policy *slot.Policy, clk clock.Clock) *AvailabilityStore {
	return &AvailabilityStore{
		repo:   repo,
		policy: policy,
		clock:  clk,
	}
}

// UpsertBooked marks the slot booked for ref. Re-booking a slot the same booking already
// holds returns the existing record.
func (s *AvailabilityStore) UpsertBooked(ctx context.Context, vendorID uuid.UUID, date civil.Date, sl slot.Slot, ref availability.BookingRef) (availability.Record, error) {
	if ref.BookingID == uuid.Nil || ref.WeddingID == uuid.Nil {
		return availability.Record{}, errs.Validation("booking", "booking and wedding ids are required")
	}
	return s.occupy(ctx, vendorID, date, sl, func(day []availability.Record) (*availability.Record, bool) {
		for i := range day {
			if day[i].Slot == sl && day[i].OwnedBy(ref.BookingID) {
				return &day[i], true
			}
		}
		return nil, false
	}, func(rec *availability.Record) {
		rec.MarkBooked(ref, s.clock.Now())
	})
}

func (s *AvailabilityStore) UpsertBlocked(ctx context.Context, vendorID uuid.UUID, date civil.Date, sl slot.Slot, reason string) (availability.Record, error) {
	return s.occupy(ctx, vendorID, date, sl, func([]availability.Record) (*availability.Record, bool) {
		return nil, false
	}, func(rec *availability.Record) {
		rec.MarkBlocked(reason, s.clock.Now())
	})
}

// Release returns an occupied slot to available. Releasing a free slot is a no-op.
func (s *AvailabilityStore) Release(ctx context.Context, vendorID uuid.UUID, date civil.Date, sl slot.Slot) (bool, error) {
	return s.release(ctx, vendorID, date, sl, func(availability.Record) error { return nil })
}

// ReleaseForBooking frees the slot only while bookingID still owns it.
func (s *AvailabilityStore) ReleaseForBooking(ctx context.Context, vendorID uuid.UUID, date civil.Date, sl slot.Slot, bookingID uuid.UUID) (bool, error) {
	released := false
	_, err := s.release(ctx, vendorID, date, sl, func(rec availability.Record) error {
		if !rec.OwnedBy(bookingID) {
			return errSkipRelease
		}
		released = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return released, nil
}

// Unblock frees a blocked slot; a booked slot must be released through its booking.
func (s *AvailabilityStore) Unblock(ctx context.Context, vendorID uuid.UUID, date civil.Date, sl slot.Slot) (bool, error) {
	return s.release(ctx, vendorID, date, sl, func(rec availability.Record) error {
		if rec.Status != availability.StatusBlocked {
			return ErrSlotNotBlocked
		}
		return nil
	})
}

var errSkipRelease = errs.New("release skipped")

func (s *AvailabilityStore) release(ctx context.Context, vendorID uuid.UUID, date civil.Date, sl slot.Slot, guard func(availability.Record) error) (bool, error) {
	if err := validateSlotKey(vendorID, date, sl); err != nil {
		return false, err
	}
	if err := s.repo.LockDay(ctx, vendorID, date); err != nil {
		return false, err
	}

	day, err := s.repo.ListDay(ctx, vendorID, date)
	if err != nil {
		return false, err
	}

	for _, rec := range day {
		if rec.Slot != sl || !rec.IsOccupying() {
			continue
		}
		if err := guard(rec); err != nil {
			if errs.Is(err, errSkipRelease) {
				return false, nil
			}
			return false, err
		}
		rec.MarkAvailable(s.clock.Now())
		if err := s.repo.Update(ctx, rec); err != nil {
			return false, classifyWriteErr(err)
		}
		return true, nil
	}
	return false, nil
}

func (s *AvailabilityStore) occupy(
	ctx context.Context,
	vendorID uuid.UUID,
	date civil.Date,
	sl slot.Slot,
	existing func(day []availability.Record) (*availability.Record, bool),
	mark func(rec *availability.Record),
) (availability.Record, error) {
	if err := validateSlotKey(vendorID, date, sl); err != nil {
		return availability.Record{}, err
	}
	if err := s.repo.LockDay(ctx, vendorID, date); err != nil {
		return availability.Record{}, err
	}

	day, err := s.repo.ListDay(ctx, vendorID, date)
	if err != nil {
		return availability.Record{}, err
	}

	if rec, ok := existing(day); ok {
		return *rec, nil
	}

	if err := availability.CheckConflict(s.policy, vendorID, date, day, sl); err != nil {
		return availability.Record{}, err
	}

	for _, rec := range day {
		if rec.Slot != sl {
			continue
		}
		// an available row for this slot is reused so the unique key stays stable
		mark(&rec)
		if err := s.repo.Update(ctx, rec); err != nil {
			return availability.Record{}, classifyWriteErr(err)
		}
		rec.Version++
		return rec, nil
	}

	rec := availability.NewRecord(vendorID, date, sl, s.clock.Now())
	mark(&rec)
	rec.Version = 1
	if err := s.repo.Insert(ctx, rec); err != nil {
		return availability.Record{}, classifyWriteErr(err)
	}
	return rec, nil
}

// A duplicate key or stale version means a writer got past the day lock; retrying
// re-reads the day and reports the real conflict.
func classifyWriteErr(err error) error {
	if infra.IsKind(err, infra.KindDuplicateKey) || infra.IsKind(err, infra.KindStaleVersion) {
		return errs.Mark(err, ErrRetryable)
	}
	return err
}

func validateSlotKey(vendorID uuid.UUID, date civil.Date, sl slot.Slot) error {
	if vendorID == uuid.Nil {
		return errs.Validation("vendorId", "is required")
	}
	if date.IsZero() {
		return errs.Validation("date", "is required")
	}
	if !sl.IsValid() {
		return errs.Validation("slot", "unknown time slot \""+string(sl)+"\"")
	}
	return nil
}
