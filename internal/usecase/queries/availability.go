package queries

import (
	"context"

	"vendor-booking/internal/domain/availability"
	"vendor-booking/internal/domain/slot"
	"vendor-booking/internal/pkg/civil"
	"vendor-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

// ConflictCheckView is a calendar hint. It reads without locks and may be stale by the
// time a reservation is attempted; only the reservation itself is authoritative.
type ConflictCheckView struct {
	VendorID    uuid.UUID
	Date        civil.Date
	Slot        slot.Slot
	HasConflict bool
	Blocking    []availability.Record
	Advisory    bool
}

type AvailabilityReadStore interface {
	FindByVendorAndRange(ctx context.Context, vendorID uuid.UUID, start, end civil.Date) ([]availability.Record, error)
}

type AvailabilityQueries interface {
	ListByVendorAndRange(ctx context.Context, vendorID uuid.UUID, start, end civil.Date) ([]availability.Record, error)
	CheckConflict(ctx context.Context, vendorID uuid.UUID, date civil.Date, s slot.Slot) (*ConflictCheckView, error)
	DaySummaries(ctx context.Context, vendorID uuid.UUID, start, end civil.Date) ([]availability.DaySummary, error)
}

type availabilityQueriesImpl struct {
	repo         AvailabilityReadStore
	policy       *slot.Policy
	maxRangeDays int
}

func NewAvailabilityQueries(repo AvailabilityReadStore, policy *slot.Policy, maxRangeDays int) AvailabilityQueries {
	if policy == nil {
		policy = slot.DefaultPolicy()
	}
	if maxRangeDays <= 0 {
		maxRangeDays = availability.DefaultMaxRangeDays
	}
	return &availabilityQueriesImpl{repo: repo, policy: policy, maxRangeDays: maxRangeDays}
}

func (q *availabilityQueriesImpl) ListByVendorAndRange(ctx context.Context, vendorID uuid.UUID, start, end civil.Date) ([]availability.Record, error) {
	if vendorID == uuid.Nil {
		return nil, errs.Validation("vendorId", "is required")
	}
	if err := availability.ValidateRange(start, end, q.maxRangeDays); err != nil {
		return nil, err
	}

	records, err := q.repo.FindByVendorAndRange(ctx, vendorID, start, end)
	if err != nil {
		return nil, err
	}
	availability.SortBySlot(records)
	return records, nil
}

func (q *availabilityQueriesImpl) CheckConflict(ctx context.Context, vendorID uuid.UUID, date civil.Date, s slot.Slot) (*ConflictCheckView, error) {
	if !s.IsValid() {
		return nil, errs.Validation("slot", "unknown time slot \""+string(s)+"\"")
	}
	day, err := q.ListByVendorAndRange(ctx, vendorID, date, date)
	if err != nil {
		return nil, err
	}

	blocking := availability.Blocking(q.policy, vendorID, day, s)
	return &ConflictCheckView{
		VendorID:    vendorID,
		Date:        date,
		Slot:        s,
		HasConflict: len(blocking) > 0,
		Blocking:    blocking,
		Advisory:    true,
	}, nil
}

func (q *availabilityQueriesImpl) DaySummaries(ctx context.Context, vendorID uuid.UUID, start, end civil.Date) ([]availability.DaySummary, error) {
	records, err := q.ListByVendorAndRange(ctx, vendorID, start, end)
	if err != nil {
		return nil, err
	}
	return availability.SummarizeRange(start, end, records), nil
}
