package queries

import (
	"context"

	"vendor-booking/internal/domain/actor"
	"vendor-booking/internal/domain/booking"
	"vendor-booking/internal/infra"
	"vendor-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

type BookingReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	FindByWedding(ctx context.Context, weddingID uuid.UUID) ([]*booking.Booking, error)
	FindByVendor(ctx context.Context, vendorID uuid.UUID, status *booking.Status) ([]*booking.Booking, error)
}

type BookingQueries interface {
	GetByID(ctx context.Context, act actor.Actor, id uuid.UUID) (*booking.Booking, error)
	ListByWedding(ctx context.Context, act actor.Actor, weddingID uuid.UUID) ([]*booking.Booking, error)
	ListByVendor(ctx context.Context, act actor.Actor, vendorID uuid.UUID, status *booking.Status) ([]*booking.Booking, error)
}

type bookingQueriesImpl struct {
	repo BookingReadStore
}

func NewBookingQueries(repo BookingReadStore) BookingQueries {
	return &bookingQueriesImpl{repo: repo}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, act actor.Actor, id uuid.UUID) (*booking.Booking, error) {
	b, err := q.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, booking.ErrNotFound)
		}
		return nil, err
	}
	if !canView(act, b) {
		return nil, errs.ErrForbidden
	}
	return b, nil
}

// ListByWedding returns only the wedding's bookings the actor may see.
func (q *bookingQueriesImpl) ListByWedding(ctx context.Context, act actor.Actor, weddingID uuid.UUID) ([]*booking.Booking, error) {
	if weddingID == uuid.Nil {
		return nil, errs.Validation("weddingId", "is required")
	}
	all, err := q.repo.FindByWedding(ctx, weddingID)
	if err != nil {
		return nil, err
	}
	visible := make([]*booking.Booking, 0, len(all))
	for _, b := range all {
		if canView(act, b) {
			visible = append(visible, b)
		}
	}
	return visible, nil
}

func (q *bookingQueriesImpl) ListByVendor(ctx context.Context, act actor.Actor, vendorID uuid.UUID, status *booking.Status) ([]*booking.Booking, error) {
	if vendorID == uuid.Nil {
		return nil, errs.Validation("vendorId", "is required")
	}
	if status != nil && !status.IsValid() {
		return nil, errs.Validation("status", "unknown booking status \""+string(*status)+"\"")
	}
	if !act.CanManageVendor(vendorID) {
		return nil, errs.ErrForbidden
	}
	return q.repo.FindByVendor(ctx, vendorID, status)
}

func canView(act actor.Actor, b *booking.Booking) bool {
	return b.IsCreatedBy(act.ID) || act.CanManageVendor(b.VendorID())
}
