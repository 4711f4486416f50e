package shared

import (
	"context"
	"time"

	"vendor-booking/internal/domain/availability"
	"vendor-booking/internal/domain/booking"
	"vendor-booking/internal/pkg/civil"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within runs fn in one transaction, retrying transient lock and serialization failures.
	// Nothing fn writes is visible to other callers unless fn returns nil.
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	Availability() AvailabilityRepository
	Bookings() BookingRepository
	Idempotency() IdempotencyRepository
	Notifications() NotificationRepository
}

type AvailabilityRepository interface {
	// LockDay serialises writers of one vendor's day until the transaction ends.
	LockDay(ctx context.Context, vendorID uuid.UUID, date civil.Date) error
	ListDay(ctx context.Context, vendorID uuid.UUID, date civil.Date) ([]availability.Record, error)
	ListRange(ctx context.Context, vendorID uuid.UUID, start, end civil.Date) ([]availability.Record, error)
	Insert(ctx context.Context, rec availability.Record) error
	// Update writes rec if the stored version still equals rec.Version and bumps the version.
	Update(ctx context.Context, rec availability.Record) error
}

type BookingRepository interface {
	Create(ctx context.Context, b *booking.Booking) error
	// Get loads a booking for modification; implementations lock it for the transaction.
	Get(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	Update(ctx context.Context, b *booking.Booking) error
}

type IdempotencyRepository interface {
	// Claim reserves rec.Key for this transaction. When a live record already exists it is
	// returned unchanged and nothing is claimed.
	Claim(ctx context.Context, rec IdempotencyRecord) (*IdempotencyRecord, error)
	Complete(ctx context.Context, key, actorID, bookingID uuid.UUID) error
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error
	// ClaimDue locks up to limit queued jobs whose run time has passed.
	ClaimDue(ctx context.Context, now time.Time, limit int) ([]NotificationJob, error)
	MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error
	// MarkFailed requeues the job at nextRunAt, or parks it as failed when nextRunAt is nil.
	MarkFailed(ctx context.Context, id uuid.UUID, attempts int, lastErr string, nextRunAt *time.Time) error
}
