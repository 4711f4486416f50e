package converter

import (
	"time"

	"vendor-booking/internal/domain/booking"
	"vendor-booking/internal/domain/slot"
	"vendor-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const BookingTable = "bookings"

var BookingColumns = []string{
	"id", "wedding_id", "vendor_id", "event_id", "status", "source",
	"notes", "estimated_cost_cents", "reserved_date", "reserved_slot",
	"created_by", "cancel_reason", "created_at", "updated_at", "cancelled_at",
}

type bookingRow struct {
	ID                 uuid.UUID
	WeddingID          uuid.UUID
	VendorID           uuid.UUID
	EventID            pgtype.UUID
	Status             string
	Source             string
	Notes              pgtype.Text
	EstimatedCostCents int64
	ReservedDate       pgtype.Date
	ReservedSlot       pgtype.Text
	CreatedBy          uuid.UUID
	CancelReason       pgtype.Text
	CreatedAt          time.Time
	UpdatedAt          time.Time
	CancelledAt        pgtype.Timestamptz
}

func ScanBooking(s Scanner) (*booking.Booking, error) {
	var row bookingRow
	err := s.Scan(
		&row.ID, &row.WeddingID, &row.VendorID, &row.EventID, &row.Status, &row.Source,
		&row.Notes, &row.EstimatedCostCents, &row.ReservedDate, &row.ReservedSlot,
		&row.CreatedBy, &row.CancelReason, &row.CreatedAt, &row.UpdatedAt, &row.CancelledAt,
	)
	if err != nil {
		return nil, err
	}

	var reservation *booking.SlotRef
	if row.ReservedDate.Valid && row.ReservedSlot.Valid {
		reservation = &booking.SlotRef{
			Date: pgconv.DateFromPgtype(row.ReservedDate),
			Slot: slot.Slot(row.ReservedSlot.String),
		}
	}

	return booking.Reconstruct(booking.Snapshot{
		ID:                 row.ID,
		WeddingID:          row.WeddingID,
		VendorID:           row.VendorID,
		EventID:            pgconv.UUIDPtrFromPgtype(row.EventID),
		Status:             booking.Status(row.Status),
		Source:             booking.Source(row.Source),
		Notes:              pgconv.TextFromPgtype(row.Notes),
		EstimatedCostCents: row.EstimatedCostCents,
		Reservation:        reservation,
		CreatedBy:          row.CreatedBy,
		CancelReason:       pgconv.TextFromPgtype(row.CancelReason),
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
		CancelledAt:        pgconv.TimePtrFromPgtype(row.CancelledAt),
	}), nil
}

// BookingValues lines up with BookingColumns.
func BookingValues(b *booking.Booking) []any {
	s := b.Snapshot()

	reservedDate := pgtype.Date{}
	reservedSlot := pgtype.Text{}
	if s.Reservation != nil {
		reservedDate = pgconv.DateToPgtype(s.Reservation.Date)
		reservedSlot = pgconv.TextToPgtype(s.Reservation.Slot.String())
	}

	return []any{
		s.ID,
		s.WeddingID,
		s.VendorID,
		pgconv.UUIDPtrToPgtype(s.EventID),
		s.Status.String(),
		s.Source.String(),
		pgconv.TextToPgtype(s.Notes),
		s.EstimatedCostCents,
		reservedDate,
		reservedSlot,
		s.CreatedBy,
		pgconv.TextToPgtype(s.CancelReason),
		pgconv.TimeToPgtype(s.CreatedAt),
		pgconv.TimeToPgtype(s.UpdatedAt),
		pgconv.TimePtrToPgtype(s.CancelledAt),
	}
}
