package converter

import (
	"time"

	"vendor-booking/internal/domain/availability"
	"vendor-booking/internal/domain/slot"
	"vendor-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// Scanner is satisfied by pgx.Row and pgx.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

const AvailabilityTable = "availability_slots"

var AvailabilityColumns = []string{
	"id", "vendor_id", "slot_date", "time_slot", "status",
	"booking_id", "wedding_id", "event_id", "reason",
	"version", "created_at", "updated_at",
}

type availabilityRow struct {
	ID        uuid.UUID
	VendorID  uuid.UUID
	SlotDate  pgtype.Date
	TimeSlot  string
	Status    string
	BookingID pgtype.UUID
	WeddingID pgtype.UUID
	EventID   pgtype.UUID
	Reason    pgtype.Text
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

func ScanAvailability(s Scanner) (availability.Record, error) {
	var row availabilityRow
	err := s.Scan(
		&row.ID, &row.VendorID, &row.SlotDate, &row.TimeSlot, &row.Status,
		&row.BookingID, &row.WeddingID, &row.EventID, &row.Reason,
		&row.Version, &row.CreatedAt, &row.UpdatedAt,
	)
	if err != nil {
		return availability.Record{}, err
	}

	return availability.Record{
		ID:        row.ID,
		VendorID:  row.VendorID,
		Date:      pgconv.DateFromPgtype(row.SlotDate),
		Slot:      slot.Slot(row.TimeSlot),
		Status:    availability.Status(row.Status),
		BookingID: pgconv.UUIDPtrFromPgtype(row.BookingID),
		WeddingID: pgconv.UUIDPtrFromPgtype(row.WeddingID),
		EventID:   pgconv.UUIDPtrFromPgtype(row.EventID),
		Reason:    pgconv.TextFromPgtype(row.Reason),
		Version:   row.Version,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

// AvailabilityValues lines up with AvailabilityColumns.
func AvailabilityValues(rec availability.Record) []any {
	return []any{
		rec.ID,
		rec.VendorID,
		pgconv.DateToPgtype(rec.Date),
		rec.Slot.String(),
		rec.Status.String(),
		pgconv.UUIDPtrToPgtype(rec.BookingID),
		pgconv.UUIDPtrToPgtype(rec.WeddingID),
		pgconv.UUIDPtrToPgtype(rec.EventID),
		pgconv.TextToPgtype(rec.Reason),
		rec.Version,
		pgconv.TimeToPgtype(rec.CreatedAt),
		pgconv.TimeToPgtype(rec.UpdatedAt),
	}
}
