package availability

import (
	"fmt"
	"time"

	"vendor-booking/internal/domain/slot"
	"vendor-booking/internal/pkg/civil"
	"vendor-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

type Status string

const (
	StatusAvailable Status = "available"
	StatusBooked    Status = "booked"
	StatusBlocked   Status = "blocked"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusAvailable, StatusBooked, StatusBlocked:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// BookingRef ties a booked slot to the booking that holds it.
type BookingRef struct {
	BookingID uuid.UUID
	WeddingID uuid.UUID
	EventID   *uuid.UUID
}

// Record is one (vendor, date, slot) row. Booked records always carry a booking
// reference; available and blocked records never do.
type Record struct {
	ID        uuid.UUID
	VendorID  uuid.UUID
	Date      civil.Date
	Slot      slot.Slot
	Status    Status
	BookingID *uuid.UUID
	WeddingID *uuid.UUID
	EventID   *uuid.UUID
	Reason    string
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewRecord(vendorID uuid.UUID, date civil.Date, s slot.Slot, now time.Time) Record {
	return Record{
		ID:        uuid.New(),
		VendorID:  vendorID,
		Date:      date,
		Slot:      s,
		Status:    StatusAvailable,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsOccupying reports whether the record takes part in conflict checks.
func (r Record) IsOccupying() bool {
	return r.Status == StatusBooked || r.Status == StatusBlocked
}

func (r Record) OwnedBy(bookingID uuid.UUID) bool {
	return r.Status == StatusBooked && r.BookingID != nil && *r.BookingID == bookingID
}

func (r *Record) MarkBooked(ref BookingRef, now time.Time) {
	bookingID := ref.BookingID
	weddingID := ref.WeddingID
	r.Status = StatusBooked
	r.BookingID = &bookingID
	r.WeddingID = &weddingID
	r.EventID = ref.EventID
	r.Reason = ""
	r.UpdatedAt = now
}

func (r *Record) MarkBlocked(reason string, now time.Time) {
	r.Status = StatusBlocked
	r.BookingID = nil
	r.WeddingID = nil
	r.EventID = nil
	r.Reason = reason
	r.UpdatedAt = now
}

func (r *Record) MarkAvailable(now time.Time) {
	r.Status = StatusAvailable
	r.BookingID = nil
	r.WeddingID = nil
	r.EventID = nil
	r.Reason = ""
	r.UpdatedAt = now
}

// DefaultMaxRangeDays bounds calendar range reads.
const DefaultMaxRangeDays = 366

// ValidateRange checks an inclusive [start, end] window; maxDays <= 0 disables the length check.
func ValidateRange(start, end civil.Date, maxDays int) error {
	if start.IsZero() {
		return errs.Validation("start", "is required")
	}
	if end.IsZero() {
		return errs.Validation("end", "is required")
	}
	if end.Before(start) {
		return errs.Validation("end", "must not be before start")
	}
	if maxDays > 0 && civil.DaysBetween(start, end)+1 > maxDays {
		return errs.Validation("end", fmt.Sprintf("range must not exceed %d days", maxDays))
	}
	return nil
}
