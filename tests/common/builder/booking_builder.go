//go:build unit || e2e

package builder

import (
	"time"

	"vendor-booking/internal/domain/availability"
	"vendor-booking/internal/domain/booking"
	"vendor-booking/internal/domain/slot"
	reqdto "vendor-booking/internal/handler/dto/request"
	"vendor-booking/internal/pkg/civil"
	"vendor-booking/internal/usecase/commands"

	"github.com/google/uuid"
)

type BookingBuilder struct {
	WeddingID          uuid.UUID
	VendorID           uuid.UUID
	EventID            *uuid.UUID
	CreatedBy          uuid.UUID
	Date               civil.Date
	Slot               slot.Slot
	Notes              string
	EstimatedCostCents int64
	Now                time.Time
}

func NewBookingBuilder() *BookingBuilder {
	return &BookingBuilder{
		WeddingID:          uuid.New(),
		VendorID:           uuid.New(),
		CreatedBy:          uuid.New(),
		Date:               civil.MustParse("2025-09-12"),
		Slot:               slot.Morning,
		Notes:              "Ceremony photos at the chapel",
		EstimatedCostCents: 250000,
		Now:                time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) WithVendor(id uuid.UUID) *BookingBuilder {
	b.VendorID = id
	return b
}

func (b *BookingBuilder) WithWedding(id uuid.UUID) *BookingBuilder {
	b.WeddingID = id
	return b
}

func (b *BookingBuilder) WithSlot(date civil.Date, s slot.Slot) *BookingBuilder {
	b.Date = date
	b.Slot = s
	return b
}

func (b *BookingBuilder) WithNotes(notes string) *BookingBuilder {
	b.Notes = notes
	return b
}

func (b *BookingBuilder) WithCost(cents int64) *BookingBuilder {
	b.EstimatedCostCents = cents
	return b
}

func (b *BookingBuilder) params() booking.NewParams {
	return booking.NewParams{
		WeddingID:     b.WeddingID,
		VendorID:      b.VendorID,
		EventID:       b.EventID,
		CreatedBy:     b.CreatedBy,
		Notes:         b.Notes,
		EstimatedCost: b.EstimatedCostCents,
	}
}

// Build methods
func (b *BookingBuilder) BuildPending() (*booking.Booking, error) {
	return booking.NewPending(b.params(), b.Now)
}

func (b *BookingBuilder) BuildReserved() (*booking.Booking, error) {
	bk, err := booking.NewPending(b.params(), b.Now)
	if err != nil {
		return nil, err
	}
	if err := bk.AttachReservation(booking.SlotRef{Date: b.Date, Slot: b.Slot}, b.Now); err != nil {
		return nil, err
	}
	return bk, nil
}

func (b *BookingBuilder) BuildOffline() (*booking.Booking, error) {
	return booking.NewOffline(b.params(), b.Now)
}

func (b *BookingBuilder) BuildBookedRecord(bookingID uuid.UUID) availability.Record {
	rec := availability.NewRecord(b.VendorID, b.Date, b.Slot, b.Now)
	rec.MarkBooked(availability.BookingRef{BookingID: bookingID, WeddingID: b.WeddingID, EventID: b.EventID}, b.Now)
	return rec
}

func (b *BookingBuilder) BuildReserveParams() commands.ReserveParams {
	return commands.ReserveParams{
		ActorID:            b.CreatedBy,
		WeddingID:          b.WeddingID,
		VendorID:           b.VendorID,
		EventID:            b.EventID,
		Date:               b.Date,
		Slot:               b.Slot,
		Notes:              b.Notes,
		EstimatedCostCents: b.EstimatedCostCents,
	}
}

func (b *BookingBuilder) BuildReserveRequestDTO() reqdto.ReserveRequest {
	notes := b.Notes
	cost := b.EstimatedCostCents
	return reqdto.ReserveRequest{
		WeddingID:          b.WeddingID,
		VendorID:           b.VendorID,
		EventID:            b.EventID,
		Date:               b.Date.String(),
		Slot:               string(b.Slot),
		Notes:              &notes,
		EstimatedCostCents: &cost,
	}
}
