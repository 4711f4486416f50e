package response

import (
	"time"

	"vendor-booking/internal/domain/booking"
	"vendor-booking/internal/usecase/commands"

	"github.com/google/uuid"
)

type SlotRefResponse struct {
	Date string `json:"date"`
	Slot string `json:"slot"`
}

type BookingResponse struct {
	ID                 uuid.UUID        `json:"id"`
	WeddingID          uuid.UUID        `json:"weddingId"`
	VendorID           uuid.UUID        `json:"vendorId"`
	EventID            *uuid.UUID       `json:"eventId,omitempty"`
	Status             string           `json:"status"`
	Source             string           `json:"source"`
	Notes              string           `json:"notes,omitempty"`
	EstimatedCostCents int64            `json:"estimatedCostCents"`
	Held               *SlotRefResponse `json:"reservation,omitempty"`
	CreatedBy          uuid.UUID        `json:"createdBy"`
	CancelReason       string           `json:"cancelReason,omitempty"`
	CreatedAt          time.Time        `json:"createdAt"`
	UpdatedAt          time.Time        `json:"updatedAt"`
	CancelledAt        *time.Time       `json:"cancelledAt,omitempty"`
}

type ReservationResponse struct {
	Booking  *BookingResponse      `json:"booking"`
	Slot     *AvailabilityResponse `json:"slot,omitempty"`
	Replayed bool                  `json:"replayed"`
}

func FromBooking(b *booking.Booking) *BookingResponse {
	snap := b.Snapshot()
	out := &BookingResponse{}
	copyInto(out, &snap)
	if snap.Reservation != nil {
		out.Held = &SlotRefResponse{
			Date: snap.Reservation.Date.String(),
			Slot: snap.Reservation.Slot.String(),
		}
	}
	return out
}

func FromBookings(bs []*booking.Booking) []*BookingResponse {
	out := make([]*BookingResponse, 0, len(bs))
	for _, b := range bs {
		out = append(out, FromBooking(b))
	}
	return out
}

func FromReserveResult(r *commands.ReserveResult) *ReservationResponse {
	out := &ReservationResponse{
		Booking:  FromBooking(r.Booking),
		Replayed: r.Replayed,
	}
	if r.Slot.ID != uuid.Nil {
		out.Slot = FromRecord(r.Slot)
	}
	return out
}
