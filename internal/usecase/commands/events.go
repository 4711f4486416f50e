package commands

import (
	"context"
	"encoding/json"
	"time"

	"vendor-booking/internal/domain/booking"
	"vendor-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

const jobKindBookingEvent = "booking_event"

// Topics published to notification collaborators through the outbox.
const (
	TopicReservationConfirmed = "reservation.confirmed"
	TopicBookingConfirmed     = "booking.confirmed"
	TopicBookingCancelled     = "booking.cancelled"
	TopicBookingRecorded      = "booking.recorded"
)

type BookingEvent struct {
	Type       string     `json:"type"`
	BookingID  uuid.UUID  `json:"booking_id"`
	WeddingID  uuid.UUID  `json:"wedding_id"`
	VendorID   uuid.UUID  `json:"vendor_id"`
	EventID    *uuid.UUID `json:"event_id,omitempty"`
	Status     string     `json:"status"`
	Date       string     `json:"date,omitempty"`
	Slot       string     `json:"slot,omitempty"`
	Reason     string     `json:"reason,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
}

func newBookingEvent(topic string, b *booking.Booking, now time.Time) BookingEvent {
	ev := BookingEvent{
		Type:       topic,
		BookingID:  b.ID(),
		WeddingID:  b.WeddingID(),
		VendorID:   b.VendorID(),
		EventID:    b.EventID(),
		Status:     b.Status().String(),
		Reason:     b.CancelReason(),
		OccurredAt: now,
	}
	if ref := b.Reservation(); ref != nil {
		ev.Date = ref.Date.String()
		ev.Slot = ref.Slot.String()
	}
	return ev
}

func enqueueBookingEvent(ctx context.Context, tx shared.Tx, topic string, b *booking.Booking, now time.Time) error {
	payload, err := json.Marshal(newBookingEvent(topic, b, now))
	if err != nil {
		return err
	}
	return tx.Notifications().CreateJob(ctx, jobKindBookingEvent, topic, payload, now)
}
