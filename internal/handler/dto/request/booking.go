package request

import (
	"vendor-booking/internal/domain/actor"
	"vendor-booking/internal/domain/slot"
	"vendor-booking/internal/pkg/civil"
	"vendor-booking/internal/pkg/errs"
	"vendor-booking/internal/pkg/patch"
	"vendor-booking/internal/usecase/commands"

	"github.com/google/uuid"
)

type ReserveRequest struct {
	WeddingID          uuid.UUID  `json:"wedding_id" binding:"required"`
	VendorID           uuid.UUID  `json:"vendor_id" binding:"required"`
	EventID            *uuid.UUID `json:"event_id,omitempty"`
	Date               string     `json:"date" binding:"required"`
	Slot               string     `json:"slot" binding:"required"`
	Notes              *string    `json:"notes,omitempty"`
	EstimatedCostCents *int64     `json:"estimated_cost_cents,omitempty"`
}

func (r ReserveRequest) ToParams(actorID uuid.UUID) (commands.ReserveParams, error) {
	date, s, err := parseDateSlot(r.Date, r.Slot)
	if err != nil {
		return commands.ReserveParams{}, err
	}
	return commands.ReserveParams{
		ActorID:            actorID,
		WeddingID:          r.WeddingID,
		VendorID:           r.VendorID,
		EventID:            r.EventID,
		Date:               date,
		Slot:               s,
		Notes:              patch.Coalesce(r.Notes, ""),
		EstimatedCostCents: patch.Coalesce(r.EstimatedCostCents, 0),
	}, nil
}

type OfflineBookingRequest struct {
	WeddingID          uuid.UUID  `json:"wedding_id" binding:"required"`
	VendorID           uuid.UUID  `json:"vendor_id" binding:"required"`
	EventID            *uuid.UUID `json:"event_id,omitempty"`
	Notes              *string    `json:"notes,omitempty"`
	EstimatedCostCents *int64     `json:"estimated_cost_cents,omitempty"`
}

func (r OfflineBookingRequest) ToParams(act actor.Actor) commands.OfflineBookingParams {
	return commands.OfflineBookingParams{
		Actor:              act,
		WeddingID:          r.WeddingID,
		VendorID:           r.VendorID,
		EventID:            r.EventID,
		Notes:              patch.Coalesce(r.Notes, ""),
		EstimatedCostCents: patch.Coalesce(r.EstimatedCostCents, 0),
	}
}

// AttachSlotRequest books a slot for a booking that holds none yet.
type AttachSlotRequest struct {
	Date string `json:"date" binding:"required"`
	Slot string `json:"slot" binding:"required"`
}

func (r AttachSlotRequest) ToParams(act actor.Actor, bookingID uuid.UUID) (commands.ReserveForBookingParams, error) {
	date, s, err := parseDateSlot(r.Date, r.Slot)
	if err != nil {
		return commands.ReserveForBookingParams{}, err
	}
	return commands.ReserveForBookingParams{Actor: act, BookingID: bookingID, Date: date, Slot: s}, nil
}

type CancelBookingRequest struct {
	Reason string `json:"reason"`
}

func parseDateSlot(rawDate, rawSlot string) (civil.Date, slot.Slot, error) {
	date, err := ParseDate("date", rawDate)
	if err != nil {
		return civil.Date{}, "", err
	}
	s, err := ParseSlot(rawSlot)
	if err != nil {
		return civil.Date{}, "", err
	}
	return date, s, nil
}

// ParseDate reads a YYYY-MM-DD value, reporting failures against field.
func ParseDate(field, raw string) (civil.Date, error) {
	d, err := civil.Parse(raw)
	if err != nil {
		return civil.Date{}, errs.Validation(field, "must be a YYYY-MM-DD date")
	}
	return d, nil
}

func ParseSlot(raw string) (slot.Slot, error) {
	s, err := slot.Parse(raw)
	if err != nil {
		return "", errs.Validation("slot", err.Error())
	}
	return s, nil
}
