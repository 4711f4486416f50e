package request

import (
	"vendor-booking/internal/domain/actor"
	"vendor-booking/internal/usecase/commands"

	"github.com/google/uuid"
)

type BlockRequest struct {
	Date   string `json:"date" binding:"required"`
	Slot   string `json:"slot" binding:"required"`
	Reason string `json:"reason"`
}

func (r BlockRequest) ToParams(act actor.Actor, vendorID uuid.UUID) (commands.BlockParams, error) {
	date, s, err := parseDateSlot(r.Date, r.Slot)
	if err != nil {
		return commands.BlockParams{}, err
	}
	return commands.BlockParams{Actor: act, VendorID: vendorID, Date: date, Slot: s, Reason: r.Reason}, nil
}

// RecurringBlockRequest blocks every date an RFC 5545 RRULE yields within [from, to].
type RecurringBlockRequest struct {
	RRule  string `json:"rrule" binding:"required"`
	From   string `json:"from" binding:"required"`
	To     string `json:"to" binding:"required"`
	Slot   string `json:"slot" binding:"required"`
	Reason string `json:"reason"`
}

func (r RecurringBlockRequest) ToParams(act actor.Actor, vendorID uuid.UUID) (commands.RecurringBlockParams, error) {
	from, err := ParseDate("from", r.From)
	if err != nil {
		return commands.RecurringBlockParams{}, err
	}
	to, err := ParseDate("to", r.To)
	if err != nil {
		return commands.RecurringBlockParams{}, err
	}
	s, err := ParseSlot(r.Slot)
	if err != nil {
		return commands.RecurringBlockParams{}, err
	}
	return commands.RecurringBlockParams{
		Actor:    act,
		VendorID: vendorID,
		RRule:    r.RRule,
		From:     from,
		To:       to,
		Slot:     s,
		Reason:   r.Reason,
	}, nil
}
