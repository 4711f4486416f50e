package response

import (
	"time"

	"vendor-booking/internal/domain/availability"
	"vendor-booking/internal/domain/slot"
	"vendor-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type AvailabilityResponse struct {
	ID        uuid.UUID  `json:"id"`
	VendorID  uuid.UUID  `json:"vendorId"`
	Date      string     `json:"date"`
	Slot      string     `json:"slot"`
	Status    string     `json:"status"`
	BookingID *uuid.UUID `json:"bookingId,omitempty"`
	WeddingID *uuid.UUID `json:"weddingId,omitempty"`
	EventID   *uuid.UUID `json:"eventId,omitempty"`
	Reason    string     `json:"reason,omitempty"`
	Version   int64      `json:"version"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type DaySummaryResponse struct {
	Date     string   `json:"date"`
	State    string   `json:"state"`
	Occupied []string `json:"occupied"`
	Free     []string `json:"free"`
}

type ConflictCheckResponse struct {
	VendorID    uuid.UUID               `json:"vendorId"`
	Date        string                  `json:"date"`
	Slot        string                  `json:"slot"`
	HasConflict bool                    `json:"hasConflict"`
	Blocking    []*AvailabilityResponse `json:"blocking"`
	// Advisory is always true: the answer may be stale by the time a reservation is made.
	Advisory bool `json:"advisory"`
}

func FromRecord(r availability.Record) *AvailabilityResponse {
	out := &AvailabilityResponse{}
	copyInto(out, &r)
	return out
}

func FromRecords(rs []availability.Record) []*AvailabilityResponse {
	out := make([]*AvailabilityResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, FromRecord(r))
	}
	return out
}

func FromDaySummaries(ds []availability.DaySummary) []DaySummaryResponse {
	out := make([]DaySummaryResponse, 0, len(ds))
	for _, d := range ds {
		out = append(out, DaySummaryResponse{
			Date:     d.Date.String(),
			State:    string(d.State),
			Occupied: slotNames(d.Occupied),
			Free:     slotNames(d.Free),
		})
	}
	return out
}

func FromConflictCheck(v *queries.ConflictCheckView) *ConflictCheckResponse {
	return &ConflictCheckResponse{
		VendorID:    v.VendorID,
		Date:        v.Date.String(),
		Slot:        v.Slot.String(),
		HasConflict: v.HasConflict,
		Blocking:    FromRecords(v.Blocking),
		Advisory:    v.Advisory,
	}
}

func slotNames(ss []slot.Slot) []string {
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		out = append(out, s.String())
	}
	return out
}
