package icalfeed

import (
	"time"

	"vendor-booking/internal/domain/availability"
	"vendor-booking/internal/domain/slot"
	"vendor-booking/internal/pkg/civil"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
)

const productID = "-//vendor-booking//availability feed//EN"

type window struct {
	startHour int
	endHour   int
}

// wall-clock hours each partial slot covers in the vendor's calendar
var partialWindows = map[slot.Slot]window{
	slot.Morning:   {startHour: 8, endHour: 12},
	slot.Afternoon: {startHour: 12, endHour: 17},
	slot.Evening:   {startHour: 17, endHour: 23},
}

// Renderer turns occupied availability records into an iCalendar feed vendors can subscribe to.
type Renderer struct {
	loc *time.Location
}

func NewRenderer(loc *time.Location) *Renderer {
	if loc == nil {
		loc = time.UTC
	}
	return &Renderer{loc: loc}
}

func (r *Renderer) Render(vendorID uuid.UUID, records []availability.Record, stamp time.Time) []byte {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)
	cal.SetXWRCalName("Vendor " + vendorID.String() + " availability")
	cal.SetXWRTimezone(r.loc.String())

	for _, rec := range records {
		if !rec.IsOccupying() {
			continue
		}

		ev := cal.AddEvent(rec.ID.String() + "@vendor-booking")
		ev.SetDtStampTime(stamp)
		ev.SetCreatedTime(rec.CreatedAt)
		ev.SetModifiedAt(rec.UpdatedAt)
		ev.SetStatus(ics.ObjectStatusConfirmed)
		ev.SetSummary(summary(rec))
		if rec.Status == availability.StatusBooked && rec.BookingID != nil {
			ev.SetDescription("Booking " + rec.BookingID.String())
		}

		if w, ok := partialWindows[rec.Slot]; ok {
			ev.SetStartAt(at(rec.Date, w.startHour, r.loc))
			ev.SetEndAt(at(rec.Date, w.endHour, r.loc))
			continue
		}
		ev.SetAllDayStartAt(rec.Date.In(r.loc))
		ev.SetAllDayEndAt(rec.Date.AddDays(1).In(r.loc))
	}

	return []byte(cal.Serialize())
}

func summary(rec availability.Record) string {
	label := "Booked"
	if rec.Status == availability.StatusBlocked {
		label = "Unavailable"
		if rec.Reason != "" {
			label += ": " + rec.Reason
		}
	}
	return label + " (" + rec.Slot.String() + ")"
}

func at(d civil.Date, hour int, loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, hour, 0, 0, 0, loc)
}
