//go:build unit

package icalfeed_test

import (
	"bytes"
	"testing"
	"time"

	"vendor-booking/internal/domain/availability"
	"vendor-booking/internal/domain/slot"
	"vendor-booking/internal/infra/icalfeed"
	"vendor-booking/internal/pkg/civil"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_Render(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	date := civil.MustParse("2025-09-12")
	vendorID := uuid.New()
	bookingID := uuid.New()

	evening := availability.NewRecord(vendorID, date, slot.Evening, now)
	evening.MarkBooked(availability.BookingRef{BookingID: bookingID, WeddingID: uuid.New()}, now)
	blocked := availability.NewRecord(vendorID, date.AddDays(1), slot.FullDay, now)
	blocked.MarkBlocked("holiday", now)
	free := availability.NewRecord(vendorID, date.AddDays(2), slot.Morning, now)

	out := icalfeed.NewRenderer(time.UTC).Render(vendorID, []availability.Record{evening, blocked, free}, now)

	cal, err := ics.ParseCalendar(bytes.NewReader(out))
	require.NoError(t, err)
	events := cal.Events()
	require.Len(t, events, 2, "available records are not exported")

	byUID := map[string]*ics.VEvent{}
	for _, ev := range events {
		byUID[ev.Id()] = ev
	}

	timed := byUID[evening.ID.String()+"@vendor-booking"]
	require.NotNil(t, timed)
	assert.Equal(t, "20250912T170000Z", timed.GetProperty(ics.ComponentPropertyDtStart).Value)
	assert.Equal(t, "20250912T230000Z", timed.GetProperty(ics.ComponentPropertyDtEnd).Value)
	assert.Equal(t, "Booked (evening)", timed.GetProperty(ics.ComponentPropertySummary).Value)
	assert.Equal(t, "Booking "+bookingID.String(), timed.GetProperty(ics.ComponentPropertyDescription).Value)

	allDay := byUID[blocked.ID.String()+"@vendor-booking"]
	require.NotNil(t, allDay)
	assert.Equal(t, "20250913", allDay.GetProperty(ics.ComponentPropertyDtStart).Value)
	assert.Equal(t, "20250914", allDay.GetProperty(ics.ComponentPropertyDtEnd).Value)
	assert.Equal(t, "Unavailable: holiday (full_day)", allDay.GetProperty(ics.ComponentPropertySummary).Value)
}

func TestRenderer_LocalWindows(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	morning := availability.NewRecord(uuid.New(), civil.MustParse("2025-09-12"), slot.Morning, now)
	morning.MarkBlocked("", now)

	cal, err := ics.ParseCalendar(bytes.NewReader(icalfeed.NewRenderer(tokyo).Render(morning.VendorID, []availability.Record{morning}, now)))
	require.NoError(t, err)
	require.Len(t, cal.Events(), 1)
	// 08:00 in Tokyo is 23:00 UTC the day before
	assert.Equal(t, "20250911T230000Z", cal.Events()[0].GetProperty(ics.ComponentPropertyDtStart).Value)
}
