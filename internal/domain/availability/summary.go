package availability

import (
	"vendor-booking/internal/domain/slot"
	"vendor-booking/internal/pkg/civil"
)

type DayState string

const (
	DayAvailable DayState = "available"
	DayPartial   DayState = "partial"
	DayBooked    DayState = "booked"
)

type DaySummary struct {
	Date     civil.Date
	State    DayState
	Occupied []slot.Slot
	Free     []slot.Slot
}

// Summarize folds a vendor's records for one day into a calendar cell.
// A day is booked when full_day is taken or every partial slot is taken.
func Summarize(date civil.Date, day []Record) DaySummary {
	taken := map[slot.Slot]bool{}
	for _, r := range day {
		if r.Date == date && r.IsOccupying() {
			taken[r.Slot] = true
		}
	}

	summary := DaySummary{Date: date, State: DayAvailable}
	if taken[slot.FullDay] {
		summary.State = DayBooked
		summary.Occupied = []slot.Slot{slot.FullDay}
		return summary
	}

	for _, s := range slot.Partials() {
		if taken[s] {
			summary.Occupied = append(summary.Occupied, s)
		} else {
			summary.Free = append(summary.Free, s)
		}
	}

	switch {
	case len(summary.Occupied) == len(slot.Partials()):
		summary.State = DayBooked
	case len(summary.Occupied) > 0:
		summary.State = DayPartial
	default:
		summary.Free = append(summary.Free, slot.FullDay)
	}
	return summary
}

// SummarizeRange produces one summary per day in [start, end].
func SummarizeRange(start, end civil.Date, records []Record) []DaySummary {
	byDate := map[civil.Date][]Record{}
	for _, r := range records {
		byDate[r.Date] = append(byDate[r.Date], r)
	}

	var out []DaySummary
	for d := start; !d.After(end); d = d.AddDays(1) {
		out = append(out, Summarize(d, byDate[d]))
	}
	return out
}
