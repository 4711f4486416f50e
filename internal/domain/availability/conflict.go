package availability

import (
	"fmt"
	"sort"
	"strings"

	"vendor-booking/internal/domain/slot"
	"vendor-booking/internal/pkg/civil"
	"vendor-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrSlotConflict = errs.New("requested slot conflicts with an existing booking or block")

// ConflictError lists the records that prevent a slot from being taken.
type ConflictError struct {
	VendorID  uuid.UUID
	Date      civil.Date
	Requested slot.Slot
	Blocking  []Record
}

func (e *ConflictError) Error() string {
	parts := make([]string, 0, len(e.Blocking))
	for _, r := range e.Blocking {
		parts = append(parts, fmt.Sprintf("%s %s", r.Status, r.Slot))
	}
	if len(parts) == 0 {
		return fmt.Sprintf("slot %s on %s is unavailable", e.Requested, e.Date)
	}
	return fmt.Sprintf("slot %s on %s conflicts with %s", e.Requested, e.Date, strings.Join(parts, ", "))
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrSlotConflict
}

// Blocking returns the occupying records in day that exclude requested, in canonical slot order.
// day must hold records of a single vendor and date.
func Blocking(policy *slot.Policy, vendorID uuid.UUID, day []Record, requested slot.Slot) []Record {
	var out []Record
	for _, r := range day {
		if !r.IsOccupying() {
			continue
		}
		if policy.ConflictsWith(vendorID, r.Slot, requested) {
			out = append(out, r)
		}
	}
	SortBySlot(out)
	return out
}

// CheckConflict returns a *ConflictError when requested cannot be taken on the given day.
func CheckConflict(policy *slot.Policy, vendorID uuid.UUID, date civil.Date, day []Record, requested slot.Slot) error {
	blocking := Blocking(policy, vendorID, day, requested)
	if len(blocking) == 0 {
		return nil
	}
	return &ConflictError{
		VendorID:  vendorID,
		Date:      date,
		Requested: requested,
		Blocking:  blocking,
	}
}

// SortBySlot orders records by date, then canonical slot order.
func SortBySlot(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		if c := records[i].Date.Compare(records[j].Date); c != 0 {
			return c < 0
		}
		return records[i].Slot.Order() < records[j].Slot.Order()
	})
}
