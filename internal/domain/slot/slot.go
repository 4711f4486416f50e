package slot

import (
	"fmt"
	"strings"
)

// Slot is a named portion of a vendor's calendar day.
type Slot string

const (
	Morning   Slot = "morning"
	Afternoon Slot = "afternoon"
	Evening   Slot = "evening"
	FullDay   Slot = "full_day"
)

var all = []Slot{Morning, Afternoon, Evening, FullDay}

// All returns the vocabulary in canonical order.
func All() []Slot {
	out := make([]Slot, len(all))
	copy(out, all)
	return out
}

// Partials returns the slots that cover only part of the day.
func Partials() []Slot {
	return []Slot{Morning, Afternoon, Evening}
}

func Parse(s string) (Slot, error) {
	candidate := Slot(strings.TrimSpace(s))
	if !candidate.IsValid() {
		return "", fmt.Errorf("unknown time slot %q", s)
	}
	return candidate, nil
}

func (s Slot) IsValid() bool {
	switch s {
	case Morning, Afternoon, Evening, FullDay:
		return true
	}
	return false
}

func (s Slot) IsPartial() bool {
	return s == Morning || s == Afternoon || s == Evening
}

func (s Slot) String() string {
	return string(s)
}

// Order is the canonical sort position; unknown slots sort last.
func (s Slot) Order() int {
	for i, v := range all {
		if v == s {
			return i
		}
	}
	return len(all)
}

// ConflictsWith is the default exclusion relation. It is reflexive and symmetric:
// full_day excludes everything, a partial slot excludes itself and full_day.
func (s Slot) ConflictsWith(other Slot) bool {
	if !s.IsValid() || !other.IsValid() {
		return false
	}
	if s == other {
		return true
	}
	return s == FullDay || other == FullDay
}

// ConflictSet returns every slot that s excludes, in canonical order.
func (s Slot) ConflictSet() []Slot {
	var out []Slot
	for _, v := range all {
		if s.ConflictsWith(v) {
			out = append(out, v)
		}
	}
	return out
}
