package booking

import (
	"errors"
	"strings"
	"unicode/utf8"

	"vendor-booking/internal/domain/slot"
	"vendor-booking/internal/pkg/civil"
)

const MaxNotesLength = 2000

var (
	ErrNegativeCost = errors.New("estimated cost cannot be negative")
	ErrNotesTooLong = errors.New("notes exceed maximum length")
	ErrInvalidSlot  = errors.New("reservation slot is invalid")
	ErrMissingDate  = errors.New("reservation date is required")
)

type Money struct {
	cents int64
}

func NewMoney(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, ErrNegativeCost
	}
	return Money{cents: cents}, nil
}

func (m Money) Cents() int64 {
	return m.cents
}

func (m Money) IsZero() bool {
	return m.cents == 0
}

type Notes struct {
	value string
}

func NewNotes(value string) (Notes, error) {
	trimmed := strings.TrimSpace(value)
	if utf8.RuneCountInString(trimmed) > MaxNotesLength {
		return Notes{}, ErrNotesTooLong
	}
	return Notes{value: trimmed}, nil
}

func (n Notes) String() string {
	return n.value
}

func (n Notes) IsEmpty() bool {
	return n.value == ""
}

// SlotRef is the (date, slot) a booking holds on its vendor's calendar.
type SlotRef struct {
	Date civil.Date
	Slot slot.Slot
}

func NewSlotRef(date civil.Date, s slot.Slot) (SlotRef, error) {
	if date.IsZero() {
		return SlotRef{}, ErrMissingDate
	}
	if !s.IsValid() {
		return SlotRef{}, ErrInvalidSlot
	}
	return SlotRef{Date: date, Slot: s}, nil
}
