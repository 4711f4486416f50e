package booking

import (
	"time"

	"vendor-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrNotFound          = errs.New("booking not found")
	ErrInvalidTransition = errs.New("booking status transition not allowed")
	ErrAlreadyReserved   = errs.New("booking already holds a slot reservation")
	ErrMissingReference  = errs.New("booking requires wedding, vendor and creator ids")
)

type Booking struct {
	id            uuid.UUID
	weddingID     uuid.UUID
	vendorID      uuid.UUID
	eventID       *uuid.UUID
	status        Status
	source        Source
	notes         Notes
	estimatedCost Money
	reservation   *SlotRef
	createdBy     uuid.UUID
	cancelReason  string
	createdAt     time.Time
	updatedAt     time.Time
	cancelledAt   *time.Time
}

type NewParams struct {
	WeddingID     uuid.UUID
	VendorID      uuid.UUID
	EventID       *uuid.UUID
	CreatedBy     uuid.UUID
	Notes         string
	EstimatedCost int64
}

// NewPending starts a platform booking; it holds no slot until AttachReservation.
func NewPending(p NewParams, now time.Time) (*Booking, error) {
	return newBooking(p, StatusPending, SourcePlatform, now)
}

// NewOffline records a booking the vendor agreed outside the platform. It is confirmed
// on creation and does not hold a slot.
func NewOffline(p NewParams, now time.Time) (*Booking, error) {
	return newBooking(p, StatusConfirmed, SourceOffline, now)
}

func newBooking(p NewParams, status Status, source Source, now time.Time) (*Booking, error) {
	if p.WeddingID == uuid.Nil || p.VendorID == uuid.Nil || p.CreatedBy == uuid.Nil {
		return nil, ErrMissingReference
	}

	notes, err := NewNotes(p.Notes)
	if err != nil {
		return nil, err
	}

	cost, err := NewMoney(p.EstimatedCost)
	if err != nil {
		return nil, err
	}

	return &Booking{
		id:            uuid.New(),
		weddingID:     p.WeddingID,
		vendorID:      p.VendorID,
		eventID:       p.EventID,
		status:        status,
		source:        source,
		notes:         notes,
		estimatedCost: cost,
		createdBy:     p.CreatedBy,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

type Snapshot struct {
	ID                 uuid.UUID
	WeddingID          uuid.UUID
	VendorID           uuid.UUID
	EventID            *uuid.UUID
	Status             Status
	Source             Source
	Notes              string
	EstimatedCostCents int64
	Reservation        *SlotRef
	CreatedBy          uuid.UUID
	CancelReason       string
	CreatedAt          time.Time
	UpdatedAt          time.Time
	CancelledAt        *time.Time
}

// Reconstruct rebuilds a booking from storage without re-running creation rules.
func Reconstruct(s Snapshot) *Booking {
	return &Booking{
		id:            s.ID,
		weddingID:     s.WeddingID,
		vendorID:      s.VendorID,
		eventID:       s.EventID,
		status:        s.Status,
		source:        s.Source,
		notes:         Notes{value: s.Notes},
		estimatedCost: Money{cents: s.EstimatedCostCents},
		reservation:   s.Reservation,
		createdBy:     s.CreatedBy,
		cancelReason:  s.CancelReason,
		createdAt:     s.CreatedAt,
		updatedAt:     s.UpdatedAt,
		cancelledAt:   s.CancelledAt,
	}
}

func (b *Booking) Snapshot() Snapshot {
	return Snapshot{
		ID:                 b.id,
		WeddingID:          b.weddingID,
		VendorID:           b.vendorID,
		EventID:            b.eventID,
		Status:             b.status,
		Source:             b.source,
		Notes:              b.notes.String(),
		EstimatedCostCents: b.estimatedCost.Cents(),
		Reservation:        b.reservation,
		CreatedBy:          b.createdBy,
		CancelReason:       b.cancelReason,
		CreatedAt:          b.createdAt,
		UpdatedAt:          b.updatedAt,
		CancelledAt:        b.cancelledAt,
	}
}

func (b *Booking) ID() uuid.UUID           { return b.id }
func (b *Booking) WeddingID() uuid.UUID    { return b.weddingID }
func (b *Booking) VendorID() uuid.UUID     { return b.vendorID }
func (b *Booking) EventID() *uuid.UUID     { return b.eventID }
func (b *Booking) Status() Status          { return b.status }
func (b *Booking) Source() Source          { return b.source }
func (b *Booking) Notes() Notes            { return b.notes }
func (b *Booking) EstimatedCost() Money    { return b.estimatedCost }
func (b *Booking) Reservation() *SlotRef   { return b.reservation }
func (b *Booking) CreatedBy() uuid.UUID    { return b.createdBy }
func (b *Booking) CancelReason() string    { return b.cancelReason }
func (b *Booking) CreatedAt() time.Time    { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time    { return b.updatedAt }
func (b *Booking) CancelledAt() *time.Time { return b.cancelledAt }
func (b *Booking) HoldsSlot() bool         { return b.reservation != nil }
func (b *Booking) IsCancelled() bool       { return b.status == StatusCancelled }

func (b *Booking) IsCreatedBy(id uuid.UUID) bool {
	return b.createdBy == id
}

// AttachReservation records the slot this booking now holds.
func (b *Booking) AttachReservation(ref SlotRef, now time.Time) error {
	if b.status == StatusCancelled {
		return ErrInvalidTransition
	}
	if b.reservation != nil {
		return ErrAlreadyReserved
	}
	if _, err := NewSlotRef(ref.Date, ref.Slot); err != nil {
		return err
	}
	r := ref
	b.reservation = &r
	b.updatedAt = now
	return nil
}

// Confirm moves a pending booking to confirmed. Confirming a confirmed booking is a no-op.
func (b *Booking) Confirm(now time.Time) (bool, error) {
	switch b.status {
	case StatusConfirmed:
		return false, nil
	case StatusPending:
		b.status = StatusConfirmed
		b.updatedAt = now
		return true, nil
	default:
		return false, ErrInvalidTransition
	}
}

// Cancel is idempotent: cancelling a cancelled booking reports no change.
func (b *Booking) Cancel(reason string, now time.Time) (bool, error) {
	if b.status == StatusCancelled {
		return false, nil
	}
	if !b.status.IsValid() {
		return false, ErrInvalidTransition
	}
	b.status = StatusCancelled
	b.cancelReason = reason
	cancelledAt := now
	b.cancelledAt = &cancelledAt
	b.updatedAt = now
	return true, nil
}
