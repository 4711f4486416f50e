package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"vendor-booking/internal/domain/actor"
	"vendor-booking/internal/domain/availability"
	"vendor-booking/internal/domain/booking"
	"vendor-booking/internal/domain/slot"
	"vendor-booking/internal/pkg/civil"
	"vendor-booking/internal/pkg/clock"
	"vendor-booking/internal/pkg/errs"
	"vendor-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

const endpointReserve = "POST /api/bookings"

type Options struct {
	Policy         *slot.Policy
	Timeout        time.Duration
	IdempotencyTTL time.Duration
	MaxRangeDays   int
}

func DefaultOptions() Options {
	return Options{
		Policy:         slot.DefaultPolicy(),
		Timeout:        5 * time.Second,
		IdempotencyTTL: 24 * time.Hour,
		MaxRangeDays:   availability.DefaultMaxRangeDays,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Policy == nil {
		o.Policy = d.Policy
	}
	if o.Timeout <= 0 {
		o.Timeout = d.Timeout
	}
	if o.IdempotencyTTL <= 0 {
		o.IdempotencyTTL = d.IdempotencyTTL
	}
	if o.MaxRangeDays <= 0 {
		o.MaxRangeDays = d.MaxRangeDays
	}
	return o
}

type ReserveParams struct {
	ActorID            uuid.UUID  `json:"actor_id"`
	WeddingID          uuid.UUID  `json:"wedding_id"`
	VendorID           uuid.UUID  `json:"vendor_id"`
	EventID            *uuid.UUID `json:"event_id,omitempty"`
	Date               civil.Date `json:"date"`
	Slot               slot.Slot  `json:"slot"`
	Notes              string     `json:"notes"`
	EstimatedCostCents int64      `json:"estimated_cost_cents"`
}

func (p ReserveParams) validate() error {
	switch {
	case p.ActorID == uuid.Nil:
		return errs.Validation("actor", "is required")
	case p.WeddingID == uuid.Nil:
		return errs.Validation("weddingId", "is required")
	case p.VendorID == uuid.Nil:
		return errs.Validation("vendorId", "is required")
	case p.Date.IsZero():
		return errs.Validation("date", "is required")
	case !p.Slot.IsValid():
		return errs.Validation("slot", "unknown time slot \""+string(p.Slot)+"\"")
	}
	if _, err := booking.NewMoney(p.EstimatedCostCents); err != nil {
		return errs.Validation("estimatedCostCents", "must not be negative")
	}
	if _, err := booking.NewNotes(p.Notes); err != nil {
		return errs.Validation("notes", fmt.Sprintf("must be at most %d characters", booking.MaxNotesLength))
	}
	return nil
}

type ReserveForBookingParams struct {
	Actor     actor.Actor
	BookingID uuid.UUID
	Date      civil.Date
	Slot      slot.Slot
}

type ReserveResult struct {
	Booking  *booking.Booking
	Slot     availability.Record
	Replayed bool
}

type ReservationCommands interface {
	// Reserve creates a pending booking and books its slot in one transaction. A nil
	// idempotencyKey disables replay protection.
	Reserve(ctx context.Context, p ReserveParams, idempotencyKey uuid.UUID) (*ReserveResult, error)
	// ReserveForBooking books a slot for an existing booking that holds none yet.
	ReserveForBooking(ctx context.Context, p ReserveForBookingParams) (*ReserveResult, error)
}

type reservationCommandsImpl struct {
	uow    shared.UnitOfWork
	opts   Options
	clock  clock.Clock
	logger *slog.Logger
}

func NewReservationCommands(uow shared.UnitOfWork, opts Options, clk clock.Clock, logger *slog.Logger) ReservationCommands {
	if logger == nil {
		logger = slog.Default()
	}
	return &reservationCommandsImpl{uow: uow, opts: opts.withDefaults(), clock: clk, logger: logger}
}

func (uc *reservationCommandsImpl) store(tx shared.Tx) *shared.AvailabilityStore {
	return shared.NewAvailabilityStore(tx.Availability(), uc.opts.Policy, uc.clock)
}

func (uc *reservationCommandsImpl) Reserve(ctx context.Context, p ReserveParams, idempotencyKey uuid.UUID) (*ReserveResult, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	requestHash, err := hashRequest(p)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, uc.opts.Timeout)
	defer cancel()

	var result *ReserveResult
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		result = nil
		now := uc.clock.Now()

		if idempotencyKey != uuid.Nil {
			existing, cerr := tx.Idempotency().Claim(ctx, shared.IdempotencyRecord{
				Key:         idempotencyKey,
				ActorID:     p.ActorID,
				Endpoint:    endpointReserve,
				RequestHash: requestHash,
				ExpiresAt:   now.Add(uc.opts.IdempotencyTTL),
				CreatedAt:   now,
			})
			if cerr != nil {
				return cerr
			}
			if existing != nil {
				replayed, rerr := uc.replay(ctx, tx, existing, requestHash)
				if rerr != nil {
					return rerr
				}
				result = replayed
				return nil
			}
		}

		b, derr := booking.NewPending(booking.NewParams{
			WeddingID:     p.WeddingID,
			VendorID:      p.VendorID,
			EventID:       p.EventID,
			CreatedBy:     p.ActorID,
			Notes:         p.Notes,
			EstimatedCost: p.EstimatedCostCents,
		}, now)
		if derr != nil {
			return derr
		}
		if derr = b.AttachReservation(booking.SlotRef{Date: p.Date, Slot: p.Slot}, now); derr != nil {
			return derr
		}

		rec, werr := uc.store(tx).UpsertBooked(ctx, p.VendorID, p.Date, p.Slot, availability.BookingRef{
			BookingID: b.ID(),
			WeddingID: p.WeddingID,
			EventID:   p.EventID,
		})
		if werr != nil {
			return werr
		}
		if werr = tx.Bookings().Create(ctx, b); werr != nil {
			return werr
		}
		if werr = enqueueBookingEvent(ctx, tx, TopicReservationConfirmed, b, now); werr != nil {
			return werr
		}
		if idempotencyKey != uuid.Nil {
			if werr = tx.Idempotency().Complete(ctx, idempotencyKey, p.ActorID, b.ID()); werr != nil {
				return werr
			}
		}

		result = &ReserveResult{Booking: b, Slot: rec}
		return nil
	})
	if err != nil {
		return nil, uc.fail("reserve", p.VendorID, p.Date, p.Slot, err)
	}

	if !result.Replayed {
		uc.logger.Info("slot reserved",
			"booking_id", result.Booking.ID(),
			"vendor_id", p.VendorID,
			"date", p.Date.String(),
			"slot", p.Slot.String())
	}
	return result, nil
}

func (uc *reservationCommandsImpl) replay(ctx context.Context, tx shared.Tx, existing *shared.IdempotencyRecord, requestHash string) (*ReserveResult, error) {
	if existing.RequestHash != requestHash {
		return nil, errs.ErrIdempotencyKeyReused
	}
	if existing.Status != shared.IdempotencyStatusCompleted || existing.ResultBookingID == nil {
		return nil, ErrIdempotencyInProgress
	}

	b, err := tx.Bookings().Get(ctx, *existing.ResultBookingID)
	if err != nil {
		return nil, err
	}

	result := &ReserveResult{Booking: b, Replayed: true}
	if ref := b.Reservation(); ref != nil {
		day, err := tx.Availability().ListDay(ctx, b.VendorID(), ref.Date)
		if err != nil {
			return nil, err
		}
		for _, rec := range day {
			if rec.Slot == ref.Slot && rec.OwnedBy(b.ID()) {
				result.Slot = rec
				break
			}
		}
	}
	return result, nil
}

func (uc *reservationCommandsImpl) ReserveForBooking(ctx context.Context, p ReserveForBookingParams) (*ReserveResult, error) {
	if p.BookingID == uuid.Nil {
		return nil, errs.Validation("bookingId", "is required")
	}
	if p.Date.IsZero() {
		return nil, errs.Validation("date", "is required")
	}
	if !p.Slot.IsValid() {
		return nil, errs.Validation("slot", "unknown time slot \""+string(p.Slot)+"\"")
	}

	ctx, cancel := context.WithTimeout(ctx, uc.opts.Timeout)
	defer cancel()

	var result *ReserveResult
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		result = nil
		now := uc.clock.Now()

		b, err := tx.Bookings().Get(ctx, p.BookingID)
		if err != nil {
			return err
		}
		if !p.Actor.IsAdmin() && !b.IsCreatedBy(p.Actor.ID) {
			return errs.ErrForbidden
		}

		ref := booking.SlotRef{Date: p.Date, Slot: p.Slot}
		if current := b.Reservation(); current != nil && *current == ref && !b.IsCancelled() {
			// same slot requested again: report what the booking already holds
			rec, err := uc.store(tx).UpsertBooked(ctx, b.VendorID(), p.Date, p.Slot, refOf(b))
			if err != nil {
				return err
			}
			result = &ReserveResult{Booking: b, Slot: rec, Replayed: true}
			return nil
		}
		if err = b.AttachReservation(ref, now); err != nil {
			return err
		}

		rec, err := uc.store(tx).UpsertBooked(ctx, b.VendorID(), p.Date, p.Slot, refOf(b))
		if err != nil {
			return err
		}
		if err = tx.Bookings().Update(ctx, b); err != nil {
			return err
		}
		if err = enqueueBookingEvent(ctx, tx, TopicReservationConfirmed, b, now); err != nil {
			return err
		}
		result = &ReserveResult{Booking: b, Slot: rec}
		return nil
	})
	if err != nil {
		return nil, uc.fail("reserve for booking", uuid.Nil, p.Date, p.Slot, err)
	}
	return result, nil
}

func (uc *reservationCommandsImpl) fail(op string, vendorID uuid.UUID, date civil.Date, s slot.Slot, err error) error {
	err = translate(err)
	if errs.Is(err, ErrReservationBusy) {
		uc.logger.Warn(op+" gave up under contention",
			"vendor_id", vendorID,
			"date", date.String(),
			"slot", s.String(),
			"error", err.Error())
	}
	return err
}

func refOf(b *booking.Booking) availability.BookingRef {
	return availability.BookingRef{BookingID: b.ID(), WeddingID: b.WeddingID(), EventID: b.EventID()}
}

func hashRequest(p ReserveParams) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
