//go:build unit

package commands_test

import (
	"context"
	"encoding/json"
	"testing"

	"vendor-booking/internal/domain/actor"
	"vendor-booking/internal/domain/availability"
	"vendor-booking/internal/domain/booking"
	"vendor-booking/internal/domain/slot"
	"vendor-booking/internal/infra/memstore"
	"vendor-booking/internal/pkg/civil"
	"vendor-booking/internal/pkg/errs"
	"vendor-booking/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Cancel
// =============================================================================

func TestCancel_ReleasesSlot(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, memstore.Options{}, commands.Options{})
	vendorID := uuid.New()
	date := civil.MustParse("2025-06-01")

	b, err := e.reservations.Reserve(ctx, reserveParams(vendorID, date, slot.Afternoon), uuid.Nil)
	require.NoError(t, err)
	creator := actor.Actor{ID: b.Booking.CreatedBy(), Role: actor.RoleCouple}

	cancelled, err := e.bookings.Cancel(ctx, b.Booking.ID(), creator, "  venue changed ")
	require.NoError(t, err)
	assert.Equal(t, booking.StatusCancelled, cancelled.Status())
	assert.Equal(t, "venue changed", cancelled.CancelReason())
	assert.Equal(t, availability.StatusAvailable, e.day(t, vendorID, date)[slot.Afternoon].Status)

	again, err := e.reservations.Reserve(ctx, reserveParams(vendorID, date, slot.Afternoon), uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, b.Slot.ID, again.Slot.ID, "the freed row is reused")
	assert.Equal(t, again.Booking.ID(), *e.day(t, vendorID, date)[slot.Afternoon].BookingID)
}

func TestCancel_Idempotent(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, memstore.Options{}, commands.Options{})
	vendorID := uuid.New()

	b, err := e.reservations.Reserve(ctx, reserveParams(vendorID, scenarioDate, slot.FullDay), uuid.Nil)
	require.NoError(t, err)
	admin := actor.Actor{ID: uuid.New(), Role: actor.RoleAdmin}

	_, err = e.bookings.Cancel(ctx, b.Booking.ID(), admin, "")
	require.NoError(t, err)
	jobsAfterFirst := len(e.store.Jobs())

	second, err := e.bookings.Cancel(ctx, b.Booking.ID(), admin, "")
	require.NoError(t, err)
	assert.Equal(t, booking.StatusCancelled, second.Status())
	assert.Len(t, e.store.Jobs(), jobsAfterFirst, "a repeated cancel emits nothing")
}

func TestCancel_DoesNotFreeAnotherBookingsSlot(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, memstore.Options{}, commands.Options{})
	vendorID := uuid.New()
	admin := actor.Actor{ID: uuid.New(), Role: actor.RoleAdmin}

	first, err := e.reservations.Reserve(ctx, reserveParams(vendorID, scenarioDate, slot.Morning), uuid.Nil)
	require.NoError(t, err)
	require.NoError(t, e.availability.Release(ctx, admin, vendorID, scenarioDate, slot.Morning))
	second, err := e.reservations.Reserve(ctx, reserveParams(vendorID, scenarioDate, slot.Morning), uuid.Nil)
	require.NoError(t, err)

	_, err = e.bookings.Cancel(ctx, first.Booking.ID(), admin, "stale")
	require.NoError(t, err)

	rec := e.day(t, vendorID, scenarioDate)[slot.Morning]
	assert.Equal(t, availability.StatusBooked, rec.Status)
	assert.Equal(t, second.Booking.ID(), *rec.BookingID)
}

func TestCancel_OfflineBookingHasNothingToRelease(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, memstore.Options{}, commands.Options{})
	vendorID := uuid.New()
	vendor := actor.Actor{ID: vendorID, Role: actor.RoleVendor}

	offline, err := e.bookings.CreateOffline(ctx, commands.OfflineBookingParams{Actor: vendor, WeddingID: uuid.New(), VendorID: vendorID})
	require.NoError(t, err)
	assert.Equal(t, booking.StatusConfirmed, offline.Status())
	assert.Equal(t, booking.SourceOffline, offline.Source())

	cancelled, err := e.bookings.Cancel(ctx, offline.ID(), vendor, "")
	require.NoError(t, err)
	assert.True(t, cancelled.IsCancelled())
}

func TestCancel_Authorization(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, memstore.Options{}, commands.Options{})
	vendorID := uuid.New()
	b, err := e.reservations.Reserve(ctx, reserveParams(vendorID, scenarioDate, slot.Evening), uuid.Nil)
	require.NoError(t, err)

	testCases := []struct {
		name    string
		act     actor.Actor
		wantErr error
	}{
		{name: "error: unrelated couple", act: actor.Actor{ID: uuid.New(), Role: actor.RoleCouple}, wantErr: errs.ErrForbidden},
		{name: "error: other vendor", act: actor.Actor{ID: uuid.New(), Role: actor.RoleVendor}, wantErr: errs.ErrForbidden},
		{name: "success: booked vendor", act: actor.Actor{ID: vendorID, Role: actor.RoleVendor}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.bookings.Cancel(ctx, b.Booking.ID(), tc.act, "")
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}

	_, err = e.bookings.Cancel(ctx, uuid.New(), actor.Actor{ID: uuid.New(), Role: actor.RoleAdmin}, "")
	assert.True(t, errs.Is(err, booking.ErrNotFound))
}

// =============================================================================
// Confirm
// =============================================================================

func TestConfirm(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, memstore.Options{}, commands.Options{})
	vendorID := uuid.New()
	vendor := actor.Actor{ID: vendorID, Role: actor.RoleVendor}

	b, err := e.reservations.Reserve(ctx, reserveParams(vendorID, scenarioDate, slot.Morning), uuid.Nil)
	require.NoError(t, err)

	_, err = e.bookings.Confirm(ctx, b.Booking.ID(), actor.Actor{ID: b.Booking.CreatedBy(), Role: actor.RoleCouple})
	assert.ErrorIs(t, err, errs.ErrForbidden)

	confirmed, err := e.bookings.Confirm(ctx, b.Booking.ID(), vendor)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusConfirmed, confirmed.Status())

	_, err = e.bookings.Confirm(ctx, b.Booking.ID(), vendor)
	require.NoError(t, err, "confirming twice is a no-op")

	jobs := e.store.Jobs()
	require.Len(t, jobs, 2)
	assert.Equal(t, commands.TopicReservationConfirmed, jobs[0].Topic)
	assert.Equal(t, commands.TopicBookingConfirmed, jobs[1].Topic)

	var ev commands.BookingEvent
	require.NoError(t, json.Unmarshal(jobs[1].Payload, &ev))
	assert.Equal(t, b.Booking.ID(), ev.BookingID)
	assert.Equal(t, "confirmed", ev.Status)
	assert.Equal(t, scenarioDate.String(), ev.Date)

	_, err = e.bookings.Cancel(ctx, b.Booking.ID(), vendor, "")
	require.NoError(t, err)
	assert.Equal(t, availability.StatusAvailable, e.day(t, vendorID, scenarioDate)[slot.Morning].Status,
		"cancelling a confirmed booking frees its slot")

	_, err = e.bookings.Confirm(ctx, b.Booking.ID(), vendor)
	assert.ErrorIs(t, err, booking.ErrInvalidTransition)
}

func TestCreateOffline_Validation(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, memstore.Options{}, commands.Options{})
	vendorID := uuid.New()
	vendor := actor.Actor{ID: vendorID, Role: actor.RoleVendor}

	_, err := e.bookings.CreateOffline(ctx, commands.OfflineBookingParams{Actor: vendor, WeddingID: uuid.New(), VendorID: vendorID, EstimatedCostCents: -5})
	var verr *errs.ValidationError
	require.True(t, errs.As(err, &verr))
	assert.Equal(t, "estimatedCostCents", verr.Field)

	_, err = e.bookings.CreateOffline(ctx, commands.OfflineBookingParams{Actor: actor.Actor{ID: uuid.New(), Role: actor.RoleCouple}, WeddingID: uuid.New(), VendorID: vendorID})
	assert.ErrorIs(t, err, errs.ErrForbidden)
}
