//go:build unit

package queries_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"vendor-booking/internal/domain/actor"
	"vendor-booking/internal/domain/availability"
	"vendor-booking/internal/domain/booking"
	"vendor-booking/internal/domain/slot"
	"vendor-booking/internal/infra/memstore"
	"vendor-booking/internal/pkg/civil"
	"vendor-booking/internal/pkg/clock"
	"vendor-booking/internal/pkg/errs"
	"vendor-booking/internal/usecase/commands"
	"vendor-booking/internal/usecase/queries"
	"vendor-booking/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testDate = civil.MustParse("2025-09-12")
	testNow  = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
)

type fixture struct {
	store        *memstore.Store
	reservations commands.ReservationCommands
	blocks       commands.AvailabilityCommands
	availability queries.AvailabilityQueries
	bookings     queries.BookingQueries
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clk := clock.NewMockClock(testNow)
	store := memstore.New(memstore.Options{Clock: clk})
	return &fixture{
		store:        store,
		reservations: commands.NewReservationCommands(store, commands.Options{}, clk, nil),
		blocks:       commands.NewAvailabilityCommands(store, commands.Options{}, clk, nil),
		availability: queries.NewAvailabilityQueries(store, nil, 31),
		bookings:     queries.NewBookingQueries(store),
	}
}

func (f *fixture) reserve(t *testing.T, vendorID uuid.UUID, date civil.Date, s slot.Slot) *commands.ReserveResult {
	t.Helper()
	p := builder.NewBookingBuilder().WithVendor(vendorID).WithSlot(date, s).BuildReserveParams()
	res, err := f.reservations.Reserve(context.Background(), p, uuid.Nil)
	require.NoError(t, err)
	return res
}

// =============================================================================
// AvailabilityQueries
// =============================================================================

func TestAvailabilityQueries_ListByVendorAndRange(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	vendorID := uuid.New()
	f.reserve(t, vendorID, testDate.AddDays(1), slot.Morning)
	f.reserve(t, vendorID, testDate, slot.Evening)
	f.reserve(t, vendorID, testDate, slot.Morning)
	f.reserve(t, uuid.New(), testDate, slot.FullDay)

	records, err := f.availability.ListByVendorAndRange(ctx, vendorID, testDate, testDate.AddDays(1))
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, slot.Morning, records[0].Slot)
	assert.Equal(t, slot.Evening, records[1].Slot)
	assert.Equal(t, testDate.AddDays(1), records[2].Date)

	testCases := []struct {
		name      string
		vendorID  uuid.UUID
		start     civil.Date
		end       civil.Date
		wantField string
	}{
		{name: "error: missing vendor", vendorID: uuid.Nil, start: testDate, end: testDate, wantField: "vendorId"},
		{name: "error: inverted range", vendorID: vendorID, start: testDate, end: testDate.AddDays(-1), wantField: "end"},
		{name: "error: range too long", vendorID: vendorID, start: testDate, end: testDate.AddDays(31), wantField: "end"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.availability.ListByVendorAndRange(ctx, tc.vendorID, tc.start, tc.end)
			var verr *errs.ValidationError
			require.True(t, errs.As(err, &verr), "expected validation error, got %v", err)
			assert.Equal(t, tc.wantField, verr.Field)
		})
	}
}

func TestAvailabilityQueries_CheckConflict(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	vendorID := uuid.New()
	morning := f.reserve(t, vendorID, testDate, slot.Morning)

	view, err := f.availability.CheckConflict(ctx, vendorID, testDate, slot.FullDay)
	require.NoError(t, err)
	assert.True(t, view.Advisory)
	assert.True(t, view.HasConflict)
	require.Len(t, view.Blocking, 1)
	assert.Equal(t, morning.Booking.ID(), *view.Blocking[0].BookingID)

	view, err = f.availability.CheckConflict(ctx, vendorID, testDate, slot.Evening)
	require.NoError(t, err)
	assert.False(t, view.HasConflict)
	assert.Empty(t, view.Blocking)

	// the hint never reserves anything; a reservation can still lose after a clean check
	f.reserve(t, vendorID, testDate, slot.Evening)
	_, err = f.reservations.Reserve(ctx, builder.NewBookingBuilder().WithVendor(vendorID).WithSlot(testDate, slot.Evening).BuildReserveParams(), uuid.Nil)
	assert.True(t, errors.Is(err, availability.ErrSlotConflict))

	_, err = f.availability.CheckConflict(ctx, vendorID, testDate, "late")
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestAvailabilityQueries_DaySummaries(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	vendorID := uuid.New()
	vendor := actor.Actor{ID: vendorID, Role: actor.RoleVendor}

	f.reserve(t, vendorID, testDate, slot.Morning)
	f.reserve(t, vendorID, testDate.AddDays(1), slot.FullDay)
	for _, s := range slot.Partials() {
		_, err := f.blocks.Block(ctx, commands.BlockParams{Actor: vendor, VendorID: vendorID, Date: testDate.AddDays(2), Slot: s})
		require.NoError(t, err)
	}

	summaries, err := f.availability.DaySummaries(ctx, vendorID, testDate, testDate.AddDays(3))
	require.NoError(t, err)
	require.Len(t, summaries, 4)

	states := make([]availability.DayState, 0, len(summaries))
	for _, s := range summaries {
		states = append(states, s.State)
	}
	assert.Equal(t, []availability.DayState{
		availability.DayPartial,
		availability.DayBooked,
		availability.DayBooked,
		availability.DayAvailable,
	}, states)
	assert.Equal(t, []slot.Slot{slot.Afternoon, slot.Evening}, summaries[0].Free)
}

// =============================================================================
// BookingQueries
// =============================================================================

func TestBookingQueries(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	vendorID := uuid.New()
	res := f.reserve(t, vendorID, testDate, slot.Afternoon)
	creator := actor.Actor{ID: res.Booking.CreatedBy(), Role: actor.RoleCouple}

	got, err := f.bookings.GetByID(ctx, creator, res.Booking.ID())
	require.NoError(t, err)
	assert.Equal(t, res.Booking.ID(), got.ID())
	assert.Equal(t, &booking.SlotRef{Date: testDate, Slot: slot.Afternoon}, got.Reservation())

	_, err = f.bookings.GetByID(ctx, actor.Actor{ID: uuid.New(), Role: actor.RoleCouple}, res.Booking.ID())
	assert.ErrorIs(t, err, errs.ErrForbidden)

	_, err = f.bookings.GetByID(ctx, creator, uuid.New())
	assert.True(t, errs.Is(err, booking.ErrNotFound))

	byWedding, err := f.bookings.ListByWedding(ctx, creator, res.Booking.WeddingID())
	require.NoError(t, err)
	assert.Len(t, byWedding, 1)

	pending := booking.StatusPending
	byVendor, err := f.bookings.ListByVendor(ctx, actor.Actor{ID: vendorID, Role: actor.RoleVendor}, vendorID, &pending)
	require.NoError(t, err)
	assert.Len(t, byVendor, 1)

	unknown := booking.Status("archived")
	_, err = f.bookings.ListByVendor(ctx, actor.Actor{ID: vendorID, Role: actor.RoleVendor}, vendorID, &unknown)
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = f.bookings.ListByVendor(ctx, creator, vendorID, nil)
	assert.ErrorIs(t, err, errs.ErrForbidden)
}

func TestBookingQueries_ListByWeddingHidesOtherVendors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	weddingID := uuid.New()
	vendorA, vendorB := uuid.New(), uuid.New()

	resA, err := f.reservations.Reserve(ctx,
		builder.NewBookingBuilder().WithWedding(weddingID).WithVendor(vendorA).WithSlot(testDate, slot.Morning).BuildReserveParams(), uuid.Nil)
	require.NoError(t, err)
	resB, err := f.reservations.Reserve(ctx,
		builder.NewBookingBuilder().WithWedding(weddingID).WithVendor(vendorB).WithSlot(testDate, slot.Evening).BuildReserveParams(), uuid.Nil)
	require.NoError(t, err)

	testCases := []struct {
		name string
		act  actor.Actor
		want []uuid.UUID
	}{
		{name: "vendor sees own booking only", act: actor.Actor{ID: vendorA, Role: actor.RoleVendor}, want: []uuid.UUID{resA.Booking.ID()}},
		{name: "unrelated vendor sees nothing", act: actor.Actor{ID: uuid.New(), Role: actor.RoleVendor}, want: []uuid.UUID{}},
		{name: "unrelated couple sees nothing", act: actor.Actor{ID: uuid.New(), Role: actor.RoleCouple}, want: []uuid.UUID{}},
		{name: "creator sees own booking", act: actor.Actor{ID: resB.Booking.CreatedBy(), Role: actor.RoleCouple}, want: []uuid.UUID{resB.Booking.ID()}},
		{name: "admin sees all", act: actor.Actor{ID: uuid.New(), Role: actor.RoleAdmin}, want: []uuid.UUID{resA.Booking.ID(), resB.Booking.ID()}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := f.bookings.ListByWedding(ctx, tc.act, weddingID)
			require.NoError(t, err)
			ids := make([]uuid.UUID, 0, len(got))
			for _, b := range got {
				ids = append(ids, b.ID())
			}
			assert.ElementsMatch(t, tc.want, ids)
		})
	}
}
