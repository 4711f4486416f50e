//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"

	"vendor-booking/internal/domain/availability"
	"vendor-booking/internal/domain/booking"
	"vendor-booking/internal/domain/slot"
	resdto "vendor-booking/internal/handler/dto/response"
	"vendor-booking/internal/pkg/civil"
	"vendor-booking/internal/pkg/errs"
	"vendor-booking/internal/usecase/commands"
	"vendor-booking/tests/common/builder"
	"vendor-booking/tests/common/httptest"
	"vendor-booking/tests/common/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type BookingHandlerTestSuite struct {
	handlerSuite
}

func TestBookingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}

func (s *BookingHandlerTestSuite) reserved() (*builder.BookingBuilder, *booking.Booking) {
	b := builder.NewBookingBuilder().With(func(b *builder.BookingBuilder) { b.CreatedBy = s.couple.ID })
	bk, err := b.BuildReserved()
	s.Require().NoError(err)
	return b, bk
}

// ================================================================================
// TestReserve
// ================================================================================

func (s *BookingHandlerTestSuite) TestReserve() {
	url := "/api/bookings"
	b, bk := s.reserved()
	reqBody := b.BuildReserveRequestDTO()
	params := b.BuildReserveParams()
	key := uuid.New()
	headers := map[string]string{"Idempotency-Key": key.String()}
	result := &commands.ReserveResult{Booking: bk, Slot: b.BuildBookedRecord(bk.ID())}

	s.Run("success: 201 Created with booking and slot", func() {
		s.reservations.EXPECT().Reserve(gomock.Any(), params, key).Return(result, nil).Times(1)

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, coupleToken, headers)

		var body resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal(bk.ID(), body.Booking.ID)
		s.Equal("pending", body.Booking.Status)
		s.Equal("platform", body.Booking.Source)
		s.Require().NotNil(body.Booking.Held)
		s.Equal("2025-09-12", body.Booking.Held.Date)
		s.Equal("morning", body.Booking.Held.Slot)
		s.Require().NotNil(body.Slot)
		s.Equal("booked", body.Slot.Status)
		bookingID := bk.ID()
		s.Equal(&bookingID, body.Slot.BookingID)
		s.False(body.Replayed)
	})

	s.Run("success: 200 OK when the idempotency key replays", func() {
		replayed := *result
		replayed.Replayed = true
		s.reservations.EXPECT().Reserve(gomock.Any(), params, key).Return(&replayed, nil).Times(1)

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, coupleToken, headers)

		var body resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.True(body.Replayed)
	})

	s.Run("success: missing Idempotency-Key reserves without replay protection", func() {
		s.reservations.EXPECT().Reserve(gomock.Any(), params, uuid.Nil).Return(result, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, coupleToken)
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, nil)
	})

	s.Run("error: 400 for malformed Idempotency-Key", func() {
		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, coupleToken,
			map[string]string{"Idempotency-Key": "not-a-uuid"})
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Idempotency-Key")
	})

	s.Run("error: 400 on invalid input before the use case runs", func() {
		testCases := []struct {
			name        string
			mutate      func(map[string]any)
			expectField string
		}{
			{name: "missing wedding_id", mutate: testutil.Field("wedding_id", nil)},
			{name: "missing vendor_id", mutate: testutil.Field("vendor_id", nil)},
			{name: "missing date", mutate: testutil.Field("date", nil)},
			{name: "missing slot", mutate: testutil.Field("slot", nil)},
			{name: "impossible date", mutate: testutil.Field("date", "2025-02-30"), expectField: "date"},
			{name: "date with time", mutate: testutil.Field("date", "2025-09-12T10:00:00Z"), expectField: "date"},
			{name: "unknown slot", mutate: testutil.Field("slot", "brunch"), expectField: "slot"},
		}
		for _, tc := range testCases {
			s.Run(tc.name, func() {
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
					testutil.DtoMap(s.T(), reqBody, tc.mutate), coupleToken)
				body := httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
				if tc.expectField != "" {
					s.Equal(tc.expectField, body.Detail["field"])
				}
			})
		}
	})

	s.Run("error: 401 without a valid token", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Access token required")

		rec = httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "forged")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Invalid or expired token")
	})

	s.Run("error: 409 lists the blocking records on conflict", func() {
		other := uuid.New()
		holder := availability.NewRecord(b.VendorID, b.Date, slot.FullDay, testNow)
		holder.MarkBooked(availability.BookingRef{BookingID: other, WeddingID: uuid.New()}, testNow)
		conflict := &availability.ConflictError{
			VendorID:  b.VendorID,
			Date:      b.Date,
			Requested: slot.Morning,
			Blocking:  []availability.Record{holder},
		}
		s.reservations.EXPECT().Reserve(gomock.Any(), params, key).
			Return(nil, errs.Wrap(conflict, "reserve")).Times(1)

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, coupleToken, headers)

		body := httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "unavailable")
		s.Equal("morning", body.Detail["requested"])
		blocking, ok := body.Detail["blocking"].([]any)
		s.Require().True(ok)
		s.Require().Len(blocking, 1)
		first := blocking[0].(map[string]any)
		s.Equal("full_day", first["slot"])
		s.Equal("booked", first["status"])
		s.Equal(other.String(), first["bookingId"])
	})

	s.Run("error: maps use case errors to statuses", func() {
		testCases := []struct {
			name           string
			err            error
			expectedStatus int
			expectedMsg    string
		}{
			{name: "busy calendar", err: errs.Mark(errors.New("lock timeout"), commands.ErrReservationBusy), expectedStatus: http.StatusServiceUnavailable, expectedMsg: "busy"},
			{name: "key reused", err: errs.ErrIdempotencyKeyReused, expectedStatus: http.StatusConflict, expectedMsg: "different request"},
			{name: "key in flight", err: commands.ErrIdempotencyInProgress, expectedStatus: http.StatusConflict, expectedMsg: "still being processed"},
			{name: "domain validation", err: errs.Validation("notes", "notes exceed maximum length"), expectedStatus: http.StatusBadRequest, expectedMsg: "Validation failed"},
			{name: "unexpected", err: errors.New("connection reset"), expectedStatus: http.StatusInternalServerError, expectedMsg: "Internal server error"},
		}
		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.reservations.EXPECT().Reserve(gomock.Any(), params, key).Return(nil, tc.err).Times(1)

				rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, coupleToken, headers)
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
				if tc.expectedStatus == http.StatusServiceUnavailable {
					httptest.AssertHeaders(s.T(), rec, map[string]string{"Retry-After": "1"})
				}
			})
		}
	})
}

// ================================================================================
// TestCreateOffline
// ================================================================================

func (s *BookingHandlerTestSuite) TestCreateOffline() {
	url := "/api/bookings/offline"
	b := builder.NewBookingBuilder().With(func(b *builder.BookingBuilder) {
		b.VendorID = s.vendor.ID
		b.CreatedBy = s.vendor.ID
	})
	bk, err := b.BuildOffline()
	s.Require().NoError(err)
	notes, cost := b.Notes, b.EstimatedCostCents
	reqBody := map[string]any{
		"wedding_id":           b.WeddingID,
		"vendor_id":            b.VendorID,
		"notes":                notes,
		"estimated_cost_cents": cost,
	}

	s.Run("success: 201 Created, confirmed without a slot", func() {
		expected := commands.OfflineBookingParams{
			Actor:              s.vendor,
			WeddingID:          b.WeddingID,
			VendorID:           b.VendorID,
			Notes:              notes,
			EstimatedCostCents: cost,
		}
		s.bookingCmds.EXPECT().CreateOffline(gomock.Any(), expected).Return(bk, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, vendorToken)

		var body resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal("confirmed", body.Status)
		s.Equal("offline", body.Source)
		s.Nil(body.Held)
	})

	s.Run("error: 403 when the vendor is someone else", func() {
		s.bookingCmds.EXPECT().CreateOffline(gomock.Any(), gomock.Any()).Return(nil, errs.ErrForbidden).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, coupleToken)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "Insufficient permissions")
	})
}

// ================================================================================
// TestGet
// ================================================================================

func (s *BookingHandlerTestSuite) TestGet() {
	_, bk := s.reserved()
	url := "/api/bookings/" + bk.ID().String()

	s.Run("success: 200 OK", func() {
		s.bookingQueries.EXPECT().GetByID(gomock.Any(), s.couple, bk.ID()).Return(bk, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, coupleToken)

		var body resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(bk.ID(), body.ID)
		s.Equal(bk.WeddingID(), body.WeddingID)
		s.Equal(bk.EstimatedCost().Cents(), body.EstimatedCostCents)
		s.Equal(bk.Notes().String(), body.Notes)
	})

	s.Run("error: 400 for invalid UUID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/bookings/not-a-uuid", nil, coupleToken)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid id")
	})

	s.Run("error: 404 for missing booking", func() {
		s.bookingQueries.EXPECT().GetByID(gomock.Any(), s.couple, bk.ID()).
			Return(nil, errs.Mark(errors.New("no rows"), booking.ErrNotFound)).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, coupleToken)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Booking not found")
	})

	s.Run("error: 403 for a stranger", func() {
		s.bookingQueries.EXPECT().GetByID(gomock.Any(), s.vendor, bk.ID()).Return(nil, errs.ErrForbidden).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, vendorToken)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "")
	})
}

// ================================================================================
// TestLifecycle
// ================================================================================

func (s *BookingHandlerTestSuite) TestConfirm() {
	_, bk := s.reserved()
	url := "/api/bookings/" + bk.ID().String() + "/confirm"

	s.Run("success: 200 OK", func() {
		confirmed := booking.Reconstruct(func() booking.Snapshot {
			snap := bk.Snapshot()
			snap.Status = booking.StatusConfirmed
			return snap
		}())
		s.bookingCmds.EXPECT().Confirm(gomock.Any(), bk.ID(), s.vendor).Return(confirmed, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, vendorToken)

		var body resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("confirmed", body.Status)
	})

	s.Run("error: 409 for a cancelled booking", func() {
		s.bookingCmds.EXPECT().Confirm(gomock.Any(), bk.ID(), s.vendor).Return(nil, booking.ErrInvalidTransition).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, vendorToken)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "does not allow")
	})
}

func (s *BookingHandlerTestSuite) TestCancel() {
	_, bk := s.reserved()
	url := "/api/bookings/" + bk.ID().String() + "/cancel"

	s.Run("success: reason is passed through", func() {
		s.bookingCmds.EXPECT().Cancel(gomock.Any(), bk.ID(), s.couple, "venue changed").Return(bk, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"reason": "venue changed"}, coupleToken)
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("success: body is optional", func() {
		s.bookingCmds.EXPECT().Cancel(gomock.Any(), bk.ID(), s.couple, "").Return(bk, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, coupleToken)
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})
}

func (s *BookingHandlerTestSuite) TestAttachSlot() {
	_, bk := s.reserved()
	url := "/api/bookings/" + bk.ID().String() + "/reservation"
	date := civil.MustParse("2025-10-04")

	s.Run("success: 200 OK", func() {
		expected := commands.ReserveForBookingParams{Actor: s.admin, BookingID: bk.ID(), Date: date, Slot: slot.Evening}
		s.reservations.EXPECT().ReserveForBooking(gomock.Any(), expected).
			Return(&commands.ReserveResult{Booking: bk}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
			map[string]any{"date": "2025-10-04", "slot": "evening"}, adminToken)

		var body resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Nil(body.Slot, "zero slot record is omitted")
	})

	s.Run("error: 409 when the booking already holds a slot", func() {
		s.reservations.EXPECT().ReserveForBooking(gomock.Any(), gomock.Any()).Return(nil, booking.ErrAlreadyReserved).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
			map[string]any{"date": "2025-10-04", "slot": "evening"}, adminToken)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "already holds")
	})
}

// ================================================================================
// TestList
// ================================================================================

func (s *BookingHandlerTestSuite) TestListByWedding() {
	_, bk := s.reserved()

	url := "/api/weddings/" + bk.WeddingID().String() + "/bookings"

	s.Run("success: passes the caller to the query", func() {
		s.bookingQueries.EXPECT().ListByWedding(gomock.Any(), s.couple, bk.WeddingID()).Return([]*booking.Booking{bk}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, coupleToken)

		var body []resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Require().Len(body, 1)
		s.Equal(bk.ID(), body[0].ID)
	})

	s.Run("success: other vendor gets an empty list", func() {
		s.bookingQueries.EXPECT().ListByWedding(gomock.Any(), s.vendor, bk.WeddingID()).Return([]*booking.Booking{}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, vendorToken)

		var body []resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Empty(body)
	})

	s.Run("error: 401 without a token", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		s.Equal(http.StatusUnauthorized, rec.Code)
	})
}

func (s *BookingHandlerTestSuite) TestListByVendor() {
	url := "/api/vendors/" + s.vendor.ID.String() + "/bookings"

	s.Run("success: status filter", func() {
		confirmed := booking.StatusConfirmed
		s.bookingQueries.EXPECT().ListByVendor(gomock.Any(), s.vendor, s.vendor.ID, &confirmed).Return(nil, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url+"?status=confirmed", nil, vendorToken)

		var body []resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Empty(body)
	})

	s.Run("error: 400 for unknown status", func() {
		bogus := booking.Status("archived")
		s.bookingQueries.EXPECT().ListByVendor(gomock.Any(), s.vendor, s.vendor.ID, &bogus).
			Return(nil, errs.Validation("status", "unknown booking status \"archived\"")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url+"?status=archived", nil, vendorToken)
		body := httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Validation failed")
		s.Equal("status", body.Detail["field"])
	})
}
