//go:build e2e

package reservation_test

import (
	"fmt"
	"net/http"
	"sync"
	"testing"

	"vendor-booking/internal/handler/dto/request"
	"vendor-booking/internal/handler/dto/response"
	"vendor-booking/tests/common/dbtest"
	"vendor-booking/tests/common/httptest"
	"vendor-booking/tests/e2e"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	bookingsURL  = "/api/bookings"
	blocksURL    = "/api/vendors/%s/blocks"
	checkURL     = "/api/vendors/%s/availability/check?date=%s&slot=%s"
	cancelURL    = "/api/bookings/%s/cancel"
	releaseURL   = "/api/vendors/%s/slots/%s/%s"
	weddingURL   = "/api/weddings/%s/bookings"
	idemHeader   = "Idempotency-Key"
	weddingDate  = "2030-09-14"
	concurrentN  = 12
)

type ReservationSuite struct {
	e2e.SharedSuite
}

func TestReservationSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(ReservationSuite))
}

func reserveBody(vendorID uuid.UUID, date, slot string) request.ReserveRequest {
	return request.ReserveRequest{
		WeddingID: uuid.New(),
		VendorID:  vendorID,
		Date:      date,
		Slot:      slot,
	}
}

func (s *ReservationSuite) reserve(token string, body request.ReserveRequest, key string) (int, response.ReservationResponse, httptest.ErrorBody) {
	t := s.T()
	headers := map[string]string{}
	if key != "" {
		headers[idemHeader] = key
	}
	w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, bookingsURL, body, token, headers)

	var ok response.ReservationResponse
	var fail httptest.ErrorBody
	if w.Code < 300 {
		httptest.DecodeResponseBody(t, w.Body, &ok)
	} else {
		httptest.DecodeResponseBody(t, w.Body, &fail)
	}
	return w.Code, ok, fail
}

func (s *ReservationSuite) TestConcurrentFullDayReservations() {
	t := s.T()
	vendorID := uuid.New()

	type outcome struct {
		status int
		token  string
	}
	results := make(chan outcome, concurrentN)
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < concurrentN; i++ {
		_, token := s.Auth.Couple(t)
		body := reserveBody(vendorID, weddingDate, "full_day")
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, body, token)
			results <- outcome{status: w.Code, token: token}
		}()
	}
	close(start)
	wg.Wait()
	close(results)

	counts := map[int]int{}
	for r := range results {
		counts[r.status]++
	}
	assert.Equal(t, map[int]int{http.StatusCreated: 1, http.StatusConflict: concurrentN - 1}, counts)

	if diff := cmp.Diff(map[string]string{"full_day": "booked"}, dbtest.SlotStatuses(t, s.DB, vendorID, weddingDate)); diff != "" {
		t.Errorf("slot rows mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1, dbtest.CountRows(t, s.DB, "bookings", "vendor_id = $1", vendorID))
}

func (s *ReservationSuite) TestConcurrentPartialAndFullDay() {
	t := s.T()
	vendorID := uuid.New()
	slots := []string{"morning", "afternoon", "evening", "full_day"}

	statuses := make([]int, len(slots))
	var wg sync.WaitGroup
	for i, sl := range slots {
		_, token := s.Auth.Couple(t)
		body := reserveBody(vendorID, weddingDate, sl)
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			statuses[i] = httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, body, token).Code
		}(i)
	}
	wg.Wait()

	rows := dbtest.SlotStatuses(t, s.DB, vendorID, weddingDate)
	booked := 0
	for _, st := range rows {
		if st == "booked" {
			booked++
		}
	}
	if rows["full_day"] == "booked" {
		assert.Equal(t, 1, booked, "a booked full day excludes every partial slot")
		assert.Equal(t, http.StatusCreated, statuses[3])
		return
	}
	assert.Equal(t, http.StatusConflict, statuses[3])
	assert.Equal(t, []int{http.StatusCreated, http.StatusCreated, http.StatusCreated}, statuses[:3])
	assert.Equal(t, 3, booked)
}

func (s *ReservationSuite) TestPartialThenFullDayConflict() {
	t := s.T()
	vendorID := uuid.New()
	_, token := s.Auth.Couple(t)

	status, created, _ := s.reserve(token, reserveBody(vendorID, weddingDate, "morning"), "")
	require.Equal(t, http.StatusCreated, status)
	require.NotNil(t, created.Slot)
	assert.Equal(t, "booked", created.Slot.Status)
	assert.Equal(t, "pending", created.Booking.Status)

	status, _, fail := s.reserve(token, reserveBody(vendorID, weddingDate, "full_day"), "")
	require.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Requested slot is unavailable", fail.Error.Message)
	blocking, ok := fail.Detail["blocking"].([]any)
	require.True(t, ok, "conflict detail lists blocking slots")
	require.Len(t, blocking, 1)
	assert.Equal(t, "morning", blocking[0].(map[string]any)["slot"])

	status, _, _ = s.reserve(token, reserveBody(vendorID, weddingDate, "afternoon"), "")
	assert.Equal(t, http.StatusCreated, status, "other partial slots stay free")
}

func (s *ReservationSuite) TestIdempotentReplay() {
	t := s.T()
	vendorID := uuid.New()
	_, token := s.Auth.Couple(t)
	key := uuid.NewString()
	body := reserveBody(vendorID, weddingDate, "evening")

	status, first, _ := s.reserve(token, body, key)
	require.Equal(t, http.StatusCreated, status)
	assert.False(t, first.Replayed)

	status, second, _ := s.reserve(token, body, key)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, second.Replayed)
	assert.Equal(t, first.Booking.ID, second.Booking.ID)
	assert.Equal(t, 1, dbtest.CountRows(t, s.DB, "bookings", "vendor_id = $1", vendorID))

	other := body
	other.Slot = "morning"
	status, _, _ = s.reserve(token, other, key)
	assert.Equal(t, http.StatusConflict, status, "a key cannot be reused for a different request")
}

func (s *ReservationSuite) TestBlockedSlotRejectsReservation() {
	t := s.T()
	vendorID := uuid.New()
	vendorToken := s.Auth.Vendor(t, vendorID)
	_, coupleToken := s.Auth.Couple(t)

	w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(blocksURL, vendorID),
		request.BlockRequest{Date: weddingDate, Slot: "full_day", Reason: "family event"}, vendorToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(checkURL, vendorID, weddingDate, "evening"), nil, coupleToken)
	var check response.ConflictCheckResponse
	httptest.AssertSuccessResponse(t, w, http.StatusOK, &check)
	assert.True(t, check.HasConflict)

	status, _, _ := s.reserve(coupleToken, reserveBody(vendorID, weddingDate, "evening"), "")
	assert.Equal(t, http.StatusConflict, status)

	w = httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(blocksURL, uuid.New()),
		request.BlockRequest{Date: weddingDate, Slot: "morning"}, vendorToken)
	httptest.AssertErrorResponse(t, w, http.StatusForbidden, "Insufficient permissions")
}

func (s *ReservationSuite) TestCancelFreesSlot() {
	t := s.T()
	vendorID := uuid.New()
	_, token := s.Auth.Couple(t)

	status, created, _ := s.reserve(token, reserveBody(vendorID, weddingDate, "afternoon"), "")
	require.Equal(t, http.StatusCreated, status)

	w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(cancelURL, created.Booking.ID),
		request.CancelBookingRequest{Reason: "venue changed"}, token)
	var cancelled response.BookingResponse
	httptest.AssertSuccessResponse(t, w, http.StatusOK, &cancelled)
	assert.Equal(t, "cancelled", cancelled.Status)
	assert.Equal(t, "venue changed", cancelled.CancelReason)

	assert.Equal(t, "available", dbtest.SlotStatuses(t, s.DB, vendorID, weddingDate)["afternoon"])

	_, otherToken := s.Auth.Couple(t)
	status, _, _ = s.reserve(otherToken, reserveBody(vendorID, weddingDate, "afternoon"), "")
	assert.Equal(t, http.StatusCreated, status)

	assert.GreaterOrEqual(t, dbtest.CountRows(t, s.DB, "notification_jobs", "topic = $1", "booking.cancelled"), 1)
}

func (s *ReservationSuite) TestAdminRelease() {
	t := s.T()
	vendorID := uuid.New()
	_, token := s.Auth.Couple(t)

	body := reserveBody(vendorID, weddingDate, "morning")
	status, _, _ := s.reserve(token, body, "")
	require.Equal(t, http.StatusCreated, status)

	w := httptest.PerformRequest(t, s.Router, http.MethodDelete, fmt.Sprintf(releaseURL, vendorID, weddingDate, "morning"), nil, s.Auth.Vendor(t, vendorID))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.PerformRequest(t, s.Router, http.MethodDelete, fmt.Sprintf(releaseURL, vendorID, weddingDate, "morning"), nil, s.Auth.Admin(t))
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())
	assert.Equal(t, "available", dbtest.SlotStatuses(t, s.DB, vendorID, weddingDate)["morning"])

	w = httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(weddingURL, body.WeddingID), nil, token)
	var list []response.BookingResponse
	httptest.AssertSuccessResponse(t, w, http.StatusOK, &list)
	require.Len(t, list, 1)
	assert.NotNil(t, list[0].Held, "release leaves the booking reference in place")

	w = httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(weddingURL, body.WeddingID), nil, s.Auth.Vendor(t, uuid.New()))
	var hidden []response.BookingResponse
	httptest.AssertSuccessResponse(t, w, http.StatusOK, &hidden)
	assert.Empty(t, hidden, "other vendors do not see the wedding's bookings")
}

func (s *ReservationSuite) TestExpiredToken() {
	t := s.T()
	token := s.Auth.CreateExpiredToken(t, uuid.New(), "couple")
	w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, reserveBody(uuid.New(), weddingDate, "morning"), token)
	httptest.AssertErrorResponse(t, w, http.StatusUnauthorized, "Invalid or expired token")
}
