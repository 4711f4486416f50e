package api

import (
	"net/http"

	"vendor-booking/internal/domain/booking"
	reqdto "vendor-booking/internal/handler/dto/request"
	resdto "vendor-booking/internal/handler/dto/response"
	"vendor-booking/internal/handler/httperr"
	"vendor-booking/internal/handler/middleware"
	"vendor-booking/internal/usecase/commands"
	"vendor-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	reservations commands.ReservationCommands
	bookings     commands.BookingCommands
	q            queries.BookingQueries
}

func NewBookingHandler(reservations commands.ReservationCommands, bookings commands.BookingCommands, q queries.BookingQueries) *BookingHandler {
	return &BookingHandler{reservations: reservations, bookings: bookings, q: q}
}

// @Summary Reserve a vendor slot
// @Description Create a pending booking and book its slot atomically. Resubmitting with the same Idempotency-Key replays the first result.
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Idempotency key (UUID) for safe retries"
// @Param request body reqdto.ReserveRequest true "Reservation request"
// @Success 201 {object} resdto.ReservationResponse
// @Success 200 {object} resdto.ReservationResponse "Replayed result"
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /api/bookings [post]
func (h *BookingHandler) Reserve(c *gin.Context) {
	act, ok := mustActor(c)
	if !ok {
		return
	}
	idempotencyKey, ok := readIdempotencyKey(c)
	if !ok {
		return
	}
	var req reqdto.ReserveRequest
	if !bindJSON(c, &req) {
		return
	}
	params, err := req.ToParams(act.ID)
	if err != nil {
		httperr.AbortWithUsecaseError(c, err)
		return
	}

	result, err := h.reservations.Reserve(c.Request.Context(), params, idempotencyKey)
	if err != nil {
		httperr.AbortWithUsecaseError(c, err)
		return
	}
	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}
	c.JSON(status, resdto.FromReserveResult(result))
}

// @Summary Record an offline booking
// @Description Record a booking agreed outside the platform. It is confirmed immediately and holds no slot.
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.OfflineBookingRequest true "Offline booking"
// @Success 201 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /api/bookings/offline [post]
func (h *BookingHandler) CreateOffline(c *gin.Context) {
	act, ok := mustActor(c)
	if !ok {
		return
	}
	var req reqdto.OfflineBookingRequest
	if !bindJSON(c, &req) {
		return
	}
	b, err := h.bookings.CreateOffline(c.Request.Context(), req.ToParams(act))
	if err != nil {
		httperr.AbortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromBooking(b))
}

// @Summary Get booking
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/bookings/{id} [get]
func (h *BookingHandler) Get(c *gin.Context) {
	act, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	b, err := h.q.GetByID(c.Request.Context(), act, id)
	if err != nil {
		httperr.AbortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBooking(b))
}

// @Summary Reserve a slot for an existing booking
// @Description Book a slot for a booking that holds none yet, such as an offline booking.
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.AttachSlotRequest true "Slot to reserve"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /api/bookings/{id}/reservation [post]
func (h *BookingHandler) AttachSlot(c *gin.Context) {
	act, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req reqdto.AttachSlotRequest
	if !bindJSON(c, &req) {
		return
	}
	params, err := req.ToParams(act, id)
	if err != nil {
		httperr.AbortWithUsecaseError(c, err)
		return
	}
	result, err := h.reservations.ReserveForBooking(c.Request.Context(), params)
	if err != nil {
		httperr.AbortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReserveResult(result))
}

// @Summary Confirm booking
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /api/bookings/{id}/confirm [post]
func (h *BookingHandler) Confirm(c *gin.Context) {
	act, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	b, err := h.bookings.Confirm(c.Request.Context(), id, act)
	if err != nil {
		httperr.AbortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBooking(b))
}

// @Summary Cancel booking
// @Description Cancel a booking and free its slot. Cancelling twice is not an error.
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.CancelBookingRequest false "Cancellation reason"
// @Success 200 {object} resdto.BookingResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/bookings/{id}/cancel [post]
func (h *BookingHandler) Cancel(c *gin.Context) {
	act, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req reqdto.CancelBookingRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}
	b, err := h.bookings.Cancel(c.Request.Context(), id, act, req.Reason)
	if err != nil {
		httperr.AbortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBooking(b))
}

// @Summary List wedding bookings
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param weddingId path string true "Wedding ID"
// @Success 200 {array} resdto.BookingResponse
// @Router /api/weddings/{weddingId}/bookings [get]
func (h *BookingHandler) ListByWedding(c *gin.Context) {
	act, ok := mustActor(c)
	if !ok {
		return
	}
	weddingID, ok := uuidParam(c, "weddingId")
	if !ok {
		return
	}
	bs, err := h.q.ListByWedding(c.Request.Context(), act, weddingID)
	if err != nil {
		httperr.AbortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookings(bs))
}

// @Summary List vendor bookings
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param vendorId path string true "Vendor ID"
// @Param status query string false "pending, confirmed or cancelled"
// @Success 200 {array} resdto.BookingResponse
// @Failure 403 {object} httperr.Response
// @Router /api/vendors/{vendorId}/bookings [get]
func (h *BookingHandler) ListByVendor(c *gin.Context) {
	act, ok := mustActor(c)
	if !ok {
		return
	}
	vendorID, ok := uuidParam(c, "vendorId")
	if !ok {
		return
	}
	var status *booking.Status
	if v := c.Query("status"); v != "" {
		st := booking.Status(v)
		status = &st
	}
	bs, err := h.q.ListByVendor(c.Request.Context(), act, vendorID, status)
	if err != nil {
		httperr.AbortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookings(bs))
}

// The header is optional; without it a resubmission creates a second booking attempt.
func readIdempotencyKey(c *gin.Context) (uuid.UUID, bool) {
	raw := c.GetHeader(middleware.IdempotencyKeyHeader)
	if raw == "" {
		return uuid.Nil, true
	}
	key, err := uuid.Parse(raw)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid Idempotency-Key format",
			httperr.ValidationDetail{Field: middleware.IdempotencyKeyHeader, Reason: "must be a UUID"})
		return uuid.Nil, false
	}
	return key, true
}
