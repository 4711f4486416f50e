package api

import (
	"net/http"

	reqdto "vendor-booking/internal/handler/dto/request"
	resdto "vendor-booking/internal/handler/dto/response"
	"vendor-booking/internal/handler/httperr"
	"vendor-booking/internal/usecase/commands"
	"vendor-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type AvailabilityHandler struct {
	cmds commands.AvailabilityCommands
	q    queries.AvailabilityQueries
}

func NewAvailabilityHandler(cmds commands.AvailabilityCommands, q queries.AvailabilityQueries) *AvailabilityHandler {
	return &AvailabilityHandler{cmds: cmds, q: q}
}

// @Summary List vendor availability
// @Description Records for a vendor in an inclusive date range. The result is a snapshot.
// @Tags availability
// @Produce json
// @Security BearerAuth
// @Param vendorId path string true "Vendor ID"
// @Param start query string true "First day (YYYY-MM-DD)"
// @Param end query string true "Last day (YYYY-MM-DD)"
// @Success 200 {array} resdto.AvailabilityResponse
// @Failure 400 {object} httperr.Response
// @Router /api/vendors/{vendorId}/availability [get]
func (h *AvailabilityHandler) List(c *gin.Context) {
	vendorID, ok := uuidParam(c, "vendorId")
	if !ok {
		return
	}
	start, end, ok := rangeQuery(c)
	if !ok {
		return
	}
	records, err := h.q.ListByVendorAndRange(c.Request.Context(), vendorID, start, end)
	if err != nil {
		httperr.AbortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromRecords(records))
}

// @Summary Vendor calendar summary
// @Description One cell per day: available, partial or booked, with the free slots.
// @Tags availability
// @Produce json
// @Security BearerAuth
// @Param vendorId path string true "Vendor ID"
// @Param start query string true "First day (YYYY-MM-DD)"
// @Param end query string true "Last day (YYYY-MM-DD)"
// @Success 200 {array} resdto.DaySummaryResponse
// @Failure 400 {object} httperr.Response
// @Router /api/vendors/{vendorId}/availability/summary [get]
func (h *AvailabilityHandler) Summary(c *gin.Context) {
	vendorID, ok := uuidParam(c, "vendorId")
	if !ok {
		return
	}
	start, end, ok := rangeQuery(c)
	if !ok {
		return
	}
	days, err := h.q.DaySummaries(c.Request.Context(), vendorID, start, end)
	if err != nil {
		httperr.AbortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromDaySummaries(days))
}

// @Summary Check a slot
// @Description Advisory conflict check without locks. Only a reservation is authoritative.
// @Tags availability
// @Produce json
// @Security BearerAuth
// @Param vendorId path string true "Vendor ID"
// @Param date query string true "Day (YYYY-MM-DD)"
// @Param slot query string true "morning, afternoon, evening or full_day"
// @Success 200 {object} resdto.ConflictCheckResponse
// @Failure 400 {object} httperr.Response
// @Router /api/vendors/{vendorId}/availability/check [get]
func (h *AvailabilityHandler) Check(c *gin.Context) {
	vendorID, ok := uuidParam(c, "vendorId")
	if !ok {
		return
	}
	date, err := reqdto.ParseDate("date", c.Query("date"))
	if err != nil {
		httperr.AbortWithUsecaseError(c, err)
		return
	}
	s, err := reqdto.ParseSlot(c.Query("slot"))
	if err != nil {
		httperr.AbortWithUsecaseError(c, err)
		return
	}
	view, err := h.q.CheckConflict(c.Request.Context(), vendorID, date, s)
	if err != nil {
		httperr.AbortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromConflictCheck(view))
}

// @Summary Block a slot
// @Description Mark a slot unavailable. Fails with 409 when it overlaps a booking or another block.
// @Tags availability
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param vendorId path string true "Vendor ID"
// @Param request body reqdto.BlockRequest true "Slot to block"
// @Success 201 {object} resdto.AvailabilityResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /api/vendors/{vendorId}/blocks [post]
func (h *AvailabilityHandler) Block(c *gin.Context) {
	act, ok := mustActor(c)
	if !ok {
		return
	}
	vendorID, ok := uuidParam(c, "vendorId")
	if !ok {
		return
	}
	var req reqdto.BlockRequest
	if !bindJSON(c, &req) {
		return
	}
	params, err := req.ToParams(act, vendorID)
	if err != nil {
		httperr.AbortWithUsecaseError(c, err)
		return
	}
	rec, err := h.cmds.Block(c.Request.Context(), params)
	if err != nil {
		httperr.AbortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromRecord(rec))
}

// @Summary Block a recurring slot
// @Description Block every date an RRULE yields in [from, to]. One conflicting date rejects the whole request.
// @Tags availability
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param vendorId path string true "Vendor ID"
// @Param request body reqdto.RecurringBlockRequest true "Recurring block"
// @Success 201 {array} resdto.AvailabilityResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /api/vendors/{vendorId}/blocks/recurring [post]
func (h *AvailabilityHandler) BlockRecurring(c *gin.Context) {
	act, ok := mustActor(c)
	if !ok {
		return
	}
	vendorID, ok := uuidParam(c, "vendorId")
	if !ok {
		return
	}
	var req reqdto.RecurringBlockRequest
	if !bindJSON(c, &req) {
		return
	}
	params, err := req.ToParams(act, vendorID)
	if err != nil {
		httperr.AbortWithUsecaseError(c, err)
		return
	}
	records, err := h.cmds.BlockRecurring(c.Request.Context(), params)
	if err != nil {
		httperr.AbortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromRecords(records))
}

// @Summary Unblock a slot
// @Tags availability
// @Security BearerAuth
// @Param vendorId path string true "Vendor ID"
// @Param date path string true "Day (YYYY-MM-DD)"
// @Param slot path string true "Time slot"
// @Success 204 "No Content"
// @Failure 403 {object} httperr.Response
// @Failure 409 {object} httperr.Response "Slot is booked, not blocked"
// @Router /api/vendors/{vendorId}/blocks/{date}/{slot} [delete]
func (h *AvailabilityHandler) Unblock(c *gin.Context) {
	act, ok := mustActor(c)
	if !ok {
		return
	}
	vendorID, ok := uuidParam(c, "vendorId")
	if !ok {
		return
	}
	date, s, ok := dateSlotParams(c)
	if !ok {
		return
	}
	if err := h.cmds.Unblock(c.Request.Context(), act, vendorID, date, s); err != nil {
		httperr.AbortWithUsecaseError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Release a slot
// @Description Administrative release of any occupied slot. Releasing a free slot is a no-op.
// @Tags availability
// @Security BearerAuth
// @Param vendorId path string true "Vendor ID"
// @Param date path string true "Day (YYYY-MM-DD)"
// @Param slot path string true "Time slot"
// @Success 204 "No Content"
// @Failure 403 {object} httperr.Response
// @Router /api/vendors/{vendorId}/slots/{date}/{slot} [delete]
func (h *AvailabilityHandler) Release(c *gin.Context) {
	act, ok := mustActor(c)
	if !ok {
		return
	}
	vendorID, ok := uuidParam(c, "vendorId")
	if !ok {
		return
	}
	date, s, ok := dateSlotParams(c)
	if !ok {
		return
	}
	if err := h.cmds.Release(c.Request.Context(), act, vendorID, date, s); err != nil {
		httperr.AbortWithUsecaseError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
