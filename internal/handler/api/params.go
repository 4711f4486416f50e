package api

import (
	"net/http"

	"vendor-booking/internal/domain/actor"
	"vendor-booking/internal/domain/slot"
	reqdto "vendor-booking/internal/handler/dto/request"
	"vendor-booking/internal/handler/httperr"
	"vendor-booking/internal/handler/middleware"
	"vendor-booking/internal/pkg/civil"
	"vendor-booking/internal/pkg/errs"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var errActorMissing = errs.New("authenticated actor missing from context")

// mustActor aborts with 500 when auth middleware did not run; routes never reach here unauthenticated.
func mustActor(c *gin.Context) (actor.Actor, bool) {
	act, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errActorMissing, "Internal server error", nil)
	}
	return act, ok
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid "+name,
			httperr.ValidationDetail{Field: name, Reason: "must be a UUID"})
		return uuid.Nil, false
	}
	return id, true
}

func dateSlotParams(c *gin.Context) (civil.Date, slot.Slot, bool) {
	date, err := reqdto.ParseDate("date", c.Param("date"))
	if err != nil {
		httperr.AbortWithUsecaseError(c, err)
		return civil.Date{}, "", false
	}
	s, err := reqdto.ParseSlot(c.Param("slot"))
	if err != nil {
		httperr.AbortWithUsecaseError(c, err)
		return civil.Date{}, "", false
	}
	return date, s, true
}

func rangeQuery(c *gin.Context) (civil.Date, civil.Date, bool) {
	start, err := reqdto.ParseDate("start", c.Query("start"))
	if err != nil {
		httperr.AbortWithUsecaseError(c, err)
		return civil.Date{}, civil.Date{}, false
	}
	end, err := reqdto.ParseDate("end", c.Query("end"))
	if err != nil {
		httperr.AbortWithUsecaseError(c, err)
		return civil.Date{}, civil.Date{}, false
	}
	return start, end, true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return false
	}
	return true
}
