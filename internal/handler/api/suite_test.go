//go:build unit

package api_test

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"vendor-booking/internal/domain/actor"
	"vendor-booking/internal/handler"
	"vendor-booking/internal/handler/api"
	"vendor-booking/internal/handler/middleware"
	"vendor-booking/internal/infra/icalfeed"
	"vendor-booking/internal/pkg/clock"
	"vendor-booking/internal/pkg/config"
	commandsmock "vendor-booking/tests/mock/commands"
	queriesmock "vendor-booking/tests/mock/queries"
	usecasemock "vendor-booking/tests/mock/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

const (
	coupleToken = "couple-token"
	vendorToken = "vendor-token"
	adminToken  = "admin-token"
)

var testNow = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

// handlerSuite serves the production router with mocked use cases behind it.
type handlerSuite struct {
	suite.Suite
	router *gin.Engine
	ctrl   *gomock.Controller

	reservations     *commandsmock.MockReservationCommands
	bookingCmds      *commandsmock.MockBookingCommands
	availabilityCmds *commandsmock.MockAvailabilityCommands
	bookingQueries   *queriesmock.MockBookingQueries
	availabilityQs   *queriesmock.MockAvailabilityQueries
	clock            *clock.MockClock

	couple actor.Actor
	vendor actor.Actor
	admin  actor.Actor
}

func (s *handlerSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.ctrl = gomock.NewController(s.T())

	s.reservations = commandsmock.NewMockReservationCommands(s.ctrl)
	s.bookingCmds = commandsmock.NewMockBookingCommands(s.ctrl)
	s.availabilityCmds = commandsmock.NewMockAvailabilityCommands(s.ctrl)
	s.bookingQueries = queriesmock.NewMockBookingQueries(s.ctrl)
	s.availabilityQs = queriesmock.NewMockAvailabilityQueries(s.ctrl)
	s.clock = clock.NewMockClock(testNow)

	s.couple = actor.Actor{ID: uuid.New(), Role: actor.RoleCouple}
	s.vendor = actor.Actor{ID: uuid.New(), Role: actor.RoleVendor}
	s.admin = actor.Actor{ID: uuid.New(), Role: actor.RoleAdmin}

	validator := usecasemock.NewMockTokenValidator(s.ctrl)
	validator.EXPECT().ValidateToken(coupleToken).Return(s.couple, nil).AnyTimes()
	validator.EXPECT().ValidateToken(vendorToken).Return(s.vendor, nil).AnyTimes()
	validator.EXPECT().ValidateToken(adminToken).Return(s.admin, nil).AnyTimes()
	validator.EXPECT().ValidateToken(gomock.Any()).Return(actor.Actor{}, errors.New("token signature invalid")).AnyTimes()

	s.router = gin.New()
	handler.NewRouter(s.router, config.NewTestConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)), handler.Handlers{
		Booking:      api.NewBookingHandler(s.reservations, s.bookingCmds, s.bookingQueries),
		Availability: api.NewAvailabilityHandler(s.availabilityCmds, s.availabilityQs),
		Calendar:     api.NewCalendarHandler(s.availabilityQs, icalfeed.NewRenderer(time.UTC), s.clock, time.UTC, 0),
		Auth:         middleware.NewAuthMiddleware(validator),
	})
}

func (s *handlerSuite) TearDownTest() {
	s.ctrl.Finish()
}
