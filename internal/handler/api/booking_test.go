//go:build unit

package api_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"barberbook/internal/handler/api"
	resdto "barberbook/internal/handler/dto/response"
	"barberbook/internal/usecase/commands"
	"barberbook/internal/usecase/queries"
	"barberbook/tests/common/httptest"
	"barberbook/tests/common/testutil"
	commandsmock "barberbook/tests/mock/commands"
	queriesmock "barberbook/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type BookingHandlerTestSuite struct {
	suite.Suite
	router        *gin.Engine
	mockCtrl      *gomock.Controller
	mockBooking   *commandsmock.MockBookingCommands
	mockLifecycle *commandsmock.MockLifecycleCommands
	mockQueries   *queriesmock.MockBookingQueries
	handler       *api.BookingHandler
}

func TestBookingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}

func (s *BookingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockBooking = commandsmock.NewMockBookingCommands(s.mockCtrl)
	s.mockLifecycle = commandsmock.NewMockLifecycleCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockBookingQueries(s.mockCtrl)
	s.handler = api.NewBookingHandler(s.mockBooking, s.mockLifecycle, s.mockQueries)

	// Stand-in for the auth middleware: any token authenticates.
	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
			return
		}
		c.Set("user_id", uuid.New())
		c.Set("user_role", queries.RoleStaff)
		c.Next()
	}

	s.router.POST("/bookings", authMiddleware, s.handler.CreateBooking)
	s.router.GET("/bookings/:id", authMiddleware, s.handler.GetBooking)
	s.router.POST("/bookings/:id/confirm", authMiddleware, s.handler.ConfirmBooking)
	s.router.POST("/bookings/:id/cancel", authMiddleware, s.handler.CancelBooking)
}

func (s *BookingHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func validCreateBody() map[string]any {
	start := time.Now().Add(48 * time.Hour).Truncate(time.Hour)
	return map[string]any{
		"locationId":     uuid.New().String(),
		"professionalId": uuid.New().String(),
		"startTime":      start.Format(time.RFC3339),
		"expectedEnd":    start.Add(time.Hour).Format(time.RFC3339),
	}
}

func (s *BookingHandlerTestSuite) TestCreateBooking() {
	s.Run("successful creation", func() {
		bookingID := uuid.New()
		s.mockBooking.EXPECT().CreateBooking(gomock.Any(), gomock.Any()).
			Return(bookingID, nil)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/bookings", validCreateBody(), "token")

		var resp map[string]string
		httptest.AssertSuccessResponse(s.T(), w, http.StatusCreated, &resp)
		s.Equal(bookingID.String(), resp["id"])
	})

	s.Run("missing token", func() {
		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/bookings", validCreateBody(), "")
		httptest.AssertErrorResponse(s.T(), w, http.StatusUnauthorized, "Access token required")
	})

	s.Run("malformed body", func() {
		body := testutil.DtoMap(s.T(), validCreateBody(), testutil.Field("startTime", "not-a-time"))

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/bookings", body, "token")
		httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "Invalid request format")
	})

	s.Run("missing required field", func() {
		body := testutil.DtoMap(s.T(), validCreateBody(), testutil.Field("professionalId", nil))

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/bookings", body, "token")
		httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "Invalid request format")
	})

	s.Run("command error mapping", func() {
		cases := []struct {
			name       string
			err        error
			wantStatus int
		}{
			{name: "unknown professional", err: commands.ErrProfessionalNotFound, wantStatus: http.StatusNotFound},
			{name: "invalid time slot", err: commands.ErrInvalidTimeSlot, wantStatus: http.StatusBadRequest},
			{name: "holiday", err: commands.ErrHolidayClosed, wantStatus: http.StatusConflict},
			{name: "blocked interval", err: commands.ErrBlockedInterval, wantStatus: http.StatusConflict},
			{name: "occupied slot", err: commands.ErrSlotOccupied, wantStatus: http.StatusConflict},
			{name: "unexpected failure", err: errors.New("boom"), wantStatus: http.StatusInternalServerError},
		}
		for _, c := range cases {
			s.Run(c.name, func() {
				s.mockBooking.EXPECT().CreateBooking(gomock.Any(), gomock.Any()).
					Return(uuid.Nil, c.err)

				w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/bookings", validCreateBody(), "token")
				httptest.AssertErrorResponse(s.T(), w, c.wantStatus, "")
			})
		}
	})
}

func (s *BookingHandlerTestSuite) TestGetBooking() {
	s.Run("returns the assembled view", func() {
		bookingID := uuid.New()
		view := &queries.BookingView{
			ID:               bookingID,
			LocationID:       uuid.New(),
			ProfessionalID:   uuid.New(),
			ProfessionalName: "Test Barber",
			Status:           "pending",
			Items: []*queries.ItemView{
				{ID: uuid.New(), Kind: "service", CatalogName: "Haircut", Quantity: 1, UnitPriceCents: 5000, SubtotalCents: 5000},
			},
			Payments: []*queries.PaymentView{},
			Settlement: &queries.SettlementView{
				TotalCents:       5000,
				PaidCents:        0,
				ReceivableStatus: "pending",
				ReceiptStatus:    "pending",
				OutstandingCents: 5000,
			},
		}
		s.mockQueries.EXPECT().GetByID(gomock.Any(), bookingID).Return(view, nil)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/"+bookingID.String(), nil, "token")

		var resp resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &resp)
		s.Equal(bookingID, resp.ID)
		s.Len(resp.Items, 1)
		s.Equal(int64(5000), resp.Items[0].SubtotalCents)
		s.Require().NotNil(resp.Settlement)
		s.Equal(int64(5000), resp.Settlement.OutstandingCents)
	})

	s.Run("unknown booking", func() {
		bookingID := uuid.New()
		s.mockQueries.EXPECT().GetByID(gomock.Any(), bookingID).Return(nil, queries.ErrBookingNotFound)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/"+bookingID.String(), nil, "token")
		httptest.AssertErrorResponse(s.T(), w, http.StatusNotFound, "Booking not found")
	})

	s.Run("malformed id", func() {
		w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/not-a-uuid", nil, "token")
		httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "Invalid id format")
	})
}

func (s *BookingHandlerTestSuite) TestConfirmBooking() {
	s.Run("successful transition", func() {
		bookingID := uuid.New()
		s.mockLifecycle.EXPECT().ConfirmBooking(gomock.Any(), bookingID).Return(nil)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost,
			"/bookings/"+bookingID.String()+"/confirm", nil, "token")
		s.Equal(http.StatusNoContent, w.Code)
	})

	s.Run("illegal transition", func() {
		bookingID := uuid.New()
		s.mockLifecycle.EXPECT().ConfirmBooking(gomock.Any(), bookingID).
			Return(commands.ErrIllegalTransition)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost,
			"/bookings/"+bookingID.String()+"/confirm", nil, "token")
		httptest.AssertErrorResponse(s.T(), w, http.StatusUnprocessableEntity, "Illegal booking status transition")
	})
}

func (s *BookingHandlerTestSuite) TestCancelBooking() {
	s.Run("cancel without body", func() {
		bookingID := uuid.New()
		s.mockLifecycle.EXPECT().CancelBooking(gomock.Any(), bookingID, gomock.Any()).Return(nil)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost,
			"/bookings/"+bookingID.String()+"/cancel", nil, "token")
		s.Equal(http.StatusNoContent, w.Code)
	})

	s.Run("override flag reaches the command", func() {
		bookingID := uuid.New()
		s.mockLifecycle.EXPECT().CancelBooking(gomock.Any(), bookingID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ uuid.UUID, req commands.CancelBookingRequest) error {
				s.True(req.Override)
				return nil
			})

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost,
			"/bookings/"+bookingID.String()+"/cancel", map[string]any{"override": true}, "token")
		s.Equal(http.StatusNoContent, w.Code)
	})

	s.Run("error mapping", func() {
		cases := []struct {
			name       string
			err        error
			wantStatus int
		}{
			{name: "not found", err: commands.ErrBookingNotFound, wantStatus: http.StatusNotFound},
			{name: "blocked client", err: commands.ErrLateCancellationBlocked, wantStatus: http.StatusUnprocessableEntity},
			{name: "insufficient notice", err: commands.ErrInsufficientNotice, wantStatus: http.StatusUnprocessableEntity},
			{name: "terminal booking", err: commands.ErrIllegalTransition, wantStatus: http.StatusUnprocessableEntity},
		}
		for _, c := range cases {
			s.Run(c.name, func() {
				bookingID := uuid.New()
				s.mockLifecycle.EXPECT().CancelBooking(gomock.Any(), bookingID, gomock.Any()).Return(c.err)

				w := httptest.PerformRequest(s.T(), s.router, http.MethodPost,
					"/bookings/"+bookingID.String()+"/cancel", nil, "token")
				httptest.AssertErrorResponse(s.T(), w, c.wantStatus, "")
			})
		}
	})
}
