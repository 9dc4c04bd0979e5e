package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	reqdto "barberbook/internal/handler/dto/request"
	resdto "barberbook/internal/handler/dto/response"
	"barberbook/internal/handler/middleware"
	"barberbook/internal/usecase/commands"
	"barberbook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	bookingCommands   commands.BookingCommands
	lifecycleCommands commands.LifecycleCommands
	bookingQueries    queries.BookingQueries
}

func NewBookingHandler(
	bookingCommands commands.BookingCommands,
	lifecycleCommands commands.LifecycleCommands,
	bookingQueries queries.BookingQueries,
) *BookingHandler {
	return &BookingHandler{
		bookingCommands:   bookingCommands,
		lifecycleCommands: lifecycleCommands,
		bookingQueries:    bookingQueries,
	}
}

// @Summary Create booking
// @Description Create a booking for a professional's time slot
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateBookingRequest true "Booking request"
// @Success 201 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /bookings [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req reqdto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	id, err := h.bookingCommands.CreateBooking(c.Request.Context(), req.ToParams())
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrProfessionalNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Professional not found",
			})
		case errors.Is(err, commands.ErrInvalidTimeSlot):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid time slot",
			})
		case errors.Is(err, commands.ErrHolidayClosed):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Location is closed on the requested date",
			})
		case errors.Is(err, commands.ErrBlockedInterval):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Time slot overlaps an unavailability block",
			})
		case errors.Is(err, commands.ErrSlotOccupied):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Time slot conflicts with an existing booking",
			})
		case errors.Is(err, commands.ErrDomainValidation):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Domain validation failed",
			})
		default:
			internalError(c)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id.String()})
}

// @Summary Get booking
// @Description Get a booking with its items, payments, and settlement
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /bookings/{id} [get]
func (h *BookingHandler) GetBooking(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	view, err := h.bookingQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, queries.ErrBookingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Booking not found",
			})
			return
		}
		internalError(c)
		return
	}

	resp, err := resdto.FromBookingView(view)
	if err != nil {
		internalError(c)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary List bookings by location
// @Description List bookings for a location, newest first, keyset-paginated
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param locationId path string true "Location ID"
// @Param after query string false "Opaque cursor from a previous page"
// @Param limit query int false "Page size (default 20, max 200)"
// @Success 200 {object} resdto.BookingListResponse
// @Failure 400 {object} map[string]string
// @Router /locations/{locationId}/bookings [get]
func (h *BookingHandler) ListByLocation(c *gin.Context) {
	locationID, ok := pathUUID(c, "locationId")
	if !ok {
		return
	}
	h.list(c, func(after *queries.Cursor, limit int) ([]*queries.BookingListItem, *queries.Cursor, error) {
		return h.bookingQueries.ListByLocation(c.Request.Context(), locationID, after, limit)
	})
}

// @Summary List my bookings
// @Description List the authenticated client's bookings, newest first
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param after query string false "Opaque cursor from a previous page"
// @Param limit query int false "Page size (default 20, max 200)"
// @Success 200 {object} resdto.BookingListResponse
// @Failure 401 {object} map[string]string
// @Router /bookings [get]
func (h *BookingHandler) ListMine(c *gin.Context) {
	clientID, ok := middleware.GetUserID(c)
	if !ok {
		internalError(c)
		return
	}
	h.list(c, func(after *queries.Cursor, limit int) ([]*queries.BookingListItem, *queries.Cursor, error) {
		return h.bookingQueries.ListByClient(c.Request.Context(), clientID, after, limit)
	})
}

func (h *BookingHandler) list(c *gin.Context, fetch func(after *queries.Cursor, limit int) ([]*queries.BookingListItem, *queries.Cursor, error)) {
	var after *queries.Cursor
	if s := c.Query("after"); s != "" {
		after = &queries.Cursor{After: s}
	}
	limit := 0
	if s := c.Query("limit"); s != "" {
		parsed, err := strconv.Atoi(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid limit",
			})
			return
		}
		limit = parsed
	}

	items, next, err := fetch(after, limit)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid cursor",
		})
		return
	}

	resp, err := resdto.FromBookingList(items, next)
	if err != nil {
		internalError(c)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Confirm booking
// @Tags bookings
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 204
// @Router /bookings/{id}/confirm [post]
func (h *BookingHandler) ConfirmBooking(c *gin.Context) {
	h.transition(c, h.lifecycleCommands.ConfirmBooking)
}

// @Summary Start booking
// @Tags bookings
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 204
// @Router /bookings/{id}/start [post]
func (h *BookingHandler) StartBooking(c *gin.Context) {
	h.transition(c, h.lifecycleCommands.StartBooking)
}

// @Summary Complete booking
// @Description Complete a booking and reconcile its settlement
// @Tags bookings
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 204
// @Router /bookings/{id}/complete [post]
func (h *BookingHandler) CompleteBooking(c *gin.Context) {
	h.transition(c, h.lifecycleCommands.CompleteBooking)
}

// @Summary Cancel booking
// @Description Cancel a booking; below the minimum notice this is rejected unless override is set
// @Tags bookings
// @Accept json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.CancelBookingRequest false "Cancellation details"
// @Success 204
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /bookings/{id}/cancel [post]
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req reqdto.CancelBookingRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid request format",
			})
			return
		}
	}

	var actorID *uuid.UUID
	if userID, ok := middleware.GetUserID(c); ok {
		actorID = &userID
	}

	err := h.lifecycleCommands.CancelBooking(c.Request.Context(), id, req.ToParams(actorID))
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Booking not found",
			})
		case errors.Is(err, commands.ErrLateCancellationBlocked):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Client is blocked from further late cancellations",
			})
		case errors.Is(err, commands.ErrInsufficientNotice):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Cancellation is below the minimum advance notice",
			})
		case errors.Is(err, commands.ErrIllegalTransition):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Booking cannot be canceled in its current status",
			})
		default:
			internalError(c)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *BookingHandler) transition(c *gin.Context, fn func(ctx context.Context, id uuid.UUID) error) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := fn(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, commands.ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Booking not found",
			})
		case errors.Is(err, commands.ErrIllegalTransition):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Illegal booking status transition",
			})
		default:
			internalError(c)
		}
		return
	}

	c.Status(http.StatusNoContent)
}
