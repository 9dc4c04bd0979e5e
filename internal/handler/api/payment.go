package api

import (
	"errors"
	"net/http"

	reqdto "barberbook/internal/handler/dto/request"
	resdto "barberbook/internal/handler/dto/response"
	"barberbook/internal/usecase/commands"
	"barberbook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
)

type PaymentHandler struct {
	paymentCommands commands.PaymentCommands
	paymentQueries  queries.PaymentQueries
}

func NewPaymentHandler(paymentCommands commands.PaymentCommands, paymentQueries queries.PaymentQueries) *PaymentHandler {
	return &PaymentHandler{
		paymentCommands: paymentCommands,
		paymentQueries:  paymentQueries,
	}
}

// @Summary Record payment
// @Description Record a payment on a booking, optionally applying a coupon, gift card, or cashback
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.RecordPaymentRequest true "Payment request"
// @Success 201 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /bookings/{id}/payments [post]
func (h *PaymentHandler) RecordPayment(c *gin.Context) {
	bookingID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req reqdto.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	paymentID, err := h.paymentCommands.RecordPayment(c.Request.Context(), bookingID, req.ToParams())
	if err != nil {
		h.handlePaymentError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": paymentID.String()})
}

// @Summary Remove payment
// @Description Remove a payment, unwinding any promotion it carried
// @Tags payments
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param paymentId path string true "Payment ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /bookings/{id}/payments/{paymentId} [delete]
func (h *PaymentHandler) RemovePayment(c *gin.Context) {
	bookingID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	paymentID, ok := pathUUID(c, "paymentId")
	if !ok {
		return
	}

	if err := h.paymentCommands.RemovePayment(c.Request.Context(), bookingID, paymentID); err != nil {
		h.handlePaymentError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary List payments
// @Description List a booking's payments with any promotions applied
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {array} response.PaymentResponse
// @Failure 400 {object} map[string]string
// @Router /bookings/{id}/payments [get]
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	bookingID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	views, err := h.paymentQueries.ListByBooking(c.Request.Context(), bookingID)
	if err != nil {
		internalError(c)
		return
	}

	resp := []*resdto.PaymentResponse{}
	if err := copier.Copy(&resp, &views); err != nil {
		internalError(c)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PaymentHandler) handlePaymentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Booking not found",
		})
	case errors.Is(err, commands.ErrPaymentNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Payment not found",
		})
	case errors.Is(err, commands.ErrCouponNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Coupon not found",
		})
	case errors.Is(err, commands.ErrGiftCardNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Gift card not found",
		})
	case errors.Is(err, commands.ErrBookingFrozen):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Booking is terminal and cannot be mutated",
		})
	case errors.Is(err, commands.ErrInvalidPaymentAmount):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Payment amount must be positive",
		})
	case errors.Is(err, commands.ErrMultipleInstruments):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "A payment may carry at most one promotion instrument",
		})
	case errors.Is(err, commands.ErrCouponRejected),
		errors.Is(err, commands.ErrGiftCardRejected),
		errors.Is(err, commands.ErrCashbackClientRequired):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Promotion instrument is not usable on this booking",
		})
	case errors.Is(err, commands.ErrCouponUsageExceeded),
		errors.Is(err, commands.ErrPromotionUsageCapped):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Promotion usage limit reached",
		})
	case errors.Is(err, commands.ErrPromotionStacking):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Promotion cannot be combined on this booking",
		})
	case errors.Is(err, commands.ErrInsufficientCashback):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Insufficient cashback balance",
		})
	default:
		internalError(c)
	}
}
