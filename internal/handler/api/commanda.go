package api

import (
	"errors"
	"net/http"

	reqdto "barberbook/internal/handler/dto/request"
	"barberbook/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type CommandaHandler struct {
	commandaCommands commands.CommandaCommands
}

func NewCommandaHandler(commandaCommands commands.CommandaCommands) *CommandaHandler {
	return &CommandaHandler{commandaCommands: commandaCommands}
}

// @Summary Add booking item
// @Description Add a service or product line to a booking's tab
// @Tags commanda
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.AddItemRequest true "Item request"
// @Success 201 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /bookings/{id}/items [post]
func (h *CommandaHandler) AddItem(c *gin.Context) {
	bookingID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req reqdto.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	itemID, err := h.commandaCommands.AddItem(c.Request.Context(), bookingID, req.ToParams())
	if err != nil {
		h.handleItemError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": itemID.String()})
}

// @Summary Update booking item
// @Description Patch a booking item; omitted fields keep their values
// @Tags commanda
// @Accept json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param itemId path string true "Item ID"
// @Param request body reqdto.UpdateItemRequest true "Item patch"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /bookings/{id}/items/{itemId} [patch]
func (h *CommandaHandler) UpdateItem(c *gin.Context) {
	bookingID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	itemID, ok := pathUUID(c, "itemId")
	if !ok {
		return
	}

	var req reqdto.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	if err := h.commandaCommands.UpdateItem(c.Request.Context(), bookingID, itemID, req.ToParams()); err != nil {
		h.handleItemError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Remove booking item
// @Description Remove an item from a booking's tab, restoring product stock
// @Tags commanda
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param itemId path string true "Item ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /bookings/{id}/items/{itemId} [delete]
func (h *CommandaHandler) RemoveItem(c *gin.Context) {
	bookingID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	itemID, ok := pathUUID(c, "itemId")
	if !ok {
		return
	}

	if err := h.commandaCommands.RemoveItem(c.Request.Context(), bookingID, itemID); err != nil {
		h.handleItemError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *CommandaHandler) handleItemError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Booking not found",
		})
	case errors.Is(err, commands.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Booking item not found",
		})
	case errors.Is(err, commands.ErrServiceNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Service not found",
		})
	case errors.Is(err, commands.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not found",
		})
	case errors.Is(err, commands.ErrBookingFrozen):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Booking is terminal and cannot be mutated",
		})
	case errors.Is(err, commands.ErrInsufficientStock):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Insufficient product stock",
		})
	case errors.Is(err, commands.ErrCatalogWrongLocation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Catalog entry belongs to a different location",
		})
	case errors.Is(err, commands.ErrCatalogInactive):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Catalog entry is inactive",
		})
	case errors.Is(err, commands.ErrDomainValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Domain validation failed",
		})
	default:
		internalError(c)
	}
}
