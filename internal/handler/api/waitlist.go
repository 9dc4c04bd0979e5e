package api

import (
	"errors"
	"net/http"
	"time"

	reqdto "barberbook/internal/handler/dto/request"
	resdto "barberbook/internal/handler/dto/response"
	"barberbook/internal/usecase/commands"
	"barberbook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type WaitListHandler struct {
	waitListCommands commands.WaitListCommands
	waitListQueries  queries.WaitListQueries
}

func NewWaitListHandler(waitListCommands commands.WaitListCommands, waitListQueries queries.WaitListQueries) *WaitListHandler {
	return &WaitListHandler{
		waitListCommands: waitListCommands,
		waitListQueries:  waitListQueries,
	}
}

// @Summary Join wait list
// @Description Register interest in a professional's day that has no free slots
// @Tags waitlist
// @Accept json
// @Produce json
// @Success 201 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /waitlist [post]
func (h *WaitListHandler) Join(c *gin.Context) {
	var req reqdto.JoinWaitListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	id, err := h.waitListCommands.JoinWaitList(c.Request.Context(), req.ToParams())
	if err != nil {
		if errors.Is(err, commands.ErrProfessionalNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Professional not found",
			})
			return
		}
		internalError(c)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id.String()})
}

// @Summary Leave wait list
// @Tags waitlist
// @Security BearerAuth
// @Param id path string true "Wait list entry ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /waitlist/{id} [delete]
func (h *WaitListHandler) Leave(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.waitListCommands.LeaveWaitList(c.Request.Context(), id); err != nil {
		if errors.Is(err, commands.ErrWaitListEntryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Wait list entry not found",
			})
			return
		}
		internalError(c)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary List active wait list entries
// @Tags waitlist
// @Produce json
// @Security BearerAuth
// @Param locationId path string true "Location ID"
// @Param date query string false "Filter by desired date (YYYY-MM-DD)"
// @Success 200 {array} response.WaitListEntryResponse
// @Failure 400 {object} map[string]string
// @Router /locations/{locationId}/waitlist [get]
func (h *WaitListHandler) ListActive(c *gin.Context) {
	locationID, ok := pathUUID(c, "locationId")
	if !ok {
		return
	}

	var desiredDate *time.Time
	if s := c.Query("date"); s != "" {
		date, err := time.Parse("2006-01-02", s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid date, expected YYYY-MM-DD",
			})
			return
		}
		desiredDate = &date
	}

	views, err := h.waitListQueries.ActiveByLocation(c.Request.Context(), locationID, desiredDate)
	if err != nil {
		internalError(c)
		return
	}

	resp, err := resdto.FromWaitListViews(views)
	if err != nil {
		internalError(c)
		return
	}
	c.JSON(http.StatusOK, resp)
}
