package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	resdto "barberbook/internal/handler/dto/response"
	"barberbook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AvailabilityHandler struct {
	availabilityQueries queries.AvailabilityQueries
}

func NewAvailabilityHandler(availabilityQueries queries.AvailabilityQueries) *AvailabilityHandler {
	return &AvailabilityHandler{availabilityQueries: availabilityQueries}
}

// @Summary Day availability
// @Description List a professional's free slots for a date, sized by service duration or granularity
// @Tags availability
// @Produce json
// @Param locationId path string true "Location ID"
// @Param professionalId path string true "Professional ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param serviceId query string false "Service whose duration sizes the slots"
// @Param granularityMin query int false "Slot granularity in minutes"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /locations/{locationId}/professionals/{professionalId}/availability [get]
func (h *AvailabilityHandler) DayAvailability(c *gin.Context) {
	locationID, ok := pathUUID(c, "locationId")
	if !ok {
		return
	}
	professionalID, ok := pathUUID(c, "professionalId")
	if !ok {
		return
	}

	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid date, expected YYYY-MM-DD",
		})
		return
	}

	req := queries.AvailabilityRequest{
		LocationID:     locationID,
		ProfessionalID: professionalID,
		Date:           date,
	}

	if s := c.Query("serviceId"); s != "" {
		serviceID, err := uuid.Parse(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid serviceId format",
			})
			return
		}
		req.ServiceID = &serviceID
	}
	if s := c.Query("granularityMin"); s != "" {
		granularity, err := strconv.Atoi(s)
		if err != nil || granularity <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid granularityMin",
			})
			return
		}
		req.GranularityMin = &granularity
	}

	view, err := h.availabilityQueries.DayAvailability(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrProfessionalNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Professional not found",
			})
		case errors.Is(err, queries.ErrServiceNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Service not found",
			})
		case errors.Is(err, queries.ErrInvalidDate):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid availability date",
			})
		default:
			internalError(c)
		}
		return
	}

	resp, err := resdto.FromAvailabilityView(view)
	if err != nil {
		internalError(c)
		return
	}
	c.JSON(http.StatusOK, resp)
}
