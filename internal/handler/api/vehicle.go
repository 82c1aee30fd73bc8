package api

import (
	"net/http"

	reqdto "vehicle-reservation/internal/handler/dto/request"
	"vehicle-reservation/internal/handler/httperr"
	"vehicle-reservation/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type VehicleHandler struct {
	availability queries.AvailabilityQueries
}

func NewVehicleHandler(availability queries.AvailabilityQueries) *VehicleHandler {
	return &VehicleHandler{availability: availability}
}

// @Summary Check availability
// @Description Report whether a vehicle is free for [start, end) and list conflicting reservations
// @Tags vehicles
// @Produce json
// @Security BearerAuth
// @Param id path string true "Vehicle ID"
// @Param start query string true "RFC3339 start"
// @Param end query string true "RFC3339 end"
// @Success 200 {object} queries.AvailabilityView
// @Failure 400 {object} httperr.Response
// @Router /vehicles/{id}/availability [get]
func (h *VehicleHandler) CheckAvailability(c *gin.Context) {
	vehicleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, err, "Invalid vehicle ID format")
		return
	}

	var q reqdto.AvailabilityQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.BadRequest(c, err, "start and end must be RFC3339 timestamps")
		return
	}

	view, err := h.availability.CheckAvailability(c.Request.Context(), vehicleID, q.Start, q.End)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
