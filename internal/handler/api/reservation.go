package api

import (
	"net/http"

	reqdto "vehicle-reservation/internal/handler/dto/request"
	resdto "vehicle-reservation/internal/handler/dto/response"
	"vehicle-reservation/internal/handler/httperr"
	"vehicle-reservation/internal/handler/middleware"
	"vehicle-reservation/internal/pkg/errs"
	"vehicle-reservation/internal/usecase/commands"
	"vehicle-reservation/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var errMissingUser = errs.New("user id missing from context")

type ReservationHandler struct {
	commands commands.ReservationCommands
	queries  queries.ReservationQueries
}

func NewReservationHandler(reservationCommands commands.ReservationCommands, reservationQueries queries.ReservationQueries) *ReservationHandler {
	return &ReservationHandler{
		commands: reservationCommands,
		queries:  reservationQueries,
	}
}

// @Summary Commit reservation
// @Description Check availability, price, charge and persist a reservation in one call
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateReservationRequest true "Reservation request"
// @Success 201 {object} resdto.CommitResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 402 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 500 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /reservations [post]
func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.Abort(c, errMissingUser)
		return
	}

	var req reqdto.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err, "Invalid request format")
		return
	}

	result, err := h.commands.CommitReservation(c.Request.Context(), req.ToParams(userID))
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	response, err := resdto.FromCommitResult(result)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, response)
}

// @Summary Get reservation
// @Description Get one of the caller's reservations
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /reservations/{id} [get]
func (h *ReservationHandler) GetReservation(c *gin.Context) {
	userID, id, ok := h.userAndReservationID(c)
	if !ok {
		return
	}

	view, err := h.queries.GetReservation(c.Request.Context(), userID, id)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	h.respondView(c, http.StatusOK, view)
}

// @Summary List reservations
// @Description List the caller's reservations, newest pickup first
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.ReservationListResponse
// @Failure 401 {object} httperr.Response
// @Router /reservations [get]
func (h *ReservationHandler) GetUserReservations(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.Abort(c, errMissingUser)
		return
	}

	views, err := h.queries.ListUserReservations(c.Request.Context(), userID)
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	response, err := resdto.FromReservationViews(views)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// @Summary Cancel reservation
// @Description Cancel before pickup; paid reservations are refunded
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /reservations/{id}/cancel [post]
func (h *ReservationHandler) CancelReservation(c *gin.Context) {
	userID, id, ok := h.userAndReservationID(c)
	if !ok {
		return
	}

	view, err := h.commands.CancelReservation(c.Request.Context(), userID, id)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	h.respondView(c, http.StatusOK, view)
}

func (h *ReservationHandler) userAndReservationID(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.Abort(c, errMissingUser)
		return uuid.Nil, uuid.Nil, false
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, err, "Invalid reservation ID format")
		return uuid.Nil, uuid.Nil, false
	}
	return userID, id, true
}

func (h *ReservationHandler) respondView(c *gin.Context, status int, view *queries.ReservationView) {
	response, err := resdto.FromReservationView(view)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(status, response)
}
