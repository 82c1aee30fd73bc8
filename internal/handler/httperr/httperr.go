package httperr

import (
	"net/http"

	"vehicle-reservation/internal/pkg/errs"
	"vehicle-reservation/internal/usecase/commands"
	"vehicle-reservation/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Body struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type Response struct {
	Status int  `json:"-"`
	Error  Body `json:"error"`
	Detail any  `json:"detail,omitempty"`
}

type ConflictDetail struct {
	VehicleID uuid.UUID              `json:"vehicle_id"`
	Conflicts []queries.ConflictView `json:"conflicts"`
}

type PostCommitDetail struct {
	ReservationID    uuid.UUID `json:"reservation_id"`
	PaymentReference string    `json:"payment_reference"`
}

const (
	msgInternal   = "Internal server error"
	msgDependency = "A required service is temporarily unavailable, please retry later"
	msgPostCommit = "Payment was captured but the reservation could not be stored. Support has been alerted; do not retry"
)

var statusByKind = map[errs.Kind]int{
	errs.KindValidation:              http.StatusBadRequest,
	errs.KindConflict:                http.StatusConflict,
	errs.KindAuth:                    http.StatusUnauthorized,
	errs.KindPaymentDeclined:         http.StatusPaymentRequired,
	errs.KindDependency:              http.StatusServiceUnavailable,
	errs.KindPostCommitInconsistency: http.StatusInternalServerError,
	errs.KindNotFound:                http.StatusNotFound,
	errs.KindInternal:                http.StatusInternalServerError,
}

func StatusFor(kind errs.Kind) int {
	if status, ok := statusByKind[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, kind errs.Kind, msg string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := Response{Status: status, Detail: detail}
	resp.Error.Kind = string(kind)
	resp.Error.Message = msg

	_ = c.Error(&gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

// Abort derives status, message and detail from the error's kind.
func Abort(c *gin.Context, err error) {
	kind := errs.KindOf(err)
	msg := err.Error()
	var detail any

	switch kind {
	case errs.KindConflict:
		var conflict *commands.ConflictError
		if errs.As(err, &conflict) {
			msg = "vehicle is not available for the requested interval"
			detail = ConflictDetail{
				VehicleID: conflict.VehicleID,
				Conflicts: queries.NewConflictViews(conflict.Conflicts),
			}
		}
	case errs.KindPostCommitInconsistency:
		msg = msgPostCommit
		var postCommit *commands.PostCommitError
		if errs.As(err, &postCommit) {
			detail = PostCommitDetail{
				ReservationID:    postCommit.ReservationID,
				PaymentReference: postCommit.PaymentReference,
			}
		}
	case errs.KindDependency:
		msg = msgDependency
	case errs.KindInternal:
		msg = msgInternal
	}

	AbortWithError(c, StatusFor(kind), err, kind, msg, detail)
}

// BadRequest reports malformed input caught by request binding.
func BadRequest(c *gin.Context, err error, msg string) {
	AbortWithError(c, http.StatusBadRequest, err, errs.KindValidation, msg, nil)
}
