package request

import (
	"strings"
	"time"

	"vehicle-reservation/internal/usecase/commands"

	"github.com/google/uuid"
)

type CreateReservationRequest struct {
	VehicleID         uuid.UUID `json:"vehicle_id" binding:"required"`
	PickupAt          time.Time `json:"pickup_at" binding:"required"`
	DropoffAt         time.Time `json:"dropoff_at" binding:"required"`
	PickupLocation    string    `json:"pickup_location" binding:"required,max=100"`
	DropoffLocation   string    `json:"dropoff_location" binding:"required,max=100"`
	DiscountCode      *string   `json:"discount_code,omitempty" binding:"omitempty,max=50"`
	Extras            []string  `json:"extras,omitempty" binding:"omitempty,max=10,dive,required,max=50"`
	PaymentInstrument string    `json:"payment_instrument" binding:"required"`
}

func (r CreateReservationRequest) GetDiscountCode() string {
	if r.DiscountCode == nil {
		return ""
	}
	return strings.TrimSpace(*r.DiscountCode)
}

func (r CreateReservationRequest) ToParams(userID uuid.UUID) commands.CommitParams {
	return commands.CommitParams{
		UserID:            userID,
		VehicleID:         r.VehicleID,
		PickupAt:          r.PickupAt,
		DropoffAt:         r.DropoffAt,
		PickupLocation:    strings.TrimSpace(r.PickupLocation),
		DropoffLocation:   strings.TrimSpace(r.DropoffLocation),
		DiscountCode:      r.GetDiscountCode(),
		ExtraCodes:        r.Extras,
		PaymentInstrument: r.PaymentInstrument,
	}
}

type AvailabilityQuery struct {
	Start time.Time `form:"start" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
	End   time.Time `form:"end" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
}
