package response

import (
	"time"

	"vehicle-reservation/internal/domain/pricing"
	"vehicle-reservation/internal/usecase/commands"
	"vehicle-reservation/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type ReservationResponse struct {
	ID               uuid.UUID         `json:"id"`
	VehicleID        uuid.UUID         `json:"vehicle_id"`
	UserID           uuid.UUID         `json:"user_id"`
	PickupAt         time.Time         `json:"pickup_at"`
	DropoffAt        time.Time         `json:"dropoff_at"`
	PickupLocation   string            `json:"pickup_location"`
	DropoffLocation  string            `json:"dropoff_location"`
	Status           string            `json:"status"`
	DisplayStatus    string            `json:"display_status"`
	PaymentStatus    string            `json:"payment_status"`
	PaymentReference string            `json:"payment_reference,omitempty"`
	Price            pricing.Breakdown `json:"price"`
	Total            int64             `json:"total"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

type CommitResponse struct {
	Reservation *ReservationResponse `json:"reservation"`
	Warnings    []pricing.Warning    `json:"warnings,omitempty"`
}

type ReservationListResponse struct {
	Reservations []*ReservationResponse `json:"reservations"`
}

func FromReservationView(view *queries.ReservationView) (*ReservationResponse, error) {
	var resp ReservationResponse
	if err := copier.Copy(&resp, view); err != nil {
		return nil, err
	}
	resp.DisplayStatus = string(view.DisplayStatus)
	return &resp, nil
}

func FromCommitResult(result *commands.CommitResult) (*CommitResponse, error) {
	reservation, err := FromReservationView(result.Reservation)
	if err != nil {
		return nil, err
	}
	return &CommitResponse{Reservation: reservation, Warnings: result.Warnings}, nil
}

func FromReservationViews(views []*queries.ReservationView) (*ReservationListResponse, error) {
	out := &ReservationListResponse{Reservations: make([]*ReservationResponse, 0, len(views))}
	for _, v := range views {
		resp, err := FromReservationView(v)
		if err != nil {
			return nil, err
		}
		out.Reservations = append(out.Reservations, resp)
	}
	return out, nil
}
