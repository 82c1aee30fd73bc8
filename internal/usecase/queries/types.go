package queries

import (
	"time"

	"vehicle-reservation/internal/domain/pricing"
	"vehicle-reservation/internal/domain/reservation"

	"github.com/google/uuid"
)

// ReservationView is the read model served to clients. DisplayStatus is
// computed at read time.
type ReservationView struct {
	ID               uuid.UUID                 `json:"id"`
	VehicleID        uuid.UUID                 `json:"vehicle_id"`
	UserID           uuid.UUID                 `json:"user_id"`
	PickupAt         time.Time                 `json:"pickup_at"`
	DropoffAt        time.Time                 `json:"dropoff_at"`
	PickupLocation   string                    `json:"pickup_location"`
	DropoffLocation  string                    `json:"dropoff_location"`
	Status           string                    `json:"status"`
	DisplayStatus    reservation.DisplayStatus `json:"display_status"`
	PaymentStatus    string                    `json:"payment_status"`
	PaymentReference string                    `json:"payment_reference,omitempty"`
	Price            pricing.Breakdown         `json:"price"`
	Total            int64                     `json:"total"`
	CreatedAt        time.Time                 `json:"created_at"`
	UpdatedAt        time.Time                 `json:"updated_at"`
}

func NewReservationView(r *reservation.Reservation, now time.Time) *ReservationView {
	return &ReservationView{
		ID:               r.ID(),
		VehicleID:        r.VehicleID(),
		UserID:           r.UserID(),
		PickupAt:         r.Interval().Start(),
		DropoffAt:        r.Interval().End(),
		PickupLocation:   r.PickupLocation().String(),
		DropoffLocation:  r.DropoffLocation().String(),
		Status:           r.Status().String(),
		DisplayStatus:    r.DisplayStatus(now),
		PaymentStatus:    r.PaymentStatus().String(),
		PaymentReference: r.PaymentReference(),
		Price:            r.Price(),
		Total:            r.Total().Int64(),
		CreatedAt:        r.CreatedAt(),
		UpdatedAt:        r.UpdatedAt(),
	}
}

type ConflictView struct {
	ReservationID uuid.UUID `json:"reservation_id"`
	PickupAt      time.Time `json:"pickup_at"`
	DropoffAt     time.Time `json:"dropoff_at"`
}

func NewConflictViews(conflicts []*reservation.Reservation) []ConflictView {
	views := make([]ConflictView, len(conflicts))
	for i, c := range conflicts {
		views[i] = ConflictView{
			ReservationID: c.ID(),
			PickupAt:      c.Interval().Start(),
			DropoffAt:     c.Interval().End(),
		}
	}
	return views
}

type AvailabilityView struct {
	VehicleID uuid.UUID      `json:"vehicle_id"`
	Start     time.Time      `json:"start"`
	End       time.Time      `json:"end"`
	Available bool           `json:"available"`
	Conflicts []ConflictView `json:"conflicts"`
}

// UserView represents read-optimized user data with authorization info
type UserView struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	IsActive  bool       `json:"is_active"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}
