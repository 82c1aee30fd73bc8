//go:build unit || e2e

package builder

import (
	"time"

	"vehicle-reservation/internal/domain/pricing"
	"vehicle-reservation/internal/domain/reservation"

	"github.com/google/uuid"
)

type ReservationBuilder struct {
	ID               uuid.UUID
	VehicleID        uuid.UUID
	UserID           uuid.UUID
	Start            time.Time
	End              time.Time
	PickupLocation   string
	DropoffLocation  string
	Price            pricing.Breakdown
	Status           reservation.Status
	PaymentStatus    reservation.PaymentStatus
	PaymentReference string
	CreatedAt        time.Time
}

func NewReservationBuilder() *ReservationBuilder {
	start := time.Date(2024, 4, 10, 10, 0, 0, 0, time.UTC)
	return &ReservationBuilder{
		ID:              uuid.New(),
		VehicleID:       uuid.New(),
		UserID:          uuid.New(),
		Start:           start,
		End:             start.Add(72 * time.Hour),
		PickupLocation:  "Haneda Airport T3",
		DropoffLocation: "Shinagawa Station",
		Price: pricing.Breakdown{
			Days: 3, DailyRate: 1000, Base: 3000, Taxable: 3000, TaxRate: 750, Tax: 225, Total: 3225,
		},
		Status:           reservation.StatusConfirmed,
		PaymentStatus:    reservation.PaymentPaid,
		PaymentReference: "pay_test_123",
		CreatedAt:        start.Add(-30 * 24 * time.Hour),
	}
}

func (r *ReservationBuilder) With(mutate func(*ReservationBuilder)) *ReservationBuilder {
	mutate(r)
	return r
}

func (r *ReservationBuilder) WithInterval(start, end time.Time) *ReservationBuilder {
	r.Start, r.End = start, end
	return r
}

func (r *ReservationBuilder) ForVehicle(id uuid.UUID) *ReservationBuilder {
	r.VehicleID = id
	return r
}

func (r *ReservationBuilder) ForUser(id uuid.UUID) *ReservationBuilder {
	r.UserID = id
	return r
}

func (r *ReservationBuilder) AsCancelled() *ReservationBuilder {
	r.Status = reservation.StatusCancelled
	r.PaymentStatus = reservation.PaymentRefunded
	return r
}

func (r *ReservationBuilder) AsPending() *ReservationBuilder {
	r.Status = reservation.StatusPending
	r.PaymentStatus = reservation.PaymentUnpaid
	r.PaymentReference = ""
	return r
}

func (r *ReservationBuilder) BuildInterval() (reservation.Interval, error) {
	return reservation.NewInterval(r.Start, r.End)
}

// BuildDomain panics on invalid builder state; tests construct invalid values directly.
func (r *ReservationBuilder) BuildDomain() *reservation.Reservation {
	interval, err := r.BuildInterval()
	if err != nil {
		panic(err)
	}
	pickup, err := reservation.NewLocation(r.PickupLocation)
	if err != nil {
		panic(err)
	}
	dropoff, err := reservation.NewLocation(r.DropoffLocation)
	if err != nil {
		panic(err)
	}
	return reservation.Reconstruct(
		r.ID, r.VehicleID, r.UserID, interval, pickup, dropoff, r.Price,
		r.Status, r.PaymentStatus, r.PaymentReference, r.CreatedAt, r.CreatedAt,
	)
}
