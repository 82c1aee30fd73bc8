package reservation

import (
	"errors"
	"time"

	"vehicle-reservation/internal/domain/pricing"

	"github.com/google/uuid"
)

var (
	ErrNotCancellable     = errors.New("reservation can no longer be cancelled")
	ErrAlreadyCancelled   = errors.New("reservation is already cancelled")
	ErrAlreadyConfirmed   = errors.New("reservation is already confirmed")
	ErrMissingPaymentRef  = errors.New("payment reference is required")
	ErrInvalidReservation = errors.New("invalid reservation")
)

type Reservation struct {
	id               uuid.UUID
	vehicleID        uuid.UUID
	userID           uuid.UUID
	interval         Interval
	pickupLocation   Location
	dropoffLocation  Location
	price            pricing.Breakdown
	status           Status
	paymentStatus    PaymentStatus
	paymentReference string
	createdAt        time.Time
	updatedAt        time.Time
}

type Draft struct {
	ID              uuid.UUID
	VehicleID       uuid.UUID
	UserID          uuid.UUID
	Interval        Interval
	PickupLocation  Location
	DropoffLocation Location
	Price           pricing.Breakdown
}

// NewPending creates an unpaid reservation. It does not hold the vehicle
// until Confirm is called.
func NewPending(d Draft, now time.Time) (*Reservation, error) {
	if d.ID == uuid.Nil || d.VehicleID == uuid.Nil || d.UserID == uuid.Nil {
		return nil, ErrInvalidReservation
	}
	if d.Interval.Start().IsZero() {
		return nil, ErrInvalidInterval
	}
	if d.PickupLocation.IsEmpty() || d.DropoffLocation.IsEmpty() {
		return nil, ErrInvalidLocation
	}
	return &Reservation{
		id:              d.ID,
		vehicleID:       d.VehicleID,
		userID:          d.UserID,
		interval:        d.Interval,
		pickupLocation:  d.PickupLocation,
		dropoffLocation: d.DropoffLocation,
		price:           d.Price,
		status:          StatusPending,
		paymentStatus:   PaymentUnpaid,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

func Reconstruct(
	id, vehicleID, userID uuid.UUID,
	interval Interval,
	pickupLocation, dropoffLocation Location,
	price pricing.Breakdown,
	status Status,
	paymentStatus PaymentStatus,
	paymentReference string,
	createdAt, updatedAt time.Time,
) *Reservation {
	return &Reservation{
		id:               id,
		vehicleID:        vehicleID,
		userID:           userID,
		interval:         interval,
		pickupLocation:   pickupLocation,
		dropoffLocation:  dropoffLocation,
		price:            price,
		status:           status,
		paymentStatus:    paymentStatus,
		paymentReference: paymentReference,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

// Confirm records a captured payment and moves the reservation into the ledger.
func (r *Reservation) Confirm(paymentReference string, now time.Time) error {
	if r.status != StatusPending {
		return ErrAlreadyConfirmed
	}
	if paymentReference == "" {
		return ErrMissingPaymentRef
	}
	r.status = StatusConfirmed
	r.paymentStatus = PaymentPaid
	r.paymentReference = paymentReference
	r.updatedAt = now
	return nil
}

func (r *Reservation) DisplayStatus(now time.Time) DisplayStatus {
	switch {
	case r.status == StatusCancelled:
		return DisplayCancelled
	case now.Before(r.interval.Start()):
		return DisplayUpcoming
	case !now.After(r.interval.End()):
		return DisplayActive
	default:
		return DisplayCompleted
	}
}

func (r *Reservation) CanCancel(now time.Time) error {
	if r.status == StatusCancelled {
		return ErrAlreadyCancelled
	}
	if r.status != StatusPending && r.status != StatusConfirmed {
		return ErrNotCancellable
	}
	if r.DisplayStatus(now) != DisplayUpcoming {
		return ErrNotCancellable
	}
	return nil
}

// Cancel releases the vehicle. A paid reservation must already be refunded
// by the caller; its payment status becomes refunded.
func (r *Reservation) Cancel(now time.Time) error {
	if err := r.CanCancel(now); err != nil {
		return err
	}
	r.status = StatusCancelled
	if r.paymentStatus == PaymentPaid {
		r.paymentStatus = PaymentRefunded
	}
	r.updatedAt = now
	return nil
}

func (r *Reservation) IsPaid() bool {
	return r.paymentStatus == PaymentPaid
}

func (r *Reservation) InLedger() bool {
	return r.status.InLedger()
}

func (r *Reservation) ConflictsWith(other Interval) bool {
	return r.InLedger() && r.interval.Overlaps(other)
}

func (r *Reservation) ID() uuid.UUID                { return r.id }
func (r *Reservation) VehicleID() uuid.UUID         { return r.vehicleID }
func (r *Reservation) UserID() uuid.UUID            { return r.userID }
func (r *Reservation) Interval() Interval           { return r.interval }
func (r *Reservation) PickupLocation() Location     { return r.pickupLocation }
func (r *Reservation) DropoffLocation() Location    { return r.dropoffLocation }
func (r *Reservation) Price() pricing.Breakdown     { return r.price }
func (r *Reservation) Total() pricing.Money         { return r.price.Total }
func (r *Reservation) Status() Status               { return r.status }
func (r *Reservation) PaymentStatus() PaymentStatus { return r.paymentStatus }
func (r *Reservation) PaymentReference() string     { return r.paymentReference }
func (r *Reservation) CreatedAt() time.Time         { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time         { return r.updatedAt }
