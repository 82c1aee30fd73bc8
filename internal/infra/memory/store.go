// Package memory is a process-local implementation of the persistence ports.
// It backs local development and unit tests with the same locking contract
// as the Postgres implementation.
package memory

import (
	"sync"

	"vehicle-reservation/internal/domain/auth"
	"vehicle-reservation/internal/domain/reservation"
	"vehicle-reservation/internal/domain/user"
	"vehicle-reservation/internal/domain/vehicle"
	"vehicle-reservation/internal/pkg/keylock"

	"github.com/google/uuid"
)

type Store struct {
	mu           sync.RWMutex
	reservations map[uuid.UUID]*reservation.Reservation
	tokens       map[uuid.UUID]*auth.RefreshToken
	users        map[uuid.UUID]*user.User
	vehicles     map[uuid.UUID]*vehicle.Vehicle

	vehicleLocks *keylock.Map[uuid.UUID]
}

func NewStore() *Store {
	return &Store{
		reservations: make(map[uuid.UUID]*reservation.Reservation),
		tokens:       make(map[uuid.UUID]*auth.RefreshToken),
		users:        make(map[uuid.UUID]*user.User),
		vehicles:     make(map[uuid.UUID]*vehicle.Vehicle),
		vehicleLocks: keylock.New[uuid.UUID](),
	}
}

// Stored values are copied on the way in and out so callers never share
// mutable state with the store.

func cloneReservation(r *reservation.Reservation) *reservation.Reservation {
	return reservation.Reconstruct(
		r.ID(), r.VehicleID(), r.UserID(), r.Interval(),
		r.PickupLocation(), r.DropoffLocation(), r.Price(),
		r.Status(), r.PaymentStatus(), r.PaymentReference(),
		r.CreatedAt(), r.UpdatedAt(),
	)
}

func cloneToken(t *auth.RefreshToken) *auth.RefreshToken {
	if t.RotatedAt() != nil {
		at := *t.RotatedAt()
		return auth.ReconstructRefreshToken(t.ID(), t.UserID(), t.FamilyID(), t.ExpiresAt(), t.CreatedAt(), &at)
	}
	return auth.ReconstructRefreshToken(t.ID(), t.UserID(), t.FamilyID(), t.ExpiresAt(), t.CreatedAt(), nil)
}

func cloneUser(u *user.User) *user.User {
	lastLogin := u.LastLogin()
	if lastLogin != nil {
		at := *lastLogin
		lastLogin = &at
	}
	return user.Reconstruct(u.ID(), u.Email(), u.PasswordHash(), u.Role(), lastLogin, u.IsActive(), u.CreatedAt(), u.UpdatedAt())
}

func cloneVehicle(v *vehicle.Vehicle) *vehicle.Vehicle {
	return vehicle.Reconstruct(v.ID(), v.Model(), v.Year(), v.DailyRate(), v.Seats(), v.Automatic(), v.Active(), v.CreatedAt(), v.UpdatedAt())
}
