package shared

import (
	"context"
	"time"

	"vehicle-reservation/internal/domain/auth"
	"vehicle-reservation/internal/domain/reservation"
	"vehicle-reservation/internal/domain/user"
	"vehicle-reservation/internal/domain/vehicle"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations. Rolled back when fn returns an error.
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinVehicle: Within, serialized against every other WithinVehicle call for the same vehicle
	WithinVehicle(ctx context.Context, vehicleID uuid.UUID, fn func(ctx context.Context, tx Tx) error) error
	// Reads: Non-transactional access for single statement reads
	Reads() Tx
}

type Tx interface {
	Reservations() ReservationRepository
	RefreshTokens() RefreshTokenRepository
	Users() UserRepository
	Vehicles() VehicleRepository
}

// ReservationRepository is the write side of the booking ledger.
type ReservationRepository interface {
	Create(ctx context.Context, res *reservation.Reservation) error
	UpdateStatus(ctx context.Context, res *reservation.Reservation) error
	FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
	// FindConflicting returns ledger reservations of the vehicle overlapping interval.
	FindConflicting(ctx context.Context, vehicleID uuid.UUID, interval reservation.Interval) ([]*reservation.Reservation, error)
}

type RefreshTokenRepository interface {
	Create(ctx context.Context, token *auth.RefreshToken) error
	FindByID(ctx context.Context, id uuid.UUID) (*auth.RefreshToken, error)
	// MarkRotated reports false when the token was already rotated or is gone.
	MarkRotated(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	DeleteFamily(ctx context.Context, familyID uuid.UUID) (int64, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	FindByEmail(ctx context.Context, email user.Email) (*user.User, error)
	Create(ctx context.Context, u *user.User) error
	UpdateLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error
}

type VehicleRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*vehicle.Vehicle, error)
	Create(ctx context.Context, v *vehicle.Vehicle) error
}
