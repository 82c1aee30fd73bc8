package readstore

import (
	"context"

	"vehicle-reservation/internal/domain/reservation"
	"vehicle-reservation/internal/infra"
	"vehicle-reservation/internal/infra/converter"
	"vehicle-reservation/internal/infra/db"
	"vehicle-reservation/internal/infra/repository"

	"github.com/google/uuid"
)

const listReservationsByUserSQL = `SELECT ` + converter.ReservationColumns + ` FROM reservations
WHERE user_id = $1
ORDER BY pickup_at DESC, created_at DESC`

// ReservationReadStore reads outside any transaction.
type ReservationReadStore struct {
	db db.DBTX
}

func NewReservationReadStore(dbtx db.DBTX) *ReservationReadStore {
	return &ReservationReadStore{db: dbtx}
}

func (r *ReservationReadStore) FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	return repository.FindReservationByID(ctx, r.db, id)
}

func (r *ReservationReadStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*reservation.Reservation, error) {
	rows, err := r.db.Query(ctx, listReservationsByUserSQL, userID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservations", err)
	}
	list, err := converter.CollectReservations(rows)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan reservations", err)
	}
	return list, nil
}

func (r *ReservationReadStore) FindConflicting(ctx context.Context, vehicleID uuid.UUID, interval reservation.Interval) ([]*reservation.Reservation, error) {
	return repository.FindConflicting(ctx, r.db, vehicleID, interval)
}
