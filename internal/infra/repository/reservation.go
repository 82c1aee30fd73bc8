package repository

import (
	"context"

	"vehicle-reservation/internal/domain/reservation"
	"vehicle-reservation/internal/infra"
	"vehicle-reservation/internal/infra/converter"
	"vehicle-reservation/internal/infra/db"

	"github.com/google/uuid"
)

const (
	insertReservationSQL = `INSERT INTO reservations (` + converter.ReservationColumns + `, total)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	updateReservationStatusSQL = `UPDATE reservations
SET status = $2, payment_status = $3, payment_reference = $4, updated_at = $5
WHERE id = $1`

	findReservationByIDSQL = `SELECT ` + converter.ReservationColumns + ` FROM reservations WHERE id = $1`

	// same predicate as reservation.Interval.Overlaps: s1 < e2 AND s2 < e1
	findConflictingSQL = `SELECT ` + converter.ReservationColumns + ` FROM reservations
WHERE vehicle_id = $1
  AND status = ANY($2)
  AND pickup_at < $4
  AND $3 < dropoff_at
ORDER BY pickup_at`
)

type ReservationRepository struct {
	db db.DBTX
}

func NewReservationRepository(dbtx db.DBTX) *ReservationRepository {
	return &ReservationRepository{db: dbtx}
}

func (r *ReservationRepository) Create(ctx context.Context, res *reservation.Reservation) error {
	row := converter.ReservationToRow(res)
	_, err := r.db.Exec(ctx, insertReservationSQL,
		row.ID, row.VehicleID, row.UserID, row.PickupAt, row.DropoffAt, row.PickupLocation, row.DropoffLocation,
		row.Price, row.Status, row.PaymentStatus, row.PaymentReference, row.CreatedAt, row.UpdatedAt, row.Total,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create reservation", err)
	}
	return nil
}

func (r *ReservationRepository) UpdateStatus(ctx context.Context, res *reservation.Reservation) error {
	row := converter.ReservationToRow(res)
	tag, err := r.db.Exec(ctx, updateReservationStatusSQL,
		row.ID, row.Status, row.PaymentStatus, row.PaymentReference, row.UpdatedAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update reservation status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindNotFound, "reservation not found")
	}
	return nil
}

func (r *ReservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	return FindReservationByID(ctx, r.db, id)
}

func (r *ReservationRepository) FindConflicting(ctx context.Context, vehicleID uuid.UUID, interval reservation.Interval) ([]*reservation.Reservation, error) {
	return FindConflicting(ctx, r.db, vehicleID, interval)
}

// FindReservationByID is shared with the read side.
func FindReservationByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*reservation.Reservation, error) {
	row, err := converter.ScanReservation(dbtx.QueryRow(ctx, findReservationByIDSQL, id))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find reservation", err)
	}
	res, err := row.ToDomain()
	if err != nil {
		return nil, infra.WrapRepoErr("corrupt reservation row", err, infra.KindDBFailure)
	}
	return res, nil
}

func FindConflicting(ctx context.Context, dbtx db.DBTX, vehicleID uuid.UUID, interval reservation.Interval) ([]*reservation.Reservation, error) {
	rows, err := dbtx.Query(ctx, findConflictingSQL,
		vehicleID, converter.LedgerStatuses(), interval.Start(), interval.End(),
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query conflicting reservations", err)
	}
	found, err := converter.CollectReservations(rows)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan conflicting reservations", err)
	}
	return found, nil
}
