package repository

import (
	"context"

	"vehicle-reservation/internal/domain/vehicle"
	"vehicle-reservation/internal/infra"
	"vehicle-reservation/internal/infra/converter"
	"vehicle-reservation/internal/infra/db"

	"github.com/google/uuid"
)

const (
	findVehicleByIDSQL = `SELECT ` + converter.VehicleColumns + ` FROM vehicles WHERE id = $1`
	insertVehicleSQL   = `INSERT INTO vehicles (` + converter.VehicleColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
)

type VehicleRepository struct {
	db db.DBTX
}

func NewVehicleRepository(dbtx db.DBTX) *VehicleRepository {
	return &VehicleRepository{db: dbtx}
}

func (r *VehicleRepository) FindByID(ctx context.Context, id uuid.UUID) (*vehicle.Vehicle, error) {
	return FindVehicleByID(ctx, r.db, id)
}

func (r *VehicleRepository) Create(ctx context.Context, v *vehicle.Vehicle) error {
	_, err := r.db.Exec(ctx, insertVehicleSQL,
		v.ID(), v.Model(), v.Year(), v.DailyRate().Int64(), v.Seats(), v.Automatic(), v.Active(), v.CreatedAt(), v.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create vehicle", err)
	}
	return nil
}

func FindVehicleByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*vehicle.Vehicle, error) {
	row, err := converter.ScanVehicle(dbtx.QueryRow(ctx, findVehicleByIDSQL, id))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find vehicle", err)
	}
	return row.ToDomain(), nil
}
