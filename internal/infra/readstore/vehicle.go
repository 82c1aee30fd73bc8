package readstore

import (
	"context"

	"vehicle-reservation/internal/domain/vehicle"
	"vehicle-reservation/internal/infra/db"
	"vehicle-reservation/internal/infra/repository"

	"github.com/google/uuid"
)

// VehicleCatalog serves vehicle lookups from the vehicles table.
type VehicleCatalog struct {
	db db.DBTX
}

func NewVehicleCatalog(dbtx db.DBTX) *VehicleCatalog {
	return &VehicleCatalog{db: dbtx}
}

func (c *VehicleCatalog) GetVehicle(ctx context.Context, id uuid.UUID) (*vehicle.Vehicle, error) {
	return repository.FindVehicleByID(ctx, c.db, id)
}
