package memory

import (
	"context"

	"vehicle-reservation/internal/domain/vehicle"
	"vehicle-reservation/internal/infra"

	"github.com/google/uuid"
)

type vehicleRepo struct {
	tx *tx
}

func (r *vehicleRepo) FindByID(_ context.Context, id uuid.UUID) (*vehicle.Vehicle, error) {
	return r.tx.store.findVehicle(id)
}

func (r *vehicleRepo) Create(_ context.Context, v *vehicle.Vehicle) error {
	s := r.tx.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.vehicles[v.ID()]; exists {
		return infra.NewRepoErr(infra.KindDuplicateKey, "vehicle already exists")
	}
	id := v.ID()
	s.vehicles[id] = cloneVehicle(v)
	r.tx.record(func() { delete(s.vehicles, id) })
	return nil
}

func (s *Store) findVehicle(id uuid.UUID) (*vehicle.Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.vehicles[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "vehicle not found")
	}
	return cloneVehicle(v), nil
}

// VehicleCatalog serves catalog lookups from the store.
type VehicleCatalog struct {
	store *Store
}

func NewVehicleCatalog(store *Store) *VehicleCatalog {
	return &VehicleCatalog{store: store}
}

func (c *VehicleCatalog) GetVehicle(_ context.Context, id uuid.UUID) (*vehicle.Vehicle, error) {
	return c.store.findVehicle(id)
}
