//go:build unit || e2e

package builder

import (
	"time"

	"vehicle-reservation/internal/domain/pricing"
	"vehicle-reservation/internal/domain/vehicle"

	"github.com/google/uuid"
)

type VehicleBuilder struct {
	ID        uuid.UUID
	Model     string
	Year      int
	DailyRate pricing.Money
	Seats     int
	Automatic bool
	Active    bool
}

func NewVehicleBuilder() *VehicleBuilder {
	return &VehicleBuilder{
		ID:        uuid.New(),
		Model:     "Toyota Corolla",
		Year:      2022,
		DailyRate: 1000,
		Seats:     5,
		Automatic: true,
		Active:    true,
	}
}

func (v *VehicleBuilder) With(mutate func(*VehicleBuilder)) *VehicleBuilder {
	mutate(v)
	return v
}

func (v *VehicleBuilder) BuildDomain() *vehicle.Vehicle {
	now := time.Now()
	return vehicle.Reconstruct(v.ID, v.Model, v.Year, v.DailyRate, v.Seats, v.Automatic, v.Active, now, now)
}

func (v *VehicleBuilder) AsInactive() *VehicleBuilder {
	v.Active = false
	return v
}
