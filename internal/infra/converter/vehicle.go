package converter

import (
	"time"

	"vehicle-reservation/internal/domain/pricing"
	"vehicle-reservation/internal/domain/vehicle"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const VehicleColumns = `id, model, year, daily_rate, seats, automatic, active, created_at, updated_at`

type VehicleRow struct {
	ID        uuid.UUID
	Model     string
	Year      int32
	DailyRate int64
	Seats     int32
	Automatic bool
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func ScanVehicle(row pgx.Row) (VehicleRow, error) {
	var v VehicleRow
	err := row.Scan(&v.ID, &v.Model, &v.Year, &v.DailyRate, &v.Seats, &v.Automatic, &v.Active, &v.CreatedAt, &v.UpdatedAt)
	return v, err
}

func (v VehicleRow) ToDomain() *vehicle.Vehicle {
	return vehicle.Reconstruct(
		v.ID, v.Model, int(v.Year), pricing.Money(v.DailyRate), int(v.Seats), v.Automatic, v.Active,
		v.CreatedAt, v.UpdatedAt,
	)
}
