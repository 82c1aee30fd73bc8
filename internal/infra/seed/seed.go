// Package seed inserts a demo account and a small fleet for local runs.
package seed

import (
	"context"
	"log/slog"

	"vehicle-reservation/internal/domain/user"
	"vehicle-reservation/internal/domain/vehicle"
	"vehicle-reservation/internal/infra"
	"vehicle-reservation/internal/pkg/clock"
	"vehicle-reservation/internal/pkg/errs"
	"vehicle-reservation/internal/pkg/password"
	"vehicle-reservation/internal/usecase/shared"

	"github.com/google/uuid"
)

const (
	DemoEmail    = "demo@example.com"
	DemoPassword = "password123"
)

var demoFleet = []struct {
	id   uuid.UUID
	spec vehicle.Spec
}{
	{uuid.MustParse("8f14e45f-ceea-467f-a0e6-7a1f3b8f3c01"), vehicle.Spec{Model: "Toyota Yaris", Year: 2023, DailyRate: 6500, Seats: 5, Automatic: true}},
	{uuid.MustParse("8f14e45f-ceea-467f-a0e6-7a1f3b8f3c02"), vehicle.Spec{Model: "Honda Freed", Year: 2022, DailyRate: 9800, Seats: 7, Automatic: true}},
	{uuid.MustParse("8f14e45f-ceea-467f-a0e6-7a1f3b8f3c03"), vehicle.Spec{Model: "Mazda Roadster", Year: 2021, DailyRate: 12000, Seats: 2, Automatic: false}},
}

// Demo is idempotent; rows that already exist are left untouched.
func Demo(ctx context.Context, uow shared.UnitOfWork, clk clock.Clock, logger *slog.Logger) error {
	now := clk.Now()

	hash, err := password.HashPassword(DemoPassword)
	if err != nil {
		return errs.Wrap(err, "hash demo password")
	}
	email, err := user.NewEmail(DemoEmail)
	if err != nil {
		return err
	}
	demo := user.Reconstruct(uuid.MustParse("5d41402a-bc4b-4a76-b971-9d911017c592"), email, hash, user.RoleCustomer, nil, true, now, now)

	err = uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, err := tx.Users().FindByEmail(ctx, email); err != nil {
			if !infra.IsKind(err, infra.KindNotFound) {
				return err
			}
			if err := tx.Users().Create(ctx, demo); err != nil {
				return err
			}
		}
		for _, f := range demoFleet {
			if _, err := tx.Vehicles().FindByID(ctx, f.id); err == nil {
				continue
			} else if !infra.IsKind(err, infra.KindNotFound) {
				return err
			}
			v, err := vehicle.NewVehicle(f.id, f.spec, now)
			if err != nil {
				return err
			}
			if err := tx.Vehicles().Create(ctx, v); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errs.Wrap(err, "seed demo data")
	}

	logger.Info("demo data seeded",
		slog.String("email", DemoEmail),
		slog.Int("vehicles", len(demoFleet)))
	return nil
}
