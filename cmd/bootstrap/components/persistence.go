package components

import (
	"context"
	"log/slog"
	"time"

	"vehicle-reservation/internal/infra/db"
	"vehicle-reservation/internal/infra/memory"
	"vehicle-reservation/internal/infra/readstore"
	"vehicle-reservation/internal/infra/seed"
	"vehicle-reservation/internal/infra/uow"
	"vehicle-reservation/internal/pkg/clock"
	"vehicle-reservation/internal/pkg/config"
	"vehicle-reservation/internal/usecase/commands"
	"vehicle-reservation/internal/usecase/queries"
	"vehicle-reservation/internal/usecase/shared"

	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewPersistence,
	),
	fx.Invoke(seedDemoData),
)

// Persistence is the storage backend selected by STORAGE_DRIVER.
type Persistence struct {
	fx.Out

	UoW          shared.UnitOfWork
	Reservations queries.ReservationReadStore
	Ledger       queries.LedgerReader
	Users        queries.UserReadStore
	Catalog      commands.VehicleCatalog
}

func NewPersistence(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (Persistence, error) {
	if cfg.Storage.Driver == config.StorageDriverMemory {
		logger.Warn("using in-memory storage; data is lost on restart")
		store := memory.NewStore()
		reservations := memory.NewReservationReadStore(store)
		return Persistence{
			UoW:          memory.NewUoW(store),
			Reservations: reservations,
			Ledger:       reservations,
			Users:        memory.NewUserReadStore(store),
			Catalog:      memory.NewVehicleCatalog(store),
		}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, cleanup, err := db.Connect(ctx, cfg.DB)
	if err != nil {
		return Persistence{}, err
	}
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			cleanup()
			return nil
		},
	})

	if cfg.DB.AutoMigrate {
		if err := db.ApplySchema(ctx, pool); err != nil {
			cleanup()
			return Persistence{}, err
		}
		logger.Info("database schema applied")
	}

	reservations := readstore.NewReservationReadStore(pool)
	return Persistence{
		UoW:          uow.NewPostgresUoW(pool, logger),
		Reservations: reservations,
		Ledger:       reservations,
		Users:        readstore.NewUserReadStore(pool),
		Catalog:      readstore.NewVehicleCatalog(pool),
	}, nil
}

func seedDemoData(lc fx.Lifecycle, cfg config.Config, unitOfWork shared.UnitOfWork, clk clock.Clock, logger *slog.Logger) {
	if !cfg.Storage.SeedDemoData {
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return seed.Demo(ctx, unitOfWork, clk, logger)
		},
	})
}
