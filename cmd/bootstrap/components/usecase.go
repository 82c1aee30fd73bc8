package components

import (
	"vehicle-reservation/internal/domain/pricing"
	"vehicle-reservation/internal/pkg/clock"
	"vehicle-reservation/internal/pkg/config"
	"vehicle-reservation/internal/pkg/errs"
	"vehicle-reservation/internal/usecase/commands"
	"vehicle-reservation/internal/usecase/queries"
	"vehicle-reservation/internal/usecase/tokens"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	NewPricing,
	tokens.NewService,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthCommands,
		commands.NewReservationCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewUserQueries,
		queries.NewReservationQueries,
		queries.NewAvailabilityQueries,
	),
)

type Pricing struct {
	fx.Out

	Engine *pricing.Engine
	Extras pricing.ExtrasCatalog
}

func NewPricing(cfg config.Config) (Pricing, error) {
	discounts, err := pricing.ParseDiscountTable(cfg.Pricing.DiscountCodes)
	if err != nil {
		return Pricing{}, errs.Wrap(err, "PRICING_DISCOUNT_CODES")
	}
	extras, err := pricing.ParseExtrasCatalog(cfg.Pricing.Extras)
	if err != nil {
		return Pricing{}, errs.Wrap(err, "PRICING_EXTRAS")
	}
	return Pricing{
		Engine: pricing.NewEngine(pricing.BasisPoints(cfg.Pricing.TaxRateBPS), discounts),
		Extras: extras,
	}, nil
}
