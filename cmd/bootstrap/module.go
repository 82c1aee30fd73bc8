package bootstrap

import (
	"vehicle-reservation/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	JWTModule,
	components.PersistenceModule,
	components.AdapterModule,
	components.UseCaseModule,
	components.HandlerModule,
	components.JobsModule,
)
