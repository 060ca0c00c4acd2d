package bootstrap

import (
	"payment-reconciler/cmd/bootstrap/components"
	"payment-reconciler/internal/pkg/clock"

	"go.uber.org/fx"
)

// CoreModule wires everything a use case needs, without HTTP or background workers.
var CoreModule = fx.Options(
	ConfigModule,
	LoggerModule,
	fx.Provide(clock.NewRealClock),
	components.PersistenceModule,
	components.GatewayModule,
	components.UseCaseModule,
)

var Module = fx.Options(
	CoreModule,
	JWTModule,
	components.HandlerModule,
	components.WorkerModule,
)
