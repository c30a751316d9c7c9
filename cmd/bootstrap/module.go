package bootstrap

import (
	"time"

	"parking-booking/cmd/bootstrap/components"

	"go.uber.org/fx"
)

const connectTimeout = 15 * time.Second

var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	DBModule,
	JWTModule,
	components.PersistenceModule,
	components.IntegrationModule,
	components.UseCaseModule,
	components.RealtimeModule,
	components.WorkerModule,
	components.HandlerModule,
)
