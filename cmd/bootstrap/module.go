package bootstrap

import (
	"vendor-booking/cmd/bootstrap/components"
	"vendor-booking/internal/pkg/config"

	"go.uber.org/fx"
)

// Module assembles the API server. The store driver and outbox flag decide which
// modules join the graph.
func Module(cfg config.Config) fx.Option {
	opts := []fx.Option{
		ConfigModule(cfg),
		LoggerModule,
		components.ClockModule,
		components.UseCaseModule,
		components.HandlerModule,
		ServerModule,
	}

	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		opts = append(opts, components.MemoryModule)
	default:
		opts = append(opts, DBModule, components.PostgresModule)
	}

	if cfg.Outbox.Enabled {
		opts = append(opts, components.OutboxModule)
	}

	return fx.Options(opts...)
}
