package components

import (
	"context"
	"log/slog"

	"payment-reconciler/internal/infra/db"
	"payment-reconciler/internal/infra/memstore"
	"payment-reconciler/internal/infra/sqlc"
	"payment-reconciler/internal/infra/uow"
	"payment-reconciler/internal/pkg/config"
	"payment-reconciler/internal/pkg/errs"
	"payment-reconciler/internal/usecase/queries"
	"payment-reconciler/internal/usecase/shared"
	"payment-reconciler/internal/worker"

	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewPersistence,
	),
)

type Persistence struct {
	fx.Out

	UoW   shared.UnitOfWork
	Views queries.IntentReadStore
	Queue worker.NotificationQueue
}

// NewPersistence picks the store behind STORE_DRIVER. Both drivers serve the
// write side, the read model and the outbox queue from one backing store.
func NewPersistence(lc fx.Lifecycle, cfg config.Config) (Persistence, error) {
	if cfg.Store.Driver == config.BackendMemory {
		slog.Warn("using in-memory store, state is lost on restart")
		store := memstore.New()
		return Persistence{UoW: store, Views: store.IntentViews(), Queue: store}, nil
	}

	if cfg.Store.AutoMigrate {
		if err := db.MigrateUp(cfg.DB); err != nil {
			return Persistence{}, errs.WithHint(err, "inspect with `payment-reconciler migrate version`; a dirty version needs a manual fix")
		}
	}

	pool, cleanup, err := db.Connect(cfg.DB)
	if err != nil {
		return Persistence{}, errs.WithHint(err, "check DB_HOST and DB_PORT, or set STORE_DRIVER=memory for local runs")
	}
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			cleanup()
			return nil
		},
	})

	pg := uow.NewPostgresUoW(pool, sqlc.New())
	return Persistence{UoW: pg, Views: pg.IntentViews(), Queue: pg.NotificationQueue()}, nil
}
