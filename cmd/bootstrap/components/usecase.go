package components

import (
	"payment-reconciler/internal/pkg/clock"
	"payment-reconciler/internal/pkg/config"
	"payment-reconciler/internal/usecase"
	"payment-reconciler/internal/usecase/commands"
	"payment-reconciler/internal/usecase/queries"
	"payment-reconciler/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseCommandsModule,
	usecaseQueriesModule,
	usecaseValidatorsModule,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		func(uow shared.UnitOfWork, clk clock.Clock, cfg config.Config) *commands.Reconciler {
			return commands.NewReconciler(uow, clk, cfg.Reconcile.MaxAttempts)
		},
		func(uow shared.UnitOfWork, gw commands.Gateway, r *commands.Reconciler, clk clock.Clock, cfg config.Config) commands.IntentCommands {
			return commands.NewIntentUseCase(uow, gw, r, clk, commands.IntentPolicy{
				FailOnOverpayment: cfg.Verify.FailOnOverpayment,
			})
		},
		func(uow shared.UnitOfWork, gw commands.Gateway, seen commands.SeenEvents, r *commands.Reconciler, cfg config.Config) commands.WebhookCommands {
			return commands.NewWebhookUseCase(uow, gw, seen, r, commands.WebhookPolicy{
				HardFailUnknownIntent: cfg.Webhook.HardFailUnknownIntent,
			})
		},
		func(uow shared.UnitOfWork, gw commands.Gateway, r *commands.Reconciler, clk clock.Clock, cfg config.Config) *commands.Sweeper {
			return commands.NewSweeper(uow, gw, r, clk, commands.SweepPolicy{
				StaleAfter: cfg.Worker.SweepStaleAfter,
				BatchSize:  cfg.Worker.SweepBatchSize,
			})
		},
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewIntentQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)
