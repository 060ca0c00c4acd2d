package main

import (
	"context"
	"time"

	"payment-reconciler/cmd/bootstrap"
	"payment-reconciler/internal/usecase/commands"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

func newSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Run one reconciliation pass over stale intents and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var sweeper *commands.Sweeper
			app := fx.New(
				bootstrap.CoreModule,
				fx.NopLogger,
				fx.Populate(&sweeper),
			)
			if err := app.Start(cmd.Context()); err != nil {
				return err
			}
			defer func() {
				stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				_ = app.Stop(stopCtx)
			}()

			report, err := sweeper.SweepOnce(cmd.Context())
			if err != nil {
				return err
			}
			cmd.Printf("scanned=%d applied=%d failed=%d\n", report.Scanned, report.Applied, report.Failed)
			return nil
		},
	}
}
