package components

import (
	"context"
	"sync"
	"time"

	"payment-reconciler/internal/infra/notify"
	"payment-reconciler/internal/pkg/clock"
	"payment-reconciler/internal/pkg/config"
	"payment-reconciler/internal/usecase/commands"
	"payment-reconciler/internal/worker"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Provide(
		func(queue worker.NotificationQueue, pub notify.Publisher, clk clock.Clock, cfg config.Config) *worker.Dispatcher {
			return worker.NewDispatcher(queue, pub, clk, worker.DispatchPolicy{
				BatchSize:   cfg.Worker.DispatchBatchSize,
				MaxAttempts: cfg.Worker.DispatchMaxAttempts,
				Lease:       cfg.Worker.DispatchLease,
			})
		},
	),
	fx.Invoke(StartWorkers),
)

// StartWorkers runs the enabled loops for the lifetime of the app and waits
// for them on stop.
func StartWorkers(lc fx.Lifecycle, cfg config.Config, sweeper *commands.Sweeper, dispatcher *worker.Dispatcher) {
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	run := func(name string, enabled bool, interval time.Duration, tick func(context.Context) error) {
		if !enabled {
			return
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker.Loop(ctx, name, interval, tick)
		}()
	}

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			run("reconcile-sweep", cfg.Worker.SweepEnabled, cfg.Worker.SweepInterval, worker.SweepTick(sweeper))
			run("notification-dispatch", cfg.Worker.DispatchEnabled, cfg.Worker.DispatchInterval, worker.DispatchTick(dispatcher))
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			done := make(chan struct{})
			go func() {
				wg.Wait()
				close(done)
			}()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}
