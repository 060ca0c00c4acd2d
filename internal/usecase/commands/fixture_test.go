//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"payment-reconciler/internal/domain/payment"
	"payment-reconciler/internal/infra/dedup"
	"payment-reconciler/internal/infra/memstore"
	"payment-reconciler/internal/pkg/clock"
	"payment-reconciler/internal/usecase/commands"
	"payment-reconciler/internal/usecase/shared"
	commandsmock "payment-reconciler/tests/mock/commands"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var fixtureNow = time.Date(2026, 3, 10, 8, 30, 0, 0, time.UTC)

type fixture struct {
	ctrl       *gomock.Controller
	gateway    *commandsmock.MockGateway
	store      *memstore.Store
	clock      *clock.MockClock
	seen       *dedup.MemoryWindow
	reconciler *commands.Reconciler
	intents    commands.IntentCommands
	webhooks   commands.WebhookCommands
	sweeper    *commands.Sweeper
}

type fixtureOptions struct {
	failOnOverpayment bool
	hardFailUnknown   bool
	uow               func(*memstore.Store) shared.UnitOfWork
}

func newFixture(t *testing.T, opts ...func(*fixtureOptions)) *fixture {
	t.Helper()
	o := fixtureOptions{failOnOverpayment: true}
	for _, apply := range opts {
		apply(&o)
	}

	ctrl := gomock.NewController(t)
	f := &fixture{
		ctrl:    ctrl,
		gateway: commandsmock.NewMockGateway(ctrl),
		store:   memstore.New(),
		clock:   clock.NewMockClock(fixtureNow),
	}
	f.seen = dedup.NewMemoryWindow(72*time.Hour, 1000, f.clock)

	var uow shared.UnitOfWork = f.store
	if o.uow != nil {
		uow = o.uow(f.store)
	}

	f.reconciler = commands.NewReconciler(uow, f.clock, 3)
	f.intents = commands.NewIntentUseCase(uow, f.gateway, f.reconciler, f.clock, commands.IntentPolicy{
		FailOnOverpayment: o.failOnOverpayment,
	})
	f.webhooks = commands.NewWebhookUseCase(uow, f.gateway, f.seen, f.reconciler, commands.WebhookPolicy{
		HardFailUnknownIntent: o.hardFailUnknown,
	})
	f.sweeper = commands.NewSweeper(uow, f.gateway, f.reconciler, f.clock, commands.SweepPolicy{
		StaleAfter: 15 * time.Minute,
		BatchSize:  10,
	})
	return f
}

func (f *fixture) seed(t *testing.T, intent *payment.Intent) {
	t.Helper()
	err := f.store.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		inserted, err := tx.Intents().InsertIfAbsent(ctx, intent)
		require.True(t, inserted)
		return err
	})
	require.NoError(t, err)
}

func (f *fixture) stored(t *testing.T, id string) payment.Snapshot {
	t.Helper()
	intent, err := f.store.FindByID(context.Background(), id)
	require.NoError(t, err)
	return intent.Snapshot()
}

// racingUoW lets another writer bump the record right before each of the
// first `remaining` transactions, so those transactions lose their CAS.
type racingUoW struct {
	*memstore.Store
	remaining int
	interfere func()
}

func (u *racingUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	if u.remaining > 0 {
		u.remaining--
		u.interfere()
	}
	return u.Store.Within(ctx, fn)
}
