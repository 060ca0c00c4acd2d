//go:build unit

package commands_test

import (
	"context"
	"testing"

	"payment-reconciler/internal/domain/payment"
	"payment-reconciler/internal/pkg/errs"
	"payment-reconciler/internal/usecase/commands"
	"payment-reconciler/tests/common/builder"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const sigHeader = "t=1,v1=deadbeef"

func succeededEvent(b *builder.IntentBuilder, id string, seq int64) *payment.Event {
	return &payment.Event{
		ID:               id,
		Type:             payment.EventSucceeded,
		IntentID:         b.ID,
		AmountMinorUnits: b.Amount,
		Currency:         b.Currency,
		Sequence:         seq,
	}
}

func TestHandleWebhook_CheckoutScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b := builder.NewIntentBuilder().WithReference("R1")

	// create
	f.gateway.EXPECT().CreateIntent(gomock.Any(), gomock.Any()).Return(b.BuildGatewayIntent(payment.StatusCreated, 0), nil)
	_, err := f.intents.CreateIntent(ctx, b.BuildCreateParams())
	require.NoError(t, err)
	assert.Equal(t, payment.StatusCreated, f.stored(t, b.ID).Status)

	// webhook succeeded, delivered twice
	body := []byte(`{"id":"evt_1"}`)
	f.gateway.EXPECT().ParseEvent(body, sigHeader).Return(succeededEvent(b, "evt_1", 1), nil).Times(2)

	ack, err := f.webhooks.HandleWebhook(ctx, body, sigHeader)
	require.NoError(t, err)
	assert.True(t, ack.Applied)
	assert.Equal(t, payment.StatusSucceeded, f.stored(t, b.ID).Status)
	afterFirst := f.stored(t, b.ID)

	ack, err = f.webhooks.HandleWebhook(ctx, body, sigHeader)
	require.NoError(t, err)
	assert.True(t, ack.Duplicate)
	assert.False(t, ack.Applied)
	if diff := cmp.Diff(afterFirst, f.stored(t, b.ID)); diff != "" {
		t.Errorf("redelivery changed the record (-want +got):\n%s", diff)
	}
	assert.Len(t, f.store.Notifications(), 1)

	// stale verify
	f.gateway.EXPECT().GetIntent(gomock.Any(), b.ID).Return(b.BuildGatewayIntent(payment.StatusFailed, 0), nil)
	outcome, err := f.intents.VerifyIntent(ctx, commands.VerifyIntentParams{IntentID: b.ID, ExpectedAmount: 150000, OwnerID: b.OwnerID})
	require.NoError(t, err)
	assert.Equal(t, payment.StatusSucceeded, outcome.Status)
	assert.Equal(t, payment.StatusSucceeded, f.stored(t, b.ID).Status)
	assert.Len(t, f.store.Notifications(), 1)
}

func TestHandleWebhook(t *testing.T) {
	ctx := context.Background()
	body := []byte(`{}`)

	t.Run("signature failure is rejected before any lookup", func(t *testing.T) {
		f := newFixture(t)
		f.gateway.EXPECT().ParseEvent(body, sigHeader).Return(nil, commands.ErrSignature)

		_, err := f.webhooks.HandleWebhook(ctx, body, sigHeader)
		assert.ErrorIs(t, err, commands.ErrBadSignature)
		assert.Zero(t, f.seen.Len())
	})

	t.Run("malformed payload is rejected", func(t *testing.T) {
		f := newFixture(t)
		f.gateway.EXPECT().ParseEvent(body, sigHeader).Return(nil, commands.ErrMalformedPayload)

		_, err := f.webhooks.HandleWebhook(ctx, body, sigHeader)
		assert.ErrorIs(t, err, commands.ErrMalformedPayload)
	})

	t.Run("other event types are acknowledged and ignored", func(t *testing.T) {
		f := newFixture(t)
		f.gateway.EXPECT().ParseEvent(body, sigHeader).Return(&payment.Event{ID: "evt_x", Type: payment.EventOther}, nil)

		ack, err := f.webhooks.HandleWebhook(ctx, body, sigHeader)
		require.NoError(t, err)
		assert.True(t, ack.Ignored)
		assert.Zero(t, f.seen.Len())
	})

	t.Run("unknown intent is acknowledged by default", func(t *testing.T) {
		f := newFixture(t)
		b := builder.NewIntentBuilder()
		f.gateway.EXPECT().ParseEvent(body, sigHeader).Return(succeededEvent(b, "evt_u", 1), nil)

		ack, err := f.webhooks.HandleWebhook(ctx, body, sigHeader)
		require.NoError(t, err)
		assert.False(t, ack.Applied)
	})

	t.Run("unknown intent hard-fails when configured and stays redeliverable", func(t *testing.T) {
		f := newFixture(t, func(o *fixtureOptions) { o.hardFailUnknown = true })
		b := builder.NewIntentBuilder()
		f.gateway.EXPECT().ParseEvent(body, sigHeader).Return(succeededEvent(b, "evt_u", 1), nil).Times(2)

		_, err := f.webhooks.HandleWebhook(ctx, body, sigHeader)
		assert.ErrorIs(t, err, commands.ErrIntentNotFound)

		f.seed(t, b.BuildDomain())
		ack, err := f.webhooks.HandleWebhook(ctx, body, sigHeader)
		require.NoError(t, err)
		assert.True(t, ack.Applied)
	})

	t.Run("amount mismatch is acknowledged without applying", func(t *testing.T) {
		f := newFixture(t)
		b := builder.NewIntentBuilder()
		f.seed(t, b.BuildDomain())
		event := succeededEvent(b, "evt_m", 1)
		event.AmountMinorUnits = 1
		f.gateway.EXPECT().ParseEvent(body, sigHeader).Return(event, nil)

		ack, err := f.webhooks.HandleWebhook(ctx, body, sigHeader)
		require.NoError(t, err)
		assert.False(t, ack.Applied)
		assert.Equal(t, payment.StatusCreated, f.stored(t, b.ID).Status)
	})

	t.Run("terminal conflict is acknowledged and logged, not applied", func(t *testing.T) {
		f := newFixture(t)
		b := builder.NewIntentBuilder().WithStatus(payment.StatusSucceeded, 1)
		f.seed(t, b.BuildDomain())
		event := succeededEvent(b, "evt_f", 2)
		event.Type = payment.EventFailed
		f.gateway.EXPECT().ParseEvent(body, sigHeader).Return(event, nil)

		ack, err := f.webhooks.HandleWebhook(ctx, body, sigHeader)
		require.NoError(t, err)
		assert.False(t, ack.Applied)
		assert.Equal(t, payment.StatusSucceeded, f.stored(t, b.ID).Status)
	})

	t.Run("late duplicate after eviction is still a no-op", func(t *testing.T) {
		f := newFixture(t)
		b := builder.NewIntentBuilder()
		f.seed(t, b.BuildDomain())
		f.gateway.EXPECT().ParseEvent(body, sigHeader).Return(succeededEvent(b, "evt_late", 1), nil).Times(2)

		_, err := f.webhooks.HandleWebhook(ctx, body, sigHeader)
		require.NoError(t, err)
		require.NoError(t, f.seen.Release(ctx, "evt_late"))

		ack, err := f.webhooks.HandleWebhook(ctx, body, sigHeader)
		require.NoError(t, err)
		assert.False(t, ack.Duplicate)
		assert.False(t, ack.Applied)
		assert.Len(t, f.store.Notifications(), 1)
	})

	t.Run("success stamped behind a clock-stamped pending is settled from the gateway", func(t *testing.T) {
		f := newFixture(t)
		readAt := fixtureNow.Unix()
		b := builder.NewIntentBuilder().WithStatus(payment.StatusPending, payment.SequenceAt(readAt, payment.StatusPending))
		f.seed(t, b.BuildDomain())
		f.gateway.EXPECT().ParseEvent(body, sigHeader).
			Return(succeededEvent(b, "evt_skew", payment.SequenceAt(readAt-1, payment.StatusSucceeded)), nil)
		f.gateway.EXPECT().GetIntent(gomock.Any(), b.ID).
			Return(b.BuildGatewayIntent(payment.StatusSucceeded, payment.SequenceAt(readAt, payment.StatusSucceeded)), nil)

		ack, err := f.webhooks.HandleWebhook(ctx, body, sigHeader)
		require.NoError(t, err)
		assert.True(t, ack.Applied)
		assert.Equal(t, payment.StatusSucceeded, f.stored(t, b.ID).Status)
		assert.Len(t, f.store.Notifications(), 1)
	})

	t.Run("gateway re-read failure leaves the event redeliverable", func(t *testing.T) {
		f := newFixture(t)
		b := builder.NewIntentBuilder().WithStatus(payment.StatusPending, payment.SequenceAt(fixtureNow.Unix(), payment.StatusPending))
		f.seed(t, b.BuildDomain())
		f.gateway.EXPECT().ParseEvent(body, sigHeader).
			Return(succeededEvent(b, "evt_skew", payment.SequenceAt(fixtureNow.Unix()-1, payment.StatusSucceeded)), nil)
		f.gateway.EXPECT().GetIntent(gomock.Any(), b.ID).
			Return(nil, errs.Mark(errs.New("dial tcp: i/o timeout"), commands.ErrGatewayUnavailable))

		_, err := f.webhooks.HandleWebhook(ctx, body, sigHeader)
		assert.ErrorIs(t, err, commands.ErrGatewayUnavailable)
		assert.True(t, commands.IsRetryable(err))
		assert.Zero(t, f.seen.Len())
		assert.Equal(t, payment.StatusPending, f.stored(t, b.ID).Status)
	})
}
