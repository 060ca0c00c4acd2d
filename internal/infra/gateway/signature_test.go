//go:build unit

package gateway_test

import (
	"strconv"
	"testing"
	"time"

	"payment-reconciler/internal/domain/payment"
	"payment-reconciler/internal/infra/gateway"
	"payment-reconciler/internal/usecase/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "whsec_test_secret"

func succeededBody(eventID string, created int64) []byte {
	return []byte(`{
		"id": "` + eventID + `",
		"object": "event",
		"type": "payment_intent.succeeded",
		"created": ` + strconv.FormatInt(created, 10) + `,
		"data": {"object": {"id": "pi_123", "object": "payment_intent", "amount": 150000, "currency": "kes", "status": "succeeded"}}
	}`)
}

func TestSignatureVerifier_ParseEvent(t *testing.T) {
	verifier := gateway.NewSignatureVerifier(testSecret, 5*time.Minute)
	now := time.Now()
	body := succeededBody("evt_1", now.Unix())

	t.Run("valid signature decodes the intent observation", func(t *testing.T) {
		event, err := verifier.ParseEvent(body, verifier.Sign(body, now))
		require.NoError(t, err)

		assert.Equal(t, "evt_1", event.ID)
		assert.Equal(t, payment.EventSucceeded, event.Type)
		assert.Equal(t, "pi_123", event.IntentID)
		assert.Equal(t, int64(150000), event.AmountMinorUnits)
		assert.Equal(t, "KES", event.Currency)
		assert.Equal(t, payment.SequenceAt(now.Unix(), payment.StatusSucceeded), event.Sequence)
	})

	t.Run("every signature problem is the same opaque error", func(t *testing.T) {
		other := gateway.NewSignatureVerifier("whsec_other", 5*time.Minute)
		cases := map[string]string{
			"missing header": "",
			"garbage header": "not-a-signature",
			"wrong secret":   other.Sign(body, now),
			"too old":        verifier.Sign(body, now.Add(-time.Hour)),
		}
		for name, header := range cases {
			t.Run(name, func(t *testing.T) {
				_, err := verifier.ParseEvent(body, header)
				assert.ErrorIs(t, err, commands.ErrSignature)
				assert.Equal(t, commands.ErrSignature.Error(), err.Error())
			})
		}
	})

	t.Run("tampered body fails verification", func(t *testing.T) {
		header := verifier.Sign(body, now)
		tampered := succeededBody("evt_2", now.Unix())

		_, err := verifier.ParseEvent(tampered, header)
		assert.ErrorIs(t, err, commands.ErrSignature)
	})

	t.Run("one flipped bit in the header fails like any other mismatch", func(t *testing.T) {
		header := []byte(verifier.Sign(body, now))
		header[len(header)-1] ^= 0x01

		_, err := verifier.ParseEvent(body, string(header))
		assert.ErrorIs(t, err, commands.ErrSignature)
		assert.Equal(t, commands.ErrSignature.Error(), err.Error())
	})

	t.Run("signed garbage is malformed", func(t *testing.T) {
		garbage := []byte(`{"id": 12`)
		_, err := verifier.ParseEvent(garbage, verifier.Sign(garbage, now))
		assert.ErrorIs(t, err, commands.ErrMalformedPayload)
	})

	t.Run("intent event without data object is malformed", func(t *testing.T) {
		raw := []byte(`{"id":"evt_3","object":"event","type":"payment_intent.succeeded","created":1}`)
		_, err := verifier.ParseEvent(raw, verifier.Sign(raw, now))
		assert.ErrorIs(t, err, commands.ErrMalformedPayload)
	})

	t.Run("unrelated event types decode as other", func(t *testing.T) {
		raw := []byte(`{"id":"evt_4","object":"event","type":"charge.refunded","created":1,"data":{"object":{"id":"ch_1","object":"charge"}}}`)
		event, err := verifier.ParseEvent(raw, verifier.Sign(raw, now))
		require.NoError(t, err)
		assert.Equal(t, payment.EventOther, event.Type)
		_, observable := event.ObservedStatus()
		assert.False(t, observable)
	})
}
