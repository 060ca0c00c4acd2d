//go:build unit

package payment_test

import (
	"math/rand/v2"
	"testing"
	"time"

	"payment-reconciler/internal/domain/payment"
	"payment-reconciler/tests/common/builder"

	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name     string
		status   payment.Status
		seq      int64
		observed payment.Status
		obsSeq   int64
		want     payment.Decision
	}{
		{name: "created to succeeded", status: payment.StatusCreated, seq: 0, observed: payment.StatusSucceeded, obsSeq: 1, want: payment.DecisionApply},
		{name: "created to pending", status: payment.StatusCreated, seq: 0, observed: payment.StatusPending, obsSeq: 1, want: payment.DecisionApply},
		{name: "pending to failed", status: payment.StatusPending, seq: 3, observed: payment.StatusFailed, obsSeq: 4, want: payment.DecisionApply},
		{name: "pending to canceled", status: payment.StatusPending, seq: 3, observed: payment.StatusCanceled, obsSeq: 9, want: payment.DecisionApply},
		{name: "same non-terminal status is restated", status: payment.StatusPending, seq: 3, observed: payment.StatusPending, obsSeq: 5, want: payment.DecisionApply},
		{name: "equal sequence is a duplicate", status: payment.StatusPending, seq: 1, observed: payment.StatusPending, obsSeq: 1, want: payment.DecisionDuplicate},
		{name: "forward move at an older sequence is a stale transition", status: payment.StatusCreated, seq: 1, observed: payment.StatusSucceeded, obsSeq: 1, want: payment.DecisionStaleTransition},
		{name: "success behind a clock-stamped pending", status: payment.StatusPending, seq: payment.SequenceAt(1_700_000_001, payment.StatusPending), observed: payment.StatusSucceeded, obsSeq: payment.SequenceAt(1_700_000_000, payment.StatusSucceeded), want: payment.DecisionStaleTransition},
		{name: "old pending behind success stays a duplicate", status: payment.StatusSucceeded, seq: 9, observed: payment.StatusPending, obsSeq: 3, want: payment.DecisionDuplicate},
		{name: "older sequence is a duplicate", status: payment.StatusSucceeded, seq: 1, observed: payment.StatusFailed, obsSeq: 0, want: payment.DecisionDuplicate},
		{name: "terminal same status is settled", status: payment.StatusSucceeded, seq: 1, observed: payment.StatusSucceeded, obsSeq: 2, want: payment.DecisionSettled},
		{name: "succeeded then failed conflicts", status: payment.StatusSucceeded, seq: 1, observed: payment.StatusFailed, obsSeq: 2, want: payment.DecisionTerminalConflict},
		{name: "canceled then succeeded conflicts", status: payment.StatusCanceled, seq: 1, observed: payment.StatusSucceeded, obsSeq: 2, want: payment.DecisionTerminalConflict},
		{name: "pending back to created regresses", status: payment.StatusPending, seq: 1, observed: payment.StatusCreated, obsSeq: 2, want: payment.DecisionRegression},
		{name: "unknown status is invalid", status: payment.StatusPending, seq: 1, observed: payment.Status("refunded"), obsSeq: 2, want: payment.DecisionInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current := builder.NewIntentBuilder().WithStatus(tt.status, tt.seq).BuildDomain()
			got := payment.Decide(current, tt.observed, tt.obsSeq)
			assert.Equal(t, tt.want, got, "got %s", got)
		})
	}
}

func TestDecideNeverRegresses(t *testing.T) {
	statuses := []payment.Status{
		payment.StatusCreated,
		payment.StatusPending,
		payment.StatusSucceeded,
		payment.StatusFailed,
		payment.StatusCanceled,
	}
	rng := rand.New(rand.NewPCG(7, 11))
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for run := 0; run < 200; run++ {
		intent := builder.NewIntentBuilder().BuildDomain()
		var seq int64
		for step := 0; step < 12; step++ {
			seq += int64(rng.IntN(3))
			observed := statuses[rng.IntN(len(statuses))]
			prev := intent

			if payment.Decide(intent, observed, seq) == payment.DecisionApply {
				intent = intent.Observe(observed, seq, start.Add(time.Duration(step)*time.Second))
			}

			assert.GreaterOrEqual(t, intent.Status().Rank(), prev.Status().Rank())
			assert.GreaterOrEqual(t, intent.LastEventSequence(), prev.LastEventSequence())
			if prev.Status().IsTerminal() {
				assert.Equal(t, prev.Status(), intent.Status())
			}
		}
	}
}

func TestDecisionIsAnomaly(t *testing.T) {
	anomalies := map[payment.Decision]bool{
		payment.DecisionApply:            false,
		payment.DecisionDuplicate:        false,
		payment.DecisionSettled:          false,
		payment.DecisionTerminalConflict: true,
		payment.DecisionRegression:       true,
		payment.DecisionInvalid:          true,
		payment.DecisionStaleTransition:  true,
	}
	for d, want := range anomalies {
		t.Run(d.String(), func(t *testing.T) {
			assert.Equal(t, want, d.IsAnomaly())
		})
	}
}

func TestSequenceAt(t *testing.T) {
	processing := payment.SequenceAt(1_700_000_000, payment.StatusPending)
	succeeded := payment.SequenceAt(1_700_000_000, payment.StatusSucceeded)
	nextSecond := payment.SequenceAt(1_700_000_001, payment.StatusCreated)

	assert.Less(t, processing, succeeded)
	assert.Less(t, succeeded, nextSecond)
}

func TestEventObservedStatus(t *testing.T) {
	tests := []struct {
		typ    payment.EventType
		want   payment.Status
		wantOK bool
	}{
		{payment.EventSucceeded, payment.StatusSucceeded, true},
		{payment.EventFailed, payment.StatusFailed, true},
		{payment.EventProcessing, payment.StatusPending, true},
		{payment.EventCanceled, payment.StatusCanceled, true},
		{payment.EventOther, "", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			got, ok := payment.Event{Type: tt.typ}.ObservedStatus()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEventMatchesMoney(t *testing.T) {
	money, _ := payment.NewMoney(150000, "KES")

	assert.True(t, payment.Event{AmountMinorUnits: 150000, Currency: "kes"}.MatchesMoney(money))
	assert.True(t, payment.Event{}.MatchesMoney(money))
	assert.False(t, payment.Event{AmountMinorUnits: 150001, Currency: "KES"}.MatchesMoney(money))
	assert.False(t, payment.Event{AmountMinorUnits: 150000, Currency: "USD"}.MatchesMoney(money))
}
