//go:build unit || e2e

package builder

import (
	"strings"
	"time"

	"payment-reconciler/internal/domain/payment"
	reqdto "payment-reconciler/internal/handler/dto/request"
	"payment-reconciler/internal/usecase/commands"
	"payment-reconciler/internal/usecase/queries"

	"github.com/google/uuid"
)

type IntentBuilder struct {
	ID        string
	Reference string
	Amount    int64
	Currency  string
	PlanID    string
	PlanName  string
	Period    payment.Period
	UserEmail string
	OwnerID   uuid.UUID
	Status    payment.Status
	Sequence  int64
	CreatedAt time.Time
}

func NewIntentBuilder() *IntentBuilder {
	return &IntentBuilder{
		ID:        "pi_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:24],
		Reference: "R1-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8],
		Amount:    150000,
		Currency:  "KES",
		PlanID:    "plan_pro",
		PlanName:  "Pro",
		Period:    payment.PeriodMonthly,
		UserEmail: "payer@example.com",
		OwnerID:   uuid.New(),
		Status:    payment.StatusCreated,
		Sequence:  0,
		CreatedAt: time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC),
	}
}

func (b *IntentBuilder) With(mutate func(*IntentBuilder)) *IntentBuilder {
	mutate(b)
	return b
}

func (b *IntentBuilder) WithID(id string) *IntentBuilder {
	b.ID = id
	return b
}

func (b *IntentBuilder) WithReference(ref string) *IntentBuilder {
	b.Reference = ref
	return b
}

func (b *IntentBuilder) WithAmount(amount int64) *IntentBuilder {
	b.Amount = amount
	return b
}

func (b *IntentBuilder) WithOwner(ownerID uuid.UUID) *IntentBuilder {
	b.OwnerID = ownerID
	return b
}

func (b *IntentBuilder) WithStatus(status payment.Status, sequence int64) *IntentBuilder {
	b.Status = status
	b.Sequence = sequence
	return b
}

// Build methods
func (b *IntentBuilder) BuildDomain() *payment.Intent {
	money, err := payment.NewMoney(b.Amount, b.Currency)
	if err != nil {
		panic(err)
	}
	md, err := payment.NewPlanMetadata(b.PlanID, b.PlanName, b.Period, b.OwnerID)
	if err != nil {
		panic(err)
	}
	intent, err := payment.NewIntent(b.ID, payment.Reference(b.Reference), money, md, b.OwnerID, b.CreatedAt)
	if err != nil {
		panic(err)
	}
	if b.Status == payment.StatusCreated && b.Sequence == 0 {
		return intent
	}
	snap := intent.Snapshot()
	snap.Status = b.Status
	snap.LastEventSequence = b.Sequence
	return payment.ReconstructIntent(snap)
}

func (b *IntentBuilder) BuildSnapshot() payment.Snapshot {
	return b.BuildDomain().Snapshot()
}

func (b *IntentBuilder) BuildView() *queries.IntentView {
	return queries.ViewFromSnapshot(b.BuildSnapshot())
}

func (b *IntentBuilder) BuildCreateParams() commands.CreateIntentParams {
	return commands.CreateIntentParams{
		AmountMinorUnits: b.Amount,
		Currency:         b.Currency,
		Reference:        b.Reference,
		PlanID:           b.PlanID,
		PlanName:         b.PlanName,
		Period:           string(b.Period),
		UserEmail:        b.UserEmail,
		OwnerID:          b.OwnerID,
	}
}

func (b *IntentBuilder) BuildCreateRequestDTO() reqdto.CreateIntentRequest {
	return reqdto.CreateIntentRequest{
		Amount:    b.Amount,
		Currency:  b.Currency,
		Reference: b.Reference,
		Metadata: reqdto.PlanMetadata{
			PlanID:   b.PlanID,
			PlanName: b.PlanName,
			Period:   string(b.Period),
		},
		UserEmail: b.UserEmail,
	}
}

func (b *IntentBuilder) BuildGatewayIntent(status payment.Status, sequence int64) *commands.GatewayIntent {
	return &commands.GatewayIntent{
		ID:               b.ID,
		ClientSecret:     b.ID + "_secret_test",
		Status:           status,
		AmountMinorUnits: b.Amount,
		Currency:         b.Currency,
		Sequence:         sequence,
	}
}
