package payment

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrMissingIntentID = errors.New("intent id is required")

type Intent struct {
	id                string
	reference         Reference
	money             Money
	status            Status
	metadata          Metadata
	ownerID           uuid.UUID
	lastEventSequence int64
	createdAt         time.Time
	updatedAt         time.Time
}

// Snapshot is the flat persisted form of an Intent.
type Snapshot struct {
	ID                string
	Reference         string
	AmountMinorUnits  int64
	Currency          string
	Status            Status
	Metadata          map[string]string
	OwnerID           uuid.UUID
	LastEventSequence int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func NewIntent(id string, ref Reference, money Money, metadata Metadata, ownerID uuid.UUID, now time.Time) (*Intent, error) {
	if id == "" {
		return nil, ErrMissingIntentID
	}
	if money.AmountMinorUnits() <= 0 {
		return nil, ErrInvalidAmount
	}
	md := metadata.Clone()
	md[MetadataReference] = ref.String()

	return &Intent{
		id:        id,
		reference: ref,
		money:     money,
		status:    StatusCreated,
		metadata:  md,
		ownerID:   ownerID,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func ReconstructIntent(s Snapshot) *Intent {
	return &Intent{
		id:                s.ID,
		reference:         Reference(s.Reference),
		money:             Money{amountMinorUnits: s.AmountMinorUnits, currency: Currency(s.Currency)},
		status:            s.Status,
		metadata:          Metadata(s.Metadata).Clone(),
		ownerID:           s.OwnerID,
		lastEventSequence: s.LastEventSequence,
		createdAt:         s.CreatedAt,
		updatedAt:         s.UpdatedAt,
	}
}

// Observe returns the intent as it looks after applying an observation.
// The receiver is left untouched so callers keep the CAS baseline.
func (i *Intent) Observe(status Status, sequence int64, now time.Time) *Intent {
	next := *i
	next.metadata = i.metadata.Clone()
	next.status = status
	next.lastEventSequence = sequence
	next.updatedAt = now
	return &next
}

// Touch refreshes updatedAt for a restated status. The recorded sequence only
// moves on a transition.
func (i *Intent) Touch(now time.Time) *Intent {
	next := *i
	next.metadata = i.metadata.Clone()
	next.updatedAt = now
	return &next
}

func (i *Intent) Snapshot() Snapshot {
	return Snapshot{
		ID:                i.id,
		Reference:         i.reference.String(),
		AmountMinorUnits:  i.money.AmountMinorUnits(),
		Currency:          i.money.Currency().String(),
		Status:            i.status,
		Metadata:          i.metadata.Clone(),
		OwnerID:           i.ownerID,
		LastEventSequence: i.lastEventSequence,
		CreatedAt:         i.createdAt,
		UpdatedAt:         i.updatedAt,
	}
}

func (i *Intent) IsOwnedBy(userID uuid.UUID) bool {
	return i.ownerID == userID
}

func (i *Intent) ID() string               { return i.id }
func (i *Intent) Reference() Reference     { return i.reference }
func (i *Intent) Money() Money             { return i.money }
func (i *Intent) Status() Status           { return i.status }
func (i *Intent) Metadata() Metadata       { return i.metadata.Clone() }
func (i *Intent) OwnerID() uuid.UUID       { return i.ownerID }
func (i *Intent) LastEventSequence() int64 { return i.lastEventSequence }
func (i *Intent) CreatedAt() time.Time     { return i.createdAt }
func (i *Intent) UpdatedAt() time.Time     { return i.updatedAt }
