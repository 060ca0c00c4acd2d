package payment

import (
	"errors"
	"fmt"
	"maps"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidAmount    = errors.New("amount must be greater than zero")
	ErrInvalidCurrency  = errors.New("currency must be a 3-letter ISO 4217 code")
	ErrInvalidReference = errors.New("reference must be 1-64 characters of letters, digits, '-' or '_'")
	ErrInvalidMetadata  = errors.New("invalid plan metadata")
)

const (
	MetadataPlanID    = "planId"
	MetadataPlanName  = "planName"
	MetadataPeriod    = "period"
	MetadataUserID    = "userId"
	MetadataReference = "reference"

	maxPlanIDLength   = 64
	maxPlanNameLength = 128
)

var referencePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

type Currency string

func NewCurrency(code string) (Currency, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return "", ErrInvalidCurrency
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return "", ErrInvalidCurrency
		}
	}
	return Currency(code), nil
}

func (c Currency) String() string {
	return string(c)
}

// Money is an amount in the currency's smallest unit.
type Money struct {
	amountMinorUnits int64
	currency         Currency
}

func NewMoney(amountMinorUnits int64, currency string) (Money, error) {
	if amountMinorUnits <= 0 {
		return Money{}, ErrInvalidAmount
	}
	c, err := NewCurrency(currency)
	if err != nil {
		return Money{}, err
	}
	return Money{amountMinorUnits: amountMinorUnits, currency: c}, nil
}

func (m Money) AmountMinorUnits() int64 { return m.amountMinorUnits }
func (m Money) Currency() Currency      { return m.currency }

func (m Money) Equal(other Money) bool {
	return m.amountMinorUnits == other.amountMinorUnits && m.currency == other.currency
}

func (m Money) String() string {
	return fmt.Sprintf("%d %s", m.amountMinorUnits, m.currency)
}

// Reference is the caller's idempotency token for intent creation.
type Reference string

func NewReference(v string) (Reference, error) {
	if !referencePattern.MatchString(v) {
		return "", ErrInvalidReference
	}
	return Reference(v), nil
}

// GenerateReference derives a reference when the caller did not supply one.
func GenerateReference(now time.Time) Reference {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return Reference(fmt.Sprintf("PAY-%d-%s", now.UnixMilli(), suffix))
}

func (r Reference) String() string {
	return string(r)
}

// Metadata is set once at creation and never mutated afterwards.
type Metadata map[string]string

func NewPlanMetadata(planID, planName string, period Period, userID uuid.UUID) (Metadata, error) {
	planID = strings.TrimSpace(planID)
	planName = strings.TrimSpace(planName)
	if planID == "" || planName == "" || len(planID) > maxPlanIDLength || len(planName) > maxPlanNameLength {
		return nil, ErrInvalidMetadata
	}
	if !period.IsValid() {
		return nil, ErrInvalidMetadata
	}
	md := Metadata{
		MetadataPlanID:   planID,
		MetadataPlanName: planName,
		MetadataPeriod:   string(period),
	}
	if userID != uuid.Nil {
		md[MetadataUserID] = userID.String()
	}
	return md, nil
}

func (m Metadata) Clone() Metadata {
	if m == nil {
		return Metadata{}
	}
	return maps.Clone(m)
}
