package payment

import "time"

type EventType string

const (
	EventSucceeded  EventType = "succeeded"
	EventFailed     EventType = "failed"
	EventProcessing EventType = "processing"
	EventCanceled   EventType = "canceled"
	EventOther      EventType = "other"
)

// Event is a verified gateway webhook, reduced to what reconciliation needs.
// It is never persisted; only its ID lives on in the seen-events window.
type Event struct {
	ID               string
	Type             EventType
	IntentID         string
	AmountMinorUnits int64
	Currency         string
	Sequence         int64
	OccurredAt       time.Time
}

// ObservedStatus maps the event onto the intent lifecycle.
// Events of other types report false and are acknowledged without processing.
func (e Event) ObservedStatus() (Status, bool) {
	switch e.Type {
	case EventSucceeded:
		return StatusSucceeded, true
	case EventFailed:
		return StatusFailed, true
	case EventProcessing:
		return StatusPending, true
	case EventCanceled:
		return StatusCanceled, true
	default:
		return "", false
	}
}

// MatchesMoney reports whether the amounts carried by the event agree with the stored intent.
// Zero values mean the gateway did not send the field.
func (e Event) MatchesMoney(m Money) bool {
	if e.AmountMinorUnits != 0 && e.AmountMinorUnits != m.AmountMinorUnits() {
		return false
	}
	if e.Currency != "" {
		c, err := NewCurrency(e.Currency)
		if err != nil || c != m.Currency() {
			return false
		}
	}
	return true
}

// SequenceAt builds an observation ordinal from a gateway timestamp in seconds.
// The status rank breaks ties inside the same second so a terminal event
// emitted right after a processing event is never mistaken for a redelivery.
func SequenceAt(unixSeconds int64, status Status) int64 {
	rank := status.Rank()
	if rank < 0 {
		rank = 0
	}
	return unixSeconds*8 + int64(rank)
}
