package payment

type Decision int

const (
	// DecisionApply: write the observation with a CAS on the previous sequence.
	DecisionApply Decision = iota
	// DecisionDuplicate: the observation is not newer than what was already applied.
	DecisionDuplicate
	// DecisionSettled: terminal status observed again; nothing to record.
	DecisionSettled
	// DecisionTerminalConflict: a terminal record saw a different status.
	DecisionTerminalConflict
	// DecisionRegression: the observation would move the status backward.
	DecisionRegression
	// DecisionInvalid: the observed status is not part of the lifecycle.
	DecisionInvalid
	// DecisionStaleTransition: a forward move arrived with a sequence that is not
	// newer than the record's. Usually clock skew between the gateway's event
	// timestamps and the ones stamped on gateway reads.
	DecisionStaleTransition
)

func (d Decision) String() string {
	switch d {
	case DecisionApply:
		return "apply"
	case DecisionDuplicate:
		return "duplicate"
	case DecisionSettled:
		return "settled"
	case DecisionTerminalConflict:
		return "terminal_conflict"
	case DecisionRegression:
		return "regression"
	case DecisionInvalid:
		return "invalid"
	case DecisionStaleTransition:
		return "stale_transition"
	default:
		return "unknown"
	}
}

// IsAnomaly reports decisions that operators should review.
func (d Decision) IsAnomaly() bool {
	switch d {
	case DecisionTerminalConflict, DecisionRegression, DecisionInvalid, DecisionStaleTransition:
		return true
	default:
		return false
	}
}

// Decide is the reconciliation policy shared by the verify, webhook and sweep paths.
// Sequence staleness is checked before anything else so redeliveries are always no-ops.
func Decide(current *Intent, observed Status, observedSequence int64) Decision {
	if !observed.IsValid() {
		return DecisionInvalid
	}
	if observedSequence <= current.lastEventSequence {
		if current.status.CanTransitionTo(observed) && observed.Rank() > current.status.Rank() {
			return DecisionStaleTransition
		}
		return DecisionDuplicate
	}
	if current.status.IsTerminal() {
		if observed == current.status {
			return DecisionSettled
		}
		return DecisionTerminalConflict
	}
	if observed == current.status || current.status.CanTransitionTo(observed) {
		return DecisionApply
	}
	return DecisionRegression
}
