package payment

import "errors"

var ErrInvalidStatus = errors.New("invalid payment status")

type Status string

const (
	StatusCreated   Status = "created"
	StatusPending   Status = "pending"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusCanceled  Status = "canceled"
)

func ParseStatus(v string) (Status, error) {
	s := Status(v)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusCreated, StatusPending, StatusSucceeded, StatusFailed, StatusCanceled:
		return true
	default:
		return false
	}
}

func (s Status) IsTerminal() bool {
	switch s {
	case StatusSucceeded, StatusFailed, StatusCanceled:
		return true
	default:
		return false
	}
}

// Rank orders statuses along the lifecycle; all terminal statuses share the top rank.
func (s Status) Rank() int {
	switch s {
	case StatusCreated:
		return 0
	case StatusPending:
		return 1
	case StatusSucceeded, StatusFailed, StatusCanceled:
		return 2
	default:
		return -1
	}
}

// CanTransitionTo reports whether next is a forward move from s.
// Terminal statuses accept nothing; canceled is only reachable from created or pending.
func (s Status) CanTransitionTo(next Status) bool {
	if !s.IsValid() || !next.IsValid() || s.IsTerminal() {
		return false
	}
	switch next {
	case StatusPending:
		return s == StatusCreated
	case StatusSucceeded, StatusFailed, StatusCanceled:
		return true
	default:
		return false
	}
}

// Public collapses the lifecycle into what a checkout caller is allowed to see.
func (s Status) Public() Status {
	switch s {
	case StatusSucceeded:
		return StatusSucceeded
	case StatusFailed, StatusCanceled:
		return StatusFailed
	default:
		return StatusPending
	}
}

type Period string

const (
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

func (p Period) IsValid() bool {
	return p == PeriodMonthly || p == PeriodYearly
}

// Source identifies which path produced an observation.
type Source string

const (
	SourceWebhook Source = "webhook"
	SourceVerify  Source = "verify"
	SourceSweep   Source = "sweep"
)
