package errs

import (
	"errors"

	cr "github.com/cockroachdb/errors"
)

func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return cr.Wrap(err, msg)
}

func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return cr.Wrapf(err, format, args...)
}

func New(msg string) error {
	return cr.New(msg)
}

// Mark attaches markErr as an identity that both the standard errors.Is and
// cockroach's Is match, keeping err's message and stack. A nil err yields
// markErr itself.
func Mark(err error, markErr error) error {
	if err == nil {
		return markErr
	}
	return &marked{cause: cr.Mark(err, markErr), mark: markErr}
}

// Is reports whether err or any mark attached along its chain matches target.
func Is(err, target error) bool {
	return cr.Is(err, target)
}

type marked struct {
	cause error
	mark  error
}

func (m *marked) Error() string { return m.cause.Error() }

func (m *marked) Unwrap() error { return m.cause }

func (m *marked) Is(target error) bool {
	return m.mark == target || errors.Is(m.mark, target)
}

// WithHint adds operator guidance that is printed by %+v and never reaches API callers.
func WithHint(err error, hint string) error {
	if err == nil {
		return nil
	}
	return cr.WithHint(err, hint)
}

// Redact renders err with every unsafe argument elided. Gateway and broker errors
// may quote payer data, so logs that leave the host use this form.
func Redact(err error) string {
	if err == nil {
		return ""
	}
	return cr.Redact(err)
}

// Hints collects every hint attached along err's chain, one per line.
func Hints(err error) string {
	if err == nil {
		return ""
	}
	return cr.FlattenHints(err)
}
