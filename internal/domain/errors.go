package domain

import "errors"

// Sentinel errors shared across services. Handlers map these to HTTP
// problem responses.
var (
	// ErrNotFound is returned when a referenced work item, bid or worker
	// does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a state-machine precondition no longer
	// holds: the work was already taken, already completed, or the bid was
	// already resolved. Callers should re-fetch current state, not retry.
	ErrConflict = errors.New("conflict: state has changed")

	// ErrInactive is returned for location samples arriving after the work
	// item reached a terminal state. Clients drop these silently.
	ErrInactive = errors.New("tracking inactive")

	// ErrUnknownDistance is returned when a distance cannot be computed
	// because a coordinate is missing. Never coerced to zero.
	ErrUnknownDistance = errors.New("distance unknown")
)

// ValidationError wraps a user-facing validation message. The caller must
// correct the input before retrying.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

// Validationf builds a ValidationError from a plain message.
func Validationf(msg string) error { return &ValidationError{Msg: msg} }

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
