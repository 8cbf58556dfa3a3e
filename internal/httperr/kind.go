package httperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failed store operation so the presentation layer can
// pick a user-facing message.
type Kind string

const (
	KindAuth          Kind = "auth_error"
	KindRegistration  Kind = "registration_error"
	KindBooking       Kind = "booking_error"
	KindCancellation  Kind = "cancellation_error"
	KindTransition    Kind = "transition_error"
	KindFetch         Kind = "fetch_error"
	KindProfileUpdate Kind = "profile_update_error"
)

type OpError struct {
	Kind Kind
	Err  error
}

func (e *OpError) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// Wrap tags err with kind. A nil err stays nil.
func Wrap(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Kind: kind, Err: err}
}

func KindOf(err error) (Kind, bool) {
	var op *OpError
	if errors.As(err, &op) {
		return op.Kind, true
	}
	return "", false
}

func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
