package errors

import (
	"context"
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

var (
	ErrMissingFields      = errors.New("missing required fields")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrUnavailable        = errors.New("dependency unavailable")
	// ErrInvalidMessage marks an email a transport refuses to send as built.
	ErrInvalidMessage     = errors.New("invalid message")
)

// Kind classifies failures so logs and metrics can tell causes apart while
// the HTTP layer keeps answering with one generic message per route.
type Kind string

const (
	KindValidation     Kind = "validation"
	KindAuthentication Kind = "authentication"
	KindConflict       Kind = "conflict"
	KindUnavailable    Kind = "unavailable"
	KindUnknown        Kind = "unknown"
)

// KindOf reports the kind of err. A nil error has no kind and yields "".
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingFields):
		return KindValidation
	case errors.Is(err, ErrInvalidCredentials):
		return KindAuthentication
	case errors.Is(err, ErrAlreadyExists):
		return KindConflict
	case errors.Is(err, ErrUnavailable),
		errors.Is(err, context.DeadlineExceeded):
		return KindUnavailable
	default:
		return KindUnknown
	}
}

// Unavailable marks err as caused by an unreachable or timed out dependency.
func Unavailable(err error, msg string) error {
	if err == nil {
		return nil
	}
	return pkgerrors.WithStack(fmt.Errorf("%s: %w: %w", msg, ErrUnavailable, err))
}

// MissingFields marks err as an input validation failure.
func MissingFields(err error) error {
	if err == nil {
		return pkgerrors.WithStack(ErrMissingFields)
	}
	return pkgerrors.WithStack(fmt.Errorf("%w: %w", ErrMissingFields, err))
}
