package core

import "github.com/pkg/errors"

var (
	// ErrCacheMiss is returned by caches when a key is absent or expired.
	ErrCacheMiss = errors.New("cache miss")

	// ErrForbidden is returned when the acting subject may not perform an operation.
	// Wrap it to give the reason: errors.Wrap(core.ErrForbidden, "round is closed").
	ErrForbidden = errors.New("permission denied")
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		if len(err.Fields) > 0 {
			return err.Fields[0].Field + ": " + err.Fields[0].Error
		}
		return ""
	}
	return err.Err.Error()
}

// NotFoundError reports a missing document of the named kind.
type NotFoundError struct {
	Kind string
}

func NewNotFoundError(kind string) error {
	return &NotFoundError{Kind: kind}
}

func (err NotFoundError) Error() string {
	return err.Kind + " not found"
}

// IsNotFound tells whether the root cause of err is a NotFoundError.
func IsNotFound(err error) bool {
	_, ok := errors.Cause(err).(*NotFoundError)
	return ok
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}

// IsForbidden tells whether the root cause of err is ErrForbidden.
func IsForbidden(err error) bool {
	return errors.Cause(err) == ErrForbidden
}
