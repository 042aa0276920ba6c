package banner

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("institution data not found")

	// kinds carried by ValidationError so callers can errors.Is on them
	ErrNotObject       = errors.New("not an object")
	ErrNotString       = errors.New("not a string")
	ErrEmpty           = errors.New("empty")
	ErrTooLong         = errors.New("too long")
	ErrMissing         = errors.New("missing")
	ErrInvalid         = errors.New("invalid")
	ErrUnsupportedMime = errors.New("unsupported mime")
	ErrDuplicate       = errors.New("duplicate field")
)

// ValidationError reports a malformed or out-of-constraint banner field in
// user input. It is always user-correctable.
type ValidationError struct {
	Field string
	Kind  error
	Msg   string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func (e *ValidationError) Unwrap() error { return e.Kind }

func invalid(field string, kind error, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// SchemaError means a stored record does not have the shape the API
// promises. It points at upstream data problems, not at the caller.
type SchemaError struct {
	Field string
	Msg   string
}

func (e *SchemaError) Error() string {
	return e.Msg
}
