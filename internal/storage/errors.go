package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformed is returned when imported bytes are not valid JSON.
	ErrMalformed = errors.New("malformed backup")
	// ErrInvalidFormat is returned when imported JSON is not a complete envelope.
	ErrInvalidFormat = errors.New("invalid backup format")
	// ErrEncrypted is returned when a sealed backup is imported without a passphrase.
	ErrEncrypted = errors.New("backup is encrypted")
)

// ImportError describes why a backup was rejected. Kind is one of ErrMalformed,
// ErrInvalidFormat or ErrEncrypted; Err carries the underlying cause.
type ImportError struct {
	Kind error
	Err  error
}

func (e *ImportError) Error() string {
	if e.Err == nil {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%v: %v", e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *ImportError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// UserMessage returns the short message shown when an import is rejected.
func (e *ImportError) UserMessage() string {
	switch {
	case errors.Is(e.Kind, ErrMalformed):
		return "Could not read the backup file."
	case errors.Is(e.Kind, ErrEncrypted):
		return "The backup is encrypted; provide the passphrase."
	default:
		return "Invalid backup file format."
	}
}

func importError(kind, err error) *ImportError {
	return &ImportError{Kind: kind, Err: err}
}
