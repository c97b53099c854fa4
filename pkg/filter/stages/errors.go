package stages

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingField indicates a required field with no fallback is absent.
	ErrMissingField = errors.New("missing field")

	// ErrUnexpectedShape indicates a value of the wrong JSON type.
	ErrUnexpectedShape = errors.New("unexpected value shape")

	// ErrIndexOutOfRange indicates a positional side-car entry is absent.
	ErrIndexOutOfRange = fmt.Errorf("%w: index out of range", ErrMissingField)

	// ErrUnknownStage indicates a stage name with no registered factory.
	ErrUnknownStage = errors.New("unknown stage")

	// ErrNoResolver indicates a Lookup stage built without a Resolver.
	ErrNoResolver = errors.New("no resolver configured")
)

func missing(path string) error {
	return fmt.Errorf("%w: %s", ErrMissingField, path)
}

func shape(path, want string, got any) error {
	return fmt.Errorf("%w: %s: want %s, got %T", ErrUnexpectedShape, path, want, got)
}
