package filter

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Spec and run errors.
var (
	// ErrEmptyKey indicates a pipeline declared without a property key.
	ErrEmptyKey = errors.New("empty property key")

	// ErrNilStage indicates a nil entry in a stage list.
	ErrNilStage = errors.New("nil stage")

	// ErrDuplicateKey indicates two pipelines targeting the same property.
	ErrDuplicateKey = errors.New("duplicate property key")

	// ErrNilObject indicates Model was asked to write into a nil object.
	ErrNilObject = errors.New("nil object")

	ErrCancelled = errors.New("filter cancelled")
)

// ConfigurationError reports an invalid Spec. It is returned before any
// pipeline starts.
type ConfigurationError struct {
	Key string
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("filter: invalid pipeline %q: %v", e.Key, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// StageError identifies the key and stage whose transform failed.
type StageError struct {
	Key        string
	StageIndex int
	StageName  string
	Cause      error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("filter: key %q stage %d (%s): %v", e.Key, e.StageIndex, e.StageName, e.Cause)
}

func (e *StageError) Unwrap() error {
	return e.Cause
}

// AggregateError collects every failed pipeline of a ContinueOnError run,
// in spec declaration order.
type AggregateError struct {
	Failures []*StageError
}

func (e *AggregateError) Error() string {
	msgs := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		msgs = append(msgs, f.Error())
	}
	return fmt.Sprintf("filter: %d pipeline(s) failed: %s", len(e.Failures), strings.Join(msgs, "; "))
}

func (e *AggregateError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f
	}
	return errs
}

// GetErrors flattens a joined or aggregate error into its parts.
func GetErrors(err error) []error {
	if err == nil {
		return []error{}
	}

	e, ok := err.(interface{ Unwrap() []error })
	if ok {
		return e.Unwrap()
	}

	return []error{err}
}

func IsCancellationError(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) ||
		errors.Is(err, ErrCancelled)
}
