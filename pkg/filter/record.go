package filter

import (
	"context"
	"fmt"
)

// Object is a decoded JSON-like resource. It is mutated in place.
type Object = map[string]any

// NamedValue is the record threaded through a pipeline.
type NamedValue struct {
	Key   string
	Value any
}

// Stage transforms one record into the next. Implementations must honor
// ctx if they block.
type Stage interface {
	Name() string
	Apply(ctx context.Context, in NamedValue) (NamedValue, error)
}

// StageFunc adapts a function to an anonymous Stage.
type StageFunc func(ctx context.Context, in NamedValue) (NamedValue, error)

func (f StageFunc) Name() string {
	return ""
}

func (f StageFunc) Apply(ctx context.Context, in NamedValue) (NamedValue, error) {
	return f(ctx, in)
}

type namedStage struct {
	name string
	fn   StageFunc
}

// Named attaches a display name to fn, reported in errors, logs and metrics.
func Named(name string, fn StageFunc) Stage {
	return namedStage{name: name, fn: fn}
}

func (s namedStage) Name() string {
	return s.name
}

func (s namedStage) Apply(ctx context.Context, in NamedValue) (NamedValue, error) {
	return s.fn(ctx, in)
}

// Map lifts a pure value transform into a named Stage. The key is preserved.
func Map(name string, fn func(key string, value any) (any, error)) Stage {
	return Named(name, func(_ context.Context, in NamedValue) (NamedValue, error) {
		out, err := fn(in.Key, in.Value)
		if err != nil {
			return NamedValue{}, err
		}
		return NamedValue{Key: in.Key, Value: out}, nil
	})
}

func stageName(s Stage, index int) string {
	if s != nil {
		if name := s.Name(); name != "" {
			return name
		}
	}
	return fmt.Sprintf("stage[%d]", index)
}
