package filter

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/trace"

	"github.com/ib-77/wpfilter/pkg/observability"
)

// Policy decides what Model does when a pipeline fails.
type Policy int

const (
	// FailFast cancels outstanding pipelines on the first failure.
	FailFast Policy = iota
	// ContinueOnError lets every pipeline finish and reports all failures.
	ContinueOnError
)

func (p Policy) String() string {
	switch p {
	case FailFast:
		return "fail_fast"
	case ContinueOnError:
		return "continue"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fail_fast", "failfast":
		return FailFast, nil
	case "continue", "continue_on_error":
		return ContinueOnError, nil
	default:
		return FailFast, fmt.Errorf("unknown filter policy %q", s)
	}
}

type OptionKey string

const WorkerOptionKey OptionKey = "worker_options"

type WorkerOptions struct {
	MaxCount int
}

// WithWorkerLimit bounds pipeline concurrency for every Model call made
// with the returned context. An explicit WithMaxConcurrency wins.
func WithWorkerLimit(ctx context.Context, maxWorkers int) context.Context {
	return context.WithValue(ctx, WorkerOptionKey, WorkerOptions{MaxCount: maxWorkers})
}

func GetWorkerLimit(ctx context.Context, defaultMaxWorkers int) int {
	options, ok := ctx.Value(WorkerOptionKey).(WorkerOptions)
	if ok {
		return options.MaxCount
	}
	return defaultMaxWorkers
}

type options struct {
	policy         Policy
	maxConcurrency int
	logger         observability.Logger
	metrics        *observability.FilterMetrics
	tracer         trace.Tracer
}

// Option configures a Model call.
type Option func(*options)

func WithPolicy(p Policy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithMaxConcurrency caps concurrently running pipelines; n <= 0 means one
// goroutine per key.
func WithMaxConcurrency(n int) Option {
	return func(o *options) {
		o.maxConcurrency = n
	}
}

func WithLogger(logger observability.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics overrides the default metric set; nil disables metrics.
func WithMetrics(m *observability.FilterMetrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(o *options) {
		o.tracer = t
	}
}

func newOptions(ctx context.Context, opts []Option) options {
	o := options{
		policy:         FailFast,
		maxConcurrency: GetWorkerLimit(ctx, 0),
		logger:         observability.NopLogger(),
		metrics:        observability.GetFilterMetrics(),
		tracer:         filterTracer,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = observability.NopLogger()
	}
	if o.tracer == nil {
		o.tracer = filterTracer
	}
	return o
}
