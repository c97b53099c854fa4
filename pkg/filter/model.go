package filter

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/ib-77/wpfilter/pkg/observability"
)

var filterTracer = otel.Tracer("wpfilter/filter")

// slot is a pipeline's private result; only the join reads it.
type slot struct {
	value any
	done  bool
}

type run struct {
	opts   options
	logger observability.Logger
	obj    Object
}

// Model applies spec to obj. Each key's pipeline runs concurrently and
// computes into a private slot; after all of them have returned, finished
// slots are committed into obj in declaration order and obj is returned.
//
// A nil or empty spec returns obj untouched without starting any work.
// Under FailFast the first *StageError cancels the rest; values that were
// already complete are still committed. Caller cancellation yields a
// Cancel result. Failed and cancelled results carry obj.
func Model(ctx context.Context, obj Object, spec *Spec, opts ...Option) Result[Object] {
	o := newOptions(ctx, opts)
	if spec.Len() == 0 {
		o.recordRun(observability.ResultPassthrough)
		return Success(obj)
	}
	if obj == nil {
		o.recordRun(observability.ResultError)
		return Fail[Object](&ConfigurationError{Key: "", Err: ErrNilObject})
	}

	ctx, span := o.tracer.Start(ctx, "filter.model",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.StringSlice("filter.keys", spec.Keys()),
			attribute.String("filter.policy", o.policy.String()),
			attribute.Int("filter.max_concurrency", o.maxConcurrency),
		),
	)
	defer span.End()

	r := &run{
		opts:   o,
		logger: o.logger.With(observability.String("run_id", uuid.NewString())),
		obj:    obj,
	}

	slots := make([]slot, len(spec.pipelines))

	var err error
	switch o.policy {
	case ContinueOnError:
		err = r.continueOnError(ctx, spec.pipelines, slots)
	default:
		err = r.failFast(ctx, spec.pipelines, slots)
	}

	committed := commit(obj, spec.pipelines, slots)
	span.SetAttributes(attribute.Int("filter.committed", committed))

	switch {
	case err == nil:
		o.recordRun(observability.ResultSuccess)
		r.logger.Debug("filter run completed", observability.Int("committed", committed))
		return Success(obj)
	case ctx.Err() != nil:
		o.recordRun(observability.ResultCancelled)
		span.SetStatus(codes.Error, "cancelled")
		r.logger.Debug("filter run cancelled",
			observability.Int("committed", committed), observability.Error(err))
		return CancelWith(obj, err)
	default:
		o.recordRun(observability.ResultError)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.logger.Warn("filter run failed",
			observability.Int("committed", committed), observability.Error(err))
		return FailWith(obj, err)
	}
}

func (r *run) failFast(ctx context.Context, pipelines []Pipeline, slots []slot) error {
	g, gctx := errgroup.WithContext(ctx)
	if r.opts.maxConcurrency > 0 {
		g.SetLimit(r.opts.maxConcurrency)
	}

	for i, p := range pipelines {
		g.Go(func() error {
			v, err := r.pipeline(gctx, p)
			if err != nil {
				return err
			}
			slots[i] = slot{value: v, done: true}
			return nil
		})
	}

	err := g.Wait()
	// errgroup cancels gctx itself; only the caller's ctx makes a run cancelled
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func (r *run) continueOnError(ctx context.Context, pipelines []Pipeline, slots []slot) error {
	errs := make([]error, len(pipelines))
	wg := &sync.WaitGroup{}

	var sem chan struct{}
	if r.opts.maxConcurrency > 0 {
		sem = make(chan struct{}, r.opts.maxConcurrency)
	}

	for i, p := range pipelines {
		wg.Add(1)
		go func() {
			defer wg.Done()

			if sem != nil {
				select {
				case sem <- struct{}{}:
					defer func() { <-sem }()
				case <-ctx.Done():
					errs[i] = ctx.Err()
					return
				}
			}

			v, err := r.pipeline(ctx, p)
			if err != nil {
				errs[i] = err
				return
			}
			slots[i] = slot{value: v, done: true}
		}()
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}

	var failures []*StageError
	for _, err := range errs {
		var se *StageError
		if errors.As(err, &se) {
			failures = append(failures, se)
		}
	}
	if len(failures) > 0 {
		return &AggregateError{Failures: failures}
	}
	return nil
}

func (r *run) pipeline(ctx context.Context, p Pipeline) (any, error) {
	ctx, span := r.opts.tracer.Start(ctx, "filter.property",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("filter.key", p.Key),
			attribute.Int("filter.stages", len(p.Stages)),
		),
	)
	defer span.End()

	logger := r.logger.With(observability.String("key", p.Key))
	start := time.Now()

	v, err := Eval(ctx, p.Key, r.obj, p.Stages)
	elapsed := time.Since(start)

	var se *StageError
	switch {
	case err == nil:
		r.opts.recordPipeline(p.Key, observability.ResultSuccess, elapsed)
		logger.Debug("pipeline finished", observability.Duration("elapsed", elapsed))
	case errors.As(err, &se):
		r.opts.recordPipeline(p.Key, observability.ResultError, elapsed)
		if r.opts.metrics != nil {
			r.opts.metrics.RecordStageError(p.Key, se.StageName)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Warn("pipeline failed",
			observability.String("stage", se.StageName),
			observability.Int("stage_index", se.StageIndex),
			observability.Error(se.Cause))
	default:
		r.opts.recordPipeline(p.Key, observability.ResultCancelled, elapsed)
		span.SetStatus(codes.Error, "cancelled")
		logger.Debug("pipeline cancelled", observability.Error(err))
	}

	return v, err
}

// commit is the single writer of obj for a Model run.
func commit(obj Object, pipelines []Pipeline, slots []slot) int {
	n := 0
	for i, p := range pipelines {
		if slots[i].done {
			obj[p.Key] = slots[i].value
			n++
		}
	}
	return n
}

func (o options) recordRun(result string) {
	if o.metrics != nil {
		o.metrics.RecordRun(result)
	}
}

func (o options) recordPipeline(key, result string, d time.Duration) {
	if o.metrics != nil {
		o.metrics.RecordPipeline(key, result, d)
	}
}
