package filter

import "context"

// Property runs stages for key and, only if the whole chain succeeds, writes
// the final value into obj[key]. The first stage receives the entire obj.
func Property(ctx context.Context, key string, obj Object, stages []Stage) Result[Object] {
	if obj == nil {
		return Fail[Object](&ConfigurationError{Key: key, Err: ErrNilObject})
	}

	v, err := Eval(ctx, key, obj, stages)
	if err != nil {
		if ctx.Err() != nil {
			return CancelWith(obj, err)
		}
		return FailWith(obj, err)
	}

	obj[key] = v
	return Success(obj)
}

// Eval runs the chain for key without committing anything. Stage failures
// come back as *StageError; cancellation as the bare context error.
func Eval(ctx context.Context, key string, obj Object, stages []Stage) (any, error) {
	rec := NamedValue{Key: key, Value: obj}

	for i, st := range stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if st == nil {
			return nil, &StageError{Key: key, StageIndex: i, StageName: stageName(st, i), Cause: ErrNilStage}
		}

		out, err := st.Apply(ctx, rec)
		if err != nil {
			// a stage giving up because we cancelled it is not its failure
			if ctxErr := ctx.Err(); ctxErr != nil && IsCancellationError(err) {
				return nil, ctxErr
			}
			return nil, &StageError{Key: key, StageIndex: i, StageName: stageName(st, i), Cause: err}
		}
		rec = out
	}

	// a chain that outlived its context never commits
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return rec.Value, nil
}
