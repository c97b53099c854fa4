package filter

import (
	"context"
	"sync"
)

type item struct {
	index int
	obj   Object
}

type outcome struct {
	index int
	res   Result[Object]
}

// Collection applies spec to every object of a list response, running up to
// lines objects at once. Results are in input order. Objects never started
// because ctx ended come back as Cancel results carrying the object.
func Collection(ctx context.Context, objs []Object, spec *Spec, lines int, opts ...Option) []Result[Object] {
	results := make([]Result[Object], len(objs))
	if len(objs) == 0 {
		return results
	}
	if lines <= 0 {
		lines = 1
	}
	if lines > len(objs) {
		lines = len(objs)
	}

	in := toChan(ctx, objs)
	out := make(chan outcome)
	wg := &sync.WaitGroup{}

	for range lines {
		wg.Add(1)
		go locomotive(ctx, in, out, spec, opts, wg)
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	done := make([]bool, len(objs))
	for o := range out {
		results[o.index] = o.res
		done[o.index] = true
	}

	for i := range results {
		if done[i] {
			continue
		}
		err := ctx.Err()
		if err == nil {
			err = ErrCancelled
		}
		results[i] = CancelWith(objs[i], err)
	}
	return results
}

func toChan(ctx context.Context, objs []Object) <-chan item {
	in := make(chan item)

	go func() {
		defer close(in)

		for i, obj := range objs {
			if ctx.Err() != nil {
				return
			}
			select {
			case in <- item{index: i, obj: obj}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return in
}

// locomotive pulls objects until the input closes or ctx ends. Every object
// it takes is reported on out.
func locomotive(ctx context.Context, in <-chan item, out chan<- outcome, spec *Spec, opts []Option, wg *sync.WaitGroup) {
	defer wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case it, ok := <-in:
			if !ok {
				return
			}
			out <- outcome{index: it.index, res: Model(ctx, it.obj, spec, opts...)}
		}
	}
}
