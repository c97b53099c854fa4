package stages

import (
	"context"

	"github.com/ib-77/wpfilter/pkg/filter"
)

// Resolver fetches the full resource of kind behind id, for resources the
// response did not embed. kind is the key being filtered, e.g. "author".
type Resolver interface {
	Resolve(ctx context.Context, kind string, id any) (any, error)
}

// ResolverFunc adapts a function to a Resolver.
type ResolverFunc func(ctx context.Context, kind string, id any) (any, error)

func (f ResolverFunc) Resolve(ctx context.Context, kind string, id any) (any, error) {
	return f(ctx, kind, id)
}

// Lookup replaces a numeric ID, or a list of them, with what r returns for
// it. Lists are resolved in order, one at a time. Anything else passes
// through untouched, so Lookup can follow an extraction stage that has
// already found the embedded value.
func Lookup(r Resolver) filter.Stage {
	return filter.Named("resolve", func(ctx context.Context, in filter.NamedValue) (filter.NamedValue, error) {
		if r == nil {
			return filter.NamedValue{}, ErrNoResolver
		}

		if isNumber(in.Value) {
			v, err := r.Resolve(ctx, in.Key, in.Value)
			if err != nil {
				return filter.NamedValue{}, err
			}
			return filter.NamedValue{Key: in.Key, Value: v}, nil
		}

		ids, ok := idList(in.Value)
		if !ok {
			return in, nil
		}
		out := make([]any, len(ids))
		for i, id := range ids {
			if err := ctx.Err(); err != nil {
				return filter.NamedValue{}, err
			}
			v, err := r.Resolve(ctx, in.Key, id)
			if err != nil {
				return filter.NamedValue{}, err
			}
			out[i] = v
		}
		return filter.NamedValue{Key: in.Key, Value: out}, nil
	})
}

// Lookup returns a resolve stage bound to the Library's Resolver.
func (l *Library) Lookup() filter.Stage {
	return Lookup(l.resolver)
}

func idList(v any) ([]any, bool) {
	if _, ok := v.(string); ok {
		return nil, false
	}
	list, ok := asSlice(v)
	if !ok || len(list) == 0 {
		return nil, false
	}
	for _, id := range list {
		if !isNumber(id) {
			return nil, false
		}
	}
	return list, true
}
