package stages

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ib-77/wpfilter/pkg/filter"
)

type recordingResolver struct {
	mu    sync.Mutex
	calls []string
}

func (r *recordingResolver) Resolve(_ context.Context, kind string, id any) (any, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, kind)
	return map[string]any{"kind": kind, "id": id}, nil
}

func TestLookup_ResolvesIDs(t *testing.T) {
	t.Parallel()

	r := &recordingResolver{}
	lib := New(DefaultFields(), WithResolver(r))

	// bare author ID: fallback, then resolve
	v, err := apply(t, "author", filter.Object{"author": 3}, lib.Author(), lib.Lookup())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"kind": "author", "id": 3}, v)

	v, err = apply(t, "tags", filter.Object{"tags": []any{7, 9}}, lib.Tags(), lib.Lookup())
	require.NoError(t, err)
	assert.Equal(t, []any{
		map[string]any{"kind": "tags", "id": 7},
		map[string]any{"kind": "tags", "id": 9},
	}, v)

	assert.Equal(t, []string{"author", "tags", "tags"}, r.calls)
}

func TestLookup_PassesThroughResolvedValues(t *testing.T) {
	t.Parallel()

	r := &recordingResolver{}
	obj := filter.Object{"author": 1, "_embedded": map[string]any{"author": []any{map[string]any{"name": "admin"}}}}

	v, err := apply(t, "author", obj, AuthorExtract, Lookup(r))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "admin"}, v)

	v, err = apply(t, "tags", filter.Object{"tags": []any{}}, TagsExtract, Lookup(r))
	require.NoError(t, err)
	assert.Equal(t, []any{}, v)

	v, err = apply(t, "slug", filter.Object{}, filter.Map("slug", func(string, any) (any, error) { return "hello", nil }), Lookup(r))
	require.NoError(t, err)
	assert.Equal(t, "hello", v)

	assert.Empty(t, r.calls)
}

func TestLookup_Errors(t *testing.T) {
	t.Parallel()

	_, err := apply(t, "author", filter.Object{"author": 1}, AuthorExtract, Default().Lookup())
	assert.ErrorIs(t, err, ErrNoResolver)

	notFound := errors.New("not found")
	failing := ResolverFunc(func(context.Context, string, any) (any, error) {
		return nil, notFound
	})
	_, err = apply(t, "author", filter.Object{"author": 1}, AuthorExtract, Lookup(failing))
	assert.ErrorIs(t, err, notFound)

	var se *filter.StageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "resolve", se.StageName)
	assert.Equal(t, 1, se.StageIndex)
}

func TestLookup_HonorsCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	slow := ResolverFunc(func(ctx context.Context, _ string, _ any) (any, error) {
		cancel()
		<-ctx.Done()
		return nil, ctx.Err()
	})

	_, err := filter.Eval(ctx, "tags", filter.Object{"tags": []any{1, 2}}, []filter.Stage{TagsExtract, Lookup(slow)})
	assert.ErrorIs(t, err, context.Canceled)

	var se *filter.StageError
	assert.False(t, errors.As(err, &se))
}
