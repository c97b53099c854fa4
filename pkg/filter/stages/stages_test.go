package stages

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ib-77/wpfilter/pkg/filter"
)

func apply(t *testing.T, key string, obj filter.Object, chain ...filter.Stage) (any, error) {
	t.Helper()
	return filter.Eval(context.Background(), key, obj, chain)
}

func decode(t *testing.T, raw string) filter.Object {
	t.Helper()
	var obj filter.Object
	require.NoError(t, json.Unmarshal([]byte(raw), &obj))
	return obj
}

func TestRendered(t *testing.T) {
	t.Parallel()

	v, err := apply(t, "title", filter.Object{"title": map[string]any{"rendered": "Hello", "raw": "hello"}}, RenderedFlatten)
	require.NoError(t, err)
	assert.Equal(t, "Hello", v)

	_, err = apply(t, "title", filter.Object{}, RenderedFlatten)
	assert.ErrorIs(t, err, ErrMissingField)

	_, err = apply(t, "title", filter.Object{"title": map[string]any{}}, RenderedFlatten)
	assert.ErrorIs(t, err, ErrMissingField)
	assert.Contains(t, err.Error(), "title.rendered")

	_, err = apply(t, "title", filter.Object{"title": "already flat"}, RenderedFlatten)
	assert.ErrorIs(t, err, ErrUnexpectedShape)
}

func TestStripLinks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{
			in:   "see <a href='x'>here</a> and <a href='y'>there</a>",
			want: "see  and <a href='y'>there</a>",
		},
		{in: "no links", want: "no links"},
		{in: `<p>Welcome <A HREF="/x" class="more">Read</A></p>`, want: "<p>Welcome </p>"},
		{in: "<abbr>ok</abbr>", want: "<abbr>ok</abbr>"},
	}

	for _, tt := range tests {
		v, err := apply(t, "excerpt", filter.Object{"excerpt": map[string]any{"rendered": tt.in}}, RenderedFlatten, LinkStrip)
		require.NoError(t, err)
		assert.Equal(t, tt.want, v)
	}

	_, err := apply(t, "excerpt", filter.Object{"excerpt": map[string]any{"rendered": 3}}, RenderedFlatten, LinkStrip)
	assert.ErrorIs(t, err, ErrUnexpectedShape)
}

func TestTermsIndexContract(t *testing.T) {
	t.Parallel()

	obj := decode(t, `{
		"categories": [1], "tags": [2],
		"_embedded": {"wp:term": [[{"name": "catA"}], [{"name": "tagA"}]]}
	}`)

	cats, err := apply(t, "categories", obj, CategoriesExtract)
	require.NoError(t, err)
	assert.Equal(t, []any{map[string]any{"name": "catA"}}, cats)

	tags, err := apply(t, "tags", obj, TagsExtract)
	require.NoError(t, err)
	assert.Equal(t, []any{map[string]any{"name": "tagA"}}, tags)
}

func TestTermsFallback(t *testing.T) {
	t.Parallel()

	obj := decode(t, `{"categories": [1, 2], "tags": [], "_embedded": {"author": []}}`)

	cats, err := apply(t, "categories", obj, CategoriesExtract)
	require.NoError(t, err)
	assert.Equal(t, []any{float64(1), float64(2)}, cats)

	tags, err := apply(t, "tags", obj, TagsExtract)
	require.NoError(t, err)
	assert.Equal(t, []any{}, tags)
}

func TestTermsIndexMissing(t *testing.T) {
	t.Parallel()

	obj := decode(t, `{"_embedded": {"wp:term": [[{"name": "catA"}]]}}`)

	_, err := apply(t, "tags", obj, TagsExtract)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.ErrorIs(t, err, ErrMissingField)

	var se *filter.StageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "tags", se.StageName)
}

func TestAuthor(t *testing.T) {
	t.Parallel()

	embedded := decode(t, `{"author": 1, "_embedded": {"author": [{"id": 1, "name": "admin"}]}}`)
	v, err := apply(t, "author", embedded, AuthorExtract)
	require.NoError(t, err)
	assert.Equal(t, "admin", v.(map[string]any)["name"])

	bare := filter.Object{"author": 1}
	v, err = apply(t, "author", bare, AuthorExtract)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	// embed present but author not requested
	partial := filter.Object{"author": 1, "_embedded": map[string]any{"wp:term": []any{}}}
	v, err = apply(t, "author", partial, AuthorExtract)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	_, err = apply(t, "author", filter.Object{"_embedded": "nope"}, AuthorExtract)
	assert.ErrorIs(t, err, ErrUnexpectedShape)
}

func TestFeaturedMedia(t *testing.T) {
	t.Parallel()

	v, err := apply(t, "featured_media", filter.Object{"featured_media": 0}, FeaturedMediaExtract)
	require.NoError(t, err)
	assert.Equal(t, 0, v)

	obj := filter.Object{
		"featured_media": 42,
		"_embedded": map[string]any{
			"wp:featuredmedia": []any{map[string]any{
				"media_details": map[string]any{
					"sizes": map[string]any{
						"thumbnail": map[string]any{"source_url": "http://x/thumb.jpg"},
					},
				},
			}},
		},
	}
	v, err = apply(t, "featured_media", obj, FeaturedMediaExtract)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"thumbnail": map[string]any{"source_url": "http://x/thumb.jpg"},
	}, v)

	// id set but media not embedded
	v, err = apply(t, "featured_media", filter.Object{"featured_media": 42}, FeaturedMediaExtract)
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	// embedded error object, e.g. for a private attachment
	forbidden := filter.Object{
		"featured_media": 42,
		"_embedded": map[string]any{
			"wp:featuredmedia": []any{map[string]any{"code": "rest_forbidden"}},
		},
	}
	_, err = apply(t, "featured_media", forbidden, FeaturedMediaExtract)
	assert.ErrorIs(t, err, ErrMissingField)
	assert.Contains(t, err.Error(), "media_details")
}

func TestImageSizes(t *testing.T) {
	t.Parallel()

	sizes := filter.Object{"sizes": map[string]any{
		"thumb": map[string]any{"source_url": "u1", "width": 10},
		"full":  map[string]any{"source_url": "u2", "width": 20},
	}}
	pick := filter.Map("pick", func(_ string, v any) (any, error) {
		return v.(filter.Object)["sizes"], nil
	})

	v, err := apply(t, "sizes", sizes, pick, ImageSizesUrlFlatten)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"thumb": "u1", "full": "u2"}, v)

	// the input map is not modified
	assert.Equal(t, "u1", sizes["sizes"].(map[string]any)["thumb"].(map[string]any)["source_url"])

	bare := filter.Map("bare", func(string, any) (any, error) { return 42, nil })
	v, err = apply(t, "featured_media", filter.Object{}, bare, ImageSizesUrlFlatten)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, v)

	null := filter.Map("null", func(string, any) (any, error) { return nil, nil })
	_, err = apply(t, "featured_media", filter.Object{}, null, ImageSizesUrlFlatten)
	assert.ErrorIs(t, err, ErrUnexpectedShape)

	noURL := filter.Map("no_url", func(string, any) (any, error) {
		return map[string]any{"thumb": map[string]any{"width": 10}}, nil
	})
	_, err = apply(t, "featured_media", filter.Object{}, noURL, ImageSizesUrlFlatten)
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestFeaturedMediaChain(t *testing.T) {
	t.Parallel()

	obj := decode(t, `{
		"featured_media": 11,
		"_embedded": {"wp:featuredmedia": [{"media_details": {"sizes": {
			"thumbnail": {"source_url": "https://example.org/t.jpg"},
			"full": {"source_url": "https://example.org/f.jpg"}
		}}}]}
	}`)

	v, err := apply(t, "featured_media", obj, FeaturedMediaExtract, ImageSizesUrlFlatten)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"thumbnail": "https://example.org/t.jpg",
		"full":      "https://example.org/f.jpg",
	}, v)

	none := decode(t, `{"featured_media": 0}`)
	v, err = apply(t, "featured_media", none, FeaturedMediaExtract, ImageSizesUrlFlatten)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, v)
}

func TestCustomFields(t *testing.T) {
	t.Parallel()

	lib := New(Fields{Embedded: "embedded", Terms: "terms", Rendered: "html"})
	assert.Equal(t, "author", lib.Fields().Author)

	obj := filter.Object{
		"title":    map[string]any{"html": "T"},
		"embedded": map[string]any{"terms": []any{[]any{"c"}, []any{"t"}}},
	}

	v, err := apply(t, "title", obj, lib.Rendered())
	require.NoError(t, err)
	assert.Equal(t, "T", v)

	v, err = apply(t, "tags", obj, lib.Tags())
	require.NoError(t, err)
	assert.Equal(t, []any{"t"}, v)
}

func TestTruthy(t *testing.T) {
	t.Parallel()

	falsy := []any{nil, false, 0, 0.0, int64(0), uint(0), "", json.Number("0"), map[string]any(nil), []any(nil)}
	for _, v := range falsy {
		assert.False(t, truthy(v), "%#v", v)
	}

	truthyValues := []any{true, 1, -1, 0.5, "0", json.Number("42"), map[string]any{}, []any{}, struct{}{}}
	for _, v := range truthyValues {
		assert.True(t, truthy(v), "%#v", v)
	}
}
