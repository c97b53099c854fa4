package stages

import (
	"fmt"

	"github.com/ib-77/wpfilter/pkg/filter"
)

// Categories yields _embedded["wp:term"][0], or the raw "categories" IDs
// when the terms were not embedded. A "wp:term" list with no entry at
// index 0 is an ErrIndexOutOfRange failure, not a fallback.
func (l *Library) Categories() filter.Stage {
	return l.termsAt("categories", CategoriesTermIndex, l.fields.Categories)
}

// Tags yields _embedded["wp:term"][1], or the raw "tags" IDs. A "wp:term"
// list with no entry at index 1, e.g. from a site whose tags taxonomy is not
// embedded, fails with ErrIndexOutOfRange rather than falling back.
func (l *Library) Tags() filter.Stage {
	return l.termsAt("tags", TagsTermIndex, l.fields.Tags)
}

func (l *Library) termsAt(name string, index int, fallback string) filter.Stage {
	return filter.Map(name, func(_ string, value any) (any, error) {
		obj, ok := asMap(value)
		if !ok {
			return nil, shape("value", "object", value)
		}

		emb, err := l.embeddedOf(obj)
		if err != nil {
			return nil, err
		}
		if raw, ok := present(emb, l.fields.Terms); ok {
			return l.nth(raw, l.fields.Terms, index)
		}
		return obj[fallback], nil
	})
}

// Author yields _embedded.author[0], or the raw "author" ID.
func (l *Library) Author() filter.Stage {
	return filter.Map("author", func(_ string, value any) (any, error) {
		obj, ok := asMap(value)
		if !ok {
			return nil, shape("value", "object", value)
		}

		emb, err := l.embeddedOf(obj)
		if err != nil {
			return nil, err
		}
		if raw, ok := present(emb, l.fields.Author); ok {
			return l.nth(raw, l.fields.Author, 0)
		}
		return obj[l.fields.Author], nil
	})
}

// FeaturedMedia yields the embedded media's size map when the resource has
// a truthy featured media ID and the media was embedded; otherwise the ID.
func (l *Library) FeaturedMedia() filter.Stage {
	f := l.fields
	return filter.Map("featured_media", func(_ string, value any) (any, error) {
		obj, ok := asMap(value)
		if !ok {
			return nil, shape("value", "object", value)
		}

		id := obj[f.FeaturedMediaID]
		if !truthy(id) {
			return id, nil
		}

		emb, err := l.embeddedOf(obj)
		if err != nil {
			return nil, err
		}
		raw, ok := present(emb, f.FeaturedMedia)
		if !ok {
			return id, nil
		}
		list, ok := asSlice(raw)
		if !ok {
			return nil, shape(f.Embedded+"."+f.FeaturedMedia, "array", raw)
		}
		if len(list) == 0 || !truthy(list[0]) {
			return id, nil
		}

		path := fmt.Sprintf("%s.%s[0]", f.Embedded, f.FeaturedMedia)
		media, ok := asMap(list[0])
		if !ok {
			return nil, shape(path, "object", list[0])
		}
		details, ok := asMap(media[f.MediaDetails])
		if !ok {
			return nil, missing(path + "." + f.MediaDetails)
		}
		sizes, ok := details[f.Sizes]
		if !ok {
			return nil, missing(path + "." + f.MediaDetails + "." + f.Sizes)
		}
		return sizes, nil
	})
}

// embeddedOf returns nil, nil when the resource carries no side-car data.
func (l *Library) embeddedOf(obj map[string]any) (map[string]any, error) {
	raw, ok := present(obj, l.fields.Embedded)
	if !ok {
		return nil, nil
	}
	emb, ok := asMap(raw)
	if !ok {
		return nil, shape(l.fields.Embedded, "object", raw)
	}
	return emb, nil
}

func (l *Library) nth(raw any, name string, index int) (any, error) {
	path := l.fields.Embedded + "." + name
	list, ok := asSlice(raw)
	if !ok {
		return nil, shape(path, "array", raw)
	}
	if index >= len(list) {
		return nil, fmt.Errorf("%w: %s[%d] (len %d)", ErrIndexOutOfRange, path, index, len(list))
	}
	return list[index], nil
}
