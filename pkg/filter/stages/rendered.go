package stages

import (
	"regexp"

	"github.com/ib-77/wpfilter/pkg/filter"
)

// Rendered flattens value[key] to value[key].rendered. There is no
// fallback: a missing or non-object field fails the stage.
func (l *Library) Rendered() filter.Stage {
	rendered := l.fields.Rendered
	return filter.Map("rendered", func(key string, value any) (any, error) {
		obj, ok := asMap(value)
		if !ok {
			return nil, shape("value", "object", value)
		}
		field, ok := obj[key]
		if !ok {
			return nil, missing(key)
		}
		m, ok := asMap(field)
		if !ok {
			return nil, shape(key, "object", field)
		}
		out, ok := m[rendered]
		if !ok {
			return nil, missing(key + "." + rendered)
		}
		return out, nil
	})
}

var anchorPattern = regexp.MustCompile(`(?i)<a\b[^>]*>(.*?)</a>`)

// StripLinks removes the first anchor element, text included, from a string
// value. Only one match is removed.
func (l *Library) StripLinks() filter.Stage {
	return filter.Map("strip_links", func(_ string, value any) (any, error) {
		s, ok := value.(string)
		if !ok {
			return nil, shape("value", "string", value)
		}
		return stripFirstLink(s), nil
	})
}

func stripFirstLink(s string) string {
	loc := anchorPattern.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]] + s[loc[1]:]
}
