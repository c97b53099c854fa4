package stages

import "github.com/ib-77/wpfilter/pkg/filter"

// ImageSizes maps each size descriptor to its source URL, building a new
// map of size name -> URL. A bare media ID (FeaturedMedia's fallback)
// flattens to an empty map.
func (l *Library) ImageSizes() filter.Stage {
	src := l.fields.SourceURL
	return filter.Map("image_sizes", func(_ string, value any) (any, error) {
		if isNumber(value) {
			return map[string]any{}, nil
		}

		sizes, ok := asMap(value)
		if !ok {
			return nil, shape("value", "object of sizes", value)
		}

		out := make(map[string]any, len(sizes))
		for name, raw := range sizes {
			desc, ok := asMap(raw)
			if !ok {
				return nil, shape(name, "object", raw)
			}
			url, ok := desc[src]
			if !ok {
				return nil, missing(name + "." + src)
			}
			out[name] = url
		}
		return out, nil
	})
}
