// Package presets holds ready-made specs for the common WordPress REST
// resource types.
package presets

import (
	"errors"
	"fmt"

	"github.com/ib-77/wpfilter/pkg/filter"
	"github.com/ib-77/wpfilter/pkg/filter/stages"
)

var ErrUnknownResource = errors.New("unknown resource")

// Resource names accepted by ForResource, as they appear in REST routes.
const (
	Posts = "posts"
	Pages = "pages"
	Media = "media"
)

// Post flattens a /wp/v2/posts item requested with _embed.
func Post() *filter.Spec {
	return PostWith(stages.Default())
}

// PostWith is Post built against lib's wire names.
func PostWith(lib *stages.Library) *filter.Spec {
	return filter.MustSpec(
		filter.Pipe("title", lib.Rendered()),
		filter.Pipe("content", lib.Rendered()),
		filter.Pipe("excerpt", lib.Rendered(), lib.StripLinks()),
		filter.Pipe("categories", lib.Categories()),
		filter.Pipe("tags", lib.Tags()),
		filter.Pipe("author", lib.Author()),
		filter.Pipe("featured_media", lib.FeaturedMedia(), lib.ImageSizes()),
	)
}

// Page flattens a /wp/v2/pages item. Pages carry no terms.
func Page() *filter.Spec {
	return PageWith(stages.Default())
}

func PageWith(lib *stages.Library) *filter.Spec {
	return filter.MustSpec(
		filter.Pipe("title", lib.Rendered()),
		filter.Pipe("content", lib.Rendered()),
		filter.Pipe("excerpt", lib.Rendered(), lib.StripLinks()),
		filter.Pipe("author", lib.Author()),
		filter.Pipe("featured_media", lib.FeaturedMedia(), lib.ImageSizes()),
	)
}

// Attachment flattens a /wp/v2/media item.
func Attachment() *filter.Spec {
	return AttachmentWith(stages.Default())
}

func AttachmentWith(lib *stages.Library) *filter.Spec {
	return filter.MustSpec(
		filter.Pipe("title", lib.Rendered()),
		filter.Pipe("caption", lib.Rendered()),
		filter.Pipe("description", lib.Rendered()),
	)
}

// ForResource returns the preset for a REST resource name.
func ForResource(name string) (*filter.Spec, error) {
	return ForResourceWith(stages.Default(), name)
}

func ForResourceWith(lib *stages.Library, name string) (*filter.Spec, error) {
	switch name {
	case Posts:
		return PostWith(lib), nil
	case Pages:
		return PageWith(lib), nil
	case Media:
		return AttachmentWith(lib), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownResource, name)
	}
}
