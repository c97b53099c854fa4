package stages

import "github.com/ib-77/wpfilter/pkg/filter"

// Library builds the built-in stages against one set of wire names.
type Library struct {
	fields   Fields
	resolver Resolver
}

type LibraryOption func(*Library)

// WithResolver supplies the Resolver used by the "resolve" stage.
func WithResolver(r Resolver) LibraryOption {
	return func(l *Library) {
		l.resolver = r
	}
}

// New returns a Library; empty names in fields fall back to DefaultFields.
func New(fields Fields, opts ...LibraryOption) *Library {
	l := &Library{fields: fields.merge()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Library) Fields() Fields {
	return l.fields
}

var defaultLibrary = New(DefaultFields())

// Default returns the Library behind the package-level stages.
func Default() *Library {
	return defaultLibrary
}

// Built-in stages over DefaultFields.
var (
	RenderedFlatten      filter.Stage = defaultLibrary.Rendered()
	LinkStrip            filter.Stage = defaultLibrary.StripLinks()
	CategoriesExtract    filter.Stage = defaultLibrary.Categories()
	TagsExtract          filter.Stage = defaultLibrary.Tags()
	AuthorExtract        filter.Stage = defaultLibrary.Author()
	FeaturedMediaExtract filter.Stage = defaultLibrary.FeaturedMedia()
	ImageSizesUrlFlatten filter.Stage = defaultLibrary.ImageSizes()
)
