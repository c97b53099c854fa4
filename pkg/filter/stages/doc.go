// Package stages is the built-in stage library for WordPress-style REST
// resources.
//
// Stages flatten "rendered" text, strip links, and pull expanded side-car
// data out of "_embedded", falling back to the raw ID fields when the
// resource was fetched without embedding:
// - RenderedFlatten: value[key].rendered
// - LinkStrip: drop the first <a>...</a> from a string
// - CategoriesExtract/TagsExtract: _embedded["wp:term"][0] / [1]
// - AuthorExtract: _embedded.author[0]
// - FeaturedMediaExtract: _embedded["wp:featuredmedia"][0].media_details.sizes
// - ImageSizesUrlFlatten: size name -> source_url
// - Lookup: resolve bare IDs through a caller-supplied Resolver
//
// The package-level stages use DefaultFields. Build a Library with New for
// APIs that rename those fields.
package stages
