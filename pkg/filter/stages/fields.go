package stages

// Fields names the wire properties the built-in stages read.
type Fields struct {
	Embedded        string `yaml:"embedded"`
	Terms           string `yaml:"terms"`
	Author          string `yaml:"author"`
	FeaturedMedia   string `yaml:"featured_media"`
	FeaturedMediaID string `yaml:"featured_media_id"`
	MediaDetails    string `yaml:"media_details"`
	Sizes           string `yaml:"sizes"`
	SourceURL       string `yaml:"source_url"`
	Rendered        string `yaml:"rendered"`
	Categories      string `yaml:"categories"`
	Tags            string `yaml:"tags"`
}

// Positions of categories and tags inside the combined terms side-car, as
// ordered by the WordPress embed.
const (
	CategoriesTermIndex = 0
	TagsTermIndex       = 1
)

// DefaultFields returns the WordPress REST API (wp/v2) names.
func DefaultFields() Fields {
	return Fields{
		Embedded:        "_embedded",
		Terms:           "wp:term",
		Author:          "author",
		FeaturedMedia:   "wp:featuredmedia",
		FeaturedMediaID: "featured_media",
		MediaDetails:    "media_details",
		Sizes:           "sizes",
		SourceURL:       "source_url",
		Rendered:        "rendered",
		Categories:      "categories",
		Tags:            "tags",
	}
}

// merge fills empty names from DefaultFields.
func (f Fields) merge() Fields {
	d := DefaultFields()
	pick := func(v, def string) string {
		if v == "" {
			return def
		}
		return v
	}
	return Fields{
		Embedded:        pick(f.Embedded, d.Embedded),
		Terms:           pick(f.Terms, d.Terms),
		Author:          pick(f.Author, d.Author),
		FeaturedMedia:   pick(f.FeaturedMedia, d.FeaturedMedia),
		FeaturedMediaID: pick(f.FeaturedMediaID, d.FeaturedMediaID),
		MediaDetails:    pick(f.MediaDetails, d.MediaDetails),
		Sizes:           pick(f.Sizes, d.Sizes),
		SourceURL:       pick(f.SourceURL, d.SourceURL),
		Rendered:        pick(f.Rendered, d.Rendered),
		Categories:      pick(f.Categories, d.Categories),
		Tags:            pick(f.Tags, d.Tags),
	}
}
