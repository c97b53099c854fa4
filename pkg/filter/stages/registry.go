package stages

import (
	"fmt"
	"sort"
	"sync"

	"github.com/ib-77/wpfilter/pkg/filter"
)

// Factory builds a stage against a Library's wire names.
type Factory func(l *Library) filter.Stage

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

func init() {
	Register("rendered", (*Library).Rendered)
	Register("strip_links", (*Library).StripLinks)
	Register("categories", (*Library).Categories)
	Register("tags", (*Library).Tags)
	Register("author", (*Library).Author)
	Register("featured_media", (*Library).FeaturedMedia)
	Register("image_sizes", (*Library).ImageSizes)
	Register("resolve", (*Library).Lookup)
}

// Register makes a stage available by name to spec files. Registering a
// name twice replaces the earlier factory.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		panic("stages: Register requires a name and a factory")
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = f
}

// Names lists the registered stage names, sorted.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ByName builds the registered stage called name.
func (l *Library) ByName(name string) (filter.Stage, error) {
	registryMu.RLock()
	f, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStage, name)
	}
	return f(l), nil
}
