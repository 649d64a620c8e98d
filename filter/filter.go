package filter

import (
	"menu-scraper/config"
	"menu-scraper/tree"
)

// Filter keeps the dining locations named in the configuration
type Filter struct {
	allowed map[string]bool
}

// NewFilter creates a new Filter instance
func NewFilter(cfg *config.Config) *Filter {
	allowed := make(map[string]bool, len(cfg.Locations.Allowed))
	for _, name := range cfg.Locations.Allowed {
		allowed[name] = true
	}
	return &Filter{
		allowed: allowed,
	}
}

// Allows reports whether a location is kept. An empty allow list keeps all.
func (f *Filter) Allows(location string) bool {
	if len(f.allowed) == 0 {
		return true
	}
	return f.allowed[location]
}

// ApplyFilters returns a new mapping holding only the allowed locations.
// Location subtrees are shared with the input, not copied.
func (f *Filter) ApplyFilters(locations tree.Mapping) tree.Mapping {
	filtered := make(tree.Mapping)

	for name, location := range locations {
		if f.Allows(name) {
			filtered[name] = location
		}
	}

	return filtered
}
