package analysis

import (
	"sort"
	"strings"
)

// Registry maps analyzer names (and their aliases) to analyzers.
type Registry struct {
	analyzers map[string]Analyzer
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{analyzers: make(map[string]Analyzer)}
}

// Register adds an analyzer under one or more names. Names are case-insensitive.
func (r *Registry) Register(a Analyzer, names ...string) {
	for _, name := range names {
		r.analyzers[strings.ToLower(name)] = a
	}
}

// Get returns the analyzer registered under name, or nil.
func (r *Registry) Get(name string) Analyzer {
	return r.analyzers[strings.ToLower(name)]
}

// Names returns every registered name, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.analyzers))
	for name := range r.analyzers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
