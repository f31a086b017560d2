package mutation

import (
	"sort"
	"strings"
	"sync"
)

// Factory creates a Builder with the given options.
type Factory func(opts Options) Builder

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register adds a builder factory to the registry.
// Called by dialect implementations in their init() functions.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[strings.ToLower(name)] = factory
}

// NewBuilder creates the builder registered for a dialect.
func NewBuilder(name string, opts Options) (Builder, error) {
	registryMu.RLock()
	factory, ok := registry[strings.ToLower(name)]
	registryMu.RUnlock()
	if !ok {
		return nil, &UnknownDialectError{Name: name, Available: List()}
	}
	return factory(opts), nil
}

// List returns all dialects with a registered builder (sorted).
func List() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
