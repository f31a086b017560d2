package dialect

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

// ErrDialectRequired is returned when a dialect is required but not provided.
var ErrDialectRequired = errors.New("dialect is required")

var registry = struct {
	sync.RWMutex
	byName map[string]*Dialect
}{byName: make(map[string]*Dialect)}

// Register makes a dialect available by its lowercased name.
// Called by dialect implementations in their init() functions. It panics
// if d has no name or the name is taken by another dialect.
func Register(d *Dialect) {
	if d == nil || d.Name == "" {
		panic("dialect: Register of unnamed dialect")
	}
	key := strings.ToLower(d.Name)

	registry.Lock()
	defer registry.Unlock()
	if prev, ok := registry.byName[key]; ok && prev != d {
		panic(fmt.Sprintf("dialect: Register called twice for %q", key))
	}
	registry.byName[key] = d
}

// Get returns a dialect by name, ignoring case.
func Get(name string) (*Dialect, bool) {
	registry.RLock()
	defer registry.RUnlock()
	d, ok := registry.byName[strings.ToLower(name)]
	return d, ok
}

// List returns all registered dialect names (sorted).
func List() []string {
	registry.RLock()
	defer registry.RUnlock()
	return slices.Sorted(maps.Keys(registry.byName))
}
