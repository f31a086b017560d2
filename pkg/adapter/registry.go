package adapter

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"
)

// Factory creates an unconnected adapter that logs to logger.
type Factory func(logger *slog.Logger) Adapter

var registry = struct {
	sync.RWMutex
	factories map[string]Factory
}{factories: make(map[string]Factory)}

// ErrTypeRequired is returned when an adapter config has no type.
var ErrTypeRequired = errors.New("adapter type not specified")

// Register adds an adapter factory under a case-insensitive name.
// Called by adapter implementations in their init() functions. A later
// registration replaces an earlier one.
func Register(name string, factory Factory) {
	if factory == nil {
		panic("adapter: Register factory is nil")
	}
	registry.Lock()
	defer registry.Unlock()
	registry.factories[strings.ToLower(name)] = factory
}

// Get retrieves an adapter factory by name.
func Get(name string) (Factory, bool) {
	registry.RLock()
	defer registry.RUnlock()
	f, ok := registry.factories[strings.ToLower(name)]
	return f, ok
}

// NewAdapter creates an unconnected adapter for cfg.Type.
// A nil logger discards log output.
func NewAdapter(cfg Config, logger *slog.Logger) (Adapter, error) {
	if cfg.Type == "" {
		return nil, ErrTypeRequired
	}
	factory, ok := Get(cfg.Type)
	if !ok {
		return nil, &UnknownAdapterError{Type: cfg.Type, Available: ListAdapters()}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return factory(logger.With(slog.String("adapter", strings.ToLower(cfg.Type)))), nil
}

// ListAdapters returns all registered adapter names (sorted).
func ListAdapters() []string {
	registry.RLock()
	defer registry.RUnlock()
	return slices.Sorted(maps.Keys(registry.factories))
}

// IsRegistered checks if an adapter type is registered.
func IsRegistered(name string) bool {
	_, ok := Get(name)
	return ok
}

// UnknownAdapterError is returned when an unknown adapter type is requested.
type UnknownAdapterError struct {
	Type      string
	Available []string
}

func (e *UnknownAdapterError) Error() string {
	return fmt.Sprintf("unknown adapter type %q\nAvailable adapters: %v\nHint: Check target.type in leapmigrate.yaml or set LEAPMIGRATE_TARGET_TYPE", e.Type, e.Available)
}
