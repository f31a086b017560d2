// Package adapter provides the database adapter contract used to execute
// mutation actions against a live backend.
//
// This package contains the public contract that all database adapters must implement.
// Concrete adapter implementations are in pkg/adapters/ subdirectories.
package adapter

import (
	"context"

	"github.com/leapstack-labs/leapmigrate/pkg/core"
	"github.com/leapstack-labs/leapmigrate/pkg/mutation"
)

// Config is an alias for core.AdapterConfig.
type Config = core.AdapterConfig

// Adapter defines the interface that all database adapters must implement.
// Every adapter is a mutation.Executor over its connection pool.
type Adapter interface {
	mutation.Executor

	// Connect establishes a connection to the database using the provided config.
	Connect(ctx context.Context, cfg Config) error

	// Close closes the database connection and releases resources.
	Close() error

	// Run executes every step of an action in order on a single
	// connection, so session settings made by one statement apply to the
	// rest of the action.
	Run(ctx context.Context, action core.Action) error

	// DialectName returns the name of the dialect whose builder produces
	// statements for this adapter.
	DialectName() string
}
