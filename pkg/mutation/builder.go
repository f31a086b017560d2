// Package mutation defines the schema mutation operations and the contract
// every engine-specific DDL builder implements.
//
// A Builder renders one operation request into a core.Action. Builders
// perform no I/O and keep no mutable state; an Action is executed later by
// Run against an Executor.
package mutation

import (
	"github.com/leapstack-labs/leapmigrate/pkg/core"
	"github.com/leapstack-labs/leapmigrate/pkg/dialect"
)

// Options are the engine policy knobs of a Builder. Zero fields take the
// engine's defaults.
type Options struct {
	// IndexPrefixLength is the key prefix used when indexing unbounded text.
	IndexPrefixLength int
	// Charset and Collation are the defaults for new schemas and tables.
	Charset   string
	Collation string
	// Algorithm is the online-DDL hint appended to column additions.
	Algorithm string
}

// Builder renders mutation requests into actions for one engine.
// Every method validates its request and fails before producing any text.
type Builder interface {
	Dialect() *dialect.Dialect
	Options() Options

	CreateNamespace(req CreateNamespace) (core.Action, error)
	DropNamespace(req DropNamespace) (core.Action, error)
	TruncateAll(req TruncateAll) (core.Action, error)

	CreateModelTable(req CreateModelTable) (core.Action, error)
	CreateScalarListTable(req CreateScalarListTable) (core.Action, error)
	CreateRelationTable(req CreateRelationTable) (core.Action, error)

	AddRelationColumn(req AddRelationColumn) (core.Action, error)
	DropRelationColumn(req DropRelationColumn) (core.Action, error)

	CreateColumn(req CreateColumn) (core.Action, error)
	DeleteColumn(req DeleteColumn) (core.Action, error)
	UpdateColumn(req UpdateColumn) (core.Action, error)

	AddUniqueConstraint(req AddUniqueConstraint) (core.Action, error)
	RemoveIndex(req RemoveIndex) (core.Action, error)

	RenameTable(req RenameTable) (core.Action, error)
	RenameColumn(req RenameColumn) (core.Action, error)
}

// Operation is a single mutation request as produced by a planner.
type Operation interface {
	// Op returns the operation name, e.g. "create_column".
	Op() string
	// Validate checks the request against the identifier rules of d.
	Validate(d *dialect.Dialect) error
	// Build renders the request with b.
	Build(b Builder) (core.Action, error)
}
