// Package core defines the shared language of the LeapMigrate system.
//
// This package contains:
//   - Schema value types handed in by a migration planner (TableRef, ColumnSpec,
//     IDSpec, RelationSpec, Manifestation)
//   - The Action/Step model returned by mutation builders
//   - Dialect and adapter configuration data
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
