package mutation

import (
	"errors"
	"fmt"
)

// Sentinel errors for input contract violations. They are always wrapped
// in an *InvalidRequestError.
var (
	ErrListUnique              = errors.New("list columns cannot be unique")
	ErrManifestationRequired   = errors.New("relation manifestation is required")
	ErrDatabaseGeneratedNonInt = errors.New("database generated ids must be of type Int")
	ErrUnsupportedType         = errors.New("unsupported column type")
	ErrSurrogateIDCollision    = errors.New("surrogate id column collides with a relation column")
)

// ErrConstraintNotFound is returned by the lookup of DropRelationColumn
// when the engine catalog has no foreign key on the column. No statement
// of the action runs after it.
var ErrConstraintNotFound = errors.New("foreign key constraint not found")

// InvalidRequestError reports an operation request that cannot be rendered.
// It is returned before any SQL text is produced.
type InvalidRequestError struct {
	Op    string
	Field string
	Err   error
}

func (e *InvalidRequestError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: invalid %s: %v", e.Op, e.Field, e.Err)
}

func (e *InvalidRequestError) Unwrap() error {
	return e.Err
}

// UnknownDialectError is returned when no builder is registered for a dialect.
type UnknownDialectError struct {
	Name      string
	Available []string
}

func (e *UnknownDialectError) Error() string {
	return fmt.Sprintf("unknown dialect %q\nAvailable dialects: %v\nHint: Check dialect in leapmigrate.yaml", e.Name, e.Available)
}
