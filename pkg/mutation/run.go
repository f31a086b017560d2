package mutation

import (
	"context"
	"fmt"

	"github.com/leapstack-labs/leapmigrate/pkg/core"
)

// Executor runs statements against one connection. Implementations must
// keep session state between calls.
type Executor interface {
	Exec(ctx context.Context, sql string) error
	// QueryStrings returns the first column of every row.
	QueryStrings(ctx context.Context, query string, args ...any) ([]string, error)
}

// Run executes the steps of an action in order and stops at the first error.
// The statements produced by a lookup run right after it; if its
// continuation fails nothing else runs.
func Run(ctx context.Context, exec Executor, action core.Action) error {
	for i, step := range action.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch s := step.(type) {
		case core.Statement:
			if err := exec.Exec(ctx, s.SQL); err != nil {
				return fmt.Errorf("step %d: %w", i+1, err)
			}
		case core.Lookup:
			if err := runLookup(ctx, exec, s); err != nil {
				return fmt.Errorf("step %d: %w", i+1, err)
			}
		default:
			return fmt.Errorf("step %d: unsupported step %T", i+1, step)
		}
	}
	return nil
}

func runLookup(ctx context.Context, exec Executor, l core.Lookup) error {
	values, err := exec.QueryStrings(ctx, l.Query, l.Args...)
	if err != nil {
		return fmt.Errorf("lookup: %w", err)
	}
	if l.Then == nil {
		return nil
	}
	stmts, err := l.Then(values)
	if err != nil {
		return err
	}
	for _, st := range stmts {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := exec.Exec(ctx, st.SQL); err != nil {
			return err
		}
	}
	return nil
}
