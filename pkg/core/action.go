package core

import "strings"

// Step is one unit of an Action. It is either a Statement or a Lookup.
type Step interface {
	step()
}

// Statement is a DDL statement executed for its side effect.
type Statement struct {
	SQL string
}

func (Statement) step() {}

// Lookup is a read step. Query is executed with Args, every row's first
// column is collected as a string, and Then turns those values into the
// statements that follow. If Then returns an error nothing after the lookup
// may run.
type Lookup struct {
	Query string
	Args  []any
	Then  func(values []string) ([]Statement, error)
}

func (Lookup) step() {}

// Action is the ordered result of one mutation operation.
// The zero Action is the identity no-op.
type Action struct {
	Steps []Step
}

// Statements creates an Action from plain SQL statements.
func Statements(sqls ...string) Action {
	steps := make([]Step, 0, len(sqls))
	for _, s := range sqls {
		steps = append(steps, Statement{SQL: s})
	}
	return Action{Steps: steps}
}

// Noop returns the identity action.
func Noop() Action {
	return Action{}
}

// IsNoop returns true if the action has no steps.
func (a Action) IsNoop() bool {
	return len(a.Steps) == 0
}

// SQL returns the statements of a static action. ok is false when the
// action contains a Lookup, whose follow-up statements are only known at
// execution time.
func (a Action) SQL() (sqls []string, ok bool) {
	for _, s := range a.Steps {
		st, isStmt := s.(Statement)
		if !isStmt {
			return nil, false
		}
		sqls = append(sqls, st.SQL)
	}
	return sqls, true
}

// String renders the action for display. Lookups are shown as comments.
func (a Action) String() string {
	var b strings.Builder
	for i, s := range a.Steps {
		if i > 0 {
			b.WriteByte('\n')
		}
		switch st := s.(type) {
		case Statement:
			b.WriteString(st.SQL)
			b.WriteByte(';')
		case Lookup:
			b.WriteString("-- lookup: ")
			b.WriteString(strings.Join(strings.Fields(st.Query), " "))
		}
	}
	return b.String()
}
