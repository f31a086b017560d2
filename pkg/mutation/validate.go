package mutation

import (
	"fmt"

	"github.com/leapstack-labs/leapmigrate/pkg/core"
	"github.com/leapstack-labs/leapmigrate/pkg/dialect"
)

// validator collects the first contract violation of a request.
type validator struct {
	d   *dialect.Dialect
	op  string
	err error
}

func newValidator(d *dialect.Dialect, op string) *validator {
	v := &validator{d: d, op: op}
	if d == nil {
		v.err = &InvalidRequestError{Op: op, Err: dialect.ErrDialectRequired}
	}
	return v
}

func (v *validator) fail(field string, err error) {
	if v.err == nil {
		v.err = &InvalidRequestError{Op: v.op, Field: field, Err: err}
	}
}

func (v *validator) ident(field, name string) {
	if v.err != nil {
		return
	}
	if err := v.d.ValidateIdentifier(name); err != nil {
		v.fail(field, err)
	}
}

func (v *validator) table(field string, t core.TableRef) {
	v.ident(field+".namespace", t.Namespace)
	v.ident(field+".name", t.Name)
}

func (v *validator) scalar(field string, t core.TypeIdentifier) {
	if v.err != nil {
		return
	}
	if !t.IsScalar() {
		v.fail(field, fmt.Errorf("%w %q", ErrUnsupportedType, string(t)))
	}
}

func (v *validator) column(field string, c core.ColumnSpec) {
	v.ident(field+".name", c.Name)
	v.scalar(field+".type", c.Type)
}

// simpleColumn checks a column added or changed in place on a model table.
func (v *validator) simpleColumn(field string, c core.ColumnSpec) {
	v.column(field, c)
	if c.List && c.Unique {
		v.fail(field, ErrListUnique)
	}
}

// manifestation checks the relation table layout. taken holds the names of
// the two relation columns, which the surrogate id must not reuse.
func (v *validator) manifestation(field string, m core.Manifestation, taken ...string) {
	if v.err != nil {
		return
	}
	if m == nil {
		v.fail(field, ErrManifestationRequired)
		return
	}
	id, ok := m.SurrogateID()
	if !ok {
		return
	}
	v.ident(field+".id_column", id)
	for _, name := range taken {
		if v.err == nil && v.d.NormalizeName(id) == v.d.NormalizeName(name) {
			v.fail(field+".id_column", fmt.Errorf("%w %q", ErrSurrogateIDCollision, id))
		}
	}
}
