package request

import (
	"fmt"

	"github.com/leapstack-labs/leapmigrate/pkg/core"
	"github.com/leapstack-labs/leapmigrate/pkg/mutation"
)

// doc is the YAML shape of one operation entry.
type doc interface {
	operation(namespace string) (mutation.Operation, error)
}

// entry holds the keys every operation entry may carry.
type entry struct {
	Op        string `yaml:"op"`
	Namespace string `yaml:"namespace,omitempty"`
}

func (e entry) ns(def string) string {
	if e.Namespace != "" {
		return e.Namespace
	}
	return def
}

func (e entry) table(def, name string) core.TableRef {
	return core.TableRef{Namespace: e.ns(def), Name: name}
}

type columnDoc struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Required bool   `yaml:"required,omitempty"`
	List     bool   `yaml:"list,omitempty"`
	Unique   bool   `yaml:"unique,omitempty"`
}

func (c columnDoc) spec() core.ColumnSpec {
	return core.ColumnSpec{
		Name:     c.Name,
		Type:     core.TypeIdentifier(c.Type),
		Required: c.Required,
		List:     c.List,
		Unique:   c.Unique,
	}
}

type idDoc struct {
	columnDoc    `yaml:",inline"`
	Generation   string `yaml:"generation,omitempty"`
	InitialValue *int64 `yaml:"initial_value,omitempty"`
}

func (d idDoc) spec() (core.IDSpec, error) {
	gen, err := core.ParseGeneration(d.Generation)
	if err != nil {
		return core.IDSpec{}, err
	}
	return core.IDSpec{Column: d.columnDoc.spec(), Generation: gen, InitialValue: d.InitialValue}, nil
}

type manifestationDoc struct {
	Kind     string `yaml:"kind"`
	IDColumn string `yaml:"id_column,omitempty"`
}

// manifestation returns nil for a missing kind; the builder rejects it.
func (d *manifestationDoc) manifestation() (core.Manifestation, error) {
	if d == nil || d.Kind == "" {
		return nil, nil
	}
	if d.IDColumn != "" && d.Kind != core.KindLegacyTable {
		return nil, ErrIDColumnNotAllowed
	}
	switch d.Kind {
	case core.KindLegacyDefault:
		return core.LegacyDefault{}, nil
	case core.KindLegacyTable:
		return core.LegacyTable{IDColumn: d.IDColumn}, nil
	case core.KindModern:
		return core.Modern{}, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownKind, d.Kind)
	}
}

type relationEndDoc struct {
	Table  string    `yaml:"table"`
	ID     columnDoc `yaml:"id"`
	Column string    `yaml:"column,omitempty"`
}

func (d relationEndDoc) end() core.RelationEnd {
	return core.RelationEnd{Table: d.Table, ID: d.ID.spec(), Column: d.Column}
}

type namespaceDoc struct {
	entry `yaml:",inline"`
}

type createNamespaceDoc namespaceDoc

func (d *createNamespaceDoc) operation(ns string) (mutation.Operation, error) {
	return mutation.CreateNamespace{Namespace: d.ns(ns)}, nil
}

type dropNamespaceDoc namespaceDoc

func (d *dropNamespaceDoc) operation(ns string) (mutation.Operation, error) {
	return mutation.DropNamespace{Namespace: d.ns(ns)}, nil
}

type truncateAllDoc struct {
	entry  `yaml:",inline"`
	Models []struct {
		Name       string   `yaml:"name"`
		ListFields []string `yaml:"list_fields,omitempty"`
	} `yaml:"models"`
	Relations []string `yaml:"relations,omitempty"`
}

func (d *truncateAllDoc) operation(ns string) (mutation.Operation, error) {
	op := mutation.TruncateAll{Namespace: d.ns(ns), Relations: d.Relations}
	for _, m := range d.Models {
		op.Models = append(op.Models, mutation.ModelTables{Name: m.Name, ListFields: m.ListFields})
	}
	return op, nil
}

type createModelTableDoc struct {
	entry `yaml:",inline"`
	Table string `yaml:"table"`
	ID    idDoc  `yaml:"id"`
}

func (d *createModelTableDoc) operation(ns string) (mutation.Operation, error) {
	id, err := d.ID.spec()
	if err != nil {
		return nil, err
	}
	return mutation.CreateModelTable{Table: d.table(ns, d.Table), ID: id}, nil
}

type createScalarListTableDoc struct {
	entry   `yaml:",inline"`
	Owner   string    `yaml:"owner"`
	OwnerID columnDoc `yaml:"owner_id"`
	Field   string    `yaml:"field"`
	Type    string    `yaml:"type"`
}

func (d *createScalarListTableDoc) operation(ns string) (mutation.Operation, error) {
	return mutation.CreateScalarListTable{
		Owner:   d.table(ns, d.Owner),
		OwnerID: d.OwnerID.spec(),
		Field:   d.Field,
		Type:    core.TypeIdentifier(d.Type),
	}, nil
}

type createRelationTableDoc struct {
	entry         `yaml:",inline"`
	Name          string            `yaml:"name"`
	A             relationEndDoc    `yaml:"a"`
	B             relationEndDoc    `yaml:"b"`
	Manifestation *manifestationDoc `yaml:"manifestation"`
}

func (d *createRelationTableDoc) operation(ns string) (mutation.Operation, error) {
	m, err := d.Manifestation.manifestation()
	if err != nil {
		return nil, err
	}
	return mutation.CreateRelationTable{Relation: core.RelationSpec{
		Namespace:     d.ns(ns),
		Name:          d.Name,
		A:             d.A.end(),
		B:             d.B.end(),
		Manifestation: m,
	}}, nil
}

type addRelationColumnDoc struct {
	entry        `yaml:",inline"`
	Table        string    `yaml:"table"`
	TableID      columnDoc `yaml:"table_id"`
	Referenced   string    `yaml:"referenced"`
	ReferencedID columnDoc `yaml:"referenced_id"`
	Column       string    `yaml:"column"`
}

func (d *addRelationColumnDoc) operation(ns string) (mutation.Operation, error) {
	return mutation.AddRelationColumn{
		Table:        d.table(ns, d.Table),
		TableID:      d.TableID.spec(),
		Referenced:   d.Referenced,
		ReferencedID: d.ReferencedID.spec(),
		Column:       d.Column,
	}, nil
}

type tableColumnNameDoc struct {
	entry  `yaml:",inline"`
	Table  string `yaml:"table"`
	Column string `yaml:"column"`
}

type dropRelationColumnDoc tableColumnNameDoc

func (d *dropRelationColumnDoc) operation(ns string) (mutation.Operation, error) {
	return mutation.DropRelationColumn{Table: d.table(ns, d.Table), Column: d.Column}, nil
}

type deleteColumnDoc tableColumnNameDoc

func (d *deleteColumnDoc) operation(ns string) (mutation.Operation, error) {
	return mutation.DeleteColumn{Table: d.table(ns, d.Table), Column: d.Column}, nil
}

type createColumnDoc struct {
	entry  `yaml:",inline"`
	Table  string    `yaml:"table"`
	Column columnDoc `yaml:"column"`
}

func (d *createColumnDoc) operation(ns string) (mutation.Operation, error) {
	return mutation.CreateColumn{Table: d.table(ns, d.Table), Column: d.Column.spec()}, nil
}

type updateColumnDoc struct {
	entry   `yaml:",inline"`
	Table   string    `yaml:"table"`
	OldName string    `yaml:"old_name"`
	Column  columnDoc `yaml:"column"`
}

func (d *updateColumnDoc) operation(ns string) (mutation.Operation, error) {
	return mutation.UpdateColumn{Table: d.table(ns, d.Table), OldName: d.OldName, Column: d.Column.spec()}, nil
}

type addUniqueConstraintDoc struct {
	entry  `yaml:",inline"`
	Table  string `yaml:"table"`
	Column string `yaml:"column"`
	Type   string `yaml:"type"`
}

func (d *addUniqueConstraintDoc) operation(ns string) (mutation.Operation, error) {
	return mutation.AddUniqueConstraint{
		Table:  d.table(ns, d.Table),
		Column: d.Column,
		Type:   core.TypeIdentifier(d.Type),
	}, nil
}

type removeIndexDoc struct {
	entry `yaml:",inline"`
	Table string `yaml:"table"`
	Index string `yaml:"index"`
}

func (d *removeIndexDoc) operation(ns string) (mutation.Operation, error) {
	return mutation.RemoveIndex{Table: d.table(ns, d.Table), Index: d.Index}, nil
}

type renameTableDoc struct {
	entry   `yaml:",inline"`
	OldName string `yaml:"old_name"`
	NewName string `yaml:"new_name"`
}

func (d *renameTableDoc) operation(ns string) (mutation.Operation, error) {
	return mutation.RenameTable{Namespace: d.ns(ns), OldName: d.OldName, NewName: d.NewName}, nil
}

type renameColumnDoc struct {
	entry   `yaml:",inline"`
	Table   string `yaml:"table"`
	OldName string `yaml:"old_name"`
	NewName string `yaml:"new_name"`
}

func (d *renameColumnDoc) operation(ns string) (mutation.Operation, error) {
	return mutation.RenameColumn{Table: d.table(ns, d.Table), OldName: d.OldName, NewName: d.NewName}, nil
}

// docs maps op names to their entry shapes.
var docs = map[string]func() doc{
	mutation.OpCreateNamespace:       func() doc { return &createNamespaceDoc{} },
	mutation.OpDropNamespace:         func() doc { return &dropNamespaceDoc{} },
	mutation.OpTruncateAll:           func() doc { return &truncateAllDoc{} },
	mutation.OpCreateModelTable:      func() doc { return &createModelTableDoc{} },
	mutation.OpCreateScalarListTable: func() doc { return &createScalarListTableDoc{} },
	mutation.OpCreateRelationTable:   func() doc { return &createRelationTableDoc{} },
	mutation.OpAddRelationColumn:     func() doc { return &addRelationColumnDoc{} },
	mutation.OpDropRelationColumn:    func() doc { return &dropRelationColumnDoc{} },
	mutation.OpCreateColumn:          func() doc { return &createColumnDoc{} },
	mutation.OpDeleteColumn:          func() doc { return &deleteColumnDoc{} },
	mutation.OpUpdateColumn:          func() doc { return &updateColumnDoc{} },
	mutation.OpAddUniqueConstraint:   func() doc { return &addUniqueConstraintDoc{} },
	mutation.OpRemoveIndex:           func() doc { return &removeIndexDoc{} },
	mutation.OpRenameTable:           func() doc { return &renameTableDoc{} },
	mutation.OpRenameColumn:          func() doc { return &renameColumnDoc{} },
}
