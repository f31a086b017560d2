package mutation

import (
	"strconv"

	"github.com/leapstack-labs/leapmigrate/pkg/core"
	"github.com/leapstack-labs/leapmigrate/pkg/dialect"
)

// Operation names.
const (
	OpCreateNamespace       = "create_namespace"
	OpDropNamespace         = "drop_namespace"
	OpTruncateAll           = "truncate_all"
	OpCreateModelTable      = "create_model_table"
	OpCreateScalarListTable = "create_scalar_list_table"
	OpCreateRelationTable   = "create_relation_table"
	OpAddRelationColumn     = "add_relation_column"
	OpDropRelationColumn    = "drop_relation_column"
	OpCreateColumn          = "create_column"
	OpDeleteColumn          = "delete_column"
	OpUpdateColumn          = "update_column"
	OpAddUniqueConstraint   = "add_unique_constraint"
	OpRemoveIndex           = "remove_index"
	OpRenameTable           = "rename_table"
	OpRenameColumn          = "rename_column"
)

// Ops returns every operation name in a stable order.
func Ops() []string {
	return []string{
		OpCreateNamespace, OpDropNamespace, OpTruncateAll,
		OpCreateModelTable, OpCreateScalarListTable, OpCreateRelationTable,
		OpAddRelationColumn, OpDropRelationColumn,
		OpCreateColumn, OpDeleteColumn, OpUpdateColumn,
		OpAddUniqueConstraint, OpRemoveIndex,
		OpRenameTable, OpRenameColumn,
	}
}

// CreateNamespace creates the schema holding a project's tables.
// It fails at execution time if the schema already exists.
type CreateNamespace struct {
	Namespace string
}

func (CreateNamespace) Op() string { return OpCreateNamespace }

func (r CreateNamespace) Validate(d *dialect.Dialect) error {
	v := newValidator(d, r.Op())
	v.ident("namespace", r.Namespace)
	return v.err
}

func (r CreateNamespace) Build(b Builder) (core.Action, error) { return b.CreateNamespace(r) }

// DropNamespace drops a schema if it exists.
type DropNamespace struct {
	Namespace string
}

func (DropNamespace) Op() string { return OpDropNamespace }

func (r DropNamespace) Validate(d *dialect.Dialect) error {
	v := newValidator(d, r.Op())
	v.ident("namespace", r.Namespace)
	return v.err
}

func (r DropNamespace) Build(b Builder) (core.Action, error) { return b.DropNamespace(r) }

// ModelTables is a model table and the names of its scalar list fields.
type ModelTables struct {
	Name       string
	ListFields []string
}

// TruncateAll empties every table of a namespace.
type TruncateAll struct {
	Namespace string
	Models    []ModelTables
	// Relations are relation table names.
	Relations []string
}

func (TruncateAll) Op() string { return OpTruncateAll }

func (r TruncateAll) Validate(d *dialect.Dialect) error {
	v := newValidator(d, r.Op())
	v.ident("namespace", r.Namespace)
	for i, m := range r.Models {
		field := "models[" + strconv.Itoa(i) + "]"
		v.ident(field+".name", m.Name)
		for j, f := range m.ListFields {
			v.ident(field+".list_fields["+strconv.Itoa(j)+"]", f)
		}
	}
	for i, rel := range r.Relations {
		v.ident("relations["+strconv.Itoa(i)+"]", rel)
	}
	return v.err
}

func (r TruncateAll) Build(b Builder) (core.Action, error) { return b.TruncateAll(r) }

// CreateModelTable creates the table of a model with its id column.
type CreateModelTable struct {
	Table core.TableRef
	ID    core.IDSpec
}

func (CreateModelTable) Op() string { return OpCreateModelTable }

func (r CreateModelTable) Validate(d *dialect.Dialect) error {
	v := newValidator(d, r.Op())
	v.table("table", r.Table)
	v.column("id.column", r.ID.Column)
	if r.ID.DatabaseGenerated() && r.ID.Column.Type != core.TypeInt {
		v.fail("id.generation", ErrDatabaseGeneratedNonInt)
	}
	return v.err
}

func (r CreateModelTable) Build(b Builder) (core.Action, error) { return b.CreateModelTable(r) }

// CreateScalarListTable creates the side table of a scalar list field.
type CreateScalarListTable struct {
	Owner   core.TableRef
	OwnerID core.ColumnSpec
	Field   string
	Type    core.TypeIdentifier
}

func (CreateScalarListTable) Op() string { return OpCreateScalarListTable }

func (r CreateScalarListTable) Validate(d *dialect.Dialect) error {
	v := newValidator(d, r.Op())
	v.table("owner", r.Owner)
	v.column("owner_id", r.OwnerID)
	v.ident("field", r.Field)
	v.scalar("type", r.Type)
	return v.err
}

func (r CreateScalarListTable) Build(b Builder) (core.Action, error) {
	return b.CreateScalarListTable(r)
}

// CreateRelationTable creates the join table of a many-to-many relation.
type CreateRelationTable struct {
	Relation core.RelationSpec
}

func (CreateRelationTable) Op() string { return OpCreateRelationTable }

func (r CreateRelationTable) Validate(d *dialect.Dialect) error {
	rel := r.Relation
	v := newValidator(d, r.Op())
	v.ident("relation.namespace", rel.Namespace)
	v.ident("relation.name", rel.Name)
	v.ident("relation.a.table", rel.A.Table)
	v.column("relation.a.id", rel.A.ID)
	v.ident("relation.a.column", rel.ColumnA())
	v.ident("relation.b.table", rel.B.Table)
	v.column("relation.b.id", rel.B.ID)
	v.ident("relation.b.column", rel.ColumnB())
	v.manifestation("relation.manifestation", rel.Manifestation, rel.ColumnA(), rel.ColumnB())
	return v.err
}

func (r CreateRelationTable) Build(b Builder) (core.Action, error) {
	return b.CreateRelationTable(r)
}

// AddRelationColumn adds an inline relation column referencing another
// model table.
type AddRelationColumn struct {
	Table        core.TableRef
	TableID      core.ColumnSpec
	Referenced   string
	ReferencedID core.ColumnSpec
	Column       string
}

func (AddRelationColumn) Op() string { return OpAddRelationColumn }

func (r AddRelationColumn) Validate(d *dialect.Dialect) error {
	v := newValidator(d, r.Op())
	v.table("table", r.Table)
	v.column("table_id", r.TableID)
	v.ident("referenced", r.Referenced)
	v.column("referenced_id", r.ReferencedID)
	v.ident("column", r.Column)
	return v.err
}

func (r AddRelationColumn) Build(b Builder) (core.Action, error) { return b.AddRelationColumn(r) }

// DropRelationColumn drops an inline relation column together with the
// foreign keys bound to it.
type DropRelationColumn struct {
	Table  core.TableRef
	Column string
}

func (DropRelationColumn) Op() string { return OpDropRelationColumn }

func (r DropRelationColumn) Validate(d *dialect.Dialect) error {
	v := newValidator(d, r.Op())
	v.table("table", r.Table)
	v.ident("column", r.Column)
	return v.err
}

func (r DropRelationColumn) Build(b Builder) (core.Action, error) { return b.DropRelationColumn(r) }

// CreateColumn adds a column to a model table.
type CreateColumn struct {
	Table  core.TableRef
	Column core.ColumnSpec
}

func (CreateColumn) Op() string { return OpCreateColumn }

func (r CreateColumn) Validate(d *dialect.Dialect) error {
	v := newValidator(d, r.Op())
	v.table("table", r.Table)
	v.simpleColumn("column", r.Column)
	return v.err
}

func (r CreateColumn) Build(b Builder) (core.Action, error) { return b.CreateColumn(r) }

// DeleteColumn drops a column.
type DeleteColumn struct {
	Table  core.TableRef
	Column string
}

func (DeleteColumn) Op() string { return OpDeleteColumn }

func (r DeleteColumn) Validate(d *dialect.Dialect) error {
	v := newValidator(d, r.Op())
	v.table("table", r.Table)
	v.ident("column", r.Column)
	return v.err
}

func (r DeleteColumn) Build(b Builder) (core.Action, error) { return b.DeleteColumn(r) }

// UpdateColumn renames, retypes and changes the nullability of a column in
// one statement. Column.Unique is not applied; unique indexes are managed
// with AddUniqueConstraint and RemoveIndex.
type UpdateColumn struct {
	Table   core.TableRef
	OldName string
	Column  core.ColumnSpec
}

func (UpdateColumn) Op() string { return OpUpdateColumn }

func (r UpdateColumn) Validate(d *dialect.Dialect) error {
	v := newValidator(d, r.Op())
	v.table("table", r.Table)
	v.ident("old_name", r.OldName)
	v.simpleColumn("column", r.Column)
	return v.err
}

func (r UpdateColumn) Build(b Builder) (core.Action, error) { return b.UpdateColumn(r) }

// AddUniqueConstraint adds a unique index over one column.
type AddUniqueConstraint struct {
	Table  core.TableRef
	Column string
	Type   core.TypeIdentifier
}

func (AddUniqueConstraint) Op() string { return OpAddUniqueConstraint }

func (r AddUniqueConstraint) Validate(d *dialect.Dialect) error {
	v := newValidator(d, r.Op())
	v.table("table", r.Table)
	v.ident("column", r.Column)
	v.scalar("type", r.Type)
	return v.err
}

func (r AddUniqueConstraint) Build(b Builder) (core.Action, error) {
	return b.AddUniqueConstraint(r)
}

// RemoveIndex drops an index.
type RemoveIndex struct {
	Table core.TableRef
	Index string
}

func (RemoveIndex) Op() string { return OpRemoveIndex }

func (r RemoveIndex) Validate(d *dialect.Dialect) error {
	v := newValidator(d, r.Op())
	v.table("table", r.Table)
	v.ident("index", r.Index)
	return v.err
}

func (r RemoveIndex) Build(b Builder) (core.Action, error) { return b.RemoveIndex(r) }

// RenameTable renames a table inside its namespace. Equal names are a no-op.
type RenameTable struct {
	Namespace string
	OldName   string
	NewName   string
}

func (RenameTable) Op() string { return OpRenameTable }

func (r RenameTable) Validate(d *dialect.Dialect) error {
	v := newValidator(d, r.Op())
	v.ident("namespace", r.Namespace)
	v.ident("old_name", r.OldName)
	v.ident("new_name", r.NewName)
	return v.err
}

func (r RenameTable) Build(b Builder) (core.Action, error) { return b.RenameTable(r) }

// RenameColumn renames a column. Equal names are a no-op.
type RenameColumn struct {
	Table   core.TableRef
	OldName string
	NewName string
}

func (RenameColumn) Op() string { return OpRenameColumn }

func (r RenameColumn) Validate(d *dialect.Dialect) error {
	v := newValidator(d, r.Op())
	v.table("table", r.Table)
	v.ident("old_name", r.OldName)
	v.ident("new_name", r.NewName)
	return v.err
}

func (r RenameColumn) Build(b Builder) (core.Action, error) { return b.RenameColumn(r) }
