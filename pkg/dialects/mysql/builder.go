package mysql

import (
	"fmt"

	"github.com/leapstack-labs/leapmigrate/pkg/core"
	"github.com/leapstack-labs/leapmigrate/pkg/ddl"
	"github.com/leapstack-labs/leapmigrate/pkg/dialect"
	"github.com/leapstack-labs/leapmigrate/pkg/mutation"
)

// Engine defaults.
const (
	DefaultIndexPrefixLength = 191
	DefaultCharset           = "utf8mb4"
	DefaultCollation         = "utf8mb4_unicode_ci"
	DefaultAlgorithm         = "INPLACE"
)

// Scalar list table columns.
const (
	listNodeIDColumn   = "nodeId"
	listPositionColumn = "position"
	listValueColumn    = "value"
)

// foreignKeyLookupQuery returns the names of the foreign keys bound to a
// column. It binds the schema, table and column in that order.
func foreignKeyLookupQuery(d *dialect.Dialect) string {
	return fmt.Sprintf(`SELECT kcu.constraint_name
FROM information_schema.key_column_usage AS kcu
WHERE kcu.table_schema = %s
  AND kcu.table_name = %s
  AND kcu.column_name = %s
  AND kcu.referenced_column_name IS NOT NULL
ORDER BY kcu.constraint_name`, d.FormatPlaceholder(1), d.FormatPlaceholder(2), d.FormatPlaceholder(3))
}

// Builder renders mutation requests as MySQL DDL.
// It holds no mutable state and is safe for concurrent use.
type Builder struct {
	dialect *dialect.Dialect
	types   TypeMapper
	opts    mutation.Options
}

var _ mutation.Builder = (*Builder)(nil)

// NewBuilder creates a MySQL builder. Zero options take the engine defaults.
func NewBuilder(opts mutation.Options) *Builder {
	if opts.IndexPrefixLength <= 0 {
		opts.IndexPrefixLength = DefaultIndexPrefixLength
	}
	if opts.Charset == "" {
		opts.Charset = DefaultCharset
	}
	if opts.Collation == "" {
		opts.Collation = DefaultCollation
	}
	if opts.Algorithm == "" {
		opts.Algorithm = DefaultAlgorithm
	}
	return &Builder{dialect: MySQL, opts: opts}
}

// Dialect implements mutation.Builder.
func (b *Builder) Dialect() *dialect.Dialect { return b.dialect }

// Options implements mutation.Builder.
func (b *Builder) Options() mutation.Options { return b.opts }

// indexPrefix is the key prefix length for an index over a column of the
// given native type, or 0 when the whole value can be indexed.
func (b *Builder) indexPrefix(nativeType string) int {
	if unboundedText[nativeType] {
		return b.opts.IndexPrefixLength
	}
	return 0
}

func (b *Builder) keyPart(col ddl.ColumnDef) ddl.IndexPart {
	return ddl.IndexPart{Column: col.Name, Length: b.indexPrefix(col.Type)}
}

func (b *Builder) uniqueIndex(col ddl.ColumnDef) ddl.Index {
	return ddl.Index{
		Name:   col.Name + "_UNIQUE",
		Unique: true,
		Parts:  []ddl.IndexPart{b.keyPart(col)},
	}
}

func (b *Builder) tableOptions() ddl.TableOptions {
	return ddl.TableOptions{Charset: b.opts.Charset, Collation: b.opts.Collation}
}

func (b *Builder) columnDef(op, field, name string, required, list bool, t core.TypeIdentifier) (ddl.ColumnDef, error) {
	col, err := b.types.RawSQLFromParts(name, required, list, t)
	if err != nil {
		return ddl.ColumnDef{}, &mutation.InvalidRequestError{Op: op, Field: field, Err: err}
	}
	return col, nil
}

// render prints statements into a static action. Nothing is returned if
// any statement fails to print.
func (b *Builder) render(op string, stmts ...ddl.Statement) (core.Action, error) {
	sqls, err := ddl.PrintAll(b.dialect, stmts...)
	if err != nil {
		return core.Action{}, &mutation.InvalidRequestError{Op: op, Err: err}
	}
	return core.Statements(sqls...), nil
}

func tableName(t core.TableRef) ddl.TableName {
	return ddl.TableName{Schema: t.Namespace, Name: t.Name}
}

// CreateNamespace implements mutation.Builder.
func (b *Builder) CreateNamespace(req mutation.CreateNamespace) (core.Action, error) {
	if err := req.Validate(b.dialect); err != nil {
		return core.Action{}, err
	}
	return b.render(req.Op(), ddl.CreateSchema{
		Name:      req.Namespace,
		Charset:   b.opts.Charset,
		Collation: b.opts.Collation,
	})
}

// DropNamespace implements mutation.Builder.
func (b *Builder) DropNamespace(req mutation.DropNamespace) (core.Action, error) {
	if err := req.Validate(b.dialect); err != nil {
		return core.Action{}, err
	}
	return b.render(req.Op(), ddl.DropDatabase{Name: req.Namespace, IfExists: true})
}

// TruncateAll implements mutation.Builder. Tables are truncated with
// foreign key checks disabled: the relay table first, then model tables,
// relation tables and scalar list tables. Checks are re-enabled last.
func (b *Builder) TruncateAll(req mutation.TruncateAll) (core.Action, error) {
	if err := req.Validate(b.dialect); err != nil {
		return core.Action{}, err
	}

	var tables []string
	seen := make(map[string]bool)
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			tables = append(tables, name)
		}
	}

	add(core.RelayIDTable)
	for _, m := range req.Models {
		add(m.Name)
	}
	for _, rel := range req.Relations {
		add(rel)
	}
	for _, m := range req.Models {
		for _, f := range m.ListFields {
			add(core.ScalarListTableName(m.Name, f))
		}
	}

	stmts := make([]ddl.Statement, 0, len(tables)+2)
	stmts = append(stmts, ddl.SetForeignKeyChecks{Enabled: false})
	for _, t := range tables {
		stmts = append(stmts, ddl.TruncateTable{Table: ddl.TableName{Schema: req.Namespace, Name: t}})
	}
	stmts = append(stmts, ddl.SetForeignKeyChecks{Enabled: true})
	return b.render(req.Op(), stmts...)
}

// CreateModelTable implements mutation.Builder.
func (b *Builder) CreateModelTable(req mutation.CreateModelTable) (core.Action, error) {
	if err := req.Validate(b.dialect); err != nil {
		return core.Action{}, err
	}

	id, err := b.columnDef(req.Op(), "id.column", req.ID.Column.Name, true, false, req.ID.Column.Type)
	if err != nil {
		return core.Action{}, err
	}
	opts := b.tableOptions()
	if req.ID.DatabaseGenerated() {
		id.AutoIncrement = true
		opts.AutoIncrement = req.ID.InitialValue
	}

	return b.render(req.Op(), ddl.CreateTable{
		Table:      tableName(req.Table),
		Columns:    []ddl.ColumnDef{id},
		PrimaryKey: []string{id.Name},
		Options:    opts,
	})
}

// CreateScalarListTable implements mutation.Builder.
func (b *Builder) CreateScalarListTable(req mutation.CreateScalarListTable) (core.Action, error) {
	if err := req.Validate(b.dialect); err != nil {
		return core.Action{}, err
	}

	nodeID, err := b.columnDef(req.Op(), "owner_id", listNodeIDColumn, true, false, req.OwnerID.Type)
	if err != nil {
		return core.Action{}, err
	}
	value, err := b.columnDef(req.Op(), "type", listValueColumn, true, false, req.Type)
	if err != nil {
		return core.Action{}, err
	}
	position := ddl.ColumnDef{Name: listPositionColumn, Type: TypePosition, NotNull: true}

	return b.render(req.Op(), ddl.CreateTable{
		Table: ddl.TableName{
			Schema: req.Owner.Namespace,
			Name:   core.ScalarListTableName(req.Owner.Name, req.Field),
		},
		Columns:    []ddl.ColumnDef{nodeID, position, value},
		PrimaryKey: []string{nodeID.Name, position.Name},
		Indexes: []ddl.Index{{
			Name:  value.Name,
			Parts: []ddl.IndexPart{b.keyPart(value)},
		}},
		ForeignKeys: []ddl.ForeignKey{{
			Columns:    []string{nodeID.Name},
			RefTable:   tableName(req.Owner),
			RefColumns: []string{req.OwnerID.Name},
			OnDelete:   ddl.Cascade,
		}},
		Options: b.tableOptions(),
	})
}

// CreateRelationTable implements mutation.Builder. The table shape depends
// only on the relation's manifestation.
func (b *Builder) CreateRelationTable(req mutation.CreateRelationTable) (core.Action, error) {
	if err := req.Validate(b.dialect); err != nil {
		return core.Action{}, err
	}
	rel := req.Relation

	colA, err := b.columnDef(req.Op(), "relation.a.id", rel.ColumnA(), true, false, rel.A.ID.Type)
	if err != nil {
		return core.Action{}, err
	}
	colB, err := b.columnDef(req.Op(), "relation.b.id", rel.ColumnB(), true, false, rel.B.ID.Type)
	if err != nil {
		return core.Action{}, err
	}

	stmt := ddl.CreateTable{
		Table: ddl.TableName{Schema: rel.Namespace, Name: rel.Name},
		Indexes: []ddl.Index{
			{
				Name:   colA.Name + colB.Name + "_unique",
				Unique: true,
				Parts:  []ddl.IndexPart{b.keyPart(colA), b.keyPart(colB)},
			},
			{
				Name:  colB.Name,
				Parts: []ddl.IndexPart{b.keyPart(colB)},
			},
		},
		ForeignKeys: []ddl.ForeignKey{
			{
				Columns:    []string{colA.Name},
				RefTable:   ddl.TableName{Schema: rel.Namespace, Name: rel.A.Table},
				RefColumns: []string{rel.A.ID.Name},
				OnDelete:   ddl.Cascade,
			},
			{
				Columns:    []string{colB.Name},
				RefTable:   ddl.TableName{Schema: rel.Namespace, Name: rel.B.Table},
				RefColumns: []string{rel.B.ID.Name},
				OnDelete:   ddl.Cascade,
			},
		},
		Options: b.tableOptions(),
	}

	if surrogate, ok := rel.Manifestation.SurrogateID(); ok {
		stmt.Columns = append(stmt.Columns, ddl.ColumnDef{Name: surrogate, Type: TypeCuid, NotNull: true})
		stmt.PrimaryKey = []string{surrogate}
	}
	stmt.Columns = append(stmt.Columns, colA, colB)

	return b.render(req.Op(), stmt)
}

// AddRelationColumn implements mutation.Builder. The column is nullable and
// takes the type of the referenced id.
func (b *Builder) AddRelationColumn(req mutation.AddRelationColumn) (core.Action, error) {
	if err := req.Validate(b.dialect); err != nil {
		return core.Action{}, err
	}

	col, err := b.columnDef(req.Op(), "referenced_id", req.Column, false, req.TableID.List, req.ReferencedID.Type)
	if err != nil {
		return core.Action{}, err
	}

	return b.render(req.Op(), ddl.AlterTable{
		Table: tableName(req.Table),
		Actions: []ddl.AlterAction{
			ddl.AddColumn{Column: col},
			ddl.AddForeignKey{ForeignKey: ddl.ForeignKey{
				Columns:    []string{col.Name},
				RefTable:   ddl.TableName{Schema: req.Table.Namespace, Name: req.Referenced},
				RefColumns: []string{req.ReferencedID.Name},
				OnDelete:   ddl.Cascade,
			}},
		},
	})
}

// DropRelationColumn implements mutation.Builder. The action looks up the
// foreign keys bound to the column, drops each of them and then the column.
// If the lookup finds none the continuation fails with
// mutation.ErrConstraintNotFound and nothing is dropped.
func (b *Builder) DropRelationColumn(req mutation.DropRelationColumn) (core.Action, error) {
	if err := req.Validate(b.dialect); err != nil {
		return core.Action{}, err
	}

	table := tableName(req.Table)
	dropColumn, err := ddl.Print(b.dialect, ddl.AlterTable{
		Table:   table,
		Actions: []ddl.AlterAction{ddl.DropColumn{Name: req.Column}},
	})
	if err != nil {
		return core.Action{}, &mutation.InvalidRequestError{Op: req.Op(), Err: err}
	}

	then := func(names []string) ([]core.Statement, error) {
		names = dedupe(names)
		if len(names) == 0 {
			return nil, fmt.Errorf("%w: column %s of %s", mutation.ErrConstraintNotFound, req.Column, req.Table)
		}
		stmts := make([]ddl.Statement, 0, len(names))
		for _, name := range names {
			stmts = append(stmts, ddl.AlterTable{
				Table:   table,
				Actions: []ddl.AlterAction{ddl.DropForeignKey{Name: name}},
			})
		}
		sqls, err := ddl.PrintAll(b.dialect, stmts...)
		if err != nil {
			return nil, fmt.Errorf("drop foreign keys of %s: %w", req.Column, err)
		}
		out := make([]core.Statement, 0, len(sqls)+1)
		for _, s := range sqls {
			out = append(out, core.Statement{SQL: s})
		}
		return append(out, core.Statement{SQL: dropColumn}), nil
	}

	return core.Action{Steps: []core.Step{
		core.Lookup{
			Query: foreignKeyLookupQuery(b.dialect),
			Args:  []any{req.Table.Namespace, req.Table.Name, req.Column},
			Then:  then,
		},
	}}, nil
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := values[:0:0]
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// CreateColumn implements mutation.Builder.
func (b *Builder) CreateColumn(req mutation.CreateColumn) (core.Action, error) {
	if err := req.Validate(b.dialect); err != nil {
		return core.Action{}, err
	}

	c := req.Column
	col, err := b.columnDef(req.Op(), "column", c.Name, c.Required, c.List, c.Type)
	if err != nil {
		return core.Action{}, err
	}

	actions := []ddl.AlterAction{ddl.AddColumn{Column: col}}
	if c.Unique {
		actions = append(actions, ddl.AddIndex{Index: b.uniqueIndex(col)})
	}

	return b.render(req.Op(), ddl.AlterTable{
		Table:     tableName(req.Table),
		Actions:   actions,
		Algorithm: b.opts.Algorithm,
	})
}

// DeleteColumn implements mutation.Builder.
func (b *Builder) DeleteColumn(req mutation.DeleteColumn) (core.Action, error) {
	if err := req.Validate(b.dialect); err != nil {
		return core.Action{}, err
	}
	return b.render(req.Op(), ddl.AlterTable{
		Table:   tableName(req.Table),
		Actions: []ddl.AlterAction{ddl.DropColumn{Name: req.Column}},
	})
}

// UpdateColumn implements mutation.Builder.
func (b *Builder) UpdateColumn(req mutation.UpdateColumn) (core.Action, error) {
	if err := req.Validate(b.dialect); err != nil {
		return core.Action{}, err
	}

	c := req.Column
	col, err := b.columnDef(req.Op(), "column", c.Name, c.Required, c.List, c.Type)
	if err != nil {
		return core.Action{}, err
	}

	return b.render(req.Op(), ddl.AlterTable{
		Table:   tableName(req.Table),
		Actions: []ddl.AlterAction{ddl.ChangeColumn{OldName: req.OldName, Column: col}},
	})
}

// AddUniqueConstraint implements mutation.Builder.
func (b *Builder) AddUniqueConstraint(req mutation.AddUniqueConstraint) (core.Action, error) {
	if err := req.Validate(b.dialect); err != nil {
		return core.Action{}, err
	}

	col, err := b.columnDef(req.Op(), "type", req.Column, false, false, req.Type)
	if err != nil {
		return core.Action{}, err
	}

	return b.render(req.Op(), ddl.AlterTable{
		Table:   tableName(req.Table),
		Actions: []ddl.AlterAction{ddl.AddIndex{Index: b.uniqueIndex(col)}},
	})
}

// RemoveIndex implements mutation.Builder.
func (b *Builder) RemoveIndex(req mutation.RemoveIndex) (core.Action, error) {
	if err := req.Validate(b.dialect); err != nil {
		return core.Action{}, err
	}
	return b.render(req.Op(), ddl.AlterTable{
		Table:   tableName(req.Table),
		Actions: []ddl.AlterAction{ddl.DropIndex{Name: req.Index}},
	})
}

// RenameTable implements mutation.Builder.
func (b *Builder) RenameTable(req mutation.RenameTable) (core.Action, error) {
	if err := req.Validate(b.dialect); err != nil {
		return core.Action{}, err
	}
	if req.OldName == req.NewName {
		return core.Noop(), nil
	}
	return b.render(req.Op(), ddl.AlterTable{
		Table:   ddl.TableName{Schema: req.Namespace, Name: req.OldName},
		Actions: []ddl.AlterAction{ddl.RenameTo{Table: ddl.TableName{Schema: req.Namespace, Name: req.NewName}}},
	})
}

// RenameColumn implements mutation.Builder.
func (b *Builder) RenameColumn(req mutation.RenameColumn) (core.Action, error) {
	if err := req.Validate(b.dialect); err != nil {
		return core.Action{}, err
	}
	if req.OldName == req.NewName {
		return core.Noop(), nil
	}
	return b.render(req.Op(), ddl.AlterTable{
		Table:   tableName(req.Table),
		Actions: []ddl.AlterAction{ddl.RenameColumn{OldName: req.OldName, NewName: req.NewName}},
	})
}
