// Package ddl provides a small statement tree for schema-changing SQL and a
// printer that renders it for a dialect.
//
// Builders compose statements from these nodes and never splice identifiers
// into SQL text themselves: quoting and identifier validation happen only in
// the Printer.
package ddl

// Statement is a top-level DDL statement.
type Statement interface {
	statementNode()
}

// TableName is an optionally schema-qualified table name.
type TableName struct {
	Schema string
	Name   string
}

// ColumnDef is a column definition. Type is native type text produced by a
// dialect type mapper and is printed verbatim.
type ColumnDef struct {
	Name          string
	Type          string
	NotNull       bool
	AutoIncrement bool
}

// IndexPart is one key part of an index. A positive Length indexes only a
// prefix of the column.
type IndexPart struct {
	Column string
	Length int
}

// Index is an index definition, inline in CREATE TABLE or added by ALTER TABLE.
type Index struct {
	Name   string
	Unique bool
	Parts  []IndexPart
}

// ReferentialAction is the ON DELETE behaviour of a foreign key.
type ReferentialAction string

// Referential actions.
const (
	NoAction ReferentialAction = ""
	Cascade  ReferentialAction = "CASCADE"
	SetNull  ReferentialAction = "SET NULL"
)

// ForeignKey is a foreign key constraint. The engine names it.
type ForeignKey struct {
	Columns    []string
	RefTable   TableName
	RefColumns []string
	OnDelete   ReferentialAction
}

// TableOptions are the options printed after a CREATE TABLE body.
type TableOptions struct {
	AutoIncrement *int64
	Charset       string
	Collation     string
}

// CreateSchema is CREATE SCHEMA.
type CreateSchema struct {
	Name      string
	Charset   string
	Collation string
}

// DropDatabase is DROP DATABASE.
type DropDatabase struct {
	Name     string
	IfExists bool
}

// SetForeignKeyChecks toggles referential checks for the session.
type SetForeignKeyChecks struct {
	Enabled bool
}

// TruncateTable is TRUNCATE TABLE.
type TruncateTable struct {
	Table TableName
}

// CreateTable is CREATE TABLE.
type CreateTable struct {
	Table       TableName
	Columns     []ColumnDef
	PrimaryKey  []string
	Indexes     []Index
	ForeignKeys []ForeignKey
	Options     TableOptions
}

// AlterTable is ALTER TABLE with one or more comma separated actions.
// Algorithm, when set, is appended as an online-DDL hint.
type AlterTable struct {
	Table     TableName
	Actions   []AlterAction
	Algorithm string
}

func (CreateSchema) statementNode()        {}
func (DropDatabase) statementNode()        {}
func (SetForeignKeyChecks) statementNode() {}
func (TruncateTable) statementNode()       {}
func (CreateTable) statementNode()         {}
func (AlterTable) statementNode()          {}

// AlterAction is one clause of an ALTER TABLE statement.
type AlterAction interface {
	alterAction()
}

// AddColumn is ADD COLUMN.
type AddColumn struct {
	Column ColumnDef
}

// AddIndex is ADD [UNIQUE] INDEX.
type AddIndex struct {
	Index Index
}

// AddForeignKey is ADD FOREIGN KEY.
type AddForeignKey struct {
	ForeignKey ForeignKey
}

// DropColumn is DROP COLUMN.
type DropColumn struct {
	Name string
}

// DropIndex is DROP INDEX.
type DropIndex struct {
	Name string
}

// DropForeignKey is DROP FOREIGN KEY.
type DropForeignKey struct {
	Name string
}

// ChangeColumn is CHANGE COLUMN: rename, retype and re-null in one clause.
type ChangeColumn struct {
	OldName string
	Column  ColumnDef
}

// RenameColumn is RENAME COLUMN.
type RenameColumn struct {
	OldName string
	NewName string
}

// RenameTo is RENAME TO.
type RenameTo struct {
	Table TableName
}

func (AddColumn) alterAction()      {}
func (AddIndex) alterAction()       {}
func (AddForeignKey) alterAction()  {}
func (DropColumn) alterAction()     {}
func (DropIndex) alterAction()      {}
func (DropForeignKey) alterAction() {}
func (ChangeColumn) alterAction()   {}
func (RenameColumn) alterAction()   {}
func (RenameTo) alterAction()       {}
