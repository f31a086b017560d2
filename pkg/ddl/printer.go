package ddl

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/leapstack-labs/leapmigrate/pkg/dialect"
)

// Printer renders statements for a dialect. The first error is sticky:
// once an identifier fails to quote nothing else is written.
type Printer struct {
	dialect *dialect.Dialect
	output  strings.Builder
	err     error
}

func newPrinter(d *dialect.Dialect) *Printer {
	return &Printer{dialect: d}
}

// Print renders a single statement.
func Print(d *dialect.Dialect, stmt Statement) (string, error) {
	if d == nil {
		return "", dialect.ErrDialectRequired
	}
	p := newPrinter(d)
	p.statement(stmt)
	if p.err != nil {
		return "", p.err
	}
	return p.output.String(), nil
}

// PrintAll renders statements in order. It fails without returning any
// text if one of them cannot be rendered.
func PrintAll(d *dialect.Dialect, stmts ...Statement) ([]string, error) {
	out := make([]string, 0, len(stmts))
	for _, stmt := range stmts {
		s, err := Print(d, stmt)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (p *Printer) write(s string) {
	if p.err != nil {
		return
	}
	p.output.WriteString(s)
}

func (p *Printer) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

func (p *Printer) ident(name string) {
	if p.err != nil {
		return
	}
	q, err := p.dialect.QuoteIdentifier(name)
	if err != nil {
		p.fail(err)
		return
	}
	p.write(q)
}

func (p *Printer) identList(names []string) {
	p.write("(")
	for i, n := range names {
		if i > 0 {
			p.write(", ")
		}
		p.ident(n)
	}
	p.write(")")
}

func (p *Printer) table(t TableName) {
	if p.err != nil {
		return
	}
	parts := []string{t.Name}
	if t.Schema != "" {
		parts = []string{t.Schema, t.Name}
	}
	q, err := p.dialect.Qualify(parts...)
	if err != nil {
		p.fail(err)
		return
	}
	p.write(q)
}

func (p *Printer) statement(stmt Statement) {
	switch s := stmt.(type) {
	case CreateSchema:
		p.createSchema(s)
	case DropDatabase:
		p.write("DROP DATABASE ")
		if s.IfExists {
			p.write("IF EXISTS ")
		}
		p.ident(s.Name)
	case SetForeignKeyChecks:
		if s.Enabled {
			p.write("SET FOREIGN_KEY_CHECKS=1")
		} else {
			p.write("SET FOREIGN_KEY_CHECKS=0")
		}
	case TruncateTable:
		p.write("TRUNCATE TABLE ")
		p.table(s.Table)
	case CreateTable:
		p.createTable(s)
	case AlterTable:
		p.alterTable(s)
	case nil:
		p.fail(errors.New("nil statement"))
	default:
		p.fail(fmt.Errorf("unsupported statement %T", stmt))
	}
}

func (p *Printer) charset(charset, collation string) {
	if charset != "" {
		p.write(" DEFAULT CHARACTER SET ")
		p.write(charset)
	}
	if collation != "" {
		p.write(" COLLATE ")
		p.write(collation)
	}
}

func (p *Printer) createSchema(s CreateSchema) {
	p.write("CREATE SCHEMA ")
	p.ident(s.Name)
	p.charset(s.Charset, s.Collation)
}

func (p *Printer) createTable(s CreateTable) {
	if len(s.Columns) == 0 {
		p.fail(fmt.Errorf("create table %s: no columns", s.Table.Name))
		return
	}

	p.write("CREATE TABLE ")
	p.table(s.Table)
	p.write(" (")

	first := true
	sep := func() {
		if !first {
			p.write(", ")
		}
		first = false
	}

	for _, c := range s.Columns {
		sep()
		p.column(c)
	}
	if len(s.PrimaryKey) > 0 {
		sep()
		p.write("PRIMARY KEY ")
		p.identList(s.PrimaryKey)
	}
	for _, idx := range s.Indexes {
		sep()
		p.index(idx)
	}
	for _, fk := range s.ForeignKeys {
		sep()
		p.foreignKey(fk)
	}
	p.write(")")

	if s.Options.AutoIncrement != nil {
		p.write(" AUTO_INCREMENT = ")
		p.write(strconv.FormatInt(*s.Options.AutoIncrement, 10))
	}
	p.charset(s.Options.Charset, s.Options.Collation)
}

func (p *Printer) column(c ColumnDef) {
	if c.Type == "" {
		p.fail(fmt.Errorf("column %s: no type", c.Name))
		return
	}
	p.ident(c.Name)
	p.write(" ")
	p.write(c.Type)
	if c.NotNull {
		p.write(" NOT NULL")
	} else {
		p.write(" NULL")
	}
	if c.AutoIncrement {
		p.write(" AUTO_INCREMENT")
	}
}

func (p *Printer) index(idx Index) {
	if len(idx.Parts) == 0 {
		p.fail(fmt.Errorf("index %s: no key parts", idx.Name))
		return
	}
	if idx.Unique {
		p.write("UNIQUE ")
	}
	p.write("INDEX ")
	p.ident(idx.Name)
	p.write(" (")
	for i, part := range idx.Parts {
		if i > 0 {
			p.write(", ")
		}
		p.ident(part.Column)
		if part.Length > 0 {
			p.write("(")
			p.write(strconv.Itoa(part.Length))
			p.write(")")
		}
		p.write(" ASC")
	}
	p.write(")")
}

func (p *Printer) foreignKey(fk ForeignKey) {
	if len(fk.Columns) == 0 || len(fk.Columns) != len(fk.RefColumns) {
		p.fail(fmt.Errorf("foreign key on %s: column count mismatch", fk.RefTable.Name))
		return
	}
	p.write("FOREIGN KEY ")
	p.identList(fk.Columns)
	p.write(" REFERENCES ")
	p.table(fk.RefTable)
	p.write(" ")
	p.identList(fk.RefColumns)
	if fk.OnDelete != NoAction {
		p.write(" ON DELETE ")
		p.write(string(fk.OnDelete))
	}
}

func (p *Printer) alterTable(s AlterTable) {
	if len(s.Actions) == 0 {
		p.fail(fmt.Errorf("alter table %s: no actions", s.Table.Name))
		return
	}

	p.write("ALTER TABLE ")
	p.table(s.Table)
	p.write(" ")
	for i, a := range s.Actions {
		if i > 0 {
			p.write(", ")
		}
		p.alterAction(a)
	}
	if s.Algorithm != "" {
		p.write(", ALGORITHM = ")
		p.write(s.Algorithm)
	}
}

func (p *Printer) alterAction(a AlterAction) {
	switch a := a.(type) {
	case AddColumn:
		p.write("ADD COLUMN ")
		p.column(a.Column)
	case AddIndex:
		p.write("ADD ")
		p.index(a.Index)
	case AddForeignKey:
		p.write("ADD ")
		p.foreignKey(a.ForeignKey)
	case DropColumn:
		p.write("DROP COLUMN ")
		p.ident(a.Name)
	case DropIndex:
		p.write("DROP INDEX ")
		p.ident(a.Name)
	case DropForeignKey:
		p.write("DROP FOREIGN KEY ")
		p.ident(a.Name)
	case ChangeColumn:
		p.write("CHANGE COLUMN ")
		p.ident(a.OldName)
		p.write(" ")
		p.column(a.Column)
	case RenameColumn:
		p.write("RENAME COLUMN ")
		p.ident(a.OldName)
		p.write(" TO ")
		p.ident(a.NewName)
	case RenameTo:
		p.write("RENAME TO ")
		p.table(a.Table)
	default:
		p.fail(fmt.Errorf("unsupported alter action %T", a))
	}
}
