package core

import "fmt"

// TypeIdentifier names an abstract scalar type of a model field.
type TypeIdentifier string

// Scalar type identifiers.
const (
	TypeString   TypeIdentifier = "String"
	TypeInt      TypeIdentifier = "Int"
	TypeFloat    TypeIdentifier = "Float"
	TypeBoolean  TypeIdentifier = "Boolean"
	TypeDateTime TypeIdentifier = "DateTime"
	TypeJSON     TypeIdentifier = "Json"
	TypeCuid     TypeIdentifier = "Cuid"
	TypeUUID     TypeIdentifier = "UUID"
	TypeEnum     TypeIdentifier = "Enum"
	// TypeRelation marks a relation field. It has no column representation.
	TypeRelation TypeIdentifier = "Relation"
)

// IsScalar returns true if the type maps to a column.
func (t TypeIdentifier) IsScalar() bool {
	switch t {
	case TypeString, TypeInt, TypeFloat, TypeBoolean, TypeDateTime,
		TypeJSON, TypeCuid, TypeUUID, TypeEnum:
		return true
	default:
		return false
	}
}

// TableRef identifies a table inside a namespace.
type TableRef struct {
	Namespace string
	Name      string
}

// String returns the unquoted "namespace.name" form, for messages only.
func (t TableRef) String() string {
	return t.Namespace + "." + t.Name
}

// ColumnSpec describes a single column.
type ColumnSpec struct {
	Name     string
	Type     TypeIdentifier
	Required bool
	List     bool
	Unique   bool
}

// Generation describes who produces values for an id column.
type Generation int

const (
	// GenerationNone means ids are supplied by the caller.
	GenerationNone Generation = iota
	// GenerationApplication means ids (cuid, uuid) are generated client side.
	GenerationApplication
	// GenerationDatabase means the engine generates ids from a sequence.
	GenerationDatabase
)

// String returns the string representation of the generation strategy.
func (g Generation) String() string {
	switch g {
	case GenerationNone:
		return "none"
	case GenerationApplication:
		return "application"
	case GenerationDatabase:
		return "database"
	default:
		return "unknown"
	}
}

// ParseGeneration converts a string to a Generation value.
func ParseGeneration(s string) (Generation, error) {
	switch s {
	case "", "none":
		return GenerationNone, nil
	case "application", "app":
		return GenerationApplication, nil
	case "database", "db", "sequence":
		return GenerationDatabase, nil
	default:
		return GenerationNone, fmt.Errorf("unknown id generation %q", s)
	}
}

// IDSpec describes the primary key column of a model table.
type IDSpec struct {
	Column     ColumnSpec
	Generation Generation
	// InitialValue seeds the engine sequence. Only meaningful with GenerationDatabase.
	InitialValue *int64
}

// DatabaseGenerated returns true if the engine produces the id values.
func (id IDSpec) DatabaseGenerated() bool {
	return id.Generation == GenerationDatabase
}

// Manifestation is the physical representation chosen for a many-to-many
// relation table. It is decided once when the relation is created.
//
// The set of variants is closed: LegacyDefault, LegacyTable and Modern.
type Manifestation interface {
	// SurrogateID returns the name of the surrogate id column, if the
	// representation has one.
	SurrogateID() (column string, ok bool)
	// Kind returns a stable name for the variant.
	Kind() string

	manifestation()
}

// Manifestation kinds.
const (
	KindLegacyDefault = "legacy"
	KindLegacyTable   = "legacy_table"
	KindModern        = "modern"
)

// DefaultSurrogateID is the surrogate id column of LegacyDefault relation tables.
const DefaultSurrogateID = "id"

// LegacyDefault is the original representation: the relation table has
// its own surrogate primary key named "id".
type LegacyDefault struct{}

// SurrogateID implements Manifestation.
func (LegacyDefault) SurrogateID() (string, bool) { return DefaultSurrogateID, true }

// Kind implements Manifestation.
func (LegacyDefault) Kind() string { return KindLegacyDefault }

func (LegacyDefault) manifestation() {}

// LegacyTable is a legacy relation table whose surrogate id column has an
// explicitly configured name.
type LegacyTable struct {
	IDColumn string
}

// SurrogateID implements Manifestation.
func (m LegacyTable) SurrogateID() (string, bool) { return m.IDColumn, true }

// Kind implements Manifestation.
func (LegacyTable) Kind() string { return KindLegacyTable }

func (LegacyTable) manifestation() {}

// Modern relation tables have no surrogate id. Rows are identified by the
// unique composite index over both relation columns.
type Modern struct{}

// SurrogateID implements Manifestation.
func (Modern) SurrogateID() (string, bool) { return "", false }

// Kind implements Manifestation.
func (Modern) Kind() string { return KindModern }

func (Modern) manifestation() {}

// Default relation table column names.
const (
	RelationColumnA = "A"
	RelationColumnB = "B"
)

// RelationEnd is one side of a relation: the model table and its id column.
type RelationEnd struct {
	Table string
	ID    ColumnSpec
	// Column is the column in the relation table pointing at Table's id.
	Column string
}

// RelationSpec describes a many-to-many relation table.
type RelationSpec struct {
	Namespace     string
	Name          string
	A             RelationEnd
	B             RelationEnd
	Manifestation Manifestation
}

// ColumnA returns the relation table column referencing side A.
func (r RelationSpec) ColumnA() string {
	if r.A.Column == "" {
		return RelationColumnA
	}
	return r.A.Column
}

// ColumnB returns the relation table column referencing side B.
func (r RelationSpec) ColumnB() string {
	if r.B.Column == "" {
		return RelationColumnB
	}
	return r.B.Column
}

// ScalarListTableName returns the side table name for a scalar list field.
func ScalarListTableName(model, field string) string {
	return model + "_" + field
}

// RelayIDTable is the system bookkeeping table present in every namespace.
const RelayIDTable = "_RelayId"
