package mysql

import (
	"fmt"

	"github.com/leapstack-labs/leapmigrate/pkg/core"
	"github.com/leapstack-labs/leapmigrate/pkg/ddl"
	"github.com/leapstack-labs/leapmigrate/pkg/mutation"
)

// Native column types.
const (
	TypeMediumText = "mediumtext"
	TypeInt        = "int"
	TypeDecimal    = "Decimal(65,30)"
	TypeBoolean    = "boolean"
	TypeDateTime   = "datetime(3)"
	TypeCuid       = "char(25) CHARACTER SET utf8 COLLATE utf8_general_ci"
	TypeUUID       = "char(36) CHARACTER SET utf8 COLLATE utf8_general_ci"
	TypeEnum       = "varchar(191)"
	// TypePosition is the position column of scalar list tables.
	TypePosition = "int(4)"
)

// TypeMapper maps abstract field types to MySQL column types.
// List fields are stored JSON encoded in a mediumtext column.
type TypeMapper struct{}

// RawSQLTypeForScalarTypeIdentifier returns the native type of a field.
func (TypeMapper) RawSQLTypeForScalarTypeIdentifier(list bool, t core.TypeIdentifier) (string, error) {
	if !t.IsScalar() {
		return "", fmt.Errorf("%w %q", mutation.ErrUnsupportedType, string(t))
	}
	if list {
		return TypeMediumText, nil
	}
	switch t {
	case core.TypeString, core.TypeJSON:
		return TypeMediumText, nil
	case core.TypeInt:
		return TypeInt, nil
	case core.TypeFloat:
		return TypeDecimal, nil
	case core.TypeBoolean:
		return TypeBoolean, nil
	case core.TypeDateTime:
		return TypeDateTime, nil
	case core.TypeCuid:
		return TypeCuid, nil
	case core.TypeUUID:
		return TypeUUID, nil
	case core.TypeEnum:
		return TypeEnum, nil
	}
	return "", fmt.Errorf("%w %q", mutation.ErrUnsupportedType, string(t))
}

// RawSQLFromParts returns the column definition of a field.
func (m TypeMapper) RawSQLFromParts(name string, required, list bool, t core.TypeIdentifier) (ddl.ColumnDef, error) {
	native, err := m.RawSQLTypeForScalarTypeIdentifier(list, t)
	if err != nil {
		return ddl.ColumnDef{}, err
	}
	return ddl.ColumnDef{Name: name, Type: native, NotNull: required}, nil
}

// unboundedText lists native types that cannot be fully indexed.
var unboundedText = map[string]bool{
	TypeMediumText: true,
}
