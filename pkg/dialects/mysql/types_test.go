package mysql

import (
	"testing"

	"github.com/leapstack-labs/leapmigrate/pkg/core"
	"github.com/leapstack-labs/leapmigrate/pkg/dialect"
	"github.com/leapstack-labs/leapmigrate/pkg/mutation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialect(t *testing.T) {
	d, ok := dialect.Get("mysql")
	require.True(t, ok, "mysql dialect should be registered")
	assert.Same(t, MySQL, d)
	assert.Equal(t, "`", d.Identifiers.Quote)
	assert.Equal(t, 64, d.Identifiers.MaxLength)
	assert.Equal(t, "?", d.FormatPlaceholder(3))
	assert.Equal(t, "case_sensitive", d.Identifiers.Normalization.String())

	q, err := d.Qualify("p1", "User", "email")
	require.NoError(t, err)
	assert.Equal(t, "`p1`.`User`.`email`", q)
}

func TestRawSQLTypeForScalarTypeIdentifier(t *testing.T) {
	var m TypeMapper
	tests := []struct {
		typ      core.TypeIdentifier
		list     bool
		expected string
	}{
		{core.TypeString, false, "mediumtext"},
		{core.TypeJSON, false, "mediumtext"},
		{core.TypeInt, false, "int"},
		{core.TypeFloat, false, "Decimal(65,30)"},
		{core.TypeBoolean, false, "boolean"},
		{core.TypeDateTime, false, "datetime(3)"},
		{core.TypeCuid, false, "char(25) CHARACTER SET utf8 COLLATE utf8_general_ci"},
		{core.TypeUUID, false, "char(36) CHARACTER SET utf8 COLLATE utf8_general_ci"},
		{core.TypeEnum, false, "varchar(191)"},
		{core.TypeInt, true, "mediumtext"},
		{core.TypeBoolean, true, "mediumtext"},
		{core.TypeCuid, true, "mediumtext"},
	}

	for _, tt := range tests {
		name := string(tt.typ)
		if tt.list {
			name += "[]"
		}
		t.Run(name, func(t *testing.T) {
			got, err := m.RawSQLTypeForScalarTypeIdentifier(tt.list, tt.typ)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestRawSQLTypeForScalarTypeIdentifier_Rejects(t *testing.T) {
	var m TypeMapper
	for _, typ := range []core.TypeIdentifier{core.TypeRelation, "", "Bytes"} {
		for _, list := range []bool{false, true} {
			_, err := m.RawSQLTypeForScalarTypeIdentifier(list, typ)
			assert.ErrorIs(t, err, mutation.ErrUnsupportedType, "type %q list=%v", typ, list)
		}
	}
}

func TestRawSQLFromParts(t *testing.T) {
	var m TypeMapper

	col, err := m.RawSQLFromParts("age", true, false, core.TypeInt)
	require.NoError(t, err)
	assert.Equal(t, "age", col.Name)
	assert.Equal(t, "int", col.Type)
	assert.True(t, col.NotNull)
	assert.False(t, col.AutoIncrement)

	col, err = m.RawSQLFromParts("tags", false, true, core.TypeString)
	require.NoError(t, err)
	assert.Equal(t, "mediumtext", col.Type)
	assert.False(t, col.NotNull)

	_, err = m.RawSQLFromParts("posts", false, false, core.TypeRelation)
	assert.ErrorIs(t, err, mutation.ErrUnsupportedType)
}
