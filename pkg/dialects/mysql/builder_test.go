package mysql

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/leapstack-labs/leapmigrate/pkg/core"
	"github.com/leapstack-labs/leapmigrate/pkg/dialect"
	"github.com/leapstack-labs/leapmigrate/pkg/mutation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	cuidType     = "char(25) CHARACTER SET utf8 COLLATE utf8_general_ci"
	tableCharset = " DEFAULT CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci"
)

var (
	user = core.TableRef{Namespace: "p1", Name: "User"}
	post = core.TableRef{Namespace: "p1", Name: "Post"}
)

func cuidID() core.ColumnSpec {
	return core.ColumnSpec{Name: "id", Type: core.TypeCuid, Required: true}
}

func int64Ptr(n int64) *int64 { return &n }

// sqlOf returns a checker yielding the statements of a static action.
func sqlOf(t *testing.T) func(core.Action, error) []string {
	return func(action core.Action, err error) []string {
		t.Helper()
		require.NoError(t, err)
		sqls, ok := action.SQL()
		require.True(t, ok, "action has a lookup step")
		return sqls
	}
}

func TestNewBuilder_Defaults(t *testing.T) {
	b := NewBuilder(mutation.Options{})
	assert.Equal(t, mutation.Options{
		IndexPrefixLength: 191,
		Charset:           "utf8mb4",
		Collation:         "utf8mb4_unicode_ci",
		Algorithm:         "INPLACE",
	}, b.Options())
	assert.Same(t, MySQL, b.Dialect())
}

func TestBuilderRegistration(t *testing.T) {
	assert.Contains(t, mutation.List(), "mysql")

	b, err := mutation.NewBuilder("MySQL", mutation.Options{IndexPrefixLength: 100})
	require.NoError(t, err)
	assert.Equal(t, 100, b.Options().IndexPrefixLength)
}

func TestCreateNamespace(t *testing.T) {
	b := NewBuilder(mutation.Options{})
	got := sqlOf(t)(b.CreateNamespace(mutation.CreateNamespace{Namespace: "p1"}))
	assert.Equal(t, []string{"CREATE SCHEMA `p1`" + tableCharset}, got)
}

func TestDropNamespace(t *testing.T) {
	b := NewBuilder(mutation.Options{})
	got := sqlOf(t)(b.DropNamespace(mutation.DropNamespace{Namespace: "p1"}))
	assert.Equal(t, []string{"DROP DATABASE IF EXISTS `p1`"}, got)
}

func TestTruncateAll(t *testing.T) {
	b := NewBuilder(mutation.Options{})
	got := sqlOf(t)(b.TruncateAll(mutation.TruncateAll{
		Namespace: "p1",
		Models: []mutation.ModelTables{
			{Name: "User", ListFields: []string{"tags", "tags"}},
			{Name: "Post"},
			{Name: "User"},
		},
		Relations: []string{"_PostToUser", "Post"},
	}))

	assert.Equal(t, []string{
		"SET FOREIGN_KEY_CHECKS=0",
		"TRUNCATE TABLE `p1`.`_RelayId`",
		"TRUNCATE TABLE `p1`.`User`",
		"TRUNCATE TABLE `p1`.`Post`",
		"TRUNCATE TABLE `p1`.`_PostToUser`",
		"TRUNCATE TABLE `p1`.`User_tags`",
		"SET FOREIGN_KEY_CHECKS=1",
	}, got)
}

func TestTruncateAll_Empty(t *testing.T) {
	b := NewBuilder(mutation.Options{})
	got := sqlOf(t)(b.TruncateAll(mutation.TruncateAll{Namespace: "p1"}))
	require.Len(t, got, 3)
	assert.Equal(t, "SET FOREIGN_KEY_CHECKS=0", got[0])
	assert.Equal(t, "SET FOREIGN_KEY_CHECKS=1", got[2])
}

func TestTruncateAll_DerivedNameTooLong(t *testing.T) {
	b := NewBuilder(mutation.Options{})
	_, err := b.TruncateAll(mutation.TruncateAll{
		Namespace: "p1",
		Models:    []mutation.ModelTables{{Name: strings.Repeat("m", 40), ListFields: []string{strings.Repeat("f", 40)}}},
	})
	var reqErr *mutation.InvalidRequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, mutation.OpTruncateAll, reqErr.Op)
}

func TestCreateModelTable(t *testing.T) {
	b := NewBuilder(mutation.Options{})
	intID := core.ColumnSpec{Name: "id", Type: core.TypeInt, Required: true}

	tests := []struct {
		name     string
		id       core.IDSpec
		expected string
	}{
		{
			name: "cuid application generated",
			id:   core.IDSpec{Column: cuidID(), Generation: core.GenerationApplication},
			expected: "CREATE TABLE `p1`.`User` (`id` " + cuidType + " NOT NULL, PRIMARY KEY (`id`))" +
				tableCharset,
		},
		{
			name: "int database generated without initial value",
			id:   core.IDSpec{Column: intID, Generation: core.GenerationDatabase},
			expected: "CREATE TABLE `p1`.`User` (`id` int NOT NULL AUTO_INCREMENT, PRIMARY KEY (`id`))" +
				tableCharset,
		},
		{
			name: "int database generated with initial value",
			id:   core.IDSpec{Column: intID, Generation: core.GenerationDatabase, InitialValue: int64Ptr(100)},
			expected: "CREATE TABLE `p1`.`User` (`id` int NOT NULL AUTO_INCREMENT, PRIMARY KEY (`id`)) AUTO_INCREMENT = 100" +
				tableCharset,
		},
		{
			name: "initial value ignored without database generation",
			id:   core.IDSpec{Column: intID, Generation: core.GenerationNone, InitialValue: int64Ptr(100)},
			expected: "CREATE TABLE `p1`.`User` (`id` int NOT NULL, PRIMARY KEY (`id`))" +
				tableCharset,
		},
		{
			name: "optional id is still not null",
			id:   core.IDSpec{Column: core.ColumnSpec{Name: "uid", Type: core.TypeUUID}},
			expected: "CREATE TABLE `p1`.`User` (`uid` char(36) CHARACTER SET utf8 COLLATE utf8_general_ci NOT NULL, PRIMARY KEY (`uid`))" +
				tableCharset,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sqlOf(t)(b.CreateModelTable(mutation.CreateModelTable{Table: user, ID: tt.id}))
			assert.Equal(t, []string{tt.expected}, got)
		})
	}
}

func TestCreateModelTable_RejectsDatabaseGeneratedCuid(t *testing.T) {
	b := NewBuilder(mutation.Options{})
	action, err := b.CreateModelTable(mutation.CreateModelTable{
		Table: user,
		ID:    core.IDSpec{Column: cuidID(), Generation: core.GenerationDatabase},
	})
	assert.ErrorIs(t, err, mutation.ErrDatabaseGeneratedNonInt)
	assert.True(t, action.IsNoop())
}

func TestCreateScalarListTable(t *testing.T) {
	b := NewBuilder(mutation.Options{})

	got := sqlOf(t)(b.CreateScalarListTable(mutation.CreateScalarListTable{
		Owner:   user,
		OwnerID: cuidID(),
		Field:   "tags",
		Type:    core.TypeString,
	}))
	assert.Equal(t, []string{
		"CREATE TABLE `p1`.`User_tags` (" +
			"`nodeId` " + cuidType + " NOT NULL, " +
			"`position` int(4) NOT NULL, " +
			"`value` mediumtext NOT NULL, " +
			"PRIMARY KEY (`nodeId`, `position`), " +
			"INDEX `value` (`value`(191) ASC), " +
			"FOREIGN KEY (`nodeId`) REFERENCES `p1`.`User` (`id`) ON DELETE CASCADE)" +
			tableCharset,
	}, got)

	got = sqlOf(t)(b.CreateScalarListTable(mutation.CreateScalarListTable{
		Owner:   user,
		OwnerID: core.ColumnSpec{Name: "id", Type: core.TypeInt},
		Field:   "scores",
		Type:    core.TypeInt,
	}))
	require.Len(t, got, 1)
	assert.Contains(t, got[0], "`nodeId` int NOT NULL")
	assert.Contains(t, got[0], "INDEX `value` (`value` ASC)")
}

func relation(m core.Manifestation) mutation.CreateRelationTable {
	return mutation.CreateRelationTable{Relation: core.RelationSpec{
		Namespace:     "p1",
		Name:          "_PostToUser",
		A:             core.RelationEnd{Table: "Post", ID: cuidID()},
		B:             core.RelationEnd{Table: "User", ID: cuidID()},
		Manifestation: m,
	}}
}

func TestCreateRelationTable(t *testing.T) {
	b := NewBuilder(mutation.Options{})
	rest := "`A` " + cuidType + " NOT NULL, `B` " + cuidType + " NOT NULL, "
	tail := "UNIQUE INDEX `AB_unique` (`A` ASC, `B` ASC), " +
		"INDEX `B` (`B` ASC), " +
		"FOREIGN KEY (`A`) REFERENCES `p1`.`Post` (`id`) ON DELETE CASCADE, " +
		"FOREIGN KEY (`B`) REFERENCES `p1`.`User` (`id`) ON DELETE CASCADE)" +
		tableCharset

	tests := []struct {
		name          string
		manifestation core.Manifestation
		expected      string
	}{
		{
			name:          "modern",
			manifestation: core.Modern{},
			expected:      "CREATE TABLE `p1`.`_PostToUser` (" + rest + tail,
		},
		{
			name:          "legacy default",
			manifestation: core.LegacyDefault{},
			expected: "CREATE TABLE `p1`.`_PostToUser` (`id` " + cuidType + " NOT NULL, " + rest +
				"PRIMARY KEY (`id`), " + tail,
		},
		{
			name:          "legacy table",
			manifestation: core.LegacyTable{IDColumn: "relId"},
			expected: "CREATE TABLE `p1`.`_PostToUser` (`relId` " + cuidType + " NOT NULL, " + rest +
				"PRIMARY KEY (`relId`), " + tail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sqlOf(t)(b.CreateRelationTable(relation(tt.manifestation)))
			assert.Equal(t, []string{tt.expected}, got)
		})
	}
}

func TestCreateRelationTable_ModernShape(t *testing.T) {
	b := NewBuilder(mutation.Options{})
	got := sqlOf(t)(b.CreateRelationTable(relation(core.Modern{})))
	require.Len(t, got, 1)
	stmt := got[0]

	assert.Equal(t, 2, strings.Count(stmt, "FOREIGN KEY"))
	assert.Equal(t, 1, strings.Count(stmt, "UNIQUE INDEX"))
	assert.Equal(t, 2, strings.Count(stmt, "INDEX `"))
	assert.NotContains(t, stmt, "PRIMARY KEY")
	assert.NotContains(t, stmt, "`id` char")
}

func TestCreateRelationTable_Deterministic(t *testing.T) {
	b := NewBuilder(mutation.Options{})
	for _, m := range []core.Manifestation{core.Modern{}, core.LegacyDefault{}, core.LegacyTable{IDColumn: "x"}} {
		first := sqlOf(t)(b.CreateRelationTable(relation(m)))
		for range 5 {
			assert.Equal(t, first, sqlOf(t)(b.CreateRelationTable(relation(m))))
		}
	}
}

func TestCreateRelationTable_CustomColumns(t *testing.T) {
	b := NewBuilder(mutation.Options{})
	req := relation(core.Modern{})
	req.Relation.A.Column = "postId"
	req.Relation.B.Column = "userId"

	got := sqlOf(t)(b.CreateRelationTable(req))
	require.Len(t, got, 1)
	assert.Contains(t, got[0], "UNIQUE INDEX `postIduserId_unique` (`postId` ASC, `userId` ASC)")
	assert.Contains(t, got[0], "INDEX `userId` (`userId` ASC)")
}

func TestCreateRelationTable_RequiresManifestation(t *testing.T) {
	b := NewBuilder(mutation.Options{})
	_, err := b.CreateRelationTable(relation(nil))
	assert.ErrorIs(t, err, mutation.ErrManifestationRequired)
}

func TestAddRelationColumn(t *testing.T) {
	b := NewBuilder(mutation.Options{})
	got := sqlOf(t)(b.AddRelationColumn(mutation.AddRelationColumn{
		Table:        post,
		TableID:      cuidID(),
		Referenced:   "User",
		ReferencedID: cuidID(),
		Column:       "author",
	}))
	assert.Equal(t, []string{
		"ALTER TABLE `p1`.`Post` ADD COLUMN `author` " + cuidType + " NULL, " +
			"ADD FOREIGN KEY (`author`) REFERENCES `p1`.`User` (`id`) ON DELETE CASCADE",
	}, got)
}

// recordingExecutor records statements and serves canned lookup results.
type recordingExecutor struct {
	values   []string
	args     []any
	executed []string
}

func (r *recordingExecutor) Exec(_ context.Context, sql string) error {
	r.executed = append(r.executed, sql)
	return nil
}

func (r *recordingExecutor) QueryStrings(_ context.Context, _ string, args ...any) ([]string, error) {
	r.args = args
	return r.values, nil
}

func TestForeignKeyLookupQuery_Placeholders(t *testing.T) {
	dollar := dialect.New(&core.DialectConfig{Name: "dollar", Placeholder: dialect.PlaceholderDollar}).Build()

	q := foreignKeyLookupQuery(dollar)
	assert.Contains(t, q, "kcu.table_schema = $1")
	assert.Contains(t, q, "kcu.table_name = $2")
	assert.Contains(t, q, "kcu.column_name = $3")
	assert.NotContains(t, q, "?")

	q = foreignKeyLookupQuery(MySQL)
	assert.Equal(t, 3, strings.Count(q, "?"))
}

func TestDropRelationColumn(t *testing.T) {
	b := NewBuilder(mutation.Options{})
	action, err := b.DropRelationColumn(mutation.DropRelationColumn{Table: post, Column: "author"})
	require.NoError(t, err)

	require.Len(t, action.Steps, 1)
	lookup, ok := action.Steps[0].(core.Lookup)
	require.True(t, ok, "first step must be a lookup")
	assert.Contains(t, lookup.Query, "information_schema.key_column_usage")
	assert.Equal(t, []any{"p1", "Post", "author"}, lookup.Args)
	assert.Equal(t, len(lookup.Args), strings.Count(lookup.Query, MySQL.FormatPlaceholder(1)))

	_, static := action.SQL()
	assert.False(t, static)

	t.Run("drops every constraint then the column", func(t *testing.T) {
		stmts, err := lookup.Then([]string{"Post_ibfk_1", "Post_ibfk_2", "Post_ibfk_1"})
		require.NoError(t, err)
		sqls := make([]string, 0, len(stmts))
		for _, s := range stmts {
			sqls = append(sqls, s.SQL)
		}
		assert.Equal(t, []string{
			"ALTER TABLE `p1`.`Post` DROP FOREIGN KEY `Post_ibfk_1`",
			"ALTER TABLE `p1`.`Post` DROP FOREIGN KEY `Post_ibfk_2`",
			"ALTER TABLE `p1`.`Post` DROP COLUMN `author`",
		}, sqls)
	})

	t.Run("no constraint", func(t *testing.T) {
		stmts, err := lookup.Then(nil)
		require.ErrorIs(t, err, mutation.ErrConstraintNotFound)
		assert.Empty(t, stmts)
	})

	t.Run("run against executor", func(t *testing.T) {
		exec := &recordingExecutor{values: []string{"Post_ibfk_1"}}
		require.NoError(t, mutation.Run(context.Background(), exec, action))
		assert.Equal(t, []any{"p1", "Post", "author"}, exec.args)
		assert.Equal(t, []string{
			"ALTER TABLE `p1`.`Post` DROP FOREIGN KEY `Post_ibfk_1`",
			"ALTER TABLE `p1`.`Post` DROP COLUMN `author`",
		}, exec.executed)
	})

	t.Run("run without constraint writes nothing", func(t *testing.T) {
		exec := &recordingExecutor{}
		err := mutation.Run(context.Background(), exec, action)
		require.ErrorIs(t, err, mutation.ErrConstraintNotFound)
		assert.Empty(t, exec.executed)
	})
}

func TestCreateColumn(t *testing.T) {
	b := NewBuilder(mutation.Options{})

	got := sqlOf(t)(b.CreateColumn(mutation.CreateColumn{
		Table:  user,
		Column: core.ColumnSpec{Name: "email", Type: core.TypeString, Required: true, Unique: true},
	}))
	assert.Equal(t, []string{
		"ALTER TABLE `p1`.`User` ADD COLUMN `email` mediumtext NOT NULL, " +
			"ADD UNIQUE INDEX `email_UNIQUE` (`email`(191) ASC), ALGORITHM = INPLACE",
	}, got)

	got = sqlOf(t)(b.CreateColumn(mutation.CreateColumn{
		Table:  user,
		Column: core.ColumnSpec{Name: "tags", Type: core.TypeString, List: true},
	}))
	assert.Equal(t, []string{"ALTER TABLE `p1`.`User` ADD COLUMN `tags` mediumtext NULL, ALGORITHM = INPLACE"}, got)
}

func TestCreateColumn_RejectsListUnique(t *testing.T) {
	b := NewBuilder(mutation.Options{})
	action, err := b.CreateColumn(mutation.CreateColumn{
		Table:  user,
		Column: core.ColumnSpec{Name: "tags", Type: core.TypeString, List: true, Unique: true},
	})
	assert.ErrorIs(t, err, mutation.ErrListUnique)
	assert.True(t, action.IsNoop())
}

func TestCreateColumn_LongIndexName(t *testing.T) {
	b := NewBuilder(mutation.Options{})
	name := strings.Repeat("c", 60)
	action, err := b.CreateColumn(mutation.CreateColumn{
		Table:  user,
		Column: core.ColumnSpec{Name: name, Type: core.TypeInt, Unique: true},
	})
	var idErr *dialect.IdentifierError
	require.ErrorAs(t, err, &idErr)
	assert.Equal(t, name+"_UNIQUE", idErr.Identifier)
	assert.True(t, action.IsNoop())
}

func TestDeleteColumn(t *testing.T) {
	b := NewBuilder(mutation.Options{})
	got := sqlOf(t)(b.DeleteColumn(mutation.DeleteColumn{Table: user, Column: "email"}))
	assert.Equal(t, []string{"ALTER TABLE `p1`.`User` DROP COLUMN `email`"}, got)
}

func TestUpdateColumn(t *testing.T) {
	b := NewBuilder(mutation.Options{})
	got := sqlOf(t)(b.UpdateColumn(mutation.UpdateColumn{
		Table:   user,
		OldName: "age",
		Column:  core.ColumnSpec{Name: "years", Type: core.TypeFloat, Required: true},
	}))
	assert.Equal(t, []string{"ALTER TABLE `p1`.`User` CHANGE COLUMN `age` `years` Decimal(65,30) NOT NULL"}, got)
}

func TestAddUniqueConstraint(t *testing.T) {
	b := NewBuilder(mutation.Options{})
	got := sqlOf(t)(b.AddUniqueConstraint(mutation.AddUniqueConstraint{Table: user, Column: "handle", Type: core.TypeEnum}))
	assert.Equal(t, []string{"ALTER TABLE `p1`.`User` ADD UNIQUE INDEX `handle_UNIQUE` (`handle` ASC)"}, got)
}

func TestRemoveIndex(t *testing.T) {
	b := NewBuilder(mutation.Options{})
	got := sqlOf(t)(b.RemoveIndex(mutation.RemoveIndex{Table: user, Index: "email_UNIQUE"}))
	assert.Equal(t, []string{"ALTER TABLE `p1`.`User` DROP INDEX `email_UNIQUE`"}, got)
}

func TestRename(t *testing.T) {
	b := NewBuilder(mutation.Options{})

	got := sqlOf(t)(b.RenameTable(mutation.RenameTable{Namespace: "p1", OldName: "User", NewName: "Person"}))
	assert.Equal(t, []string{"ALTER TABLE `p1`.`User` RENAME TO `p1`.`Person`"}, got)

	got = sqlOf(t)(b.RenameColumn(mutation.RenameColumn{Table: user, OldName: "mail", NewName: "email"}))
	assert.Equal(t, []string{"ALTER TABLE `p1`.`User` RENAME COLUMN `mail` TO `email`"}, got)
}

func TestRename_NoopWhenEqual(t *testing.T) {
	b := NewBuilder(mutation.Options{})

	action, err := b.RenameTable(mutation.RenameTable{Namespace: "p1", OldName: "User", NewName: "User"})
	require.NoError(t, err)
	assert.True(t, action.IsNoop())

	action, err = b.RenameColumn(mutation.RenameColumn{Table: user, OldName: "email", NewName: "email"})
	require.NoError(t, err)
	assert.True(t, action.IsNoop())

	// Invalid identifiers are still rejected.
	_, err = b.RenameColumn(mutation.RenameColumn{Table: user, OldName: "", NewName: ""})
	assert.Error(t, err)
}

func TestIndexPrefixLaw(t *testing.T) {
	unbounded := map[core.TypeIdentifier]bool{core.TypeString: true, core.TypeJSON: true}
	types := []core.TypeIdentifier{
		core.TypeString, core.TypeInt, core.TypeFloat, core.TypeBoolean, core.TypeDateTime,
		core.TypeJSON, core.TypeCuid, core.TypeUUID, core.TypeEnum,
	}

	for _, prefix := range []int{191, 100} {
		b := NewBuilder(mutation.Options{IndexPrefixLength: prefix})
		marker := "(" + strconv.Itoa(prefix) + ") ASC"

		for _, typ := range types {
			t.Run(string(typ), func(t *testing.T) {
				var stmts []string
				stmts = append(stmts, sqlOf(t)(b.AddUniqueConstraint(mutation.AddUniqueConstraint{Table: user, Column: "c", Type: typ}))...)
				stmts = append(stmts, sqlOf(t)(b.CreateColumn(mutation.CreateColumn{
					Table:  user,
					Column: core.ColumnSpec{Name: "c", Type: typ, Unique: true},
				}))...)
				stmts = append(stmts, sqlOf(t)(b.CreateScalarListTable(mutation.CreateScalarListTable{
					Owner: user, OwnerID: cuidID(), Field: "c", Type: typ,
				}))...)

				for _, s := range stmts {
					if unbounded[typ] {
						assert.Contains(t, s, marker)
					} else {
						assert.NotContains(t, s, marker)
					}
				}
			})
		}
	}
}

func TestBuilder_Concurrent(t *testing.T) {
	b := NewBuilder(mutation.Options{})
	want := sqlOf(t)(b.CreateRelationTable(relation(core.Modern{})))

	var wg sync.WaitGroup
	results := make([][]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			action, err := b.CreateRelationTable(relation(core.Modern{}))
			if err == nil {
				results[i], _ = action.SQL()
			}
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}
