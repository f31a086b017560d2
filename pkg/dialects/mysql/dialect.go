// Package mysql provides the MySQL dialect and its DDL mutation builder.
// This package is pure Go with no database driver dependencies; the driver
// lives in pkg/adapters/mysql.
package mysql

import (
	"github.com/leapstack-labs/leapmigrate/pkg/core"
	"github.com/leapstack-labs/leapmigrate/pkg/dialect"
	"github.com/leapstack-labs/leapmigrate/pkg/mutation"
)

func init() {
	dialect.Register(MySQL)
	mutation.Register(Config.Name, func(opts mutation.Options) mutation.Builder {
		return NewBuilder(opts)
	})
}

// MaxIdentifierLength is the longest schema, table, column or index name
// MySQL accepts.
const MaxIdentifierLength = 64

// Config is the MySQL dialect configuration.
var Config = &core.DialectConfig{
	Name:        "mysql",
	Placeholder: core.PlaceholderQuestion,
	Identifiers: core.IdentifierConfig{
		Quote:         "`",
		QuoteEnd:      "`",
		Escape:        "``",
		Normalization: core.NormCaseSensitive,
		MaxLength:     MaxIdentifierLength,
	},
}

// MySQL is the MySQL dialect.
var MySQL = dialect.New(Config).Build()
