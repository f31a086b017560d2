package config

import (
	"github.com/leapstack-labs/leapmigrate/pkg/adapters/mysql"
	mysqldialect "github.com/leapstack-labs/leapmigrate/pkg/dialects/mysql"
)

// Output formats.
const (
	OutputAuto     = "auto"
	OutputText     = "text"
	OutputTable    = "table"
	OutputJSON     = "json"
	OutputMarkdown = "markdown"
)

// Default configuration values.
const (
	DefaultDialect        = "mysql"
	DefaultOutput         = OutputAuto
	DefaultLogLevel       = "warn"
	DefaultConnectTimeout = "10s"
)

// Config file names, in lookup order.
var configFileNames = []string{"leapmigrate.yaml", "leapmigrate.yml"}

func defaults() map[string]any {
	return map[string]any{
		"dialect":                 DefaultDialect,
		"output":                  DefaultOutput,
		"verbose":                 false,
		"log_level":               DefaultLogLevel,
		"ddl.index_prefix_length": mysqldialect.DefaultIndexPrefixLength,
		"ddl.charset":             mysqldialect.DefaultCharset,
		"ddl.collation":           mysqldialect.DefaultCollation,
		"ddl.algorithm":           mysqldialect.DefaultAlgorithm,
		"target.type":             DefaultDialect,
		"target.host":             mysql.DefaultHost,
		"target.port":             mysql.DefaultPort,
		"target.connect_timeout":  DefaultConnectTimeout,
	}
}
