// Package config loads LeapMigrate configuration from defaults, the
// leapmigrate.yaml file, LEAPMIGRATE_* environment variables and CLI flags.
package config

import (
	"time"

	"github.com/leapstack-labs/leapmigrate/pkg/adapter"
	"github.com/leapstack-labs/leapmigrate/pkg/mutation"
)

// Config holds the resolved configuration.
type Config struct {
	Dialect  string       `koanf:"dialect"`
	Output   string       `koanf:"output"`
	Verbose  bool         `koanf:"verbose"`
	LogLevel string       `koanf:"log_level"`
	DDL      DDLConfig    `koanf:"ddl"`
	Target   TargetConfig `koanf:"target"`

	// File is the config file that was loaded, if any.
	File string `koanf:"-"`
}

// DDLConfig holds the engine policy used when rendering statements.
type DDLConfig struct {
	IndexPrefixLength int    `koanf:"index_prefix_length"`
	Charset           string `koanf:"charset"`
	Collation         string `koanf:"collation"`
	Algorithm         string `koanf:"algorithm"`
}

// TargetConfig holds the database that apply runs against.
type TargetConfig struct {
	Type           string            `koanf:"type"`
	Host           string            `koanf:"host"`
	Port           int               `koanf:"port"`
	User           string            `koanf:"user"`
	Password       string            `koanf:"password"`
	Database       string            `koanf:"database"`
	ConnectTimeout time.Duration     `koanf:"connect_timeout"`
	Options        map[string]string `koanf:"options"`
}

// MutationOptions converts the DDL section to builder options.
func (c *Config) MutationOptions() mutation.Options {
	return mutation.Options{
		IndexPrefixLength: c.DDL.IndexPrefixLength,
		Charset:           c.DDL.Charset,
		Collation:         c.DDL.Collation,
		Algorithm:         c.DDL.Algorithm,
	}
}

// ToAdapterConfig converts the target section to an adapter config.
func (t TargetConfig) ToAdapterConfig() adapter.Config {
	var opts map[string]string
	if len(t.Options) > 0 {
		opts = make(map[string]string, len(t.Options))
		for k, v := range t.Options {
			opts[k] = v
		}
	}
	return adapter.Config{
		Type:           t.Type,
		Host:           t.Host,
		Port:           t.Port,
		Database:       t.Database,
		Username:       t.User,
		Password:       t.Password,
		ConnectTimeout: t.ConnectTimeout,
		Options:        opts,
	}
}
