package config

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/leapstack-labs/leapmigrate/pkg/adapter"
	"github.com/leapstack-labs/leapmigrate/pkg/mutation"
)

// ErrTargetRequired is returned when apply has no target database.
var ErrTargetRequired = errors.New("target.database is required")

var outputs = []string{OutputAuto, OutputText, OutputTable, OutputJSON, OutputMarkdown}

// Validate checks the settings every command depends on.
func (c *Config) Validate() error {
	if !slices.Contains(mutation.List(), c.Dialect) {
		return &mutation.UnknownDialectError{Name: c.Dialect, Available: mutation.List()}
	}
	if !slices.Contains(outputs, c.Output) {
		return fmt.Errorf("unknown output format %q (want one of %s)", c.Output, strings.Join(outputs, ", "))
	}
	if c.DDL.IndexPrefixLength <= 0 {
		return fmt.Errorf("ddl.index_prefix_length must be positive, got %d", c.DDL.IndexPrefixLength)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// ValidateTarget checks the target section. Only commands that connect
// need it.
func (c *Config) ValidateTarget() error {
	t := c.Target
	if t.Type == "" {
		return adapter.ErrTypeRequired
	}
	if !adapter.IsRegistered(t.Type) {
		return &adapter.UnknownAdapterError{Type: t.Type, Available: adapter.ListAdapters()}
	}
	if t.Database == "" {
		return ErrTargetRequired
	}
	if t.Port < 0 || t.Port > 65535 {
		return fmt.Errorf("target.port out of range: %d", t.Port)
	}
	return nil
}

// SlogLevel returns the log level. Verbose forces debug.
func (c *Config) SlogLevel() (slog.Level, error) {
	if c.Verbose {
		return slog.LevelDebug, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return level, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}
