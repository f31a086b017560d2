// Package dialect provides SQL dialect configuration and identifier handling.
//
// This package contains the public contract for dialect definitions used by the
// statement printer and the mutation builders. Concrete dialects are registered
// from pkg/dialects/*/ packages.
package dialect

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/leapstack-labs/leapmigrate/pkg/core"
)

// Re-exported configuration constants so dialect definitions only import this package.
const (
	NormLowercase       = core.NormLowercase
	NormUppercase       = core.NormUppercase
	NormCaseSensitive   = core.NormCaseSensitive
	NormCaseInsensitive = core.NormCaseInsensitive

	PlaceholderQuestion = core.PlaceholderQuestion
	PlaceholderDollar   = core.PlaceholderDollar
)

// IdentifierError is returned when an identifier cannot be safely quoted.
type IdentifierError struct {
	Identifier string
	Reason     string
}

func (e *IdentifierError) Error() string {
	return fmt.Sprintf("invalid identifier %q: %s", e.Identifier, e.Reason)
}

// Dialect represents a SQL dialect configuration.
type Dialect struct {
	Name        string
	Identifiers core.IdentifierConfig
	Placeholder core.PlaceholderStyle
}

// NormalizeName normalizes an identifier according to dialect rules.
func (d *Dialect) NormalizeName(name string) string {
	switch d.Identifiers.Normalization {
	case core.NormUppercase:
		return strings.ToUpper(name)
	case core.NormLowercase, core.NormCaseInsensitive:
		return strings.ToLower(name)
	default: // NormCaseSensitive
		return name
	}
}

// FormatPlaceholder returns a placeholder for the given parameter index (1-based).
// Returns "?" for PlaceholderQuestion style, "$1", "$2" etc. for PlaceholderDollar style.
func (d *Dialect) FormatPlaceholder(index int) string {
	switch d.Placeholder {
	case core.PlaceholderDollar:
		return "$" + strconv.Itoa(index)
	default: // PlaceholderQuestion
		return "?"
	}
}

// ValidateIdentifier checks that name can be embedded in a statement.
func (d *Dialect) ValidateIdentifier(name string) error {
	if name == "" {
		return &IdentifierError{Identifier: name, Reason: "identifier is empty"}
	}
	if strings.ContainsRune(name, 0) {
		return &IdentifierError{Identifier: name, Reason: "identifier contains a NUL character"}
	}
	if strings.HasSuffix(name, " ") {
		return &IdentifierError{Identifier: name, Reason: "identifier ends with a space"}
	}
	if !utf8.ValidString(name) {
		return &IdentifierError{Identifier: name, Reason: "identifier is not valid UTF-8"}
	}
	if limit := d.Identifiers.MaxLength; limit > 0 && utf8.RuneCountInString(name) > limit {
		return &IdentifierError{
			Identifier: name,
			Reason:     fmt.Sprintf("identifier is longer than %d characters", limit),
		}
	}
	return nil
}

// QuoteIdentifier quotes an identifier using the dialect's quote characters.
// Embedded quote characters are escaped.
func (d *Dialect) QuoteIdentifier(name string) (string, error) {
	if err := d.ValidateIdentifier(name); err != nil {
		return "", err
	}
	// Escape any existing quote end characters in the name (e.g., ` -> ``)
	escaped := strings.ReplaceAll(name, d.Identifiers.QuoteEnd, d.Identifiers.Escape)
	return d.Identifiers.Quote + escaped + d.Identifiers.QuoteEnd, nil
}

// Qualify quotes every part and joins them with dots: Qualify("p1", "User")
// renders `p1`.`User` in MySQL.
func (d *Dialect) Qualify(parts ...string) (string, error) {
	if len(parts) == 0 {
		return "", &IdentifierError{Reason: "no identifier parts"}
	}
	quoted := make([]string, len(parts))
	for i, p := range parts {
		q, err := d.QuoteIdentifier(p)
		if err != nil {
			return "", err
		}
		quoted[i] = q
	}
	return strings.Join(quoted, "."), nil
}

// ---------- Builder ----------

// Builder provides a fluent API for constructing dialects.
type Builder struct {
	dialect *Dialect
}

// NewDialect creates a new dialect builder with the given name.
func NewDialect(name string) *Builder {
	return &Builder{
		dialect: &Dialect{
			Name: name,
			Identifiers: core.IdentifierConfig{
				Quote:         `"`,
				QuoteEnd:      `"`,
				Escape:        `""`,
				Normalization: core.NormLowercase,
			},
		},
	}
}

// New creates a dialect builder from a DialectConfig.
func New(cfg *core.DialectConfig) *Builder {
	b := NewDialect(cfg.Name)
	b.dialect.Identifiers = cfg.Identifiers
	b.dialect.Placeholder = cfg.Placeholder
	return b
}

// Identifiers configures identifier quoting and normalization.
func (b *Builder) Identifiers(quote, quoteEnd, escape string, norm core.NormalizationStrategy) *Builder {
	b.dialect.Identifiers.Quote = quote
	b.dialect.Identifiers.QuoteEnd = quoteEnd
	b.dialect.Identifiers.Escape = escape
	b.dialect.Identifiers.Normalization = norm
	return b
}

// MaxIdentifierLength sets the maximum identifier length in characters.
func (b *Builder) MaxIdentifierLength(n int) *Builder {
	b.dialect.Identifiers.MaxLength = n
	return b
}

// Build returns the constructed dialect.
func (b *Builder) Build() *Dialect {
	return b.dialect
}
