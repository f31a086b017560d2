package core

// DialectConfig holds the static configuration for a SQL dialect.
// This is pure data with no behavior.
//
// Quoting, qualification and validation live in pkg/dialect.Dialect,
// which is built from this config.
type DialectConfig struct {
	// Name is the dialect identifier (e.g., "mysql")
	Name string

	// Identifiers defines quoting, normalization and length rules
	Identifiers IdentifierConfig

	// Placeholder defines how query parameters are formatted
	Placeholder PlaceholderStyle
}

// NormalizationStrategy is how an engine folds the case of unquoted names.
type NormalizationStrategy int

const (
	// NormLowercase folds unquoted names to lowercase.
	NormLowercase NormalizationStrategy = iota
	// NormUppercase folds unquoted names to uppercase.
	NormUppercase
	// NormCaseSensitive keeps names as written. MySQL table names on Linux behave this way.
	NormCaseSensitive
	// NormCaseInsensitive compares names in lowercase but stores them as written.
	NormCaseInsensitive
)

func (n NormalizationStrategy) String() string {
	switch n {
	case NormLowercase:
		return "lowercase"
	case NormUppercase:
		return "uppercase"
	case NormCaseSensitive:
		return "case_sensitive"
	case NormCaseInsensitive:
		return "case_insensitive"
	default:
		return "unknown"
	}
}

// PlaceholderStyle is the bind parameter syntax of an engine.
type PlaceholderStyle int

const (
	// PlaceholderQuestion binds every parameter as ?.
	PlaceholderQuestion PlaceholderStyle = iota
	// PlaceholderDollar binds parameters as $1, $2 and so on.
	PlaceholderDollar
)

// IdentifierConfig describes identifier quoting and limits.
type IdentifierConfig struct {
	// Quote and QuoteEnd delimit a quoted identifier. QuoteEnd is usually Quote.
	Quote    string
	QuoteEnd string
	// Escape replaces QuoteEnd inside a quoted identifier, e.g. ``.
	Escape        string
	Normalization NormalizationStrategy
	// MaxLength is the longest identifier in characters, 0 for unlimited.
	MaxLength int
}
