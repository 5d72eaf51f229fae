package types

// Default classification settings.
const (
	// DefaultSubject is the Library of Congress subject heading for Cairo
	// Genizah material.
	DefaultSubject = "http://id.loc.gov/authorities/subjects/sh85018717.html"

	// DefaultKeyword is matched case-insensitively against item titles.
	DefaultKeyword = "medical"
)

// OutputFormat selects the record writer.
type OutputFormat string

const (
	FormatCSV   OutputFormat = "csv"
	FormatJSON  OutputFormat = "json"
	FormatYAML  OutputFormat = "yaml"
	FormatTable OutputFormat = "table"
	FormatXLSX  OutputFormat = "xlsx"

	// FormatSQLite writes a records table into a database file and so
	// needs an output path.
	FormatSQLite OutputFormat = "sqlite"
)

// LogConfig holds diagnostic logging settings.
type LogConfig struct {
	// Level is the minimum level written to stderr (debug, info, warn, error).
	Level string `json:"level" yaml:"level"`

	// Format is the encoding: "console" (default) or "json".
	Format string `json:"format" yaml:"format"`
}

// FilterConfig holds the classification filter settings.
type FilterConfig struct {
	// Subject is the keyword ref target that marks a Genizah item.
	Subject string `json:"subject" yaml:"subject"`

	// Keyword must appear in the lowercased item title.
	Keyword string `json:"keyword" yaml:"keyword"`

	// All disables the filter so every parsed document yields a record.
	All bool `json:"all" yaml:"all"`
}

// ExtractConfig holds settings for the extract stage.
type ExtractConfig struct {
	Filter FilterConfig `json:"filter" yaml:"filter"`

	// Format selects the output writer (default csv).
	Format OutputFormat `json:"format" yaml:"format"`

	// Output is the destination file; empty means stdout.
	Output string `json:"output,omitempty" yaml:"output,omitempty"`
}

// SetDefaults fills unset fields with default values.
func (c *ExtractConfig) SetDefaults() {
	if c.Filter.Subject == "" {
		c.Filter.Subject = DefaultSubject
	}
	if c.Filter.Keyword == "" {
		c.Filter.Keyword = DefaultKeyword
	}
	if c.Format == "" {
		c.Format = FormatCSV
	}
}
