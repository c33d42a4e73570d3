package config

import "time"

// Output formats.
const (
	FormatXLSX  = "xlsx"
	FormatCSV   = "csv"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatTable = "table"
)

// Default configuration values.
const (
	DefaultOutputPath     = "pages and bookmarks log.xlsx"
	DefaultOutputFormat   = FormatXLSX
	DefaultLogLevel       = "info"
	DefaultWatchDebounce  = 500 * time.Millisecond
	DefaultConfigName     = "pbipdecoder"
	DefaultUserConfigPath = ".config/pbipdecoder"
)

// Formats lists every supported output format.
var Formats = []string{FormatXLSX, FormatCSV, FormatJSON, FormatYAML, FormatTable}
