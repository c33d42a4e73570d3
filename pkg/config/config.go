// Package config loads pbipdecoder settings from an optional YAML file and
// PBIPDECODER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "PBIPDECODER"

// Sentinel validation errors.
var (
	ErrInvalidFormat   = errors.New("invalid output format")
	ErrInvalidLogLevel = errors.New("invalid log level")
	ErrInvalidDebounce = errors.New("watch debounce must be positive")
	ErrEmptyOutputPath = errors.New("output path must not be empty")
)

var logLevels = []string{"debug", "info", "warn", "error"}

// Config holds all pbipdecoder configuration.
type Config struct {
	Input     InputConfig     `mapstructure:"input"`
	Output    OutputConfig    `mapstructure:"output"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Watch     WatchConfig     `mapstructure:"watch"`
}

// InputConfig selects the report to read.
type InputConfig struct {
	// Report is a PBIP project root, a *.Report folder, or its definition folder.
	Report string `mapstructure:"report"`
	// Pages overrides the discovered pages directory.
	Pages string `mapstructure:"pages"`
	// Bookmarks overrides the discovered bookmarks directory.
	Bookmarks string `mapstructure:"bookmarks"`
	// Strict validates every document envelope before extraction.
	Strict bool `mapstructure:"strict"`
}

// OutputConfig selects where and how tables are written.
type OutputConfig struct {
	Path   string `mapstructure:"path"`
	Format string `mapstructure:"format"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// TelemetryConfig holds OpenTelemetry export settings.
type TelemetryConfig struct {
	OTLPEndpoint    string `mapstructure:"otlp_endpoint"`
	OTLPInsecure    bool   `mapstructure:"otlp_insecure"`
	OTLPHeaders     string `mapstructure:"otlp_headers"`
	MetricsTextfile string `mapstructure:"metrics_textfile"`
}

// WatchConfig holds watch mode settings.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// LoadConfig loads configuration from configPath, or from pbipdecoder.yaml in
// the working directory or $HOME/.config/pbipdecoder when configPath is empty.
// A missing default file is not an error.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(DefaultConfigName)
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")

		if home, err := os.UserHomeDir(); err == nil {
			viperCfg.AddConfigPath(filepath.Join(home, DefaultUserConfigPath))
		}
	}

	viperCfg.SetEnvPrefix(EnvPrefix)
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := config.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("input.report", ".")
	viperCfg.SetDefault("input.pages", "")
	viperCfg.SetDefault("input.bookmarks", "")
	viperCfg.SetDefault("input.strict", false)

	viperCfg.SetDefault("output.path", DefaultOutputPath)
	viperCfg.SetDefault("output.format", DefaultOutputFormat)

	viperCfg.SetDefault("logging.level", DefaultLogLevel)
	viperCfg.SetDefault("logging.json", false)

	viperCfg.SetDefault("telemetry.otlp_endpoint", "")
	viperCfg.SetDefault("telemetry.otlp_insecure", false)
	viperCfg.SetDefault("telemetry.otlp_headers", "")
	viperCfg.SetDefault("telemetry.metrics_textfile", "")

	viperCfg.SetDefault("watch.debounce", DefaultWatchDebounce)
}

// Validate checks values that flags and files can both set. It normalizes
// the format and level to lower case.
func (c *Config) Validate() error {
	c.Output.Format = strings.ToLower(strings.TrimSpace(c.Output.Format))
	if !slices.Contains(Formats, c.Output.Format) {
		return fmt.Errorf("%w: %q (want one of %s)", ErrInvalidFormat, c.Output.Format, strings.Join(Formats, ", "))
	}

	if strings.TrimSpace(c.Output.Path) == "" {
		return ErrEmptyOutputPath
	}

	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if !slices.Contains(logLevels, c.Logging.Level) {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Logging.Level)
	}

	if c.Watch.Debounce <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidDebounce, c.Watch.Debounce)
	}

	return nil
}
