package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration.
type Config struct {
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Fetch   FetchConfig   `yaml:"fetch" envconfig:"FETCH"`
	Paths   PathsConfig   `yaml:"paths" envconfig:"PATHS"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required"`
}

// FetchConfig controls the data-provider client and batch behavior.
type FetchConfig struct {
	// RequestsPerSecond throttles calls to the provider across the run.
	RequestsPerSecond float64       `yaml:"requests_per_second" envconfig:"REQUESTS_PER_SECOND" validate:"gt=0"`
	Burst             int           `yaml:"burst" envconfig:"BURST" validate:"min=1"`
	Timeout           time.Duration `yaml:"timeout" envconfig:"TIMEOUT" validate:"gt=0"`
	MaxRetries        int           `yaml:"max_retries" envconfig:"MAX_RETRIES" validate:"min=0"`
	RetryBaseDelay    time.Duration `yaml:"retry_base_delay" envconfig:"RETRY_BASE_DELAY" validate:"gt=0"`
	RetryMaxDelay     time.Duration `yaml:"retry_max_delay" envconfig:"RETRY_MAX_DELAY" validate:"gt=0"`
	// Workers bounds in-process concurrency inside one shard.
	Workers int `yaml:"workers" envconfig:"WORKERS" validate:"min=1,max=16"`
	// HistoryStart is the floor for "max" history fetches.
	HistoryStart string `yaml:"history_start" envconfig:"HISTORY_START" validate:"datetime=2006-01-02"`
}

// PathsConfig contains filesystem layout configuration.
type PathsConfig struct {
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR" validate:"required"`
	GroupsFile string `yaml:"groups_file" envconfig:"GROUPS_FILE"`
	ReadmePath string `yaml:"readme_path" envconfig:"README_PATH" validate:"required"`
}

// envPrefix namespaces all environment overrides, e.g. STOCKDATA_FETCH_WORKERS.
const envPrefix = "STOCKDATA"

var validate = validator.New()

// Load builds the configuration in three layers: compiled-in defaults, an
// optional YAML file, then environment variables. Later layers only touch
// the keys they actually set.
func Load() (*Config, error) {
	cfg := *Default()

	if path := findConfigFile(); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// HistoryStartTime parses the configured history floor. An unparsable value
// falls back to the epoch; validation catches it before any fetch runs.
func (c *FetchConfig) HistoryStartTime() time.Time {
	t, err := time.Parse("2006-01-02", c.HistoryStart)
	if err != nil {
		return time.Unix(0, 0).UTC()
	}
	return t.UTC()
}

// findConfigFile returns the first config file found in common locations.
func findConfigFile() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: "logs/updater.log",
		},
		Fetch: FetchConfig{
			RequestsPerSecond: 4,
			Burst:             2,
			Timeout:           30 * time.Second,
			MaxRetries:        3,
			RetryBaseDelay:    time.Second,
			RetryMaxDelay:     30 * time.Second,
			Workers:           4,
			HistoryStart:      "1970-01-01",
		},
		Paths: PathsConfig{
			DataDir:    "data",
			LogsDir:    "logs",
			GroupsFile: "groups.yml",
			ReadmePath: "README.md",
		},
	}
}
