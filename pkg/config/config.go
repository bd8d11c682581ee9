// Package config provides configuration management for the heapsnap tool.
package config

import (
	"bytes"
	"os"
	"strings"

	"github.com/spf13/viper"

	apperrors "github.com/heap-snapshot/pkg/errors"
)

// EnvPrefix is the prefix of environment variables that override the
// config file, e.g. HEAPSNAP_STORAGE_BUCKET.
const EnvPrefix = "HEAPSNAP"

// Config holds all configuration for the application.
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Storage StorageConfig `mapstructure:"storage"`
	Report  ReportConfig  `mapstructure:"report"`
	Inspect InspectConfig `mapstructure:"inspect"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"` // empty logs to stdout
}

// StorageConfig holds the snapshot source configuration.
type StorageConfig struct {
	Type      string `mapstructure:"type"` // cos or local
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	SecretID  string `mapstructure:"secret_id"`
	SecretKey string `mapstructure:"secret_key"`
	Domain    string `mapstructure:"domain"`     // e.g., "myqcloud.com"
	Scheme    string `mapstructure:"scheme"`     // e.g., "https" or "http"
	Endpoint  string `mapstructure:"endpoint"`   // full bucket URL, overrides bucket/region/domain
	LocalPath string `mapstructure:"local_path"` // for local storage
}

// ReportConfig holds summary report configuration.
type ReportConfig struct {
	TopN int `mapstructure:"top_n"`
}

// InspectConfig holds settings for multi-file inspection.
type InspectConfig struct {
	MaxParallel int    `mapstructure:"max_parallel"`
	OutputDir   string `mapstructure:"output_dir"`
}

// Load reads configuration from the specified file path. A missing file
// yields the defaults.
func Load(configPath string) (*Config, error) {
	v := newViper()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("heapsnap")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/heapsnap")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, apperrors.Wrap(apperrors.CodeConfigError, "failed to read config file", err)
		}
	}

	return unmarshal(v)
}

// LoadFromReader loads configuration from content (useful for testing).
func LoadFromReader(configType string, content []byte) (*Config, error) {
	v := newViper()

	v.SetConfigType(configType)
	if err := v.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeConfigError, "failed to read config", err)
	}

	return unmarshal(v)
}

// Default returns the built-in configuration, ignoring files and environment.
func Default() *Config {
	return &Config{
		Log:     LogConfig{Level: "info"},
		Storage: StorageConfig{Type: "local", LocalPath: "."},
		Report:  ReportConfig{TopN: 15},
		Inspect: InspectConfig{MaxParallel: 4},
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeConfigError, "failed to unmarshal config", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults sets default configuration values. Every key is registered
// so that environment overrides reach Unmarshal.
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.output_path", "")

	// Storage defaults
	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.local_path", ".")
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.region", "")
	v.SetDefault("storage.secret_id", "")
	v.SetDefault("storage.secret_key", "")
	v.SetDefault("storage.domain", "")
	v.SetDefault("storage.scheme", "")
	v.SetDefault("storage.endpoint", "")

	// Report defaults
	v.SetDefault("report.top_n", 15)

	// Inspect defaults
	v.SetDefault("inspect.max_parallel", 4)
	v.SetDefault("inspect.output_dir", "")
}

// Validate validates the configuration. Storage settings are validated
// by the storage package when a backend is created.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return apperrors.Newf(apperrors.CodeConfigError, "unsupported log level: %s", c.Log.Level)
	}

	if c.Report.TopN < 0 {
		return apperrors.Newf(apperrors.CodeConfigError, "report top_n must not be negative: %d", c.Report.TopN)
	}

	if c.Inspect.MaxParallel < 1 {
		return apperrors.New(apperrors.CodeConfigError, "inspect max_parallel must be at least 1")
	}

	return nil
}
