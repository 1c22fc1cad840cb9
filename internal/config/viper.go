// Package config provides Viper-based hierarchical configuration for the
// importer: defaults, an optional config.yaml, BANK_IMPORT_* environment
// variables and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"fjacquet/bank-import/internal/logging"
)

// EnvPrefix prefixes every environment variable read by the importer.
const EnvPrefix = "BANK_IMPORT"

// Config is the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Database struct {
		Path string `mapstructure:"path" yaml:"path"`
	} `mapstructure:"database" yaml:"database"`

	Institutions struct {
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"institutions" yaml:"institutions"`

	Import struct {
		// Reset deletes the database before importing.
		Reset bool `mapstructure:"reset" yaml:"reset"`
	} `mapstructure:"import" yaml:"import"`

	Metrics struct {
		Textfile string `mapstructure:"textfile" yaml:"textfile"`
	} `mapstructure:"metrics" yaml:"metrics"`

	Server struct {
		Addr string `mapstructure:"addr" yaml:"addr"`
	} `mapstructure:"server" yaml:"server"`
}

// flagKeys maps command-line flag names onto configuration keys.
var flagKeys = map[string]string{
	"log-level":    "log.level",
	"log-format":   "log.format",
	"db":           "database.path",
	"maps":         "institutions.file",
	"reset":        "import.reset",
	"metrics-file": "metrics.textfile",
	"addr":         "server.addr",
}

// Options controls where Load looks for configuration.
type Options struct {
	// ConfigFile is an explicit config file; when empty the default search
	// paths are used and a missing file is not an error.
	ConfigFile string
	// Flags, when set, override every other source for the flags in flagKeys
	// that the user actually changed.
	Flags *pflag.FlagSet
}

// Load resolves the configuration from all sources and validates it.
func Load(opts Options) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.bank-import")
		v.AddConfigPath(".bank-import")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if opts.Flags != nil {
		for name, key := range flagKeys {
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag --%s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Default returns the configuration built from defaults only.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults always decode.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("database.path", "finance.db")
	v.SetDefault("institutions.file", "maps.json")
	v.SetDefault("import.reset", true)
	v.SetDefault("metrics.textfile", "")
	v.SetDefault("server.addr", "127.0.0.1:8080")
}

func validateConfig(cfg *Config) error {
	if _, err := logrus.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", cfg.Log.Level)
	}
	if cfg.Log.Format != "text" && cfg.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", cfg.Log.Format)
	}
	if strings.TrimSpace(cfg.Database.Path) == "" {
		return fmt.Errorf("database.path must not be empty")
	}
	if strings.TrimSpace(cfg.Institutions.File) == "" {
		return fmt.Errorf("institutions.file must not be empty")
	}
	if strings.TrimSpace(cfg.Server.Addr) == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	return nil
}

// NewLogger builds the application logger described by cfg.
func NewLogger(cfg *Config) logging.Logger {
	return logging.NewLogrusAdapter(strings.ToLower(cfg.Log.Level), strings.ToLower(cfg.Log.Format))
}
