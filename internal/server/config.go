package server

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// DefaultAddress is the listen address used when no config is supplied.
const DefaultAddress = ":8080"

// LoggingConfig selects logger construction options.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// Config defines runtime parameters for the HTTP server.
type Config struct {
	Address string        `yaml:"address"`
	Logging LoggingConfig `yaml:"logging"`
}

// LoadConfig loads the server configuration from YAML. A missing file returns
// defaults without error.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{Address: DefaultAddress}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read server config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse server config: %w", err)
	}

	if cfg.Address == "" {
		cfg.Address = DefaultAddress
	}
	return cfg, nil
}

// BuildLogger constructs a zap logger from the logging config.
func BuildLogger(cfg LoggingConfig) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zc = zap.NewDevelopmentConfig()
	}
	if cfg.Level != "" {
		level, err := zap.ParseAtomicLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		zc.Level = level
	}
	return zc.Build()
}
