// Package config loads server settings from an optional YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the server settings.
type Config struct {
	Addr         string        `yaml:"addr"`
	DataDir      string        `yaml:"data_dir"`
	InMemory     bool          `yaml:"in_memory"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	Log          Log           `yaml:"log"`
}

// Log selects the log level ("debug", "info", "warn", "error") and format
// ("text" or "json").
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in settings. An empty DataDir means the platform
// data directory.
func Default() Config {
	return Config{
		Addr:         ":8080",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		Log: Log{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load returns the defaults, overlaid by the YAML file at path (skipped when
// path is empty), then by CHESSPLAY_* environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, err
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("%s: %w", path, err)
		}
	}

	cfg.Addr = getenv("CHESSPLAY_ADDR", cfg.Addr)
	cfg.DataDir = getenv("CHESSPLAY_DATA_DIR", cfg.DataDir)
	cfg.InMemory = getenb("CHESSPLAY_IN_MEMORY", cfg.InMemory)
	cfg.Log.Level = getenv("CHESSPLAY_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getenv("CHESSPLAY_LOG_FORMAT", cfg.Log.Format)

	return cfg, cfg.Validate()
}

// Validate reports settings that cannot be used.
func (c Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr is empty"))
	}
	if c.ReadTimeout < 0 || c.WriteTimeout < 0 {
		errs = append(errs, errors.New("timeouts must not be negative"))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log level %q", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenb(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "t", "yes", "y", "on":
			return true
		case "0", "false", "f", "no", "n", "off":
			return false
		}
	}
	return def
}
