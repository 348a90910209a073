package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

type Config struct {
	Format      string         `yaml:"format"`
	LogLevel    string         `yaml:"logLevel"`
	Diagnostics bool           `yaml:"diagnostics"`
	Extensions  []string       `yaml:"extensions"`
	Database    DatabaseConfig `yaml:"database"`
	Watch       WatchConfig    `yaml:"watch"`
}

func Default() Config {
	return Config{
		Format:     "text",
		LogLevel:   "info",
		Extensions: []string{".c", ".h"},
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "tokens.db",
		},
		Watch: WatchConfig{
			Debounce: 100 * time.Millisecond,
		},
	}
}

// LoadConfig reads file over the defaults. Keys missing from the file keep
// their default values.
func LoadConfig(file string) (Config, error) {
	yfile, err := os.ReadFile(file)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read file %q: %w", file, err)
	}

	config := Default()
	err = yaml.Unmarshal(yfile, &config)
	if err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal: %w", err)
	}
	return config, nil
}

func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

func (c Config) NewLogger() (*slog.Logger, error) {
	level, err := c.SlogLevel()
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})), nil
}
