package lib

import (
	"fmt"
	"os"

	"github.com/ghodss/yaml"
	"github.com/rs/zerolog"
)

const (
	DefaultPrompt       = "Enter an expression (e.g., 5 + 3) or 'exit|clear': "
	DefaultLogLevel     = "info"
	DefaultHistoryLimit = 100
)

type HistoryConfig struct {
	DSN   string `json:"dsn"`
	Limit int    `json:"limit"`
}

type Config struct {
	Prompt   string        `json:"prompt"`
	LogLevel string        `json:"log_level"`
	LogFile  string        `json:"log_file"`
	History  HistoryConfig `json:"history"`
}

func DefaultConfig() Config {
	return Config{
		Prompt:   DefaultPrompt,
		LogLevel: DefaultLogLevel,
		History: HistoryConfig{
			Limit: DefaultHistoryLimit,
		},
	}
}

// LoadConfig reads a YAML config file over the defaults. An empty path
// returns the defaults.
func LoadConfig(filePath string) (Config, error) {
	cfg := DefaultConfig()
	if filePath == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(filePath)
	if err != nil {
		return Config{}, err
	}

	if err = yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", filePath, err)
	}

	if err = cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", filePath, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.History.Limit < 0 {
		return fmt.Errorf("history.limit must not be negative, got %d", c.History.Limit)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

func (c Config) Level() (zerolog.Level, error) {
	if c.LogLevel == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}
