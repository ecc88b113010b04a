// Package config resolves where feedback attachments and the archive live.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Config holds the settings of the tdmenu command.
type Config struct {
	// FeedbackDir is where attachment files are written.
	FeedbackDir string `yaml:"feedback_dir"`
	// ArchivePath is the DuckDB file recording saved feedback.
	ArchivePath string `yaml:"archive"`
	// Locale is the BCP 47 tag search matching follows.
	Locale    string `yaml:"locale"`
	LogLevel  string `yaml:"log_level"`
	LogPretty bool   `yaml:"log_pretty"`
}

// Default returns a Config writing attachments to the system temp directory
// and archiving to ~/.tdmenu/archive.duckdb.
func Default() Config {
	return Config{
		FeedbackDir: os.TempDir(),
		ArchivePath: filepath.Join(homeDir(), ".tdmenu", "archive.duckdb"),
		Locale:      "und",
		LogLevel:    "warn",
		LogPretty:   true,
	}
}

// DefaultPath is the config file read when none is named.
func DefaultPath() string {
	return filepath.Join(homeDir(), ".tdmenu", "config.yaml")
}

// Load reads path over the defaults and applies environment overrides.
// A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.mergeEnv()

	if _, err := cfg.Tag(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeEnv() {
	if v := os.Getenv("TDMENU_FEEDBACK_DIR"); v != "" {
		c.FeedbackDir = v
	}
	if v := os.Getenv("TDMENU_ARCHIVE"); v != "" {
		c.ArchivePath = v
	}
	if v := os.Getenv("TDMENU_LOCALE"); v != "" {
		c.Locale = v
	}
	if v := os.Getenv("TDMENU_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

// Tag parses Locale. An empty locale is the root locale.
func (c Config) Tag() (language.Tag, error) {
	if c.Locale == "" {
		return language.Und, nil
	}
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.Und, fmt.Errorf("parse locale %q: %w", c.Locale, err)
	}
	return tag, nil
}

func homeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return os.TempDir()
}
