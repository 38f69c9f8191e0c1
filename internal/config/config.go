// Package config provides configuration types and helpers for bleep.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/bimmerbailey/bleep/internal/dictionary"
	"github.com/bimmerbailey/bleep/internal/filter"
	"github.com/spf13/viper"
)

// Config holds the application-wide configuration.
type Config struct {
	Format   string `mapstructure:"format"`
	Verbose  bool   `mapstructure:"verbose"`
	LogLevel string `mapstructure:"log_level"`

	// Dictionary is a word list file that replaces the built-in one.
	// Empty means use the built-in dictionary.
	Dictionary string `mapstructure:"dictionary"`

	Filter filter.Options `mapstructure:"filter"`
	LLM    LLMConfig      `mapstructure:"llm"`
}

// LLMConfig holds configuration for the optional LLM judge.
type LLMConfig struct {
	// Enabled turns on the judge as a custom match predicate.
	Enabled bool `mapstructure:"enabled"`

	Temperature float32 `mapstructure:"temperature"`

	Ollama OllamaConfig `mapstructure:"ollama"`
}

// OllamaConfig holds Ollama-specific settings.
type OllamaConfig struct {
	Host      string `mapstructure:"host"`       // API endpoint
	Model     string `mapstructure:"model"`      // Default model name
	KeepAlive string `mapstructure:"keep_alive"` // e.g., "5m"
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	defaults := filter.DefaultOptions()

	v.SetDefault("format", "text")
	v.SetDefault("verbose", false)
	v.SetDefault("log_level", "error")
	v.SetDefault("dictionary", "")

	v.SetDefault("filter.placeholder", defaults.Placeholder)
	v.SetDefault("filter.case_sensitive", defaults.CaseSensitive)
	v.SetDefault("filter.whole_words_only", defaults.WholeWordsOnly)
	v.SetDefault("filter.exceptions", []string{})
	v.SetDefault("filter.keep_first_and_last_char", defaults.KeepFirstAndLastChar)
	v.SetDefault("filter.replace_partial_words", defaults.ReplacePartialWords)
	v.SetDefault("filter.include_punctuation", defaults.IncludePunctuation)
	v.SetDefault("filter.minimum_word_length", defaults.MinimumWordLength)
	v.SetDefault("filter.custom_bad_words", []string{})

	v.SetDefault("llm.enabled", false)
	v.SetDefault("llm.temperature", 0)
	v.SetDefault("llm.ollama.host", "")
	v.SetDefault("llm.ollama.model", "llama3.2")
}

// Load unmarshals v into a Config. Options missing from v keep the
// engine defaults.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{Filter: filter.DefaultOptions()}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// Words returns the base dictionary: the configured file when set,
// otherwise the built-in list.
func (c *Config) Words() ([]string, error) {
	if c.Dictionary == "" {
		return dictionary.Builtin(), nil
	}
	words, err := dictionary.LoadFile(c.Dictionary)
	if err != nil {
		return nil, fmt.Errorf("load dictionary: %w", err)
	}
	return words, nil
}

// ParseLevel converts a string to a slog.Level. Unknown values map to
// slog.LevelError so a typo never makes the tool chatty.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug", "dbg":
		return slog.LevelDebug
	case "info", "inf":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// Level returns the effective log level. Verbose forces debug output.
func (c *Config) Level() slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	return ParseLevel(c.LogLevel)
}
