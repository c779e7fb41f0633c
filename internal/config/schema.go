package config

import (
	"log/slog"
	"strings"
	"time"
)

// Config holds pdfextract configuration.
// Stored at: ~/.pdfextract/config.yaml
type Config struct {
	APIKey     string        `mapstructure:"api_key" yaml:"api_key"`         // API key (supports ${ENV_VAR} syntax)
	BaseURL    string        `mapstructure:"base_url" yaml:"base_url"`       // API root, e.g. https://api.openai.com/v1
	Timeout    time.Duration `mapstructure:"timeout" yaml:"timeout"`         // HTTP timeout, 0 for none
	MaxRetries int           `mapstructure:"max_retries" yaml:"max_retries"` // Extra attempts on 429/5xx/transport errors
	LogLevel   string        `mapstructure:"log_level" yaml:"log_level"`     // debug, info, warn, error
	Document   DocumentCfg   `mapstructure:"document" yaml:"document"`
	Invoice    InvoiceCfg    `mapstructure:"invoice" yaml:"invoice"`
}

// DocumentCfg configures the upload + Responses extraction.
type DocumentCfg struct {
	Model       string `mapstructure:"model" yaml:"model"`
	Instruction string `mapstructure:"instruction" yaml:"instruction"`
	Purpose     string `mapstructure:"purpose" yaml:"purpose"` // Files API purpose tag
}

// InvoiceCfg configures the local-text invoice extraction.
type InvoiceCfg struct {
	Model       string  `mapstructure:"model" yaml:"model"`
	Temperature float64 `mapstructure:"temperature" yaml:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens" yaml:"max_tokens"`
}

// DefaultInstruction asks the model to describe the whole document as JSON.
const DefaultInstruction = `Read the attached PDF and extract its content as a single JSON object.
Choose descriptive keys that reflect the document's own structure (headings, fields, tables, line items).
Use numbers for numeric values and arrays for repeated items.
Respond ONLY with the JSON object.`

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		APIKey:     "${OPENAI_API_KEY}",
		BaseURL:    "https://api.openai.com/v1",
		Timeout:    0,
		MaxRetries: 0,
		LogLevel:   "warn",
		Document: DocumentCfg{
			Model:       "gpt-4o-mini",
			Instruction: DefaultInstruction,
			Purpose:     "user_data",
		},
		Invoice: InvoiceCfg{
			Model:       "gpt-3.5-turbo",
			Temperature: 0.1,
			MaxTokens:   2000,
		},
	}
}

// SlogLevel maps LogLevel to a slog level. Unknown values fall back to warn.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
