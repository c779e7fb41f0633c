package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

// ErrMissingAPIKey is returned when no API key could be resolved.
var ErrMissingAPIKey = errors.New("OpenAI API key not found: set OPENAI_API_KEY, add it to .env or a config file, or pass --api-key")

// ErrEmptyInstruction is returned when document.instruction is set to an empty string.
var ErrEmptyInstruction = errors.New("document.instruction must not be empty")

// EnvPrefix is the prefix for environment variable overrides (PDFEXTRACT_BASE_URL, ...).
const EnvPrefix = "PDFEXTRACT"

// Options controls where configuration is read from.
type Options struct {
	// ConfigFile is an explicit config file. When empty, config.yaml is looked
	// up in the working directory and then in SearchDir.
	ConfigFile string
	// SearchDir is an extra directory searched for config.yaml (the home dir).
	SearchDir string
	// DotEnvFile is loaded into the process environment before resolving
	// ${ENV_VAR} references. Variables already set are not overridden.
	DotEnvFile string
	// APIKey overrides every other api_key source when non-empty.
	APIKey string
}

// Load reads defaults, the optional config file and PDFEXTRACT_* environment
// variables, resolves ${ENV_VAR} references and validates the result.
// It fails with ErrMissingAPIKey before anything touches the network.
func Load(opts Options) (*Config, error) {
	if opts.DotEnvFile != "" {
		if err := LoadDotEnv(opts.DotEnvFile); err != nil {
			return nil, err
		}
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if opts.SearchDir != "" {
			v.AddConfigPath(opts.SearchDir)
		}
	}

	// Config file is optional unless named explicitly
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if opts.APIKey != "" {
		cfg.APIKey = opts.APIKey
	}
	cfg.APIKey = strings.TrimSpace(ResolveEnvVars(cfg.APIKey))
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if strings.TrimSpace(cfg.Document.Instruction) == "" {
		return nil, ErrEmptyInstruction
	}

	return &cfg, nil
}

// setDefaults registers every leaf key so env overrides apply to nested keys.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("api_key", d.APIKey)
	v.SetDefault("base_url", d.BaseURL)
	v.SetDefault("timeout", d.Timeout)
	v.SetDefault("max_retries", d.MaxRetries)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("document.model", d.Document.Model)
	v.SetDefault("document.instruction", d.Document.Instruction)
	v.SetDefault("document.purpose", d.Document.Purpose)
	v.SetDefault("invoice.model", d.Invoice.Model)
	v.SetDefault("invoice.temperature", d.Invoice.Temperature)
	v.SetDefault("invoice.max_tokens", d.Invoice.MaxTokens)
}

// LoadDotEnv reads KEY=value pairs from path into the process environment.
// A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading %s: %w", path, err)
	}

	for _, key := range v.AllKeys() {
		name := strings.ToUpper(key)
		if _, set := os.LookupEnv(name); set {
			continue
		}
		if err := os.Setenv(name, v.GetString(key)); err != nil {
			return fmt.Errorf("failed to set %s: %w", name, err)
		}
	}
	return nil
}

var envRefPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// ResolveEnvVars expands ${ENV_VAR} references in a string.
func ResolveEnvVars(value string) string {
	if value == "" {
		return value
	}
	return envRefPattern.ReplaceAllStringFunc(value, func(match string) string {
		varName := match[2 : len(match)-1]
		return os.Getenv(varName)
	})
}

// WriteDefault writes the default configuration to the specified path.
func WriteDefault(path string) error {
	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# pdfextract configuration
# api_key uses ${ENV_VAR} syntax to reference environment variables
# Set it in your shell (export OPENAI_API_KEY=xxx) or in a .env file
# Any key can be overridden with PDFEXTRACT_<KEY>, e.g. PDFEXTRACT_DOCUMENT_MODEL

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}
