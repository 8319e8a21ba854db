package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"ollamachat/internal/backend"
	"ollamachat/internal/registry"
)

// Config holds runtime parameters for the service. Load, ApplyEnv and the
// command line flags are applied on top of Defaults, in that order.
type Config struct {
	Addr string `json:"addr" yaml:"addr" toml:"addr"`

	Backend    string `json:"backend" yaml:"backend" toml:"backend"`
	BackendURL string `json:"backend_url" yaml:"backend_url" toml:"backend_url"`
	APIKey     string `json:"api_key" yaml:"api_key" toml:"api_key"`

	DefaultModel string   `json:"default_model" yaml:"default_model" toml:"default_model"`
	Models       []string `json:"models" yaml:"models" toml:"models"`
	VerifyModels bool     `json:"verify_models" yaml:"verify_models" toml:"verify_models"`

	PromptTemplate     string  `json:"prompt_template" yaml:"prompt_template" toml:"prompt_template"`
	PromptTemplateFile string  `json:"prompt_template_file" yaml:"prompt_template_file" toml:"prompt_template_file"`
	Temperature        float64 `json:"temperature" yaml:"temperature" toml:"temperature"`

	ChatTimeoutSeconds    int   `json:"chat_timeout_seconds" yaml:"chat_timeout_seconds" toml:"chat_timeout_seconds"`
	ConnectTimeoutSeconds int   `json:"connect_timeout_seconds" yaml:"connect_timeout_seconds" toml:"connect_timeout_seconds"`
	MaxBodyBytes          int64 `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
	StrictErrors          bool  `json:"strict_errors" yaml:"strict_errors" toml:"strict_errors"`

	CORSEnabled     bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	CORSOrigins     []string `json:"cors_allowed_origins" yaml:"cors_allowed_origins" toml:"cors_allowed_origins"`
	CORSMethods     []string `json:"cors_allowed_methods" yaml:"cors_allowed_methods" toml:"cors_allowed_methods"`
	CORSHeaders     []string `json:"cors_allowed_headers" yaml:"cors_allowed_headers" toml:"cors_allowed_headers"`
	CORSCredentials bool     `json:"cors_allow_credentials" yaml:"cors_allow_credentials" toml:"cors_allow_credentials"`

	LogLevel     string `json:"log_level" yaml:"log_level" toml:"log_level"`
	LogFormat    string `json:"log_format" yaml:"log_format" toml:"log_format"`
	HTTPLogLevel string `json:"http_log_level" yaml:"http_log_level" toml:"http_log_level"`
}

// Defaults returns the configuration used when nothing else is specified.
func Defaults() Config {
	return Config{
		Addr:            "127.0.0.1:8000",
		Backend:         backend.KindOllama,
		BackendURL:      backend.DefaultBaseURL,
		DefaultModel:    registry.DefaultModel,
		Models:          append([]string(nil), registry.DefaultNames...),
		VerifyModels:    true,
		Temperature:     0.7,
		MaxBodyBytes:    1 << 20,
		CORSEnabled:     true,
		CORSOrigins:     []string{"*"},
		CORSHeaders:     []string{"*"},
		CORSCredentials: true,
		LogLevel:        "info",
		HTTPLogLevel:    "info",
	}
}

// Load reads a configuration file based on its extension and overlays it on
// Defaults. Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	path, err := ExpandHome(path)
	if err != nil {
		return cfg, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &cfg)
	case ".json":
		err = json.Unmarshal(b, &cfg)
	case ".toml":
		err = toml.Unmarshal(b, &cfg)
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	if err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	switch strings.ToLower(c.Backend) {
	case "", backend.KindOllama, backend.KindOpenAI:
	default:
		return fmt.Errorf("unknown backend %q (want %s or %s)", c.Backend, backend.KindOllama, backend.KindOpenAI)
	}
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("addr must not be empty")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature %v out of range [0, 2]", c.Temperature)
	}
	if c.ChatTimeoutSeconds < 0 || c.ConnectTimeoutSeconds < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	if c.PromptTemplate != "" && c.PromptTemplateFile != "" {
		return fmt.Errorf("prompt_template and prompt_template_file are mutually exclusive")
	}
	return nil
}
