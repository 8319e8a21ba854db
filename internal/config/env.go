package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment override, e.g. OLLAMACHAT_ADDR.
const EnvPrefix = "OLLAMACHAT_"

// LoadDotEnv loads KEY=VALUE files into the process environment without
// overriding variables that are already set. Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overlays OLLAMACHAT_* variables on cfg.
func ApplyEnv(cfg *Config) error {
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok {
			*dst = v
		}
	}
	list := func(key string, dst *[]string) {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok {
			*dst = SplitCSV(v)
		}
	}
	var errs []error
	boolean := func(key string, dst *bool) {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = b
		}
	}
	integer := func(key string, dst *int) {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = n
		}
	}

	str("ADDR", &cfg.Addr)
	str("BACKEND", &cfg.Backend)
	str("BACKEND_URL", &cfg.BackendURL)
	str("API_KEY", &cfg.APIKey)
	str("DEFAULT_MODEL", &cfg.DefaultModel)
	list("MODELS", &cfg.Models)
	boolean("VERIFY_MODELS", &cfg.VerifyModels)
	str("PROMPT_TEMPLATE", &cfg.PromptTemplate)
	str("PROMPT_TEMPLATE_FILE", &cfg.PromptTemplateFile)
	if v, ok := os.LookupEnv(EnvPrefix + "TEMPERATURE"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sTEMPERATURE: %w", EnvPrefix, err))
		} else {
			cfg.Temperature = f
		}
	}
	integer("CHAT_TIMEOUT_SECONDS", &cfg.ChatTimeoutSeconds)
	integer("CONNECT_TIMEOUT_SECONDS", &cfg.ConnectTimeoutSeconds)
	if v, ok := os.LookupEnv(EnvPrefix + "MAX_BODY_BYTES"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sMAX_BODY_BYTES: %w", EnvPrefix, err))
		} else {
			cfg.MaxBodyBytes = n
		}
	}
	boolean("STRICT_ERRORS", &cfg.StrictErrors)
	boolean("CORS_ENABLED", &cfg.CORSEnabled)
	list("CORS_ALLOWED_ORIGINS", &cfg.CORSOrigins)
	list("CORS_ALLOWED_METHODS", &cfg.CORSMethods)
	list("CORS_ALLOWED_HEADERS", &cfg.CORSHeaders)
	boolean("CORS_ALLOW_CREDENTIALS", &cfg.CORSCredentials)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("LOG_FORMAT", &cfg.LogFormat)
	str("HTTP_LOG_LEVEL", &cfg.HTTPLogLevel)
	return errors.Join(errs...)
}

// SplitCSV splits a comma separated list, trimming blanks and dropping empty
// items.
func SplitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
