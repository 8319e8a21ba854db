// Package app wires configuration, backend, relay and HTTP layer together.
package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"ollamachat/internal/backend"
	"ollamachat/internal/config"
	"ollamachat/internal/httpapi"
	"ollamachat/internal/prompt"
	"ollamachat/internal/registry"
	"ollamachat/internal/relay"
)

// App is a fully wired relay ready to be served.
type App struct {
	Config  config.Config
	Relay   *relay.Service
	Handler http.Handler
	Logger  zerolog.Logger
}

// NewLogger builds the process logger. format is "json", "console" or empty
// for console on a terminal and JSON otherwise.
func NewLogger(w io.Writer, level, format string) (zerolog.Logger, error) {
	lvl := zerolog.InfoLevel
	if strings.TrimSpace(level) != "" {
		var err error
		if lvl, err = zerolog.ParseLevel(strings.ToLower(level)); err != nil {
			return zerolog.Nop(), fmt.Errorf("log level: %w", err)
		}
	}
	switch strings.ToLower(format) {
	case "json":
	case "console":
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	case "":
		if isTerminal(w) {
			w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
		}
	default:
		return zerolog.Nop(), fmt.Errorf("unknown log format %q", format)
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	st, err := f.Stat()
	return err == nil && st.Mode()&os.ModeCharDevice != 0
}

// New validates cfg and builds the relay and its HTTP handler. The HTTP layer
// is configured through its package-level setters, so only one App should be
// served per process.
func New(ctx context.Context, cfg config.Config, log zerolog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	reg, err := registry.New(cfg.Models)
	if err != nil {
		return nil, err
	}
	tmpl := prompt.Default()
	text, err := cfg.PromptTemplateText()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) != "" {
		if tmpl, err = prompt.Parse(text); err != nil {
			return nil, err
		}
	}
	be, err := backend.New(backend.Config{
		Kind:           cfg.Backend,
		BaseURL:        cfg.BackendURL,
		APIKey:         cfg.APIKey,
		Temperature:    cfg.Temperature,
		VerifyModel:    cfg.VerifyModels,
		ConnectTimeout: time.Duration(cfg.ConnectTimeoutSeconds) * time.Second,
	})
	if err != nil {
		return nil, err
	}
	svc, err := relay.New(ctx, relay.Config{
		Registry:     reg,
		Backend:      be,
		DefaultModel: cfg.DefaultModel,
		Template:     &tmpl,
		ChatTimeout:  time.Duration(cfg.ChatTimeoutSeconds) * time.Second,
		Logger:       &log,
	})
	if err != nil {
		return nil, err
	}

	httpapi.SetLogger(log)
	httpapi.SetRequestLogLevel(cfg.HTTPLogLevel)
	httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
	httpapi.SetStrictErrors(cfg.StrictErrors)
	httpapi.SetCORSOptions(cfg.CORSEnabled, cfg.CORSOrigins, cfg.CORSMethods, cfg.CORSHeaders, cfg.CORSCredentials)

	return &App{Config: cfg, Relay: svc, Handler: httpapi.NewMux(svc), Logger: log}, nil
}
