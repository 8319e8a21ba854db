// Package backend talks to the local inference runtime that generates text.
//
// A Backend produces Clients bound to a single model. Two kinds exist:
//
//   - ollama: native Ollama API; chat via langchaingo, /api/show, /api/tags, /api/pull direct.
//   - openai: OpenAI-compatible chat completions, e.g. Ollama's /v1 surface.
package backend

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"ollamachat/pkg/types"
)

// Kinds accepted by New.
const (
	KindOllama = "ollama"
	KindOpenAI = "openai"
)

// DefaultBaseURL is where a local Ollama listens.
const DefaultBaseURL = "http://127.0.0.1:11434"

// Client invokes one model.
type Client interface {
	// Model returns the model name this client is bound to.
	Model() string
	// Invoke sends prompt and blocks until the full generated text is available.
	Invoke(ctx context.Context, prompt string) (string, error)
}

// Backend builds model clients and exposes runtime administration.
type Backend interface {
	// NewClient binds a client to model. It may contact the runtime to verify the model exists.
	NewClient(ctx context.Context, model string) (Client, error)
	// Version reports the runtime version; an error means the runtime is unreachable.
	Version(ctx context.Context) (string, error)
	// ListInstalled lists models present in the runtime.
	ListInstalled(ctx context.Context) ([]types.InstalledModel, error)
	// Pull downloads model into the runtime and blocks until done.
	Pull(ctx context.Context, model string) error
}

// Config holds settings shared by all backend kinds.
type Config struct {
	Kind    string
	BaseURL string
	// APIKey is sent as a bearer token by the openai kind. Ollama ignores it.
	APIKey      string
	Temperature float64
	// VerifyModel makes NewClient fail when the runtime does not know the model.
	VerifyModel    bool
	ConnectTimeout time.Duration
}

// ErrUnsupported is returned by operations a backend kind cannot perform.
var ErrUnsupported = errors.New("operation not supported by backend")

// New constructs the backend named by cfg.Kind (default ollama).
func New(cfg Config) (Backend, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 5 * time.Second
	}
	switch strings.ToLower(cfg.Kind) {
	case "", KindOllama:
		return NewOllama(cfg), nil
	case KindOpenAI:
		return NewOpenAI(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported backend kind: %s", cfg.Kind)
	}
}

// newHTTPClient returns a client without an overall timeout; every request
// carries its deadline through its context.
func newHTTPClient(connectTimeout time.Duration) *http.Client {
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   connectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &http.Client{Transport: tr, Timeout: 0}
}

// StatusError is a non-2xx answer from the runtime.
type StatusError struct {
	Status int
	Msg    string
}

func (e *StatusError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("backend http error: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("backend http error: %d %s: %s", e.Status, http.StatusText(e.Status), e.Msg)
}

// IsNotFound reports whether err is a 404 from the runtime.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == http.StatusNotFound
}
