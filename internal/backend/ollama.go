package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"

	"ollamachat/pkg/types"
)

// Ollama implements Backend over the native Ollama REST API. Generation goes
// through langchaingo; the admin endpoints it does not cover (show, tags,
// pull, version) use do.
type Ollama struct {
	baseURL     string
	temperature float64
	verify      bool
	httpClient  *http.Client
}

// NewOllama constructs a native Ollama backend.
func NewOllama(cfg Config) *Ollama {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	return &Ollama{
		baseURL:     base,
		temperature: cfg.Temperature,
		verify:      cfg.VerifyModel,
		httpClient:  newHTTPClient(cfg.ConnectTimeout),
	}
}

type modelRequest struct {
	Model  string `json:"model"`
	Stream bool   `json:"stream"`
}

type tagsResponse struct {
	Models []types.InstalledModel `json:"models"`
}

type errorBody struct {
	Error string `json:"error"`
}

// ollamaClient is bound to one model.
type ollamaClient struct {
	llm         *ollama.LLM
	model       string
	temperature float64
}

func (c *ollamaClient) Model() string { return c.model }

// Invoke sends prompt as a single user message. The configured temperature
// is always sent, 0 included.
func (c *ollamaClient) Invoke(ctx context.Context, prompt string) (string, error) {
	out, err := llms.GenerateFromSinglePrompt(ctx, c.llm, prompt, llms.WithTemperature(c.temperature))
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", err
	}
	return out, nil
}

// NewClient binds a client to model. With VerifyModel set, the model must be
// known to the runtime (POST /api/show).
func (o *Ollama) NewClient(ctx context.Context, model string) (Client, error) {
	model = strings.TrimSpace(model)
	if model == "" {
		return nil, errors.New("model name is required")
	}
	if o.verify {
		if err := o.do(ctx, http.MethodPost, "/api/show", modelRequest{Model: model}, nil); err != nil {
			if IsNotFound(err) {
				return nil, fmt.Errorf("model %q is not installed: %w", model, err)
			}
			return nil, fmt.Errorf("verify model %q: %w", model, err)
		}
	}
	// WithServerURL exits the process on a parse error.
	if _, err := url.Parse(o.baseURL); err != nil {
		return nil, fmt.Errorf("backend url: %w", err)
	}
	llm, err := ollama.New(
		ollama.WithModel(model),
		ollama.WithServerURL(o.baseURL),
		ollama.WithHTTPClient(o.httpClient),
	)
	if err != nil {
		return nil, fmt.Errorf("ollama client for %q: %w", model, err)
	}
	return &ollamaClient{llm: llm, model: model, temperature: o.temperature}, nil
}

func (o *Ollama) Version(ctx context.Context) (string, error) {
	var out struct {
		Version string `json:"version"`
	}
	if err := o.do(ctx, http.MethodGet, "/api/version", nil, &out); err != nil {
		return "", err
	}
	return out.Version, nil
}

func (o *Ollama) ListInstalled(ctx context.Context) ([]types.InstalledModel, error) {
	var out tagsResponse
	if err := o.do(ctx, http.MethodGet, "/api/tags", nil, &out); err != nil {
		return nil, err
	}
	if out.Models == nil {
		out.Models = []types.InstalledModel{}
	}
	return out.Models, nil
}

func (o *Ollama) Pull(ctx context.Context, model string) error {
	model = strings.TrimSpace(model)
	if model == "" {
		return errors.New("model name is required")
	}
	var out struct {
		Status string `json:"status"`
	}
	if err := o.do(ctx, http.MethodPost, "/api/pull", modelRequest{Model: model, Stream: false}, &out); err != nil {
		return err
	}
	if out.Status != "" && out.Status != "success" {
		return fmt.Errorf("pull %s: unexpected status %q", model, out.Status)
	}
	return nil
}

// do sends a JSON request and decodes a JSON answer into out (if non-nil).
func (o *Ollama) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, o.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := o.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		msg := strings.TrimSpace(string(b))
		var eb errorBody
		if json.Unmarshal(b, &eb) == nil && eb.Error != "" {
			msg = eb.Error
		}
		return &StatusError{Status: resp.StatusCode, Msg: msg}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
