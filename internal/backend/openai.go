package backend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"ollamachat/pkg/types"
)

// OpenAI implements Backend over an OpenAI-compatible API. Pointed at Ollama,
// BaseURL is the Ollama root and "/v1" is appended.
type OpenAI struct {
	client      *openai.Client
	temperature float32
	verify      bool
}

// NewOpenAI constructs an OpenAI-compatible backend.
func NewOpenAI(cfg Config) *OpenAI {
	key := cfg.APIKey
	if key == "" {
		// Ollama ignores the key but go-openai always sends the header.
		key = "ollama"
	}
	oc := openai.DefaultConfig(key)
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	if !strings.HasSuffix(base, "/v1") {
		base += "/v1"
	}
	oc.BaseURL = base
	oc.HTTPClient = newHTTPClient(cfg.ConnectTimeout)
	return &OpenAI{
		client:      openai.NewClientWithConfig(oc),
		temperature: float32(cfg.Temperature),
		verify:      cfg.VerifyModel,
	}
}

type openAIClient struct {
	o     *OpenAI
	model string
}

func (c *openAIClient) Model() string { return c.model }

func (c *openAIClient) Invoke(ctx context.Context, prompt string) (string, error) {
	resp, err := c.o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.o.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", translateOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no chat choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

func (o *OpenAI) NewClient(ctx context.Context, model string) (Client, error) {
	model = strings.TrimSpace(model)
	if model == "" {
		return nil, errors.New("model name is required")
	}
	if o.verify {
		if _, err := o.client.GetModel(ctx, model); err != nil {
			err = translateOpenAIError(err)
			if IsNotFound(err) {
				return nil, fmt.Errorf("model %q is not installed: %w", model, err)
			}
			return nil, fmt.Errorf("verify model %q: %w", model, err)
		}
	}
	return &openAIClient{o: o, model: model}, nil
}

// Version has no OpenAI equivalent; a successful model listing stands in for reachability.
func (o *OpenAI) Version(ctx context.Context) (string, error) {
	if _, err := o.client.ListModels(ctx); err != nil {
		return "", translateOpenAIError(err)
	}
	return "openai-compatible", nil
}

func (o *OpenAI) ListInstalled(ctx context.Context) ([]types.InstalledModel, error) {
	list, err := o.client.ListModels(ctx)
	if err != nil {
		return nil, translateOpenAIError(err)
	}
	out := make([]types.InstalledModel, 0, len(list.Models))
	for _, m := range list.Models {
		im := types.InstalledModel{Name: m.ID}
		if m.CreatedAt > 0 {
			im.ModifiedAt = time.Unix(m.CreatedAt, 0).UTC().Format(time.RFC3339)
		}
		out = append(out, im)
	}
	return out, nil
}

func (o *OpenAI) Pull(ctx context.Context, model string) error {
	return fmt.Errorf("pull %s: %w", model, ErrUnsupported)
}

// translateOpenAIError maps go-openai HTTP errors onto StatusError so callers
// can treat both backend kinds alike.
func translateOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return &StatusError{Status: apiErr.HTTPStatusCode, Msg: apiErr.Message}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		msg := ""
		if reqErr.Err != nil {
			msg = reqErr.Err.Error()
		}
		return &StatusError{Status: reqErr.HTTPStatusCode, Msg: msg}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("openai backend: %w", err)
}
