package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"ollamachat/internal/app"
	"ollamachat/internal/backend/ollamatest"
	"ollamachat/internal/config"
	"ollamachat/pkg/types"
)

// allModels is the default registry; every entry is installed in the fake runtime.
var allModels = []string{"deepseek-coder-v2", "codellama:7b", "codellama:13b", "llama3:8b", "mistral:7b"}

// newStack starts a fake Ollama with installed models and an ollamachat
// server in front of it.
func newStack(t *testing.T, installed []string, mutate ...func(*config.Config)) (*httptest.Server, *ollamatest.Server) {
	t.Helper()
	ollama := ollamatest.NewServer(installed...)
	t.Cleanup(ollama.Close)

	cfg := config.Defaults()
	cfg.BackendURL = ollama.URL
	for _, m := range mutate {
		m(&cfg)
	}
	a, err := app.New(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("app: %v", err)
	}
	srv := httptest.NewServer(a.Handler)
	t.Cleanup(srv.Close)
	return srv, ollama
}

func httpGet(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}

func httpPostJSON(t *testing.T, url string, payload []byte) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}

func chat(t *testing.T, base string, req types.ChatRequest) (int, string) {
	t.Helper()
	payload, _ := json.Marshal(req)
	resp, body := httpPostJSON(t, base+"/api/chat", payload)
	var out types.ChatResponse
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("chat json: %v body=%q", err, body)
	}
	return resp.StatusCode, out.Response
}

func models(t *testing.T, base string) types.ModelInfoResponse {
	t.Helper()
	resp, body := httpGet(t, base+"/api/models")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/api/models status=%d", resp.StatusCode)
	}
	var out types.ModelInfoResponse
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("models json: %v", err)
	}
	return out
}
