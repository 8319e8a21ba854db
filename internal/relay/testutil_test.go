package relay

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ollamachat/internal/backend"
	"ollamachat/internal/registry"
	"ollamachat/pkg/types"
)

// fakeBackend is an in-memory backend.Backend used by the relay tests.
type fakeBackend struct {
	mu        sync.Mutex
	builds    map[string]int
	failOn    map[string]error
	genErr    error
	block     bool
	prompts   []string
	installed []types.InstalledModel
	pullErr   error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{builds: map[string]int{}, failOn: map[string]error{}}
}

func (f *fakeBackend) NewClient(ctx context.Context, model string) (backend.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.builds[model]++
	if err := f.failOn[model]; err != nil {
		return nil, err
	}
	return &fakeClient{f: f, model: model}, nil
}

func (f *fakeBackend) Version(ctx context.Context) (string, error) { return "test", nil }

func (f *fakeBackend) ListInstalled(ctx context.Context) ([]types.InstalledModel, error) {
	return f.installed, nil
}

func (f *fakeBackend) Pull(ctx context.Context, model string) error { return f.pullErr }

func (f *fakeBackend) buildCount(model string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.builds[model]
}

func (f *fakeBackend) setFail(model string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.failOn, model)
		return
	}
	f.failOn[model] = err
}

func (f *fakeBackend) lastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.prompts) == 0 {
		return ""
	}
	return f.prompts[len(f.prompts)-1]
}

type fakeClient struct {
	f     *fakeBackend
	model string
}

func (c *fakeClient) Model() string { return c.model }

func (c *fakeClient) Invoke(ctx context.Context, prompt string) (string, error) {
	c.f.mu.Lock()
	c.f.prompts = append(c.f.prompts, prompt)
	genErr, block := c.f.genErr, c.f.block
	c.f.mu.Unlock()
	if block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if genErr != nil {
		return "", genErr
	}
	return "reply from " + c.model, nil
}

var errConnRefused = errors.New("connection refused")

// newTestService builds a Service over the default registry and a fake backend.
func newTestService(t *testing.T, fb *fakeBackend, mutate ...func(*Config)) *Service {
	t.Helper()
	cfg := Config{Registry: registry.Default(), Backend: fb}
	for _, m := range mutate {
		m(&cfg)
	}
	s, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return s
}

// testCtx returns a context with a short timeout, canceled on test cleanup.
func testCtx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return c
}
