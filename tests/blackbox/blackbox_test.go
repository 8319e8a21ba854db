package blackbox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"testing"
	"time"

	"ollamachat/internal/backend/ollamatest"
	"ollamachat/pkg/types"
)

// findFreePort picks an available TCP port on localhost.
func findFreePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}

func projectRootFromThisFile(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("runtime.Caller failed")
	}
	// this file: <root>/tests/blackbox/blackbox_test.go
	return filepath.Dir(filepath.Dir(filepath.Dir(thisFile)))
}

func buildBinary(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("builds the binary")
	}
	binPath := filepath.Join(t.TempDir(), "ollamachat")
	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/ollamachat")
	cmd.Dir = projectRootFromThisFile(t)
	cmd.Env = append(os.Environ(), "CGO_ENABLED=0")
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("go build failed: %v\n%s", err, string(out))
	}
	return binPath
}

type serverProc struct {
	cmd  *exec.Cmd
	base string
}

func startServer(t *testing.T, bin string, args ...string) *serverProc {
	t.Helper()
	port := findFreePort(t)
	base := fmt.Sprintf("http://127.0.0.1:%d", port)
	args = append([]string{"serve", "--addr", fmt.Sprintf("127.0.0.1:%d", port), "--env-file", "", "--log-format", "json"}, args...)
	cmd := exec.Command(bin, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		t.Fatalf("start server: %v", err)
	}
	t.Cleanup(func() { _ = cmd.Process.Kill(); _, _ = cmd.Process.Wait() })

	deadline := time.Now().Add(5 * time.Second)
	for {
		resp, err := http.Get(base + "/healthz")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				break
			}
		}
		if time.Now().After(deadline) {
			t.Fatalf("server did not become healthy in time")
		}
		time.Sleep(50 * time.Millisecond)
	}
	return &serverProc{cmd: cmd, base: base}
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	b, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, b
}

func postJSON(t *testing.T, url string, payload []byte) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	b, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, b
}

func TestBlackbox_Flow(t *testing.T) {
	bin := buildBinary(t)
	ollama := ollamatest.NewServer("deepseek-coder-v2", "mistral:7b")
	defer ollama.Close()
	sp := startServer(t, bin, "--backend-url", ollama.URL)

	resp, body := get(t, sp.base+"/")
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "Ollama Chat Bot API is running") {
		t.Fatalf("/ %d %s", resp.StatusCode, body)
	}

	resp, _ = get(t, sp.base+"/readyz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/readyz %d", resp.StatusCode)
	}

	resp, body = postJSON(t, sp.base+"/api/chat", []byte(`{"message":"hi","model_name":"mistral:7b"}`))
	var cr types.ChatResponse
	if err := json.Unmarshal(body, &cr); err != nil || resp.StatusCode != http.StatusOK || cr.Response != "mistral:7b: ok" {
		t.Fatalf("/api/chat %d %s", resp.StatusCode, body)
	}

	resp, body = postJSON(t, sp.base+"/api/chat", []byte(`{"message":"hi","model_name":"codellama:13b"}`))
	if err := json.Unmarshal(body, &cr); err != nil || resp.StatusCode != http.StatusOK || !strings.HasPrefix(cr.Response, "Error switching to model codellama:13b") {
		t.Fatalf("/api/chat switch failure %d %s", resp.StatusCode, body)
	}

	resp, body = get(t, sp.base+"/api/models")
	var mi types.ModelInfoResponse
	if err := json.Unmarshal(body, &mi); err != nil || mi.CurrentModel != "mistral:7b" || len(mi.AvailableModels) != 5 {
		t.Fatalf("/api/models %d %s", resp.StatusCode, body)
	}

	resp, body = get(t, sp.base+"/metrics")
	if resp.StatusCode != http.StatusOK || !bytes.Contains(body, []byte("ollamachat_relay_model_switches_total")) {
		t.Fatalf("/metrics %d", resp.StatusCode)
	}
}

func TestBlackbox_StartsWithRuntimeDown(t *testing.T) {
	bin := buildBinary(t)
	port := findFreePort(t)
	sp := startServer(t, bin, "--backend-url", fmt.Sprintf("http://127.0.0.1:%d", port))

	resp, _ := get(t, sp.base+"/readyz")
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("/readyz expected 503, got %d", resp.StatusCode)
	}
	resp, _ = get(t, sp.base+"/api/health")
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("/api/health expected 503, got %d", resp.StatusCode)
	}
	resp, body := postJSON(t, sp.base+"/api/chat", []byte(`{"message":"hi"}`))
	if resp.StatusCode != http.StatusOK || !bytes.Contains(body, []byte("Error switching to model deepseek-coder-v2")) {
		t.Fatalf("/api/chat %d %s", resp.StatusCode, body)
	}
}

func TestBlackbox_GracefulShutdown(t *testing.T) {
	bin := buildBinary(t)
	ollama := ollamatest.NewServer("deepseek-coder-v2")
	defer ollama.Close()
	sp := startServer(t, bin, "--backend-url", ollama.URL)

	if err := sp.cmd.Process.Signal(syscall.SIGTERM); err != nil {
		t.Fatalf("signal: %v", err)
	}
	done := make(chan error, 1)
	go func() { done <- sp.cmd.Wait() }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean exit, got %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("server did not exit after SIGTERM")
	}
}
