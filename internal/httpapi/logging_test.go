package httpapi

import (
	"bytes"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"":      LevelInfo,
		"off":   LevelOff,
		"error": LevelError,
		"INFO":  LevelInfo,
		"debug": LevelDebug,
		"1":     LevelDebug,
		"weird": LevelInfo, // default
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestRequestLogLevel_Overrides(t *testing.T) {
	r := httptest.NewRequest("GET", "/x?log=debug", nil)
	if got := requestLogLevel(r); got != LevelDebug {
		t.Fatalf("query override failed: %v", got)
	}
	r = httptest.NewRequest("GET", "/x?log=1", nil)
	if got := requestLogLevel(r); got != LevelDebug {
		t.Fatalf("legacy query override failed: %v", got)
	}
	r = httptest.NewRequest("GET", "/x", nil)
	r.Header.Set("X-Log-Level", "error")
	if got := requestLogLevel(r); got != LevelError {
		t.Fatalf("header override failed: %v", got)
	}
	SetRequestLogLevel("off")
	defer SetRequestLogLevel("info")
	if got := requestLogLevel(httptest.NewRequest("GET", "/x", nil)); got != LevelOff {
		t.Fatalf("default level not applied: %v", got)
	}
}

func TestChatLog_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf))
	defer SetLogger(zerolog.Nop())

	l := newChatLog(httptest.NewRequest("POST", "/api/chat?log=error", nil), "llama3:8b")
	l.begin(2)
	l.end(200, nil)
	if buf.Len() != 0 {
		t.Fatalf("error level must not log success: %q", buf.String())
	}
	l.end(502, errors.New("boom"))
	out := buf.String()
	if !strings.Contains(out, `"model":"llama3:8b"`) || !strings.Contains(out, "boom") {
		t.Fatalf("missing fields in %q", out)
	}

	buf.Reset()
	l = newChatLog(httptest.NewRequest("POST", "/api/chat?log=debug", nil), "m")
	l.begin(5)
	if !strings.Contains(buf.String(), "chat start") {
		t.Fatalf("debug level should log start: %q", buf.String())
	}
}
