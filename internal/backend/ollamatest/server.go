// Package ollamatest provides an in-process fake Ollama runtime for tests.
package ollamatest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// Server is a fake Ollama runtime speaking the native and /v1 APIs.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	installed map[string]bool
	generate  func(model, prompt string) (string, int)
	prompts   []Call
}

// Call records one generation request.
type Call struct {
	Model  string
	Prompt string
	// Temperature as sent by the client; nil when the field was absent.
	Temperature *float64
}

// NewServer starts a fake runtime with the given installed models. By default
// generation answers "<model>: ok".
func NewServer(installed ...string) *Server {
	s := &Server{installed: make(map[string]bool)}
	for _, m := range installed {
		s.installed[m] = true
	}
	s.generate = func(model, prompt string) (string, int) { return model + ": ok", http.StatusOK }

	mux := http.NewServeMux()
	mux.HandleFunc("/api/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"version": "0.0.0-test"})
	})
	mux.HandleFunc("/api/show", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model string `json:"model"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if !s.Installed(req.Model) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "model '" + req.Model + "' not found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"modelfile": "", "details": map[string]string{}})
	})
	mux.HandleFunc("/api/tags", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		models := make([]map[string]any, 0, len(s.installed))
		for m := range s.installed {
			models = append(models, map[string]any{"name": m, "size": 1024, "modified_at": "2025-01-01T00:00:00Z"})
		}
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{"models": models})
	})
	mux.HandleFunc("/api/pull", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model string `json:"model"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if strings.HasPrefix(req.Model, "missing") {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "pull model manifest: file does not exist"})
			return
		}
		s.Install(req.Model)
		writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
	})
	mux.HandleFunc("/api/chat", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
			Options struct {
				Temperature *float64 `json:"temperature"`
			} `json:"options"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		prompt := ""
		if len(req.Messages) > 0 {
			prompt = req.Messages[len(req.Messages)-1].Content
		}
		text, status := s.record(Call{Model: req.Model, Prompt: prompt, Temperature: req.Options.Temperature})
		if status != http.StatusOK {
			writeJSON(w, status, map[string]string{"error": text})
			return
		}
		// One NDJSON line; the client reads until done.
		writeJSON(w, http.StatusOK, map[string]any{
			"model":   req.Model,
			"message": map[string]string{"role": "assistant", "content": text},
			"done":    true,
		})
	})
	mux.HandleFunc("/v1/models", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		data := make([]map[string]any, 0, len(s.installed))
		for m := range s.installed {
			data = append(data, map[string]any{"id": m, "object": "model", "created": 1700000000, "owned_by": "library"})
		}
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{"object": "list", "data": data})
	})
	mux.HandleFunc("/v1/models/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/v1/models/")
		if !s.Installed(id) {
			writeOpenAIError(w, http.StatusNotFound, "model '"+id+"' not found")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": id, "object": "model", "created": 1700000000, "owned_by": "library"})
	})
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
			Temperature *float64 `json:"temperature"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeOpenAIError(w, http.StatusBadRequest, err.Error())
			return
		}
		prompt := ""
		if len(req.Messages) > 0 {
			prompt = req.Messages[len(req.Messages)-1].Content
		}
		text, status := s.record(Call{Model: req.Model, Prompt: prompt, Temperature: req.Temperature})
		if status != http.StatusOK {
			writeOpenAIError(w, status, text)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"id":     "chatcmpl-test",
			"object": "chat.completion",
			"model":  req.Model,
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]string{"role": "assistant", "content": text},
				"finish_reason": "stop",
			}},
		})
	})
	s.Server = httptest.NewServer(mux)
	return s
}

// SetGenerate replaces the generation behavior. A non-200 status is returned
// to the caller as an error whose message is the returned text.
func (s *Server) SetGenerate(fn func(model, prompt string) (string, int)) {
	s.mu.Lock()
	s.generate = fn
	s.mu.Unlock()
}

// Install marks model as present.
func (s *Server) Install(model string) {
	s.mu.Lock()
	s.installed[model] = true
	s.mu.Unlock()
}

// Installed reports whether model is present.
func (s *Server) Installed(model string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.installed[model]
}

// Calls returns the generation requests seen so far.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.prompts))
	copy(out, s.prompts)
	return out
}

func (s *Server) record(c Call) (string, int) {
	s.mu.Lock()
	s.prompts = append(s.prompts, c)
	gen := s.generate
	s.mu.Unlock()
	return gen(c.Model, c.Prompt)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeOpenAIError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": map[string]any{"message": msg, "type": "api_error"}})
}
