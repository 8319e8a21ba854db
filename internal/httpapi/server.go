package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ollamachat/internal/relay"
	"ollamachat/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	AvailableModels() []string
	CurrentModel() string
	Chat(ctx context.Context, req types.ChatRequest) (relay.Reply, error)
	Ready() bool
	BackendVersion(ctx context.Context) (string, error)
	InstalledModels(ctx context.Context) ([]types.InstalledModel, error)
	PullModel(ctx context.Context, name string) error
}

const rootMessage = "Ollama Chat Bot API is running"

type handlers struct {
	svc Service
}

func NewMux(svc Service) http.Handler {
	h := &handlers{svc: svc}
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	if corsEnabled {
		r.Use(cors.Handler(corsOptions()))
	}
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	// Websocket upgrades must not go through the compressor.
	r.Get("/api/chat/ws", h.chatWS)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Compress(5))

		r.Get("/", h.root)
		r.Get("/api/models", h.models)
		r.Post("/api/chat", h.chat)
		r.Get("/api/models/installed", h.installed)
		r.Get("/api/models/installed-models", h.installed)
		r.Post("/api/models/pull", h.pull)
		r.Get("/api/health", h.health)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("loading"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)
	return r
}

// root godoc
// @Summary  Liveness banner
// @Tags     chat
// @Produce  json
// @Success  200 {object} types.RootResponse
// @Router   / [get]
func (h *handlers) root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, types.RootResponse{Message: rootMessage})
}

// models godoc
// @Summary  List permitted models and the active one
// @Tags     models
// @Produce  json
// @Success  200 {object} types.ModelInfoResponse
// @Router   /api/models [get]
func (h *handlers) models(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, types.ModelInfoResponse{
		AvailableModels: h.svc.AvailableModels(),
		CurrentModel:    h.svc.CurrentModel(),
	})
}

// chat godoc
// @Summary      Send a chat message, optionally switching model first
// @Description  Switch and generation failures are reported in the response
// @Description  field with status 200, or 502 when strict errors are enabled.
// @Tags         chat
// @Accept       json
// @Produce      json
// @Param        input body types.ChatRequest true "Message and optional model"
// @Success      200 {object} types.ChatResponse
// @Failure      400 {object} types.ChatResponse
// @Failure      415 {object} types.ErrorResponse
// @Failure      502 {object} types.ChatResponse
// @Router       /api/chat [post]
func (h *handlers) chat(w http.ResponseWriter, r *http.Request) {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req types.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		chatOutcomesTotal.WithLabelValues("http", "bad_request").Inc()
		writeJSON(w, http.StatusBadRequest, parseFailure(err))
		return
	}

	lg := newChatLog(r, req.ModelName)
	lg.begin(len(req.Message))
	ctx, cancel := requestContext(r)
	defer cancel()
	reply, err := h.svc.Chat(ctx, req)
	countChat("http", err)
	if err != nil {
		if abandoned(r) {
			return
		}
		status, body := chatFailure(err)
		writeJSON(w, status, body)
		lg.end(status, err)
		return
	}
	writeJSON(w, http.StatusOK, types.ChatResponse{Response: reply.Text})
	lg.end(http.StatusOK, nil)
}

// installed godoc
// @Summary  List models installed in the inference backend
// @Tags     models
// @Produce  json
// @Success  200 {object} types.InstalledModelsResponse
// @Failure  502 {object} types.ErrorResponse
// @Router   /api/models/installed [get]
func (h *handlers) installed(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()
	models, err := h.svc.InstalledModels(ctx)
	if err != nil {
		zlog.Error().Err(err).Msg("list installed models")
		writeJSONError(w, http.StatusBadGateway, "failed to get models: "+err.Error())
		return
	}
	if models == nil {
		models = []types.InstalledModel{}
	}
	writeJSON(w, http.StatusOK, types.InstalledModelsResponse{Models: models})
}

// pull godoc
// @Summary  Pull a model into the inference backend
// @Tags     models
// @Accept   json
// @Produce  json
// @Param    input body types.PullRequest true "Model to pull"
// @Success  200 {object} types.StatusMessage
// @Failure  400 {object} types.StatusMessage
// @Failure  500 {object} types.StatusMessage
// @Router   /api/models/pull [post]
func (h *handlers) pull(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req types.PullRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.ModelName) == "" {
		writeJSON(w, http.StatusBadRequest, types.StatusMessage{Status: "error", Message: "Invalid request format"})
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()
	if err := h.svc.PullModel(ctx, req.ModelName); err != nil {
		if abandoned(r) {
			return
		}
		writeJSON(w, http.StatusInternalServerError, types.StatusMessage{Status: "error", Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, types.StatusMessage{
		Status:  "success",
		Message: fmt.Sprintf("Successfully pulled model %s", req.ModelName),
	})
}

// health godoc
// @Summary  Server and inference backend health
// @Tags     health
// @Produce  json
// @Success  200 {object} types.StatusMessage
// @Failure  503 {object} types.StatusMessage
// @Router   /api/health [get]
func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()
	v, err := h.svc.BackendVersion(ctx)
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, types.StatusMessage{
			Status:  "error",
			Message: "Ollama service is not available",
			Error:   err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, types.StatusMessage{
		Status:  "ok",
		Message: "Server is running and Ollama is available",
		Version: v,
	})
}
