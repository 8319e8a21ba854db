package relay

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"ollamachat/internal/backend"
	"ollamachat/internal/prompt"
	"ollamachat/internal/registry"
)

// Config wires a Service. Registry and Backend are required.
type Config struct {
	Registry     *registry.Registry
	Backend      backend.Backend
	DefaultModel string
	// Template defaults to prompt.Default().
	Template *prompt.Template
	// ChatTimeout bounds one backend invocation; zero means no limit.
	ChatTimeout time.Duration
	Logger      *zerolog.Logger
	Publisher   EventPublisher
}

type activeModel struct {
	name   string
	client backend.Client
}

// Service is the chat relay.
type Service struct {
	mu     sync.RWMutex
	active activeModel

	reg          *registry.Registry
	backend      backend.Backend
	defaultModel string
	tmpl         prompt.Template
	chatTimeout  time.Duration
	log          zerolog.Logger
	publisher    EventPublisher

	switches singleflight.Group
}

// New builds the service and binds the default model. A backend that refuses
// the default model at startup is not fatal: the service reports not ready and
// binding is retried on the next chat.
func New(ctx context.Context, cfg Config) (*Service, error) {
	if cfg.Registry == nil {
		return nil, fmt.Errorf("relay: registry is required")
	}
	if cfg.Backend == nil {
		return nil, fmt.Errorf("relay: backend is required")
	}
	def := strings.TrimSpace(cfg.DefaultModel)
	if def == "" {
		def = registry.DefaultModel
	}
	if !cfg.Registry.Contains(def) {
		return nil, fmt.Errorf("relay: default model %q is not in the registry", def)
	}
	s := &Service{
		reg:          cfg.Registry,
		backend:      cfg.Backend,
		defaultModel: def,
		tmpl:         prompt.Default(),
		chatTimeout:  cfg.ChatTimeout,
		log:          zerolog.Nop(),
		publisher:    noopPublisher{},
		active:       activeModel{name: def},
	}
	if cfg.Template != nil {
		s.tmpl = *cfg.Template
	}
	if cfg.Logger != nil {
		s.log = cfg.Logger.With().Str("component", "relay").Logger()
	}
	if cfg.Publisher != nil {
		s.publisher = cfg.Publisher
	}

	client, err := s.backend.NewClient(ctx, def)
	if err != nil {
		s.log.Warn().Err(err).Str("model", def).Msg("default model not bound; will retry on first chat")
		s.publisher.Publish(Event{Name: "bind_failed", ModelID: def, Fields: map[string]any{"error": err.Error()}})
	} else {
		s.active.client = client
		activeModelInfo.WithLabelValues(def).Set(1)
	}
	return s, nil
}

// AvailableModels returns the full registry in order.
func (s *Service) AvailableModels() []string { return s.reg.Names() }

// CurrentModel returns the active model name.
func (s *Service) CurrentModel() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active.name
}

// DefaultModel returns the model used when a request names none.
func (s *Service) DefaultModel() string { return s.defaultModel }

// Ready reports whether a client is bound to the active model.
func (s *Service) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active.client != nil
}

func (s *Service) snapshot() activeModel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}
