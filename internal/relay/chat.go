package relay

import (
	"context"
	"strings"
	"time"

	"ollamachat/pkg/types"
)

// Reply is a successful chat outcome.
type Reply struct {
	Text string
	// Model that generated Text.
	Model string
}

// Chat optionally switches the active model, wraps the message in the prompt
// template and invokes the backend. Failures are typed: see
// IsModelSwitchFailure and IsGenerationFailure; Describe renders them for users.
func (s *Service) Chat(ctx context.Context, req types.ChatRequest) (Reply, error) {
	name := strings.TrimSpace(req.ModelName)
	switch {
	case name != "":
	case req.HasModelName:
		// Sent as "" or null: no switch.
		name = s.CurrentModel()
	default:
		name = s.defaultModel
	}
	client, err := s.resolve(ctx, name)
	if err != nil {
		return Reply{Model: s.CurrentModel()}, err
	}
	model := client.Model()

	formatted := s.tmpl.Format(req.Message)

	if s.chatTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.chatTimeout)
		defer cancel()
	}
	start := time.Now()
	text, err := client.Invoke(ctx, formatted)
	backendDuration.WithLabelValues(model).Observe(time.Since(start).Seconds())
	if err != nil {
		backendRequestsTotal.WithLabelValues(model, "error").Inc()
		s.log.Error().Err(err).Str("model", model).Dur("dur", time.Since(start)).Msg("error calling backend")
		s.publisher.Publish(Event{Name: "generation_failed", ModelID: model, Fields: map[string]any{"error": err.Error()}})
		return Reply{Model: model}, &generationError{model: model, err: err}
	}
	backendRequestsTotal.WithLabelValues(model, "ok").Inc()
	s.log.Debug().Str("model", model).Int("chars", len(text)).Dur("dur", time.Since(start)).Msg("backend replied")
	return Reply{Text: text, Model: model}, nil
}
