package relay

import (
	"context"
	"time"

	"ollamachat/internal/backend"
)

// resolve returns the client that must serve a request for name, switching
// the active model when name is a different registry member. Names outside
// the registry are ignored and the active client is used.
func (s *Service) resolve(ctx context.Context, name string) (backend.Client, error) {
	cur := s.snapshot()
	if name == cur.name && cur.client != nil {
		return cur.client, nil
	}
	if name != cur.name && !s.reg.Contains(name) {
		switchesTotal.WithLabelValues("ignored").Inc()
		s.log.Debug().Str("requested", name).Str("current", cur.name).Msg("model not in registry; switch ignored")
		s.publisher.Publish(Event{Name: "switch_ignored", ModelID: name, Fields: map[string]any{"current": cur.name}})
		if cur.client != nil {
			return cur.client, nil
		}
		name = cur.name
	}
	return s.switchTo(ctx, name)
}

// switchTo builds a client for name and makes it active. Concurrent switches
// to the same name share one construction.
func (s *Service) switchTo(ctx context.Context, name string) (backend.Client, error) {
	v, err, _ := s.switches.Do(name, func() (any, error) {
		if cur := s.snapshot(); cur.name == name && cur.client != nil {
			return cur.client, nil
		}
		s.publisher.Publish(Event{Name: "switch_start", ModelID: name})
		start := time.Now()
		c, err := s.backend.NewClient(ctx, name)
		if err != nil {
			switchesTotal.WithLabelValues("failed").Inc()
			s.log.Warn().Err(err).Str("model", name).Dur("dur", time.Since(start)).Msg("model switch failed")
			s.publisher.Publish(Event{Name: "switch_failed", ModelID: name, Fields: map[string]any{"error": err.Error()}})
			return nil, &modelSwitchError{model: name, err: err}
		}

		s.mu.Lock()
		prev := s.active.name
		s.active = activeModel{name: name, client: c}
		s.mu.Unlock()

		if prev != name {
			activeModelInfo.WithLabelValues(prev).Set(0)
		}
		activeModelInfo.WithLabelValues(name).Set(1)
		switchesTotal.WithLabelValues("ok").Inc()
		s.log.Info().Str("from", prev).Str("to", name).Dur("dur", time.Since(start)).Msg("model switched")
		s.publisher.Publish(Event{Name: "switch_done", ModelID: name, Fields: map[string]any{"from": prev}})
		return c, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(backend.Client), nil
}
