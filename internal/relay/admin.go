package relay

import (
	"context"
	"errors"
	"strings"

	"ollamachat/pkg/types"
)

// BackendVersion reports the runtime version; an error means it is unreachable.
func (s *Service) BackendVersion(ctx context.Context) (string, error) {
	return s.backend.Version(ctx)
}

// InstalledModels lists what the runtime has installed, which may differ from
// the registry.
func (s *Service) InstalledModels(ctx context.Context) ([]types.InstalledModel, error) {
	return s.backend.ListInstalled(ctx)
}

// PullModel downloads a model into the runtime. The registry is not changed.
func (s *Service) PullModel(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("model_name is required")
	}
	s.log.Info().Str("model", name).Msg("pulling model")
	if err := s.backend.Pull(ctx, name); err != nil {
		s.log.Error().Err(err).Str("model", name).Msg("pull failed")
		return err
	}
	s.publisher.Publish(Event{Name: "pull_done", ModelID: name})
	s.log.Info().Str("model", name).Msg("model pulled")
	return nil
}
