package settings

import (
	"context"
	"errors"
	"strings"

	"github.com/verlic/zapcentral/internal/storage"
	"github.com/verlic/zapcentral/internal/storage/model"
)

var ErrInvalidKey = errors.New("chave de configuração inválida")

// Chaves reconhecidas pelo console. O webhook lê system_prompt a cada
// mensagem, então alterações valem sem reiniciar o processo.
const (
	KeySystemPrompt = "system_prompt"
	KeyBotEnabled   = "bot_enabled"
)

type Service struct {
	repo storage.ConfigRepository
}

func NewService(repo storage.ConfigRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context, key string) (model.SystemConfig, error) {
	return s.repo.Get(ctx, key)
}

func (s *Service) GetAll(ctx context.Context) ([]model.SystemConfig, error) {
	configs, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if configs == nil {
		configs = []model.SystemConfig{}
	}
	return configs, nil
}

func (s *Service) Set(ctx context.Context, key, value string) (model.SystemConfig, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return model.SystemConfig{}, ErrInvalidKey
	}
	if err := s.repo.Upsert(ctx, key, value); err != nil {
		return model.SystemConfig{}, err
	}
	return s.repo.Get(ctx, key)
}
