package authorized

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/verlic/zapcentral/internal/storage"
	"github.com/verlic/zapcentral/internal/storage/model"
	"github.com/verlic/zapcentral/internal/webhook"
)

var (
	ErrInvalidPhone   = errors.New("número de telefone inválido")
	ErrInvalidName    = errors.New("nome inválido")
	ErrDuplicatePhone = errors.New("número já autorizado para esta instância")
)

type Service struct {
	repo      storage.AuthorizedNumberRepository
	instances storage.InstanceRepository
	log       *zap.Logger
}

func NewService(repo storage.AuthorizedNumberRepository, instances storage.InstanceRepository, log *zap.Logger) *Service {
	return &Service{repo: repo, instances: instances, log: log}
}

type CreateInput struct {
	InstanceID  string `json:"instanceId"`
	PhoneNumber string `json:"phoneNumber"`
	Name        string `json:"name"`
	IsActive    *bool  `json:"isActive"`
}

// Create autoriza um número para a instância. O telefone é normalizado
// para dígitos puros antes de persistir, igual ao que o webhook faz na
// hora de casar o remetente.
func (s *Service) Create(ctx context.Context, input CreateInput) (model.AuthorizedNumber, error) {
	phone := webhook.NormalizeDigits(input.PhoneNumber)
	if len(phone) < 8 {
		return model.AuthorizedNumber{}, ErrInvalidPhone
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return model.AuthorizedNumber{}, ErrInvalidName
	}

	if _, err := s.instances.GetByID(ctx, input.InstanceID); err != nil {
		return model.AuthorizedNumber{}, err
	}

	existing, err := s.repo.List(ctx, input.InstanceID)
	if err != nil {
		return model.AuthorizedNumber{}, err
	}
	for _, number := range existing {
		if number.PhoneNumber == phone {
			return model.AuthorizedNumber{}, ErrDuplicatePhone
		}
	}

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}

	return s.repo.Create(ctx, model.AuthorizedNumber{
		InstanceID:  input.InstanceID,
		PhoneNumber: phone,
		Name:        name,
		IsActive:    active,
	})
}

func (s *Service) List(ctx context.Context, instanceID string) ([]model.AuthorizedNumber, error) {
	return s.repo.List(ctx, instanceID)
}

type UpdateInput struct {
	PhoneNumber *string `json:"phoneNumber"`
	Name        *string `json:"name"`
	IsActive    *bool   `json:"isActive"`
}

// Update aplica alterações parciais. Campos nil ficam como estão.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (model.AuthorizedNumber, error) {
	number, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return model.AuthorizedNumber{}, err
	}

	if input.PhoneNumber != nil {
		phone := webhook.NormalizeDigits(*input.PhoneNumber)
		if len(phone) < 8 {
			return model.AuthorizedNumber{}, ErrInvalidPhone
		}
		number.PhoneNumber = phone
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return model.AuthorizedNumber{}, ErrInvalidName
		}
		number.Name = name
	}
	if input.IsActive != nil {
		number.IsActive = *input.IsActive
	}

	return s.repo.Update(ctx, number)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
