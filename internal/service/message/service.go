package message

import (
	"context"

	"go.uber.org/zap"

	"github.com/verlic/zapcentral/internal/metrics"
	"github.com/verlic/zapcentral/internal/storage"
	"github.com/verlic/zapcentral/internal/storage/model"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

type Service struct {
	repo       storage.MessageRepository
	aggregator *metrics.Aggregator
	log        *zap.Logger
}

func NewService(repo storage.MessageRepository, aggregator *metrics.Aggregator, log *zap.Logger) *Service {
	return &Service{repo: repo, aggregator: aggregator, log: log}
}

// Page carrega uma página de mensagens junto do total para paginação.
type Page struct {
	Messages []model.Message `json:"messages"`
	Total    int64           `json:"total"`
	Limit    int             `json:"limit"`
	Offset   int             `json:"offset"`
}

func (s *Service) List(ctx context.Context, filter model.MessageFilter) (Page, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultPageSize
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	messages, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return Page{}, err
	}
	if messages == nil {
		messages = []model.Message{}
	}
	return Page{Messages: messages, Total: total, Limit: filter.Limit, Offset: filter.Offset}, nil
}

// Conversation retorna o histórico de um contato em ordem cronológica,
// do jeito que a tela de conversa exibe.
func (s *Service) Conversation(ctx context.Context, instanceID, phoneNumber string, limit int) ([]model.Message, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	messages, err := s.repo.ListConversation(ctx, instanceID, phoneNumber, limit)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []model.Message{}
	}
	return messages, nil
}

// Ranking lista os remetentes com mais mensagens recebidas, já com o
// nome cadastrado quando o número é autorizado.
func (s *Service) Ranking(ctx context.Context, limit int) ([]model.SenderCount, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.aggregator.TopSenders(ctx, limit)
}

func (s *Service) Stats(ctx context.Context) (model.MessageStats, error) {
	return s.repo.Stats(ctx)
}
