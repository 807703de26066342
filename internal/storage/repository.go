package storage

import (
	"context"
	"time"

	"github.com/verlic/zapcentral/internal/storage/model"
)

// ErrNotFound sinaliza registro inexistente em qualquer driver.
var ErrNotFound = model.ErrNotFound

type InstanceRepository interface {
	Create(ctx context.Context, instance model.Instance) (model.Instance, error)
	GetByID(ctx context.Context, id string) (model.Instance, error)
	GetByName(ctx context.Context, instanceName string) (model.Instance, error)
	List(ctx context.Context) ([]model.Instance, error)
	Update(ctx context.Context, instance model.Instance) (model.Instance, error)
	Delete(ctx context.Context, id string) error
}

type AuthorizedNumberRepository interface {
	Create(ctx context.Context, number model.AuthorizedNumber) (model.AuthorizedNumber, error)
	GetByID(ctx context.Context, id string) (model.AuthorizedNumber, error)
	// FindActive retorna o registro ativo da instância cujo telefone
	// armazenado é exatamente phone.
	FindActive(ctx context.Context, instanceID, phone string) (model.AuthorizedNumber, error)
	// FindActiveBySuffix retorna o registro ativo da instância cujo
	// telefone armazenado termina com suffix.
	FindActiveBySuffix(ctx context.Context, instanceID, suffix string) (model.AuthorizedNumber, error)
	List(ctx context.Context, instanceID string) ([]model.AuthorizedNumber, error)
	NamesByPhone(ctx context.Context, phones []string) (map[string]string, error)
	Update(ctx context.Context, number model.AuthorizedNumber) (model.AuthorizedNumber, error)
	Delete(ctx context.Context, id string) error
}

type MessageRepository interface {
	Create(ctx context.Context, message model.Message) (model.Message, error)
	List(ctx context.Context, filter model.MessageFilter) ([]model.Message, int64, error)
	// ListConversation retorna até limit mensagens de (instância,
	// telefone) em ordem cronológica, da mais antiga para a mais recente.
	ListConversation(ctx context.Context, instanceID, phone string, limit int) ([]model.Message, error)
	Stats(ctx context.Context) (model.MessageStats, error)
	TopSenders(ctx context.Context, limit int) ([]model.SenderCount, error)
	DeleteByInstanceID(ctx context.Context, instanceID string) error
}

type MetricRepository interface {
	Create(ctx context.Context, metric model.Metric) error
	Summary(ctx context.Context, since time.Time) (map[model.MetricType]model.MetricSummary, error)
	TotalsByDay(ctx context.Context, metricType model.MetricType, since time.Time) ([]model.DayTotal, error)
	ListRecent(ctx context.Context, metricType model.MetricType, limit int) ([]model.Metric, error)
}

type BotStatusRepository interface {
	Upsert(ctx context.Context, status model.BotStatus) (model.BotStatus, error)
	GetByInstanceID(ctx context.Context, instanceID string) (model.BotStatus, error)
	DeleteByInstanceID(ctx context.Context, instanceID string) error
}

type WebhookLogRepository interface {
	Create(ctx context.Context, log model.WebhookLog) (model.WebhookLog, error)
	List(ctx context.Context, event, instanceName string, limit int) ([]model.WebhookLog, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type ConfigRepository interface {
	Get(ctx context.Context, key string) (model.SystemConfig, error)
	GetAll(ctx context.Context) ([]model.SystemConfig, error)
	Upsert(ctx context.Context, key, value string) error
}

type UserRepository interface {
	Create(ctx context.Context, user model.User) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	Count(ctx context.Context) (int64, error)
}

type SessionRepository interface {
	Create(ctx context.Context, session model.Session) (model.Session, error)
	GetByToken(ctx context.Context, token string) (model.Session, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context) (int64, error)
}
