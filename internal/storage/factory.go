package storage

import (
	"go.uber.org/zap"

	"github.com/verlic/zapcentral/internal/config"
	"github.com/verlic/zapcentral/internal/pkg/ratelimiter"
	limiter_memory "github.com/verlic/zapcentral/internal/pkg/ratelimiter/memory"
	limiter_redis "github.com/verlic/zapcentral/internal/pkg/ratelimiter/redis"
	"github.com/verlic/zapcentral/internal/storage/postgres"
	storage_redis "github.com/verlic/zapcentral/internal/storage/redis"
	"github.com/verlic/zapcentral/internal/storage/sqlite"
)

type Repositories struct {
	Instance   InstanceRepository
	Authorized AuthorizedNumberRepository
	Message    MessageRepository
	Metric     MetricRepository
	BotStatus  BotStatusRepository
	WebhookLog WebhookLogRepository
	Config     ConfigRepository
	User       UserRepository
	Session    SessionRepository

	RedisClient *storage_redis.Client // Pode ser nil se Redis estiver desabilitado
	RateLimiter ratelimiter.Limiter
}

func NewRepositories(cfg config.Config, log *zap.Logger) (*Repositories, error) {
	log.Info("inicializando repositórios",
		zap.String("driver", cfg.Storage.Driver),
	)

	var (
		rateLimiter ratelimiter.Limiter
		storeRedis  *storage_redis.Client
		err         error
	)

	// Inicializa Redis apenas se explicitamente habilitado
	if cfg.Redis.Enabled {
		log.Info("inicializando Redis...")
		storeRedis, err = storage_redis.New(cfg.Redis, log)
		if err != nil {
			log.Error("erro ao conectar com Redis", zap.Error(err))
			return nil, err
		}

		rateLimiter = limiter_redis.NewLimiter(storeRedis.RDB())
		log.Info("Redis conectado, limiter configurado")
	} else {
		log.Info("usando implementações em memória (Redis desabilitado)")
		rateLimiter = limiter_memory.NewLimiter()
		storeRedis = nil
	}

	switch cfg.Storage.Driver {
	case "sqlite", "":
		log.Debug("criando conexão com SQLite")
		db, err := sqlite.New(cfg.Storage.DataDir, log)
		if err != nil {
			log.Error("erro ao conectar com SQLite", zap.Error(err))
			return nil, err
		}

		log.Info("repositórios SQLite criados com sucesso", zap.String("data_dir", cfg.Storage.DataDir))
		return &Repositories{
			Instance:    sqlite.NewInstanceRepository(db),
			Authorized:  sqlite.NewAuthorizedNumberRepository(db),
			Message:     sqlite.NewMessageRepository(db),
			Metric:      sqlite.NewMetricRepository(db),
			BotStatus:   sqlite.NewBotStatusRepository(db),
			WebhookLog:  sqlite.NewWebhookLogRepository(db),
			Config:      sqlite.NewConfigRepository(db),
			User:        sqlite.NewUserRepository(db),
			Session:     sqlite.NewSessionRepository(db),
			RedisClient: storeRedis,
			RateLimiter: rateLimiter,
		}, nil

	case "postgres":
		log.Debug("criando conexão com PostgreSQL")
		db, err := postgres.New(cfg.DB, log)
		if err != nil {
			log.Error("erro ao conectar com PostgreSQL", zap.Error(err))
			return nil, err
		}

		log.Info("repositórios PostgreSQL criados com sucesso")
		return &Repositories{
			Instance:    postgres.NewInstanceRepository(db),
			Authorized:  postgres.NewAuthorizedNumberRepository(db),
			Message:     postgres.NewMessageRepository(db),
			Metric:      postgres.NewMetricRepository(db),
			BotStatus:   postgres.NewBotStatusRepository(db),
			WebhookLog:  postgres.NewWebhookLogRepository(db),
			Config:      postgres.NewConfigRepository(db),
			User:        postgres.NewUserRepository(db),
			Session:     postgres.NewSessionRepository(db),
			RedisClient: storeRedis,
			RateLimiter: rateLimiter,
		}, nil

	default:
		log.Error("driver de storage desconhecido",
			zap.String("driver", cfg.Storage.Driver),
		)
		return nil, &ErrUnknownDriver{Driver: cfg.Storage.Driver}
	}
}

type ErrUnknownDriver struct {
	Driver string
}

func (e *ErrUnknownDriver) Error() string {
	return "storage: driver desconhecido: " + e.Driver
}
