package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/verlic/zapcentral/internal/ai"
	"github.com/verlic/zapcentral/internal/api/handler"
	"github.com/verlic/zapcentral/internal/api/middleware"
	"github.com/verlic/zapcentral/internal/app"
	"github.com/verlic/zapcentral/internal/config"
	"github.com/verlic/zapcentral/internal/conversation"
	"github.com/verlic/zapcentral/internal/gateway"
	"github.com/verlic/zapcentral/internal/logger"
	"github.com/verlic/zapcentral/internal/metrics"
	"github.com/verlic/zapcentral/internal/server"
	authSvc "github.com/verlic/zapcentral/internal/service/auth"
	authorizedSvc "github.com/verlic/zapcentral/internal/service/authorized"
	instanceSvc "github.com/verlic/zapcentral/internal/service/instance"
	messageSvc "github.com/verlic/zapcentral/internal/service/message"
	settingsSvc "github.com/verlic/zapcentral/internal/service/settings"
	"github.com/verlic/zapcentral/internal/storage"
	"github.com/verlic/zapcentral/internal/webhook"
)

func main() {
	cfg := config.Load()

	logr, err := logger.New(cfg.App.Env, cfg.Log.Level)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logr.Sync()

	logr.Info("iniciando aplicação",
		zap.String("env", cfg.App.Env),
		zap.String("log_level", cfg.Log.Level),
		zap.String("port", cfg.App.Port),
		zap.String("db_driver", cfg.Storage.Driver),
		zap.Bool("evolution_configured", cfg.Evolution.IsConfigured()),
		zap.Bool("deepseek_configured", cfg.DeepSeek.IsConfigured()),
	)

	repos, err := storage.NewRepositories(cfg, logr)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}

	gw := gateway.New(cfg.Evolution, logr)
	aiClient := ai.New(cfg.DeepSeek, logr)

	var convStore *conversation.Store
	if repos.RedisClient != nil {
		convStore = conversation.NewStore(repos.RedisClient.RDB(), cfg.Bot.ContextMessages, cfg.Bot.ContextTTLSeconds, logr)
	} else {
		logr.Warn("contexto de conversa desabilitado, Redis não configurado")
	}

	recorder := metrics.NewRecorder(repos.Metric, logr)
	aggregator := metrics.NewAggregator(repos)

	responder := webhook.NewResponder(repos, convStore, aiClient, gw, recorder, cfg.Bot.SystemPrompt, logr)
	dispatcher := webhook.NewDispatcher(repos, responder, recorder, logr)

	instanceService := instanceSvc.NewService(repos.Instance, repos.Message, repos.BotStatus, gw, recorder, cfg.App.BaseURL, logr)
	authorizedService := authorizedSvc.NewService(repos.Authorized, repos.Instance, logr)
	messageService := messageSvc.NewService(repos.Message, aggregator, logr)
	authService := authSvc.NewService(repos.User, repos.Session, cfg.JWT, logr)
	settingsService := settingsSvc.NewService(repos.Config)

	if err := authService.EnsureAdmin(context.Background(), cfg.Admin); err != nil {
		log.Fatalf("auth: erro ao garantir usuário administrador: %v", err)
	}

	router := server.NewRouter(server.Options{
		Env: cfg.App.Env,
		Auth: middleware.AuthOption{
			JWTSecret:   cfg.JWT.Secret,
			SessionRepo: repos.Session,
		},
		RateLimit: middleware.RateLimitOption{
			Enabled:  cfg.RateLimit.Enabled,
			Requests: cfg.RateLimit.Requests,
			Window:   time.Duration(cfg.RateLimit.WindowSeconds) * time.Second,
			Prefix:   cfg.RateLimit.Prefix,
			Logger:   logr,
			Limiter:  repos.RateLimiter,
		},
		IPRateLimit: middleware.IPRateLimitOption{
			Enabled:        cfg.IPRateLimit.Enabled,
			Requests:       cfg.IPRateLimit.Requests,
			WindowSeconds:  cfg.IPRateLimit.WindowSeconds,
			Limiter:        repos.RateLimiter,
			Logger:         logr,
			SkipPrivateIPs: cfg.IPRateLimit.SkipPrivateIPs,
		},
		HealthHandler:     handler.NewHealthHandler(),
		AuthHandler:       handler.NewAuthHandler(authService),
		InstanceHandler:   handler.NewInstanceHandler(instanceService, logr),
		AuthorizedHandler: handler.NewAuthorizedHandler(authorizedService),
		MessageHandler:    handler.NewMessageHandler(messageService),
		MetricsHandler:    handler.NewMetricsHandler(aggregator),
		DashboardHandler:  handler.NewDashboardHandler(aggregator, cfg),
		SettingsHandler:   handler.NewSettingsHandler(settingsService),
		WebhookLogHandler: handler.NewWebhookLogHandler(repos.WebhookLog),
		WebhookDispatcher: dispatcher,
	})

	application := app.New(cfg, logr, router)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Limpeza periódica de sessões expiradas
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := authService.PurgeExpiredSessions(context.Background()); err != nil {
					logr.Warn("erro ao limpar sessões expiradas", zap.Error(err))
				}
			}
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		if err := application.Run(context.Background()); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logr.Info("sinal de encerramento recebido")
	case err := <-errCh:
		if err != nil {
			logr.Error("servidor finalizado com erro", zap.Error(err))
		}
	}

	logr.Info("iniciando shutdown graceful")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if repos.RedisClient != nil {
		if err := repos.RedisClient.Close(); err != nil {
			logr.Warn("erro ao fechar conexão Redis", zap.Error(err))
		}
	}

	if err := application.Shutdown(shutdownCtx); err != nil {
		logr.Error("erro ao encerrar servidor", zap.Error(err))
	} else {
		logr.Info("servidor encerrado com sucesso")
	}
}
