package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/verlic/zapcentral/internal/api/handler"
	"github.com/verlic/zapcentral/internal/api/middleware"
	"github.com/verlic/zapcentral/internal/webhook"
)

type Options struct {
	Env               string
	Auth              middleware.AuthOption
	RateLimit         middleware.RateLimitOption
	IPRateLimit       middleware.IPRateLimitOption
	HealthHandler     *handler.HealthHandler
	AuthHandler       *handler.AuthHandler
	InstanceHandler   *handler.InstanceHandler
	AuthorizedHandler *handler.AuthorizedHandler
	MessageHandler    *handler.MessageHandler
	MetricsHandler    *handler.MetricsHandler
	DashboardHandler  *handler.DashboardHandler
	SettingsHandler   *handler.SettingsHandler
	WebhookLogHandler *handler.WebhookLogHandler
	WebhookDispatcher *webhook.Dispatcher
}

func NewRouter(opts Options) *gin.Engine {
	if opts.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.HeaderRequestID},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	api := router.Group("/api")

	opts.HealthHandler.Register(api)

	// Rotas públicas ficam atrás do limite por IP: o webhook do gateway
	// e o login não carregam sessão.
	public := api.Group("")
	public.Use(middleware.IPRateLimit(opts.IPRateLimit))
	opts.AuthHandler.Register(public)
	opts.WebhookDispatcher.Register(public)

	protected := api.Group("")
	protected.Use(middleware.Auth(opts.Auth))
	protected.Use(middleware.RateLimit(opts.RateLimit))

	opts.AuthHandler.RegisterProtected(protected)
	opts.InstanceHandler.Register(protected)
	opts.AuthorizedHandler.Register(protected)
	opts.MessageHandler.Register(protected)
	opts.MetricsHandler.Register(protected)
	opts.DashboardHandler.Register(protected)
	opts.SettingsHandler.Register(protected)
	opts.WebhookLogHandler.Register(protected)

	return router
}
