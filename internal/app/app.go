package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/verlic/zapcentral/internal/config"
)

// App encapsula o servidor HTTP e seu ciclo de vida.
type App struct {
	server *http.Server
	log    *zap.Logger
}

func New(cfg config.Config, log *zap.Logger, router *gin.Engine) *App {
	return &App{
		server: &http.Server{
			Addr:              ":" + cfg.App.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: log,
	}
}

// Run bloqueia até o servidor encerrar. http.ErrServerClosed vindo de
// um shutdown graceful não é tratado como erro.
func (a *App) Run(ctx context.Context) error {
	a.log.Info("servidor HTTP iniciado", zap.String("addr", a.server.Addr))
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	return a.server.Shutdown(ctx)
}
