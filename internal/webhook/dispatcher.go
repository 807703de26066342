package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/verlic/zapcentral/internal/metrics"
	"github.com/verlic/zapcentral/internal/storage"
	"github.com/verlic/zapcentral/internal/storage/model"
)

// Dispatcher recebe os webhooks do gateway e roteia por tipo de evento.
// Todo evento é confirmado com {"received": true}, mesmo quando o
// processamento interno falha; só o parse do envelope devolve 500,
// para que o gateway não fique reentregando falhas de aplicação.
type Dispatcher struct {
	instances  storage.InstanceRepository
	botStatus  storage.BotStatusRepository
	webhookLog storage.WebhookLogRepository
	responder  *Responder
	rec        *metrics.Recorder
	log        *zap.Logger
}

func NewDispatcher(
	repos *storage.Repositories,
	responder *Responder,
	rec *metrics.Recorder,
	log *zap.Logger,
) *Dispatcher {
	return &Dispatcher{
		instances:  repos.Instance,
		botStatus:  repos.BotStatus,
		webhookLog: repos.WebhookLog,
		responder:  responder,
		rec:        rec,
		log:        log,
	}
}

func (d *Dispatcher) Register(rg *gin.RouterGroup) {
	rg.POST("/webhook/evolution", d.handle)
}

// normalizeEvent reduz as variações de nome que o gateway já usou
// ("CONNECTION_UPDATE", "connection.update") a uma forma única.
func normalizeEvent(event string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(event)), "_", ".")
}

func (d *Dispatcher) handle(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erro ao processar webhook"})
		return
	}

	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		d.log.Error("webhook: payload inválido", zap.Error(err))
		d.rec.Count(c.Request.Context(), model.MetricError, map[string]any{"source": "webhook", "error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erro ao processar webhook"})
		return
	}

	ctx := c.Request.Context()
	d.rec.Count(ctx, model.MetricWebhookReceived, map[string]any{"event": env.Event})

	processErr := d.process(ctx, &env)

	logEntry := model.WebhookLog{
		Event:        env.Event,
		InstanceName: env.Instance,
		Payload:      string(body),
	}
	if processErr != nil {
		logEntry.Error = processErr.Error()
	}
	if _, err := d.webhookLog.Create(ctx, logEntry); err != nil {
		d.log.Warn("webhook: erro ao gravar log", zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (d *Dispatcher) process(ctx context.Context, env *Envelope) error {
	instance, err := d.instances.GetByName(ctx, env.Instance)
	if err != nil {
		d.log.Info("webhook: instância não encontrada", zap.String("instance", env.Instance))
		return nil
	}

	switch normalizeEvent(env.Event) {
	case "connection.update":
		return d.handleConnectionUpdate(ctx, instance, env)
	case "qrcode.updated":
		return d.handleQRCodeUpdate(ctx, instance, env)
	case "messages.upsert":
		return d.responder.Handle(ctx, instance, env)
	default:
		d.log.Debug("webhook: evento ignorado", zap.String("event", env.Event))
		return nil
	}
}

func (d *Dispatcher) handleConnectionUpdate(ctx context.Context, instance model.Instance, env *Envelope) error {
	if env.Data == nil || env.Data.State == "" {
		return nil
	}

	status := model.InstanceStatusDisconnected
	switch env.Data.State {
	case "open":
		status = model.InstanceStatusConnected
	case "connecting":
		status = model.InstanceStatusConnecting
	}

	instance.Status = status
	if _, err := d.instances.Update(ctx, instance); err != nil {
		d.log.Error("webhook: erro ao atualizar instância", zap.Error(err))
		return err
	}

	now := time.Now()
	bot := model.BotStatus{
		InstanceID: instance.ID,
		IsRunning:  status == model.InstanceStatusConnected,
	}
	if status == model.InstanceStatusConnected {
		bot.LastStarted = &now
		d.rec.Count(ctx, model.MetricBotStarted, map[string]any{"instanceId": instance.ID})
	} else {
		bot.LastStopped = &now
		d.rec.Count(ctx, model.MetricBotStopped, map[string]any{"instanceId": instance.ID})
	}
	if _, err := d.botStatus.Upsert(ctx, bot); err != nil {
		d.log.Error("webhook: erro ao atualizar bot status", zap.Error(err))
		return err
	}

	d.log.Info("webhook: estado da instância atualizado",
		zap.String("instance", instance.InstanceName),
		zap.String("status", string(status)),
	)
	return nil
}

func (d *Dispatcher) handleQRCodeUpdate(ctx context.Context, instance model.Instance, env *Envelope) error {
	if env.Data == nil || env.Data.QRCode == nil || env.Data.QRCode.Base64 == "" {
		return nil
	}

	instance.QRCode = env.Data.QRCode.Base64
	if _, err := d.instances.Update(ctx, instance); err != nil {
		d.log.Error("webhook: erro ao salvar qr code", zap.Error(err))
		return err
	}

	d.log.Info("webhook: qr code atualizado", zap.String("instance", instance.InstanceName))
	return nil
}
