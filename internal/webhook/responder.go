package webhook

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/verlic/zapcentral/internal/ai"
	"github.com/verlic/zapcentral/internal/conversation"
	"github.com/verlic/zapcentral/internal/gateway"
	"github.com/verlic/zapcentral/internal/metrics"
	"github.com/verlic/zapcentral/internal/storage"
	"github.com/verlic/zapcentral/internal/storage/model"
)

type replyGenerator interface {
	Generate(ctx context.Context, systemPrompt string, history []ai.Turn, userMessage string) (ai.Reply, error)
}

type textSender interface {
	SendText(ctx context.Context, instanceName, phoneNumber, text string) error
}

type contextStore interface {
	Load(ctx context.Context, instanceID, phone string) []ai.Turn
	Append(ctx context.Context, instanceID, phone string, turns ...ai.Turn)
}

// Responder orquestra a resposta automática a uma mensagem recebida.
// Nunca propaga pânico nem erro fatal para o endpoint: cada passo que
// falha vira métrica de erro e interrompe o processamento daquela
// mensagem. O erro retornado serve apenas para anotar o log de webhook.
type Responder struct {
	messages storage.MessageRepository
	settings storage.ConfigRepository
	resolver *Resolver
	store    contextStore
	ai       replyGenerator
	gw       textSender
	rec      *metrics.Recorder
	prompt   string
	log      *zap.Logger
}

func NewResponder(
	repos *storage.Repositories,
	store *conversation.Store,
	aiClient *ai.Client,
	gw *gateway.Client,
	rec *metrics.Recorder,
	defaultPrompt string,
	log *zap.Logger,
) *Responder {
	r := &Responder{
		messages: repos.Message,
		settings: repos.Config,
		resolver: NewResolver(repos.Authorized),
		rec:      rec,
		prompt:   defaultPrompt,
		log:      log,
	}
	// Clientes nil ficam fora da interface para o teste de
	// disponibilidade continuar sendo uma comparação com nil.
	if store != nil {
		r.store = store
	}
	if aiClient != nil {
		r.ai = aiClient
	}
	if gw != nil {
		r.gw = gw
	}
	return r
}

// Handle processa uma mensagem recebida de ponta a ponta. Retorna o
// primeiro erro de dependência externa (para o log de webhook); guardas
// negativas (grupo, sem conteúdo, não autorizado) retornam nil.
func (r *Responder) Handle(ctx context.Context, instance model.Instance, env *Envelope) error {
	if env.Data == nil || env.Data.Key == nil || env.Data.Message == nil {
		r.log.Debug("responder: estrutura de mensagem inválida", zap.String("instance", instance.InstanceName))
		return nil
	}

	if env.Data.Key.FromMe {
		r.log.Debug("responder: ignorando mensagem própria")
		return nil
	}

	if IsGroupOrBroadcast(env) {
		r.log.Debug("responder: ignorando grupo ou broadcast")
		return nil
	}

	phone, ok := ExtractSenderID(env)
	if !ok {
		r.log.Debug("responder: remetente sem número resolvível")
		return nil
	}

	content, ok := ExtractContent(env.Data.Message)
	if !ok {
		r.log.Debug("responder: mensagem sem conteúdo de texto", zap.String("phone", phone))
		return nil
	}

	r.log.Info("responder: mensagem recebida",
		zap.String("instance", instance.InstanceName),
		zap.String("phone", phone),
	)

	authorized, isAuthorized, err := r.resolver.Resolve(ctx, instance.ID, phone)
	if err != nil {
		r.recordError(ctx, "authorization", err)
		return fmt.Errorf("verificar autorização: %w", err)
	}

	inbound := model.Message{
		InstanceID:  instance.ID,
		PhoneNumber: phone,
		Direction:   model.DirectionInbound,
		Content:     content,
		Status:      "received",
	}
	if isAuthorized {
		inbound.AuthorizedNumberID = authorized.ID
	}
	if _, err := r.messages.Create(ctx, inbound); err != nil {
		r.recordError(ctx, "persist_inbound", err)
		return fmt.Errorf("persistir mensagem recebida: %w", err)
	}

	r.rec.Count(ctx, model.MetricMessageReceived, map[string]any{"instanceId": instance.ID})

	if !isAuthorized {
		r.log.Info("responder: número não autorizado", zap.String("phone", phone))
		return nil
	}

	if !r.botEnabled(ctx) {
		r.log.Debug("responder: respostas automáticas desabilitadas pelo operador")
		return nil
	}

	if r.ai == nil {
		r.log.Debug("responder: IA não configurada, sem resposta")
		return nil
	}

	var history []ai.Turn
	if r.store != nil {
		history = r.store.Load(ctx, instance.ID, phone)
	}

	reply, err := r.ai.Generate(ctx, r.systemPrompt(ctx), history, content)
	if err != nil {
		r.recordError(ctx, "ai_response", err)
		return fmt.Errorf("gerar resposta: %w", err)
	}

	r.rec.Record(ctx, model.MetricAIRequest, 1, map[string]any{
		"instanceId":   instance.ID,
		"tokensUsed":   reply.TokensUsed,
		"responseTime": reply.ResponseTimeMillis,
	})

	if r.store != nil {
		r.store.Append(ctx, instance.ID, phone,
			ai.Turn{Role: "user", Content: content},
			ai.Turn{Role: "assistant", Content: reply.Content},
		)
	}

	if r.gw == nil {
		r.log.Debug("responder: gateway não configurado, resposta não enviada")
		return nil
	}

	if err := r.gw.SendText(ctx, instance.InstanceName, phone, reply.Content); err != nil {
		r.recordError(ctx, "gateway_send", err)
		return fmt.Errorf("enviar resposta: %w", err)
	}

	outbound := model.Message{
		InstanceID:         instance.ID,
		PhoneNumber:        phone,
		Direction:          model.DirectionOutbound,
		Content:            reply.Content,
		Status:             "sent",
		AIGenerated:        true,
		TokensUsed:         reply.TokensUsed,
		ResponseTimeMillis: reply.ResponseTimeMillis,
		AuthorizedNumberID: authorized.ID,
	}
	if _, err := r.messages.Create(ctx, outbound); err != nil {
		r.recordError(ctx, "persist_outbound", err)
		return fmt.Errorf("persistir resposta enviada: %w", err)
	}

	r.rec.Count(ctx, model.MetricMessageSent, map[string]any{"instanceId": instance.ID})

	return nil
}

// botEnabled consulta a chave bot_enabled em system_config. Qualquer valor
// diferente de "false" (ou a ausência da chave) mantém o bot ativo.
func (r *Responder) botEnabled(ctx context.Context) bool {
	if r.settings == nil {
		return true
	}
	cfg, err := r.settings.Get(ctx, "bot_enabled")
	if err != nil {
		return true
	}
	return cfg.Value != "false"
}

// systemPrompt resolve o prompt em camadas: override do operador em
// system_config, depois a variável de ambiente, depois o padrão.
func (r *Responder) systemPrompt(ctx context.Context) string {
	if r.settings != nil {
		if cfg, err := r.settings.Get(ctx, "system_prompt"); err == nil && cfg.Value != "" {
			return cfg.Value
		}
	}
	if r.prompt != "" {
		return r.prompt
	}
	return ai.DefaultSystemPrompt
}

func (r *Responder) recordError(ctx context.Context, source string, err error) {
	r.log.Error("responder: falha no processamento",
		zap.String("source", source),
		zap.Error(err),
	)
	r.rec.Count(ctx, model.MetricError, map[string]any{"source": source, "error": err.Error()})
}
