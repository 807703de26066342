package ai

import (
	"context"
	"errors"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/verlic/zapcentral/internal/config"
)

// Prompt padrão quando o operador não configurou um.
const DefaultSystemPrompt = `Você é um assistente virtual profissional e prestativo.
Responda de forma clara, objetiva e educada.
Mantenha suas respostas concisas, mas completas.
Sempre responda no mesmo idioma da mensagem recebida.
Se não souber algo, diga honestamente.`

const (
	maxTokens      = 1024
	temperature    = 0.7
	requestTimeout = 60 * time.Second
)

var ErrUnavailable = errors.New("ai: serviço não configurado")

// Turn é uma mensagem do histórico da conversa.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Reply carrega a resposta do modelo e o custo observado.
type Reply struct {
	Content            string
	TokensUsed         int
	ResponseTimeMillis int64
}

type chatClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Client gera respostas via DeepSeek (API compatível com OpenAI).
// Nil-safe: sem chave configurada toda chamada retorna ErrUnavailable.
type Client struct {
	chat  chatClient
	model string
	log   *zap.Logger
}

func New(cfg config.DeepSeekConfig, log *zap.Logger) *Client {
	if !cfg.IsConfigured() {
		log.Warn("ai: DeepSeek não configurado, respostas automáticas desabilitadas")
		return nil
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = cfg.BaseURL

	model := cfg.Model
	if model == "" {
		model = "deepseek-chat"
	}

	return &Client{
		chat:  openai.NewClientWithConfig(clientConfig),
		model: model,
		log:   log,
	}
}

// Generate monta o prompt com o histórico e chama o modelo. O histórico
// não inclui a mensagem atual do usuário; ela entra por último.
func (c *Client) Generate(ctx context.Context, systemPrompt string, history []Turn, userMessage string) (Reply, error) {
	if c == nil {
		return Reply{}, ErrUnavailable
	}

	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, turn := range history {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    turn.Role,
			Content: turn.Content,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userMessage,
	})

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	start := time.Now()
	resp, err := c.chat.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	elapsed := time.Since(start).Milliseconds()
	if err != nil {
		return Reply{}, err
	}

	var content string
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
	}

	return Reply{
		Content:            content,
		TokensUsed:         resp.Usage.TotalTokens,
		ResponseTimeMillis: elapsed,
	}, nil
}
