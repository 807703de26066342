package model

import (
	"errors"
	"time"
)

// ErrNotFound é o sentinela compartilhado pelos drivers de storage;
// mora aqui para que sqlite e postgres possam devolver o mesmo erro
// sem criar ciclo de importação com o pacote storage.
var ErrNotFound = errors.New("not found")

type InstanceStatus string

const (
	InstanceStatusDisconnected InstanceStatus = "disconnected"
	InstanceStatusConnecting   InstanceStatus = "connecting"
	InstanceStatusConnected    InstanceStatus = "connected"
)

// Instance representa uma conexão WhatsApp mantida pelo gateway externo.
type Instance struct {
	ID           string         `json:"id"`
	InstanceName string         `json:"instanceName"`
	Status       InstanceStatus `json:"status"`
	QRCode       string         `json:"qrCode,omitempty"`
	PhoneNumber  string         `json:"phoneNumber,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// AuthorizedNumber libera um telefone para receber respostas da IA.
// O número armazenado pode estar em formato legado (com ou sem DDI),
// por isso a resolução de autorização tolera variantes.
type AuthorizedNumber struct {
	ID          string    `json:"id"`
	InstanceID  string    `json:"instanceId"`
	PhoneNumber string    `json:"phoneNumber"`
	Name        string    `json:"name,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type MessageDirection string

const (
	DirectionInbound  MessageDirection = "inbound"
	DirectionOutbound MessageDirection = "outbound"
)

// Message é o registro imutável de uma mensagem trocada com um contato.
type Message struct {
	ID                 string           `json:"id"`
	InstanceID         string           `json:"instanceId"`
	PhoneNumber        string           `json:"phoneNumber"`
	Direction          MessageDirection `json:"direction"`
	Content            string           `json:"content"`
	Status             string           `json:"status"`
	AIGenerated        bool             `json:"aiGenerated"`
	TokensUsed         int              `json:"tokensUsed,omitempty"`
	ResponseTimeMillis int64            `json:"responseTime,omitempty"`
	AuthorizedNumberID string           `json:"authorizedNumberId,omitempty"`
	CreatedAt          time.Time        `json:"createdAt"`
}

type MetricType string

const (
	MetricAPIRequest      MetricType = "api_request"
	MetricAIRequest       MetricType = "ai_request"
	MetricMessageSent     MetricType = "message_sent"
	MetricMessageReceived MetricType = "message_received"
	MetricError           MetricType = "error"
	MetricWebhookReceived MetricType = "webhook_received"
	MetricBotStarted      MetricType = "bot_started"
	MetricBotStopped      MetricType = "bot_stopped"
)

// Metric é um contador tipado usado só para observabilidade; o pipeline
// de resposta nunca lê métricas de volta.
type Metric struct {
	ID         string     `json:"id"`
	MetricType MetricType `json:"metricType"`
	Value      float64    `json:"value"`
	Metadata   string     `json:"metadata,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// BotStatus acompanha quando o bot de cada instância esteve ativo.
type BotStatus struct {
	ID          string     `json:"id"`
	InstanceID  string     `json:"instanceId"`
	IsRunning   bool       `json:"isRunning"`
	LastStarted *time.Time `json:"lastStarted,omitempty"`
	LastStopped *time.Time `json:"lastStopped,omitempty"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// WebhookLog guarda o payload bruto recebido do gateway, para depuração.
// Error fica preenchido quando o processamento interno falhou.
type WebhookLog struct {
	ID           string    `json:"id"`
	Event        string    `json:"event"`
	InstanceName string    `json:"instanceName"`
	Payload      string    `json:"payload"`
	Error        string    `json:"error,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// SystemConfig é um par chave/valor editável pelo operador
// (ex.: system_prompt).
type SystemConfig struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}
