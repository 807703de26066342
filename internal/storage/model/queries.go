package model

// MessageFilter restringe a listagem paginada de mensagens.
type MessageFilter struct {
	InstanceID  string
	PhoneNumber string
	Limit       int
	Offset      int
}

// SenderCount é uma linha do ranking de remetentes.
type SenderCount struct {
	PhoneNumber string `json:"phoneNumber"`
	Name        string `json:"name,omitempty"`
	Count       int64  `json:"messageCount"`
}

// MessageStats agrega contagens globais de mensagens.
type MessageStats struct {
	Total       int64 `json:"totalMessages"`
	Inbound     int64 `json:"inboundMessages"`
	Outbound    int64 `json:"outboundMessages"`
	AIGenerated int64 `json:"aiResponses"`
}

// MetricSummary agrega uma série de métricas por tipo.
type MetricSummary struct {
	Total float64 `json:"total"`
	Count int64   `json:"count"`
}

// DayTotal é o total de uma métrica em um dia (data em YYYY-MM-DD).
type DayTotal struct {
	Date  string  `json:"date"`
	Total float64 `json:"total"`
}
