package ratelimiter

import (
	"context"
	"time"
)

// Result descreve o estado da janela após contabilizar a requisição.
type Result struct {
	Allowed    bool
	Remaining  int
	Reset      time.Time
	RetryAfter time.Duration
}

// Limiter conta requisições por chave em janela fixa. Implementações:
// Redis quando habilitado, memória local como fallback.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*Result, error)
}
