package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/verlic/zapcentral/internal/ai"
)

const (
	defaultWindow = 20
	defaultTTL    = time.Hour
)

// Store guarda o histórico de conversa por (instância, telefone) no
// Redis com janela deslizante e TTL. Nil-safe: sem Redis o histórico é
// sempre vazio e salvar é no-op, a IA só perde memória entre mensagens.
type Store struct {
	rdb    *redis.Client
	window int
	ttl    time.Duration
	log    *zap.Logger
}

func NewStore(rdb *redis.Client, window int, ttlSeconds int, log *zap.Logger) *Store {
	if rdb == nil {
		log.Warn("conversation: Redis indisponível, contexto de conversa desabilitado")
		return nil
	}

	if window <= 0 {
		window = defaultWindow
	}
	ttl := defaultTTL
	if ttlSeconds > 0 {
		ttl = time.Duration(ttlSeconds) * time.Second
	}

	return &Store{rdb: rdb, window: window, ttl: ttl, log: log}
}

// Load retorna o histórico salvo, ou vazio quando não há nada (inclusive
// quando o JSON armazenado está corrompido; conversa recomeça do zero).
func (s *Store) Load(ctx context.Context, instanceID, phone string) []ai.Turn {
	if s == nil {
		return nil
	}

	data, err := s.rdb.Get(ctx, key(instanceID, phone)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn("conversation: erro ao carregar contexto", zap.Error(err))
		}
		return nil
	}

	var turns []ai.Turn
	if err := json.Unmarshal(data, &turns); err != nil {
		s.log.Warn("conversation: contexto corrompido, descartando", zap.Error(err))
		return nil
	}
	return turns
}

// Append acrescenta os turnos ao histórico, corta para a janela e
// renova o TTL.
func (s *Store) Append(ctx context.Context, instanceID, phone string, turns ...ai.Turn) {
	if s == nil {
		return
	}

	history := append(s.Load(ctx, instanceID, phone), turns...)
	if len(history) > s.window {
		history = history[len(history)-s.window:]
	}

	data, err := json.Marshal(history)
	if err != nil {
		s.log.Warn("conversation: erro ao serializar contexto", zap.Error(err))
		return
	}
	if err := s.rdb.Set(ctx, key(instanceID, phone), data, s.ttl).Err(); err != nil {
		s.log.Warn("conversation: erro ao salvar contexto", zap.Error(err))
	}
}

func (s *Store) Clear(ctx context.Context, instanceID, phone string) {
	if s == nil {
		return
	}
	if err := s.rdb.Del(ctx, key(instanceID, phone)).Err(); err != nil {
		s.log.Warn("conversation: erro ao limpar contexto", zap.Error(err))
	}
}

func key(instanceID, phone string) string {
	return fmt.Sprintf("conversation:%s:%s", instanceID, phone)
}
