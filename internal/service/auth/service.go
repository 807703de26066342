package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/verlic/zapcentral/internal/config"
	"github.com/verlic/zapcentral/internal/storage"
	"github.com/verlic/zapcentral/internal/storage/model"
)

var (
	ErrInvalidCredentials = errors.New("email ou senha inválidos")
	ErrMissingFields      = errors.New("email e senha são obrigatórios")
)

type Service struct {
	users    storage.UserRepository
	sessions storage.SessionRepository
	jwtCfg   config.JWTConfig
	log      *zap.Logger
}

func NewService(users storage.UserRepository, sessions storage.SessionRepository, jwtCfg config.JWTConfig, log *zap.Logger) *Service {
	return &Service{users: users, sessions: sessions, jwtCfg: jwtCfg, log: log}
}

// LoginResult carrega o token assinado e o usuário autenticado.
type LoginResult struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expiresAt"`
	User      model.User `json:"user"`
}

// Login valida as credenciais, assina um JWT e registra a sessão no
// banco para que logout consiga revogar o token antes de expirar.
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return LoginResult{}, ErrMissingFields
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	expiresAt := time.Now().Add(time.Duration(s.jwtCfg.ExpHours) * time.Hour)
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"role":  user.Role,
		"exp":   expiresAt.Unix(),
		"iat":   time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtCfg.Secret))
	if err != nil {
		return LoginResult{}, err
	}

	if _, err := s.sessions.Create(ctx, model.Session{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: expiresAt,
	}); err != nil {
		return LoginResult{}, err
	}

	s.log.Info("auth: login realizado", zap.String("email", user.Email))
	return LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Logout revoga a sessão associada ao token. Token desconhecido não é
// erro, o efeito desejado já vale.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.DeleteByToken(ctx, token); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return err
	}
	return nil
}

// EnsureAdmin cria o usuário administrador inicial quando o banco está
// vazio, permitindo o primeiro login do console.
func (s *Service) EnsureAdmin(ctx context.Context, cfg config.AdminConfig) error {
	count, err := s.users.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if _, err := s.users.Create(ctx, model.User{
		Email:        strings.ToLower(strings.TrimSpace(cfg.Email)),
		PasswordHash: string(hash),
		Name:         cfg.Name,
		Role:         "admin",
	}); err != nil {
		return err
	}

	s.log.Info("auth: usuário administrador criado", zap.String("email", cfg.Email))
	return nil
}

// PurgeExpiredSessions remove sessões vencidas. Chamado periodicamente
// pelo processo da API.
func (s *Service) PurgeExpiredSessions(ctx context.Context) error {
	removed, err := s.sessions.DeleteExpired(ctx)
	if err != nil {
		return err
	}
	if removed > 0 {
		s.log.Info("auth: sessões expiradas removidas", zap.Int64("total", removed))
	}
	return nil
}
