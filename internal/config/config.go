package config

import (
	"fmt"
	"log"

	"github.com/caarlos0/env/v10"
)

const Version = "1.0.0"

type Config struct {
	App         AppConfig
	DB          DatabaseConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Log         LogConfig
	Storage     StorageConfig
	RateLimit   RateLimitConfig
	IPRateLimit IPRateLimitConfig
	Evolution   EvolutionConfig
	DeepSeek    DeepSeekConfig
	Bot         BotConfig
	Admin       AdminConfig
}

// AdminConfig define o usuário administrador criado no primeiro boot
// quando a tabela de usuários está vazia.
type AdminConfig struct {
	Email    string `env:"ADMIN_EMAIL" envDefault:"admin@zapcentral.local"`
	Password string `env:"ADMIN_PASSWORD" envDefault:"admin123"`
	Name     string `env:"ADMIN_NAME" envDefault:"Administrador"`
}

type StorageConfig struct {
	Driver  string `env:"DB_DRIVER" envDefault:"sqlite"`
	DataDir string `env:"DATA_DIR" envDefault:"/app/data"`
}

type AppConfig struct {
	Env     string `env:"APP_ENV" envDefault:"development"`
	Port    string `env:"PORT" envDefault:"8080"`
	BaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`
}

type DatabaseConfig struct {
	URL      string `env:"DATABASE_URL"`
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     int    `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD" envDefault:"postgres"`
	Name     string `env:"DB_NAME" envDefault:"postgres"`
	SSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
}

// DSN retorna a string de conexão em formato aceito pelo pgxpool.
func (cfg DatabaseConfig) DSN() string {
	if cfg.URL != "" {
		return cfg.URL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode,
	)
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD" envDefault:""`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	Enabled  bool   `env:"REDIS_ENABLED" envDefault:"false"`
}

type RateLimitConfig struct {
	Enabled       bool   `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	Requests      int    `env:"RATE_LIMIT_REQUESTS" envDefault:"300"`
	WindowSeconds int    `env:"RATE_LIMIT_WINDOW_SECONDS" envDefault:"60"`
	Prefix        string `env:"RATE_LIMIT_PREFIX" envDefault:"ratelimit:api"`
}

type IPRateLimitConfig struct {
	Enabled        bool `env:"IP_RATE_LIMIT_ENABLED" envDefault:"true"`
	Requests       int  `env:"IP_RATE_LIMIT_REQUESTS" envDefault:"100"`
	WindowSeconds  int  `env:"IP_RATE_LIMIT_WINDOW_SECONDS" envDefault:"900"`
	SkipPrivateIPs bool `env:"IP_RATE_LIMIT_SKIP_PRIVATE_IPS" envDefault:"true"`
}

type JWTConfig struct {
	Secret   string `env:"JWT_SECRET,required"`
	ExpHours int    `env:"JWT_EXP_HOURS" envDefault:"168"`
}

type LogConfig struct {
	Level string `env:"LOG_LEVEL" envDefault:"debug"`
}

// EvolutionConfig aponta para o gateway WhatsApp externo (Evolution API).
// Quando vazio, toda chamada ao gateway vira no-op.
type EvolutionConfig struct {
	BaseURL string `env:"EVOLUTION_API_URL"`
	APIKey  string `env:"EVOLUTION_API_KEY"`
}

func (cfg EvolutionConfig) IsConfigured() bool {
	return cfg.BaseURL != "" && cfg.APIKey != ""
}

// DeepSeekConfig configura o backend de IA. Sem chave, respostas
// automáticas ficam desabilitadas.
type DeepSeekConfig struct {
	BaseURL string `env:"DEEPSEEK_API_URL" envDefault:"https://api.deepseek.com"`
	APIKey  string `env:"DEEPSEEK_API_KEY"`
	Model   string `env:"DEEPSEEK_MODEL" envDefault:"deepseek-chat"`
}

func (cfg DeepSeekConfig) IsConfigured() bool {
	return cfg.APIKey != ""
}

type BotConfig struct {
	SystemPrompt      string `env:"BOT_SYSTEM_PROMPT"`
	ContextMessages   int    `env:"BOT_CONTEXT_MESSAGES" envDefault:"20"`
	ContextTTLSeconds int    `env:"BOT_CONTEXT_TTL_SECONDS" envDefault:"3600"`
}

// Load carrega as configurações da aplicação.
func Load() Config {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("config: não foi possível carregar variáveis: %v", err)
	}
	return cfg
}
