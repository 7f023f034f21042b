package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/daleyoon76/saas-idea-generator/internal/clients/ollama"
	"github.com/daleyoon76/saas-idea-generator/internal/clients/redis"
	"github.com/daleyoon76/saas-idea-generator/internal/clients/tavily"
	"github.com/daleyoon76/saas-idea-generator/internal/clients/trends"
	"github.com/daleyoon76/saas-idea-generator/internal/data/db"
	"github.com/daleyoon76/saas-idea-generator/internal/observability"
	"github.com/daleyoon76/saas-idea-generator/internal/services"
)

type Config struct {
	LogMode     string `env:"LOG_MODE" envDefault:"development"`
	Port        string `env:"PORT" envDefault:"8080"`
	Environment string `env:"APP_ENV" envDefault:"development"`
	Version     string `env:"APP_VERSION" envDefault:"dev"`

	CORS     []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	Metrics  bool          `env:"METRICS_ENABLED" envDefault:"true"`
	Shutdown time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`

	DB     DBConfig
	Auth   AuthConfig
	Ollama OllamaConfig
	Tavily TavilyConfig
	Trends TrendsConfig
	Redis  RedisConfig
	Otel   OtelConfig
}

type DBConfig struct {
	Driver       string `env:"DB_DRIVER" envDefault:"postgres"`
	Host         string `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port         string `env:"POSTGRES_PORT" envDefault:"5432"`
	User         string `env:"POSTGRES_USER" envDefault:"postgres"`
	Password     string `env:"POSTGRES_PASSWORD"`
	Name         string `env:"POSTGRES_NAME" envDefault:"ideaforge"`
	SSLMode      string `env:"POSTGRES_SSLMODE" envDefault:"disable"`
	SQLitePath   string `env:"SQLITE_PATH" envDefault:"ideaforge.db"`
	MaxOpenConns int    `env:"DB_MAX_OPEN_CONNS" envDefault:"20"`
	MaxIdleConns int    `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
}

type AuthConfig struct {
	JWTSecretKey     string   `env:"JWT_SECRET_KEY,required,notEmpty"`
	Issuer           string   `env:"JWT_ISSUER"`
	Audience         string   `env:"JWT_AUDIENCE"`
	AllowedProviders []string `env:"AUTH_PROVIDERS" envDefault:"google,naver,kakao" envSeparator:","`
}

type OllamaConfig struct {
	BaseURL     string        `env:"OLLAMA_BASE_URL" envDefault:"http://localhost:11434"`
	Model       string        `env:"OLLAMA_MODEL" envDefault:"gemma2:9b"`
	Timeout     time.Duration `env:"OLLAMA_TIMEOUT" envDefault:"120s"`
	PingTimeout time.Duration `env:"OLLAMA_PING_TIMEOUT" envDefault:"3s"`
}

type TavilyConfig struct {
	BaseURL string        `env:"TAVILY_BASE_URL" envDefault:"https://api.tavily.com"`
	APIKey  string        `env:"TAVILY_API_KEY"`
	Timeout time.Duration `env:"TAVILY_TIMEOUT" envDefault:"20s"`
}

type TrendsConfig struct {
	BaseURL   string        `env:"TRENDS_BASE_URL" envDefault:"https://trends.google.com"`
	Geo       string        `env:"TRENDS_GEO" envDefault:"KR"`
	Timeframe string        `env:"TRENDS_TIMEFRAME" envDefault:"today 12-m"`
	Language  string        `env:"TRENDS_LANGUAGE" envDefault:"ko"`
	Timeout   time.Duration `env:"TRENDS_TIMEOUT" envDefault:"15s"`
}

type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB" envDefault:"0"`
	TTL      time.Duration `env:"CACHE_TTL" envDefault:"1h"`
}

type OtelConfig struct {
	Enabled     bool    `env:"OTEL_ENABLED" envDefault:"false"`
	ServiceName string  `env:"OTEL_SERVICE_NAME" envDefault:"ideaforge-api"`
	Endpoint    string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	Headers     string  `env:"OTEL_EXPORTER_OTLP_HEADERS"`
	Insecure    bool    `env:"OTEL_EXPORTER_OTLP_INSECURE" envDefault:"false"`
	SampleRatio float64 `env:"OTEL_TRACES_SAMPLER_RATIO" envDefault:"1"`
}

// LoadConfig reads the process environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.DB.Driver = strings.ToLower(strings.TrimSpace(cfg.DB.Driver))
	if cfg.DB.Driver != db.DriverPostgres && cfg.DB.Driver != db.DriverSQLite {
		return Config{}, fmt.Errorf("DB_DRIVER must be %q or %q, got %q", db.DriverPostgres, db.DriverSQLite, cfg.DB.Driver)
	}
	return cfg, nil
}

func (c Config) Address() string {
	port := strings.TrimPrefix(strings.TrimSpace(c.Port), ":")
	if port == "" {
		port = "8080"
	}
	return ":" + port
}

func (c Config) dbConfig() db.Config {
	return db.Config{
		Driver:           c.DB.Driver,
		PostgresHost:     c.DB.Host,
		PostgresPort:     c.DB.Port,
		PostgresUser:     c.DB.User,
		PostgresPassword: c.DB.Password,
		PostgresName:     c.DB.Name,
		PostgresSSLMode:  c.DB.SSLMode,
		SQLitePath:       c.DB.SQLitePath,
		MaxOpenConns:     c.DB.MaxOpenConns,
		MaxIdleConns:     c.DB.MaxIdleConns,
	}
}

func (c Config) authConfig() services.AuthConfig {
	return services.AuthConfig{
		JWTSecretKey:     c.Auth.JWTSecretKey,
		Issuer:           c.Auth.Issuer,
		Audience:         c.Auth.Audience,
		AllowedProviders: c.Auth.AllowedProviders,
	}
}

func (c Config) ollamaConfig() ollama.Config {
	return ollama.Config{
		BaseURL:     c.Ollama.BaseURL,
		Model:       c.Ollama.Model,
		Timeout:     c.Ollama.Timeout,
		PingTimeout: c.Ollama.PingTimeout,
	}
}

func (c Config) tavilyConfig() tavily.Config {
	return tavily.Config{BaseURL: c.Tavily.BaseURL, APIKey: c.Tavily.APIKey, Timeout: c.Tavily.Timeout}
}

func (c Config) trendsConfig() trends.Config {
	return trends.Config{
		BaseURL:   c.Trends.BaseURL,
		Geo:       c.Trends.Geo,
		Timeframe: c.Trends.Timeframe,
		Language:  c.Trends.Language,
		Timeout:   c.Trends.Timeout,
	}
}

func (c Config) redisConfig() redis.Config {
	return redis.Config{Addr: c.Redis.Addr, Password: c.Redis.Password, DB: c.Redis.DB, TTL: c.Redis.TTL}
}

func (c Config) otelConfig() observability.OtelConfig {
	return observability.OtelConfig{
		Enabled:     c.Otel.Enabled,
		ServiceName: c.Otel.ServiceName,
		Environment: c.Environment,
		Version:     c.Version,
		Endpoint:    c.Otel.Endpoint,
		Headers:     observability.ParseHeaders(c.Otel.Headers),
		Insecure:    c.Otel.Insecure,
		SampleRatio: c.Otel.SampleRatio,
	}
}
