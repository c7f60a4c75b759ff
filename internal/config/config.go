package config

import (
	"fmt"
	"time"

	"github.com/chamarodfai/POS/pkg/config"
)

// Storage backend selection. Chosen once at startup; the rest of the
// application works against repository interfaces.
const (
	BackendPostgres = "postgres"
	BackendSheets   = "sheets"
)

// Config holds all service configuration, loaded from environment variables.
type Config struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"pos"`
	HTTPPort    int    `env:"HTTP_PORT" envDefault:"3001"`
	MetricsPort int    `env:"METRICS_PORT" envDefault:"9090"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// StorageBackend selects where catalog and order data live:
	// "postgres" (default) or "sheets" (Google Apps Script web app).
	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"postgres"`

	Postgres PostgresConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Sheets   SheetsConfig
	Auth     AuthConfig

	// CartTTL bounds how long an idle cart survives in Redis.
	CartTTL time.Duration `env:"CART_TTL" envDefault:"4h"`

	// ReportTimezone is the IANA zone used for report day boundaries.
	ReportTimezone string `env:"REPORT_TIMEZONE" envDefault:"UTC"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"20"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"40"`

	// OTLPEndpoint enables tracing when set (host:port of an OTLP HTTP collector).
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
}

// PostgresConfig holds PostgreSQL settings.
type PostgresConfig struct {
	Host     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	User     string `env:"POSTGRES_USER" envDefault:"pos"`
	Password string `env:"POSTGRES_PASSWORD" envDefault:"pos_secret"`
	DBName   string `env:"POSTGRES_DB" envDefault:"pos"`
	SSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`
	MaxConns int32  `env:"POSTGRES_MAX_CONNS" envDefault:"25"`
	MinConns int32  `env:"POSTGRES_MIN_CONNS" envDefault:"5"`
}

// RedisConfig holds Redis settings for the cart store.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD" envDefault:""`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// KafkaConfig holds event publishing settings. Publishing is disabled when
// Brokers is empty.
type KafkaConfig struct {
	Brokers []string `env:"KAFKA_BROKERS" envSeparator:"," envDefault:""`
	Topic   string   `env:"KAFKA_TOPIC" envDefault:"pos.orders"`
}

// SheetsConfig holds settings for the Google Apps Script storage backend.
type SheetsConfig struct {
	// WebAppURL is the deployed Apps Script web app endpoint.
	WebAppURL string        `env:"SHEETS_WEBAPP_URL" envDefault:""`
	Token     string        `env:"SHEETS_TOKEN" envDefault:""`
	Timeout   time.Duration `env:"SHEETS_TIMEOUT" envDefault:"10s"`
}

// AuthConfig holds staff authentication settings.
type AuthConfig struct {
	JWTSecret    string        `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`
	TokenTTL     time.Duration `env:"JWT_TOKEN_TTL" envDefault:"12h"`
	AdminUser    string        `env:"ADMIN_USERNAME" envDefault:"admin"`
	// AdminPasswordHash is a bcrypt hash; the default is "admin1234" for
	// local development only.
	AdminPasswordHash string `env:"ADMIN_PASSWORD_HASH" envDefault:"$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"`
}

// Load reads configuration from environment variables and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := config.Load(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints that env tags cannot express.
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case BackendPostgres:
	case BackendSheets:
		if c.Sheets.WebAppURL == "" {
			return fmt.Errorf("SHEETS_WEBAPP_URL is required when STORAGE_BACKEND=sheets")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q (want %q or %q)", c.StorageBackend, BackendPostgres, BackendSheets)
	}

	if _, err := time.LoadLocation(c.ReportTimezone); err != nil {
		return fmt.Errorf("invalid REPORT_TIMEZONE %q: %w", c.ReportTimezone, err)
	}

	return nil
}
