package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET, required"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	Mongo     MongoConfig
	Redis     RedisConfig
	AMQP      AMQPConfig
	Auth      AuthConfig
	Dashboard DashboardConfig
	RateLimit RateLimitConfig
}

type MongoConfig struct {
	URI         string `env:"MONGO_URI,       default=mongodb://localhost:27017/?replicaSet=rs0"`
	Database    string `env:"MONGO_DB,        default=dashblogger"`
	MaxPoolSize uint64 `env:"MONGO_POOL_SIZE, default=50"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

// AMQPConfig points at the mail broker. An empty URL logs mails instead of
// publishing them.
type AMQPConfig struct {
	URL     string `env:"AMQP_URL"`
	Workers int    `env:"MAIL_WORKERS, default=4"`
}

type AuthConfig struct {
	TokenTTL          time.Duration `env:"TOKEN_TTL,         default=24h"`
	LoginURL          string        `env:"LOGIN_URL,         default=/login.html"`
	AdminBootstrap    bool          `env:"ADMIN_BOOTSTRAP,   default=false"`
	FederatedSecret   string        `env:"FEDERATED_SECRET"`
	FederatedIssuer   string        `env:"FEDERATED_ISSUER"`
	FederatedAudience string        `env:"FEDERATED_AUDIENCE"`
}

type DashboardConfig struct {
	PageSize      int `env:"PAGE_SIZE,      default=10"`
	FallbackLimit int `env:"FALLBACK_LIMIT, default=100"`
}

// RateLimitConfig throttles the public auth endpoints per client IP.
type RateLimitConfig struct {
	PerSecond float64 `env:"AUTH_RATE_PER_SECOND, default=5"`
	Burst     int     `env:"AUTH_RATE_BURST,      default=10"`
}

// Development reports whether ENV selects the developer setup.
func (c *Config) Development() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if cfg.Dashboard.PageSize <= 0 {
		return nil, fmt.Errorf("config: PAGE_SIZE must be positive, got %d", cfg.Dashboard.PageSize)
	}
	return &cfg, nil
}
