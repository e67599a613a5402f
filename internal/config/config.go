// Package config holds the environment-supplied configuration for each
// service. Configs are loaded once in main and passed down explicitly; there
// is no global config state.
package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// GatewayConfig configures the API gateway.
type GatewayConfig struct {
	Port      string `env:"PORT,       default=3000"`
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	JWTSecret string `env:"JWT_SECRET, default=change_me"`

	UsersURL        string        `env:"USERS_URL,        default=http://localhost:4001"`
	OrdersURL       string        `env:"ORDERS_URL,       default=http://localhost:4002"`
	UpstreamTimeout time.Duration `env:"UPSTREAM_TIMEOUT, default=10s"`

	RateLimitWindow time.Duration `env:"RATE_LIMIT_WINDOW, default=1m"`
	RateLimitMax    int           `env:"RATE_LIMIT_MAX,    default=100"`

	RedisAddr string `env:"REDIS_ADDR"`
	RedisDB   int    `env:"REDIS_DB, default=0"`
}

// UsersConfig configures the users service.
type UsersConfig struct {
	Port      string        `env:"PORT,       default=4001"`
	Env       string        `env:"ENV,        default=development"`
	LogLevel  string        `env:"LOG_LEVEL,  default=info"`
	JWTSecret string        `env:"JWT_SECRET, default=change_me"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,  default=12h"`

	DataFile string `env:"USERS_DATA_FILE, default=data/users.json"`
	SeedFile string `env:"USERS_SEED_FILE"`
}

// OrdersConfig configures the orders service.
type OrdersConfig struct {
	Port      string `env:"PORT,       default=4002"`
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	JWTSecret string `env:"JWT_SECRET, default=change_me"`

	DataFile string `env:"ORDERS_DATA_FILE, default=data/orders.json"`
	// StrictTransitions holds admin transitions to the adjacency table on
	// top of the terminal lock.
	StrictTransitions bool `env:"ORDERS_STRICT_TRANSITIONS, default=false"`
}

// Load populates cfg from the environment.
func Load(ctx context.Context, cfg any) error {
	if err := envconfig.Process(ctx, cfg); err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	return nil
}
