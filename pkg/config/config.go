package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every environment variable the service reads.
const EnvPrefix = "STOREFRONT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App       AppConfig
	Gateway   GatewayConfig
	Redis     RedisConfig
	CatalogDB CatalogDBConfig
	Session   SessionConfig
	RateLimit RateLimitConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Gateway.validate(); err != nil {
		return nil, err
	}
	if err := cfg.CatalogDB.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" required:"true"`
	Port         string `envconfig:"STOREFRONT_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// GatewayConfig points the service at the commerce platform API.
type GatewayConfig struct {
	BaseURL     string        `envconfig:"STOREFRONT_GATEWAY_BASE_URL" required:"true"`
	Timeout     time.Duration `envconfig:"STOREFRONT_GATEWAY_TIMEOUT" default:"10s"`
	UserAgent   string        `envconfig:"STOREFRONT_GATEWAY_USER_AGENT" default:"storefront-session"`
	MaxIdleConn int           `envconfig:"STOREFRONT_GATEWAY_MAX_IDLE_CONNS" default:"20"`
}

func (g GatewayConfig) validate() error {
	if strings.TrimSpace(g.BaseURL) == "" {
		return fmt.Errorf("gateway base url is required")
	}
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint was configured at all. The
// service degrades to unthrottled intents when redis is absent in dev.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

// CatalogDBConfig configures the local catalog snapshot cache.
type CatalogDBConfig struct {
	Driver          string        `envconfig:"STOREFRONT_CATALOG_DB_DRIVER" default:"sqlite"`
	DSN             string        `envconfig:"STOREFRONT_CATALOG_DB_DSN" default:"file:catalog.db?cache=shared"`
	MaxOpenConns    int           `envconfig:"STOREFRONT_CATALOG_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"STOREFRONT_CATALOG_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"STOREFRONT_CATALOG_DB_CONN_MAX_LIFETIME" default:"1h"`
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

func (c CatalogDBConfig) validate() error {
	driver := strings.ToLower(strings.TrimSpace(c.Driver))
	switch driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("catalog db driver must be %q or %q", DriverSQLite, DriverPostgres)
	}
	if strings.TrimSpace(c.DSN) == "" {
		return fmt.Errorf("catalog db dsn is required")
	}
	return nil
}

// NormalizedDriver returns the lower-cased driver name.
func (c CatalogDBConfig) NormalizedDriver() string {
	return strings.ToLower(strings.TrimSpace(c.Driver))
}

// SessionConfig governs the lifecycle of per-token session containers.
type SessionConfig struct {
	IdleTTL       time.Duration `envconfig:"STOREFRONT_SESSION_IDLE_TTL" default:"30m"`
	SweepInterval time.Duration `envconfig:"STOREFRONT_SESSION_SWEEP_INTERVAL" default:"5m"`
}

type RateLimitConfig struct {
	MutationWindow time.Duration `envconfig:"STOREFRONT_RATE_LIMIT_MUTATION_WINDOW" default:"1m"`
	MutationLimit  int           `envconfig:"STOREFRONT_RATE_LIMIT_MUTATION_LIMIT" default:"120"`
}
