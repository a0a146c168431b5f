package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "cartcore"

// Store backend selectors.
const (
	StoreBackendMemory = "memory"
	StoreBackendRedis  = "redis"
	StoreBackendDB     = "db"
)

// DB driver selectors.
const (
	DBDriverSQLite   = "sqlite"
	DBDriverPostgres = "postgres"
)

type Config struct {
	App     AppConfig
	Session SessionConfig
	Store   StoreConfig
	Redis   RedisConfig
	DB      DBConfig
}

// Load reads configuration from the environment, picking up a local .env
// file first when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Store.validate(); err != nil {
		return nil, err
	}
	if err := cfg.DB.validate(cfg.Store.Backend); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CARTCORE_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"CARTCORE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CARTCORE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, "dev")
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, "production")
}

// SessionConfig describes the credential codec shared with the auth issuer.
type SessionConfig struct {
	Secret            string `envconfig:"CARTCORE_SESSION_SECRET" required:"true"`
	Issuer            string `envconfig:"CARTCORE_SESSION_ISSUER" default:"cartcore"`
	ExpirationMinutes int    `envconfig:"CARTCORE_SESSION_EXPIRATION_MINUTES" default:"1440"`
}

// TokenTTL returns the configured credential lifetime.
func (s SessionConfig) TokenTTL() time.Duration {
	if s.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(s.ExpirationMinutes) * time.Minute
}

// StoreConfig selects which key-value backend holds carts and session state.
type StoreConfig struct {
	Backend string `envconfig:"CARTCORE_STORE_BACKEND" default:"memory"`
}

func (s StoreConfig) validate() error {
	switch s.Backend {
	case StoreBackendMemory, StoreBackendRedis, StoreBackendDB:
		return nil
	}
	return fmt.Errorf("unknown store backend %q", s.Backend)
}

type RedisConfig struct {
	URL          string        `envconfig:"CARTCORE_REDIS_URL"`
	Address      string        `envconfig:"CARTCORE_REDIS_ADDR"`
	Password     string        `envconfig:"CARTCORE_REDIS_PASSWORD"`
	DB           int           `envconfig:"CARTCORE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CARTCORE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CARTCORE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CARTCORE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CARTCORE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CARTCORE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type DBConfig struct {
	Driver string `envconfig:"CARTCORE_DB_DRIVER" default:"sqlite"`
	DSN    string `envconfig:"CARTCORE_DB_DSN" default:"file:cartcore.db"`

	MaxOpenConns    int           `envconfig:"CARTCORE_DB_MAX_OPEN_CONNS" default:"5"`
	MaxIdleConns    int           `envconfig:"CARTCORE_DB_MAX_IDLE_CONNS" default:"2"`
	ConnMaxLifetime time.Duration `envconfig:"CARTCORE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CARTCORE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db DBConfig) validate(backend string) error {
	if backend != StoreBackendDB {
		return nil
	}
	switch db.Driver {
	case DBDriverSQLite, DBDriverPostgres:
	default:
		return fmt.Errorf("unknown db driver %q", db.Driver)
	}
	if db.DSN == "" {
		return fmt.Errorf("CARTCORE_DB_DSN is required for the db backend")
	}
	return nil
}
