package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	RequestRate  RequestRateConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"DEVEX_APP_ENV" required:"true"`
	Port         string `envconfig:"DEVEX_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"DEVEX_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"DEVEX_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"DEVEX_DB_DSN" required:"true"`

	MaxOpenConns    int           `envconfig:"DEVEX_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DEVEX_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DEVEX_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DEVEX_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"DEVEX_REDIS_URL"`
	Address      string        `envconfig:"DEVEX_REDIS_ADDR"`
	Password     string        `envconfig:"DEVEX_REDIS_PASSWORD"`
	DB           int           `envconfig:"DEVEX_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"DEVEX_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DEVEX_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DEVEX_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DEVEX_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DEVEX_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"DEVEX_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"DEVEX_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"DEVEX_JWT_EXPIRATION_MINUTES" default:"60"`
}

// AccessTokenTTL returns the access token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type RequestRateConfig struct {
	Window    time.Duration `envconfig:"DEVEX_REQUEST_RATE_WINDOW" default:"1m"`
	IPLimit   int           `envconfig:"DEVEX_REQUEST_RATE_IP_LIMIT" default:"30"`
	UserLimit int           `envconfig:"DEVEX_REQUEST_RATE_USER_LIMIT" default:"10"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"DEVEX_AUTO_MIGRATE" default:"false"`
}
