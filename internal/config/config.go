package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

var AppEnv Config

const (
	BackendMemory = "memory"
	BackendMongo  = "mongo"
	BackendRedis  = "redis"
)

type Config struct {
	Port     string `envconfig:"PORT"      default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	StorageBackend string `envconfig:"STORAGE_BACKEND" default:"memory"`
	MongoURI       string `envconfig:"MONGO_URI"`
	DBName         string `envconfig:"DB_NAME"      default:"shopdesk"`
	RedisAddr      string `envconfig:"REDIS_ADDR"`
	RedisPrefix    string `envconfig:"REDIS_PREFIX" default:"shopdesk:"`

	JWTSecret          string        `envconfig:"JWT_SECRET"`
	AccessPasscodeHash string        `envconfig:"ACCESS_PASSCODE_HASH"`
	AccessTokenTTL     time.Duration `envconfig:"ACCESS_TOKEN_TTL" default:"12h"`

	ExchangeRateURL     string        `envconfig:"EXCHANGE_RATE_URL"     default:"https://open.er-api.com/v6/latest/CNY"`
	RateMaxAge          time.Duration `envconfig:"RATE_MAX_AGE"          default:"24h"`
	RateRefreshInterval time.Duration `envconfig:"RATE_REFRESH_INTERVAL" default:"1m"`

	RabbitMQURL   string `envconfig:"RABBITMQ_URL"`
	StoreExchange string `envconfig:"STORE_EXCHANGE" default:"shopdesk.store"`
}

// AuthEnabled reports whether mutating routes require an access token.
func (c Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}

func (c Config) Validate() error {
	var errs []error
	switch c.StorageBackend {
	case BackendMemory:
	case BackendMongo:
		if strings.TrimSpace(c.MongoURI) == "" {
			errs = append(errs, errors.New("MONGO_URI is required for the mongo storage backend"))
		}
	case BackendRedis:
		if strings.TrimSpace(c.RedisAddr) == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required for the redis storage backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend))
	}
	if (c.JWTSecret == "") != (c.AccessPasscodeHash == "") {
		errs = append(errs, errors.New("JWT_SECRET and ACCESS_PASSCODE_HASH must be set together"))
	}
	if c.AccessTokenTTL <= 0 {
		errs = append(errs, errors.New("ACCESS_TOKEN_TTL must be positive"))
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Load reads .env when present, then the environment, into AppEnv.
func Load(logger *logrus.Logger) error {
	if err := godotenv.Load(); err != nil {
		if os.IsNotExist(err) {
			logger.Debug(".env not found, using process environment")
		} else {
			logger.WithError(err).Warn(".env not loaded")
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	AppEnv = cfg
	return nil
}
