package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Server    ServerConfig
	Logger    LoggerConfig
	Snapshot  SnapshotConfig
	Redis     RedisConfig
	Remote    RemoteConfig
	Kafka     KafkaConfig
	Lock      LockConfig
	Telemetry TelemetryConfig
	Register  RegisterConfig
}

type ServerConfig struct {
	AppEnv string `env:"APP_ENV" envDefault:"dev"`
}

type LoggerConfig struct {
	Level             string `env:"LOGGER_LEVEL" envDefault:"info"`
	Encoding          string `env:"LOGGER_ENCODING" envDefault:"console"`
	DisableCaller     bool   `env:"LOGGER_DISABLE_CALLER" envDefault:"true"`
	DisableStacktrace bool   `env:"LOGGER_DISABLE_STACKTRACE" envDefault:"true"`
}

type SnapshotConfig struct {
	Driver   string `env:"SNAPSHOT_DRIVER" envDefault:"file"` // file or redis
	Path     string `env:"SNAPSHOT_PATH" envDefault:"register.json"`
	RedisKey string `env:"SNAPSHOT_REDIS_KEY" envDefault:"omnipos:register:snapshot"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// RemoteConfig enables sync only when both URL and password are set.
type RemoteConfig struct {
	DatabaseURL  string        `env:"REMOTE_DATABASE_URL"`
	Password     string        `env:"REMOTE_DATABASE_PASSWORD"`
	Timeout      time.Duration `env:"REMOTE_TIMEOUT" envDefault:"15s"`
	MaxOpenConns int           `env:"REMOTE_MAX_OPEN_CONNS" envDefault:"5"`
	MaxIdleConns int           `env:"REMOTE_MAX_IDLE_CONNS" envDefault:"5"`
}

func (c RemoteConfig) Enabled() bool {
	return c.DatabaseURL != "" && c.Password != ""
}

type KafkaConfig struct {
	Brokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	Topic   string   `env:"KAFKA_TOPIC_SALES" envDefault:"sales.events"`
}

type LockConfig struct {
	Enabled bool          `env:"LOCK_ENABLED" envDefault:"false"`
	TTL     time.Duration `env:"LOCK_TTL" envDefault:"5s"`
	Retries int           `env:"LOCK_RETRIES" envDefault:"3"`
}

type TelemetryConfig struct {
	Enabled bool `env:"TELEMETRY_ENABLED" envDefault:"false"`
}

// RegisterConfig seeds the settings of a fresh snapshot.
type RegisterConfig struct {
	StoreName         string  `env:"REGISTER_STORE_NAME" envDefault:"My Store"`
	Currency          string  `env:"REGISTER_CURRENCY" envDefault:"USD"`
	TaxRate           float64 `env:"REGISTER_TAX_RATE" envDefault:"0"`
	LowStockThreshold int     `env:"REGISTER_LOW_STOCK_THRESHOLD" envDefault:"5"`
	PaymentProfile    string  `env:"REGISTER_PAYMENT_PROFILE" envDefault:"standard"`
}

func LoadEnv() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	switch cfg.Snapshot.Driver {
	case "file", "redis":
	default:
		return nil, fmt.Errorf("SNAPSHOT_DRIVER must be file or redis, got %q", cfg.Snapshot.Driver)
	}
	switch cfg.Register.PaymentProfile {
	case "standard", "upi":
	default:
		return nil, fmt.Errorf("REGISTER_PAYMENT_PROFILE must be standard or upi, got %q", cfg.Register.PaymentProfile)
	}
	if cfg.Register.TaxRate < 0 {
		return nil, fmt.Errorf("REGISTER_TAX_RATE must not be negative")
	}
	return &cfg, nil
}
