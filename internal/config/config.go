package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v6"
)

const (
	TokenStorePostgres = "postgres"
	TokenStoreRedis    = "redis"

	MailDeliverySync  = "sync"
	MailDeliveryQueue = "queue"
)

type Config struct {
	IsTestMode bool   `env:"TEST_MODE" envDefault:"false"`
	Port       uint16 `env:"PORT" envDefault:"9090"`
	Secret     string `env:"SECRET,required"`

	PostgresqlURL  string `env:"POSTGRESQL_URL,required"`
	MigrationsPath string `env:"MIGRATIONS_PATH" envDefault:"migrations"`
	RedisURL       string `env:"REDIS_URL"`

	BaseURL        url.URL  `env:"BASE_URL,required"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	BcryptHasherCost                int           `env:"BCRYPT_HASHER_COST" envDefault:"10"`
	PasswordResetTokenStore         string        `env:"PASSWORD_RESET_TOKEN_STORE" envDefault:"postgres"`
	PasswordResetValidDurationHours int           `env:"PASSWORD_RESET_VALID_DURATION_HOURS" envDefault:"24"`
	PasswordResetTokenPurgePeriod   time.Duration `env:"PASSWORD_RESET_TOKEN_PURGE_PERIOD" envDefault:"1h"`
	PasswordResetTokenRetention     time.Duration `env:"PASSWORD_RESET_TOKEN_RETENTION" envDefault:"168h"`

	AwsRegion                     string `env:"AWS_REGION" envDefault:"eu-central-1"`
	AwsAccessKey                  string `env:"AWS_ACCESS_KEY"`
	AwsSecretKey                  string `env:"AWS_SECRET_KEY"`
	AwsEmailSender                string `env:"AWS_EMAIL_SENDER" envDefault:"no-reply@example.com"`
	AwsEmailPasswordResetTemplate string `env:"AWS_EMAIL_PASSWORD_RESET_TEMPLATE" envDefault:"password-reset"`

	MailDelivery                    string `env:"MAIL_DELIVERY" envDefault:"sync"`
	RabbitmqURL                     string `env:"RABBITMQ_URL"`
	RabbitmqPasswordResetEmailQueue string `env:"RABBITMQ_PASSWORD_RESET_EMAIL_QUEUE" envDefault:"password_reset_email"`
}

func Load() (*Config, error) {
	return load(env.Options{})
}

func load(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg, opts); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Secret == "" {
		return fmt.Errorf("SECRET must not be empty")
	}
	if c.PasswordResetValidDurationHours <= 0 {
		return fmt.Errorf("PASSWORD_RESET_VALID_DURATION_HOURS must be positive, got %d", c.PasswordResetValidDurationHours)
	}
	if c.PasswordResetTokenRetention < 0 {
		return fmt.Errorf("PASSWORD_RESET_TOKEN_RETENTION must not be negative")
	}
	if c.PasswordResetTokenPurgePeriod <= 0 {
		return fmt.Errorf("PASSWORD_RESET_TOKEN_PURGE_PERIOD must be positive")
	}
	if c.BaseURL.Scheme == "" || c.BaseURL.Host == "" {
		return fmt.Errorf("BASE_URL must be an absolute URL")
	}

	switch c.PasswordResetTokenStore {
	case TokenStorePostgres:
	case TokenStoreRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL must be set for the %q token store", TokenStoreRedis)
		}
	default:
		return fmt.Errorf("unknown PASSWORD_RESET_TOKEN_STORE value: %q", c.PasswordResetTokenStore)
	}

	switch c.MailDelivery {
	case MailDeliverySync:
	case MailDeliveryQueue:
		if c.RabbitmqURL == "" {
			return fmt.Errorf("RABBITMQ_URL must be set for the %q mail delivery", MailDeliveryQueue)
		}
	default:
		return fmt.Errorf("unknown MAIL_DELIVERY value: %q", c.MailDelivery)
	}
	return nil
}

func (c *Config) PasswordResetValidDuration() time.Duration {
	return time.Duration(c.PasswordResetValidDurationHours) * time.Hour
}

func (c *Config) IsRedisTokenStore() bool {
	return c.PasswordResetTokenStore == TokenStoreRedis
}

func (c *Config) IsQueuedMailDelivery() bool {
	return c.MailDelivery == MailDeliveryQueue
}
