package app

import (
	"fmt"
	"time"

	server "github.com/anastasia-gushchina/topdj-bot/internal/adapters/primary/http"
	alerterAdapter "github.com/anastasia-gushchina/topdj-bot/internal/adapters/secondary/alerter"
	kafkaAdapter "github.com/anastasia-gushchina/topdj-bot/internal/adapters/secondary/kafka"
	"github.com/anastasia-gushchina/topdj-bot/internal/adapters/secondary/storage/pg"
	redisAdapter "github.com/anastasia-gushchina/topdj-bot/internal/adapters/secondary/storage/redis"
	s3Adapter "github.com/anastasia-gushchina/topdj-bot/internal/adapters/secondary/storage/s3"
	"github.com/anastasia-gushchina/topdj-bot/internal/adapters/secondary/telegram"
	"github.com/anastasia-gushchina/topdj-bot/internal/pkg/logger"
	"github.com/anastasia-gushchina/topdj-bot/internal/services/jobs"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Postgres *pg.Config             `envconfig:"POSTGRES"`
	Redis    *redisAdapter.Config   `envconfig:"REDIS"`
	Log      *logger.Config         `envconfig:"LOG"`
	Server   *server.Config         `envconfig:"APISERVER"`
	Telegram *telegram.Config       `envconfig:"TELEGRAM"`
	Shop     *ShopConfig            `envconfig:"SHOP"`
	Alerter  *alerterAdapter.Config `envconfig:"ALERTER"`
	S3       *s3Adapter.Config      `envconfig:"S3"`
	Kafka    *kafkaAdapter.Config   `envconfig:"KAFKA"`
	Jobs     *JobsConfig            `envconfig:"JOBS"`
}

// ShopConfig каталог, файлы паков и платёжные параметры
type ShopConfig struct {
	FilesPath   string `envconfig:"FILES_PATH" default:"./files"`
	CatalogPath string `envconfig:"CATALOG_PATH"` // пусто - встроенный каталог
	Currency    string `envconfig:"CURRENCY" default:"RUB"`
	AdminChatID int64  `envconfig:"ADMIN_CHAT_ID" required:"true"`
	PageSize    int    `envconfig:"PAGE_SIZE" default:"10"`
}

// JobsConfig JOBS_STALE_SCHEDULE, JOBS_STALE_AFTER, JOBS_STALE_LIMIT
type JobsConfig struct {
	Enabled bool `envconfig:"ENABLED" default:"true"`
	jobs.StalePaymentsConfig
}

func (c *ShopConfig) Validate() error {
	if c.AdminChatID == 0 {
		return fmt.Errorf("admin chat id is required")
	}
	if len(c.Currency) != 3 {
		return fmt.Errorf("invalid currency %q", c.Currency)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("page size must be positive, got %d", c.PageSize)
	}
	return nil
}

func NewEnvConfig(envPrefix string) (*Config, error) {
	cfg := &Config{}

	_ = godotenv.Load("deployments/local/.env")

	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Shop.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shop config: %w", err)
	}
	if err := validateWebhook(cfg.Telegram); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateWebhook в webhook режиме нужны адрес и секрет
func validateWebhook(cfg *telegram.Config) error {
	if !cfg.IsWebhookEnabled() {
		return nil
	}
	if cfg.WebhookURL == "" {
		return fmt.Errorf("webhook url is required when webhook is enabled")
	}
	if cfg.WebhookSecret == "" {
		return fmt.Errorf("webhook secret is required when webhook is enabled")
	}
	return nil
}

// stateTTL время жизни диалога в Redis
func (c *Config) stateTTL() time.Duration {
	if c.Redis == nil {
		return 0
	}
	return c.Redis.StateTTL
}
