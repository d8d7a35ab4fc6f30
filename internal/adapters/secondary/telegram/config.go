package telegram

import "strings"

type Config struct {
	BotToken       string   `envconfig:"BOT_TOKEN" required:"true"`
	PaymentsToken  string   `envconfig:"PAYMENTS_TOKEN"` // provider_token платёжного провайдера
	APIURL         string   `envconfig:"API_URL" default:"https://api.telegram.org"`
	UseWebhook     string   `envconfig:"USE_WEBHOOK"` // Railway требует строки
	WebhookURL     string   `envconfig:"WEBHOOK_URL"`
	WebhookPath    string   `envconfig:"WEBHOOK_PATH" default:"/telegram/bot"`
	WebhookSecret  string   `envconfig:"WEBHOOK_SECRET"` // обязателен в webhook режиме
	AllowedUpdates []string `envconfig:"ALLOWED_UPDATES" default:"message,callback_query,pre_checkout_query"`
	PollingTimeout int      `envconfig:"POLLING_TIMEOUT" default:"30"` // секунды
	RateLimit      float64  `envconfig:"RATE_LIMIT" default:"25"`      // запросов в секунду
	RateBurst      int      `envconfig:"RATE_BURST" default:"5"`
}

// IsWebhookEnabled парсит строку UseWebhook в boolean
func (c *Config) IsWebhookEnabled() bool {
	switch strings.ToLower(strings.TrimSpace(c.UseWebhook)) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}

// FullWebhookURL адрес, который регистрируется в Telegram
func (c *Config) FullWebhookURL() string {
	return strings.TrimRight(c.WebhookURL, "/") + "/" + strings.TrimLeft(c.WebhookPath, "/")
}
