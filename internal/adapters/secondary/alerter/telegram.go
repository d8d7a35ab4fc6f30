package alerter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/anastasia-gushchina/topdj-bot/internal/adapters/secondary/telegram"
)

//согл, что чистота нарушена, но тут выбор в пользу делегирования ответственности другому адаптеру

type messageSender interface {
	SendMessageWithRequest(ctx context.Context, req telegram.SendMessageRequest) (int64, error)
}

// Client клиент для отправки алертов через Telegram
type Client struct {
	telegramClient  messageSender
	chatID          int64
	messageThreadID *int64
	log             *slog.Logger
}

// NewClient создаёт клиент алертов поверх уже созданного telegram клиента бота.
// fallbackChatID используется, если в конфиге чат не задан
func NewClient(cfg *Config, tgClient messageSender, fallbackChatID int64, log *slog.Logger) *Client {
	chatID := fallbackChatID
	var threadID *int64
	if cfg != nil {
		if cfg.ChatID != 0 {
			chatID = cfg.ChatID
		}
		threadID = cfg.MessageThreadID
	}

	return &Client{
		telegramClient:  tgClient,
		chatID:          chatID,
		messageThreadID: threadID,
		log:             log,
	}
}

// SendAlert отправляет алерт в чат оператора (или топик форума)
func (c *Client) SendAlert(ctx context.Context, message string) error {
	if c == nil || c.telegramClient == nil {
		return fmt.Errorf("alerter client is not initialized")
	}
	if c.chatID == 0 {
		return fmt.Errorf("alerter chat is not configured")
	}

	req := telegram.SendMessageRequest{
		ChatID:          c.chatID,
		Text:            message,
		MessageThreadID: c.messageThreadID,
	}
	if _, err := c.telegramClient.SendMessageWithRequest(ctx, req); err != nil {
		c.log.Warn("failed to send alert",
			"error", err,
			"chat_id", c.chatID,
			"message_thread_id", c.messageThreadID,
		)
		return fmt.Errorf("failed to send alert: %w", err)
	}

	c.log.Debug("alert sent successfully",
		"chat_id", c.chatID,
		"message_thread_id", c.messageThreadID,
	)
	return nil
}
