package telegram

import (
	"context"
	"fmt"
)

// SetWebhookRequest регистрация webhook
// Документация: https://core.telegram.org/bots/api#setwebhook
type SetWebhookRequest struct {
	URL                string   `json:"url"`
	SecretToken        string   `json:"secret_token,omitempty"` // придёт в X-Telegram-Bot-Api-Secret-Token
	AllowedUpdates     []string `json:"allowed_updates,omitempty"`
	DropPendingUpdates bool     `json:"drop_pending_updates,omitempty"`
}

// SetWebhook регистрирует адрес webhook
func (c *Client) SetWebhook(ctx context.Context, req SetWebhookRequest) error {
	if err := c.call(ctx, "setWebhook", req, nil); err != nil {
		return fmt.Errorf("set webhook: %w", err)
	}
	c.log.Info("webhook registered", "url", req.URL, "allowed_updates", req.AllowedUpdates)
	return nil
}

// DeleteWebhook удаляет webhook (нужно вызывать перед запуском polling)
func (c *Client) DeleteWebhook(ctx context.Context, dropPending bool) error {
	req := map[string]bool{"drop_pending_updates": dropPending}
	if err := c.call(ctx, "deleteWebhook", req, nil); err != nil {
		return fmt.Errorf("delete webhook: %w", err)
	}
	c.log.Info("webhook deleted successfully")
	return nil
}
