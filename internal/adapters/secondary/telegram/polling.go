package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/anastasia-gushchina/topdj-bot/internal/domain"
)

const (
	conflictCode    = 409
	pollRetryDelay  = 5 * time.Second
	pollHTTPReserve = 10 * time.Second
)

// UpdateHandler функция для обработки обновлений от Telegram
type UpdateHandler func(ctx context.Context, update *domain.Update) error

// Poller реализует long polling для получения обновлений от Telegram
type Poller struct {
	client       *Client
	config       *Config
	handler      UpdateHandler
	lastUpdateID int64
	log          *slog.Logger
}

func NewPoller(client *Client, config *Config, handler UpdateHandler, log *slog.Logger) *Poller {
	// свой http клиент: таймаут должен быть больше polling timeout
	pollClient := *client
	pollClient.httpClient = &http.Client{Timeout: time.Duration(pollingTimeout(config))*time.Second + pollHTTPReserve}

	return &Poller{
		client:  &pollClient,
		config:  config,
		handler: handler,
		log:     log,
	}
}

func pollingTimeout(cfg *Config) int {
	if cfg.PollingTimeout <= 0 {
		return 30
	}
	return cfg.PollingTimeout
}

// GetUpdatesRequest параметры getUpdates
type GetUpdatesRequest struct {
	Offset         int64    `json:"offset"`
	Timeout        int      `json:"timeout"`
	AllowedUpdates []string `json:"allowed_updates,omitempty"`
}

// Start крутит long polling до отмены контекста
func (p *Poller) Start(ctx context.Context) error {
	p.log.Info("starting telegram polling", "timeout", pollingTimeout(p.config))

	for {
		if ctx.Err() != nil {
			p.log.Info("polling stopped")
			return ctx.Err()
		}

		updates, err := p.getUpdates(ctx)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			p.log.Error("failed to get updates", "error", err)
			// Ждём перед повтором
			select {
			case <-ctx.Done():
			case <-time.After(pollRetryDelay):
			}
			continue
		}

		p.dispatch(ctx, updates)
	}
}

func (p *Poller) dispatch(ctx context.Context, updates []domain.Update) {
	for i := range updates {
		update := &updates[i]
		if update.UpdateID >= p.lastUpdateID {
			p.lastUpdateID = update.UpdateID + 1
		}

		if err := p.handler(ctx, update); err != nil {
			p.log.Error("failed to handle update",
				"error", err,
				"update_id", update.UpdateID,
			)
			// Продолжаем обработку следующих обновлений
		}
	}
}

// getUpdates получает обновления от Telegram API
func (p *Poller) getUpdates(ctx context.Context) ([]domain.Update, error) {
	req := GetUpdatesRequest{
		Offset:         p.lastUpdateID,
		Timeout:        pollingTimeout(p.config),
		AllowedUpdates: p.config.AllowedUpdates,
	}

	var updates []domain.Update
	err := p.client.call(ctx, "getUpdates", req, &updates)
	if err != nil {
		// 409 - другой экземпляр бота или активен webhook, пробуем снова
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Code == conflictCode {
			p.log.Warn("telegram API conflict - another bot instance or webhook is active",
				"description", apiErr.Description,
			)
			return nil, nil
		}
		return nil, fmt.Errorf("get updates: %w", err)
	}
	return updates, nil
}
