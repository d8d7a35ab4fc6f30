package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	tgAdapter "github.com/anastasia-gushchina/topdj-bot/internal/adapters/secondary/telegram"
	"golang.org/x/sync/errgroup"
)

const botDescription = "Привет, я бот TopDJ School и я помогу тебе купить наши паки с музыкой"

var botCommands = []tgAdapter.BotCommand{
	{Command: "start", Description: "Получить список паков"},
}

func (a *App) runServices(ctx context.Context, deps *Dependencies) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Log.Info("starting http server",
			"host", a.Cfg.Server.Host,
			"port", a.Cfg.Server.Port)

		err := deps.HTTPServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})

	a.registerBot(gCtx, deps.TelegramClient)

	// Telegram Updates: либо Webhook (prod), либо Polling (local dev)
	if a.Cfg.Telegram.IsWebhookEnabled() {
		g.Go(func() error {
			return a.setupWebhook(gCtx, deps.TelegramClient)
		})
	} else {
		g.Go(func() error {
			return a.runPolling(gCtx, deps)
		})
	}

	if deps.JobScheduler != nil {
		g.Go(func() error {
			return deps.JobScheduler.Run(gCtx)
		})
	}

	// Graceful shutdown
	g.Go(func() error {
		<-gCtx.Done()
		a.Log.Info("received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := deps.HTTPServer.Shutdown(shutdownCtx); err != nil {
			a.Log.Error("failed to shutdown http server", "error", err)
		}

		if err := deps.DB.Close(); err != nil {
			a.Log.Error("failed to close database", "error", err)
		}

		if deps.Redis != nil {
			if err := deps.Redis.Close(); err != nil {
				a.Log.Error("failed to close redis", "error", err)
			}
		}

		if deps.KafkaProducer != nil {
			if err := deps.KafkaProducer.Close(); err != nil {
				a.Log.Error("failed to close kafka producer", "error", err)
			}
		}

		a.Log.Info("application shutdown completed")
		return nil
	})

	if err := g.Wait(); err != nil {
		a.Log.Error("application error", "error", err)
		return err
	}

	return nil
}

// registerBot команды и описание бота, ошибки не мешают запуску
func (a *App) registerBot(ctx context.Context, client *tgAdapter.Client) {
	if err := client.SetMyCommands(ctx, botCommands); err != nil {
		a.Log.Warn("failed to register bot commands", "error", err)
	}
	if err := client.SetMyDescription(ctx, botDescription); err != nil {
		a.Log.Warn("failed to set bot description", "error", err)
	}
}

// setupWebhook регистрирует webhook с секретом
func (a *App) setupWebhook(ctx context.Context, client *tgAdapter.Client) error {
	webhookURL := a.Cfg.Telegram.FullWebhookURL()

	err := client.SetWebhook(ctx, tgAdapter.SetWebhookRequest{
		URL:            webhookURL,
		SecretToken:    a.Cfg.Telegram.WebhookSecret,
		AllowedUpdates: a.Cfg.Telegram.AllowedUpdates,
	})
	if err != nil {
		a.Log.Error("failed to set webhook", "error", err, "webhook_url", webhookURL)
		return fmt.Errorf("failed to set webhook: %w", err)
	}

	a.Log.Info("webhook set successfully", "webhook_url", webhookURL)
	return nil
}

// runPolling запускает polling для локальной разработки
func (a *App) runPolling(ctx context.Context, deps *Dependencies) error {
	if deps.TelegramPoller == nil {
		return fmt.Errorf("telegram poller is not initialized")
	}

	// Удаляем webhook перед запуском polling
	deleteCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := deps.TelegramClient.DeleteWebhook(deleteCtx, false); err != nil {
		a.Log.Warn("failed to delete webhook, continuing anyway", "error", err)
	} else {
		a.Log.Info("webhook deleted successfully, starting polling")
	}

	return deps.TelegramPoller.Start(ctx)
}
