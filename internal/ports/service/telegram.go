package service

import (
	"context"

	"github.com/anastasia-gushchina/topdj-bot/internal/domain"
)

// ITelegramService обработка входящих обновлений
type ITelegramService interface {
	HandleUpdate(ctx context.Context, update *domain.Update) error
}
