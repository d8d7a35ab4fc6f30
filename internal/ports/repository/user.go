package repository

import (
	"context"

	"github.com/anastasia-gushchina/topdj-bot/internal/domain"
)

// IUserRepo интерфейс для работы с пользователями Telegram
type IUserRepo interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error)
	DeleteByTelegramID(ctx context.Context, telegramID int64) (bool, error)
}
