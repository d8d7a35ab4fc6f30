package state

import (
	"context"

	"github.com/anastasia-gushchina/topdj-bot/internal/domain"
)

// Store хранилище состояний диалогов, ключ - Telegram ID пользователя
type Store interface {
	// Get возвращает пустой диалог, если записи нет
	Get(ctx context.Context, userID int64) (*domain.Conversation, error)
	SetState(ctx context.Context, userID int64, state domain.State) error
	UpdateData(ctx context.Context, userID int64, data map[string]string) error
	Clear(ctx context.Context, userID int64) error
}
