package telegram

import (
	"context"

	"github.com/anastasia-gushchina/topdj-bot/internal/domain"
)

// IClient транспорт сообщений, которым пользуются use case-ы
type IClient interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendMessageWithKeyboard(ctx context.Context, chatID int64, text string, keyboard domain.InlineKeyboard) error
	SendDocument(ctx context.Context, chatID int64, doc domain.OutgoingDocument) error
	AnswerCallbackQuery(ctx context.Context, callbackID string, text string, showAlert bool) error
}
