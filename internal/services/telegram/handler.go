package telegram

import (
	"context"
	"fmt"
	"strings"

	"github.com/anastasia-gushchina/topdj-bot/internal/domain"
	"github.com/anastasia-gushchina/topdj-bot/internal/services/conversation"
)

const commandStart = "start"

// HandleUpdate Основной метод для обработки всех типов обновлений.
// События одного пользователя обрабатываются строго по очереди
func (s *Service) HandleUpdate(ctx context.Context, update *domain.Update) error {
	if update == nil {
		return fmt.Errorf("update is nil")
	}

	switch {
	case update.Message != nil:
		return s.HandleMessage(ctx, update.Message, update.UpdateID)
	case update.CallbackQuery != nil:
		return s.HandleCallbackQuery(ctx, update.CallbackQuery, update.UpdateID)
	case update.PreCheckoutQuery != nil:
		return s.HandlePreCheckoutQuery(ctx, update.PreCheckoutQuery, update.UpdateID)
	}

	s.Log.Debug("ignoring unsupported update", "update_id", update.UpdateID)
	return nil
}

// HandleMessage обрабатывает входящее сообщение - роутинг в usecase
func (s *Service) HandleMessage(ctx context.Context, message *domain.Message, updateID int64) error {
	if message.From == nil || message.From.IsBot {
		s.Log.Debug("ignoring message from bot", "update_id", updateID)
		return nil
	}

	if message.Chat == nil || message.Chat.Type != "private" {
		s.Log.Warn("ignoring message from group/chat",
			"update_id", updateID,
			"chat", message.Chat,
		)
		return nil
	}

	unlock := s.locks.Lock(message.From.ID)
	defer unlock()

	scope, err := conversation.Load(ctx, s.States, message.From, message.Chat.ID)
	if err != nil {
		return fmt.Errorf("update %d: %w", updateID, err)
	}

	if message.SuccessfulPayment != nil {
		if err := s.Payments.HandleSuccessfulPayment(ctx, scope, message.SuccessfulPayment); err != nil {
			return domain.WrapBusinessError(fmt.Errorf("failed to handle successful_payment: %w", err))
		}
		return nil
	}

	if message.Text == nil {
		s.Log.Debug("ignoring message without text", "update_id", updateID, "user_id", scope.UserID)
		return nil
	}
	return s.routeTextMessage(ctx, scope, *message.Text)
}

// routeTextMessage роутит в команду/текст
func (s *Service) routeTextMessage(ctx context.Context, scope *conversation.Scope, text string) error {
	if IsCommand(text) && ParseCommand(text) == commandStart {
		if err := s.Purchase.Start(ctx, scope); err != nil {
			return domain.WrapBusinessError(fmt.Errorf("failed to start purchase: %w", err))
		}
		return nil
	}

	if err := s.Purchase.HandleInput(ctx, scope, text); err != nil {
		return domain.WrapBusinessError(fmt.Errorf("failed to handle input: %w", err))
	}
	return nil
}

// HandleCallbackQuery нажатие inline-кнопки
func (s *Service) HandleCallbackQuery(ctx context.Context, query *domain.CallbackQuery, updateID int64) error {
	if query.From == nil {
		s.Log.Warn("callback_query without sender", "update_id", updateID)
		return nil
	}

	// убираем "часики" на кнопке, ошибка не мешает обработке
	if err := s.Messenger.AnswerCallbackQuery(ctx, query.ID, "", false); err != nil {
		s.Log.Warn("failed to answer callback query", "error", err, "callback_id", query.ID)
	}

	if query.Data == nil || *query.Data == "" {
		return nil
	}

	chatID := query.From.ID
	if query.Message != nil && query.Message.Chat != nil {
		chatID = query.Message.Chat.ID
	}

	unlock := s.locks.Lock(query.From.ID)
	defer unlock()

	scope, err := conversation.Load(ctx, s.States, query.From, chatID)
	if err != nil {
		return fmt.Errorf("update %d: %w", updateID, err)
	}

	if err := s.Purchase.HandleCallback(ctx, scope, *query.Data); err != nil {
		return domain.WrapBusinessError(fmt.Errorf("failed to handle callback %q: %w", *query.Data, err))
	}
	return nil
}

// HandlePreCheckoutQuery подтверждение перед списанием
func (s *Service) HandlePreCheckoutQuery(ctx context.Context, query *domain.PreCheckoutQuery, updateID int64) error {
	if query.From == nil {
		// без отправителя сверять не с чем, но запрос всё равно подтверждаем
		s.Log.Error("pre_checkout_query has no from", "update_id", updateID)
		if err := s.Payments.HandlePreCheckout(ctx, query); err != nil {
			return domain.WrapBusinessError(fmt.Errorf("failed to handle pre_checkout_query: %w", err))
		}
		return nil
	}

	unlock := s.locks.Lock(query.From.ID)
	defer unlock()

	if err := s.Payments.HandlePreCheckout(ctx, query); err != nil {
		return domain.WrapBusinessError(fmt.Errorf("failed to handle pre_checkout_query: %w", err))
	}

	s.Log.Info("pre_checkout_query processed",
		"query_id", query.ID,
		"user_id", query.From.ID,
		"amount", query.TotalAmount,
	)
	return nil
}

func ParseCommand(text string) string {
	text = strings.TrimPrefix(text, "/")

	if idx := strings.Index(text, "@"); idx != -1 {
		text = text[:idx]
	}

	if idx := strings.Index(text, " "); idx != -1 {
		text = text[:idx]
	}

	return text
}

func IsCommand(text string) bool {
	return len(text) > 0 && text[0] == '/'
}
