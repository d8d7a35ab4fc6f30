// Package conversation контекст одного события для обработчиков диалога
package conversation

import (
	"context"
	"fmt"

	"github.com/anastasia-gushchina/topdj-bot/internal/domain"
	"github.com/anastasia-gushchina/topdj-bot/internal/ports/state"
)

// Scope состояние диалога пользователя в рамках одного события.
// Создаётся диспетчером, который сериализует события одного пользователя
type Scope struct {
	UserID int64
	ChatID int64
	From   *domain.TelegramUser

	conv  *domain.Conversation
	store state.Store
}

// Load читает состояние пользователя из хранилища
func Load(ctx context.Context, store state.Store, from *domain.TelegramUser, chatID int64) (*Scope, error) {
	conv, err := store.Get(ctx, from.ID)
	if err != nil {
		return nil, fmt.Errorf("load conversation: %w", err)
	}
	if conv == nil {
		conv = domain.NewConversation()
	}
	return &Scope{
		UserID: from.ID,
		ChatID: chatID,
		From:   from,
		conv:   conv,
		store:  store,
	}, nil
}

// State текущее состояние
func (s *Scope) State() domain.State {
	return s.conv.State
}

// Value значение из данных диалога
func (s *Scope) Value(key string) (string, bool) {
	return s.conv.Value(key)
}

// Page сохранённый номер страницы списка
func (s *Scope) Page() int {
	return s.conv.Page()
}

// SetState переводит диалог в состояние st
func (s *Scope) SetState(ctx context.Context, st domain.State) error {
	if err := s.store.SetState(ctx, s.UserID, st); err != nil {
		return fmt.Errorf("set state %q: %w", st, err)
	}
	s.conv.State = st
	return nil
}

// Update дописывает данные диалога
func (s *Scope) Update(ctx context.Context, data map[string]string) error {
	if err := s.store.UpdateData(ctx, s.UserID, data); err != nil {
		return fmt.Errorf("update conversation data: %w", err)
	}
	if s.conv.Data == nil {
		s.conv.Data = make(map[string]string, len(data))
	}
	for k, v := range data {
		s.conv.Data[k] = v
	}
	return nil
}

// Clear сбрасывает состояние и данные
func (s *Scope) Clear(ctx context.Context) error {
	if err := s.store.Clear(ctx, s.UserID); err != nil {
		return fmt.Errorf("clear conversation: %w", err)
	}
	s.conv = domain.NewConversation()
	return nil
}

// Username для логов и уведомлений
func (s *Scope) Username() *string {
	if s.From == nil {
		return nil
	}
	return s.From.Username
}
