package alerter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/anastasia-gushchina/topdj-bot/internal/ports/service"
)

// Service реализует IAlerterService и INotifier поверх клиента алертов
type Service struct {
	client service.IAlerterService
	log    *slog.Logger
}

// New создаёт новый сервис для отправки алертов
func New(client service.IAlerterService, log *slog.Logger) *Service {
	return &Service{
		client: client,
		log:    log,
	}
}

// SendAlert отправляет алерт
func (s *Service) SendAlert(ctx context.Context, message string) error {
	if s.client == nil {
		return fmt.Errorf("alerter client is not initialized")
	}

	return s.client.SendAlert(ctx, message)
}

// Notify отправляет уведомление оператору; ошибка не прерывает сценарий пользователя
func (s *Service) Notify(ctx context.Context, text string) {
	if err := s.SendAlert(ctx, text); err != nil {
		s.log.Warn("operator notification failed", "error", err)
	}
}
