package service

import (
	"context"
)

// IAlerterService интерфейс для отправки алертов
type IAlerterService interface {
	SendAlert(ctx context.Context, message string) error
}

// INotifier уведомления оператору, ошибки только логируются
type INotifier interface {
	Notify(ctx context.Context, text string)
}
