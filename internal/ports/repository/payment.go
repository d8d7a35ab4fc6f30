package repository

import (
	"context"

	"github.com/anastasia-gushchina/topdj-bot/internal/domain"
	"github.com/google/uuid"
)

// IPaymentRepo интерфейс для работы с платежами в БД
type IPaymentRepo interface {
	Create(ctx context.Context, payment *domain.Payment) (*domain.Payment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error)
	// GetLatest последний платёж пользователя, statuses пустой - любой статус
	GetLatest(ctx context.Context, userID int64, statuses ...domain.PaymentStatus) (*domain.Payment, error)
	// Transition переводит платёж id из статуса from в to, CAS по статусу
	Transition(ctx context.Context, id uuid.UUID, from, to domain.PaymentStatus, transactionID *string) (*domain.Payment, error)
	ListByStatus(ctx context.Context, status domain.PaymentStatus, limit int) ([]domain.Payment, int64, error)
}
