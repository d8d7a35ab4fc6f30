package payment

import (
	"context"

	"github.com/google/uuid"
)

// IPaymentProvider интерфейс для платёжного провайдера
// Use case зависит только от этого интерфейса, не зная деталей реализации
type IPaymentProvider interface {
	// CreateInvoice выставляет счёт пользователю
	CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*CreateInvoiceResult, error)

	// ConfirmPreCheckout отвечает на pre_checkout_query
	ConfirmPreCheckout(ctx context.Context, queryID string, ok bool, errorMessage *string) error
}

// CreateInvoiceRequest запрос на создание invoice
type CreateInvoiceRequest struct {
	PaymentID   uuid.UUID // уходит в payload
	ChatID      int64
	Title       string
	Description string
	PriceLabel  string
	Amount      int64 // в минимальных единицах валюты
}

// CreateInvoiceResult результат создания invoice
type CreateInvoiceResult struct {
	InvoiceID string // message_id сообщения со счётом
	Payload   string
}
