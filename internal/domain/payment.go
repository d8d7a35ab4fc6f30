package domain

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus статус платежа
type PaymentStatus string

const (
	PaymentStatusStarted              PaymentStatus = "started"               // счёт выставлен
	PaymentStatusTransactionCreated   PaymentStatus = "transaction_created"   // pre-checkout подтверждён
	PaymentStatusTransactionCompleted PaymentStatus = "transaction_completed" // пак доставлен
)

func (s PaymentStatus) String() string {
	return string(s)
}

// Payment запись о покупке пака
type Payment struct {
	ID            uuid.UUID     `json:"id" db:"id"`
	UserID        int64         `json:"user_id" db:"user_id"` // Telegram ID, не users.id
	Status        PaymentStatus `json:"status" db:"status"`
	TransactionID *string       `json:"transaction_id,omitempty" db:"transaction_id"`
	PackName      string        `json:"pack_name" db:"pack_name"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`
}

// PurchaseEvent событие о завершённой покупке для внешних потребителей
type PurchaseEvent struct {
	Type        string    `json:"type"`
	PaymentID   uuid.UUID `json:"payment_id"`
	UserID      int64     `json:"user_id"`
	Username    string    `json:"username,omitempty"`
	PackName    string    `json:"pack_name"`
	Amount      int64     `json:"amount"`
	Currency    string    `json:"currency"`
	CompletedAt time.Time `json:"completed_at"`
}

const PurchaseEventPackPurchased = "pack_purchased"
