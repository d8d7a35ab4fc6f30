package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Username  *string   `json:"username,omitempty" db:"username"`
	Name      string    `json:"name" db:"name"`
	Surname   *string   `json:"surname,omitempty" db:"surname"`
	TgID      int64     `json:"tg_id" db:"tg_id"`
	ChatID    int64     `json:"chat_id" db:"chat_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// NewUserFromTelegram собирает пользователя из данных Telegram
func NewUserFromTelegram(from *TelegramUser, chatID int64) *User {
	now := time.Now().UTC()
	return &User{
		ID:        uuid.New(),
		Username:  from.Username,
		Name:      from.FirstName,
		Surname:   from.LastName,
		TgID:      from.ID,
		ChatID:    chatID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
