package userRepo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/anastasia-gushchina/topdj-bot/internal/domain"
	"github.com/anastasia-gushchina/topdj-bot/internal/ports/persistence"
	ports "github.com/anastasia-gushchina/topdj-bot/internal/ports/repository"
	"github.com/google/uuid"
)

type userColumns struct {
	TableName      string
	ID             string
	Username       string
	Name           string
	Surname        string
	TelegramUserID string
	TelegramChatID string
	CreatedAt      string
	UpdatedAt      string
}

type Repository struct {
	db      persistence.Persistence
	Log     *slog.Logger
	columns userColumns
}

// New создаёт новый репозиторий для работы с пользователями
func New(db persistence.Persistence, log *slog.Logger) ports.IUserRepo {
	return newRepository(db, log)
}

func newRepository(db persistence.Persistence, log *slog.Logger) *Repository {
	cols := userColumns{
		TableName:      "users",
		ID:             "id",
		Username:       "username",
		Name:           "name",
		Surname:        "surname",
		TelegramUserID: "tg_id",
		TelegramChatID: "chat_id",
		CreatedAt:      "created_at",
		UpdatedAt:      "updated_at",
	}
	return &Repository{
		db:      db,
		Log:     log,
		columns: cols,
	}
}

// Create создаёт нового пользователя
func (r *Repository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	now := time.Now().UTC()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = now
	}

	var created domain.User
	err := r.db.InsertReturning(ctx, r.columns.TableName, persistence.Values{
		r.columns.ID:             user.ID,
		r.columns.Username:       user.Username,
		r.columns.Name:           user.Name,
		r.columns.Surname:        user.Surname,
		r.columns.TelegramUserID: user.TgID,
		r.columns.TelegramChatID: user.ChatID,
		r.columns.CreatedAt:      user.CreatedAt,
		r.columns.UpdatedAt:      user.UpdatedAt,
	}, &created)
	if err != nil {
		if errors.Is(err, domain.ErrUniqueViolation) {
			r.Log.Debug("user already exists", "telegram_user_id", user.TgID)
		} else {
			r.Log.Error("failed to create user",
				"error", err,
				"telegram_user_id", user.TgID,
				"user_id", user.ID)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	r.Log.Debug("user created successfully",
		"id", created.ID,
		"telegram_user_id", created.TgID)
	return &created, nil
}

// GetByTelegramID получает пользователя по Telegram ID
func (r *Repository) GetByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	var user domain.User
	err := r.db.SelectOne(ctx, r.columns.TableName, []persistence.Filter{
		persistence.Equals(r.columns.TelegramUserID, telegramID),
	}, &user)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			r.Log.Debug("user not found", "telegram_user_id", telegramID)
		} else {
			r.Log.Error("failed to get user by telegram id",
				"error", err,
				"telegram_user_id", telegramID)
		}
		return nil, fmt.Errorf("failed to get user by telegram id: %w", err)
	}

	r.Log.Debug("user retrieved successfully", "telegram_user_id", telegramID, "user_id", user.ID)
	return &user, nil
}

// DeleteByTelegramID удаляет пользователя, false если такого не было
func (r *Repository) DeleteByTelegramID(ctx context.Context, telegramID int64) (bool, error) {
	deleted, err := r.db.Delete(ctx, r.columns.TableName, []persistence.Filter{
		persistence.Equals(r.columns.TelegramUserID, telegramID),
	})
	if err != nil {
		r.Log.Error("failed to delete user", "error", err, "telegram_user_id", telegramID)
		return false, fmt.Errorf("failed to delete user: %w", err)
	}
	r.Log.Debug("user delete finished", "telegram_user_id", telegramID, "deleted", deleted)
	return deleted, nil
}
