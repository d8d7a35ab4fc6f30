package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/anastasia-gushchina/topdj-bot/internal/domain"
	"github.com/anastasia-gushchina/topdj-bot/internal/ports/cache"
	"github.com/anastasia-gushchina/topdj-bot/internal/ports/repository"
)

// Service регистрация пользователей с кэшем факта существования
type Service struct {
	UserRepo repository.IUserRepo
	Cache    cache.Cache // может быть nil
	CacheTTL time.Duration
	Log      *slog.Logger
}

func New(userRepo repository.IUserRepo, c cache.Cache, cacheTTL time.Duration, log *slog.Logger) *Service {
	return &Service{
		UserRepo: userRepo,
		Cache:    c,
		CacheTTL: cacheTTL,
		Log:      log,
	}
}

func cacheKey(tgID int64) string {
	return fmt.Sprintf("user_%d", tgID)
}

// EnsureUser создаёт пользователя, если его ещё нет.
// Кэш только экономит запрос в БД: промах или ошибка кэша ведут в БД
func (s *Service) EnsureUser(ctx context.Context, from *domain.TelegramUser, chatID int64) error {
	if s.cached(ctx, from.ID) {
		s.Log.Debug("user found in cache", "telegram_user_id", from.ID)
		return nil
	}

	user, err := s.UserRepo.GetByTelegramID(ctx, from.ID)
	switch {
	case err == nil:
		s.Log.Debug("user already exists", "telegram_user_id", from.ID)
		s.remember(ctx, user)
		return nil
	case !errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("failed to check user: %w", err)
	}

	user, err = s.UserRepo.Create(ctx, domain.NewUserFromTelegram(from, chatID))
	if err != nil {
		if !errors.Is(err, domain.ErrUniqueViolation) {
			return fmt.Errorf("failed to create user: %w", err)
		}
		// параллельная регистрация успела раньше
		user, err = s.UserRepo.GetByTelegramID(ctx, from.ID)
		if err != nil {
			return fmt.Errorf("failed to get user after duplicate create: %w", err)
		}
	} else {
		s.Log.Info("user created",
			"user_id", user.ID,
			"telegram_user_id", from.ID,
			"username", from.Username)
	}

	s.remember(ctx, user)
	return nil
}

func (s *Service) cached(ctx context.Context, tgID int64) bool {
	if s.Cache == nil {
		return false
	}
	ok, err := s.Cache.Exists(ctx, cacheKey(tgID))
	if err != nil {
		s.Log.Warn("user cache lookup failed", "error", err, "telegram_user_id", tgID)
		return false
	}
	return ok
}

func (s *Service) remember(ctx context.Context, user *domain.User) {
	if s.Cache == nil || user == nil {
		return
	}
	data, err := json.Marshal(user)
	if err != nil {
		s.Log.Warn("failed to marshal user for cache", "error", err, "telegram_user_id", user.TgID)
		return
	}
	if err := s.Cache.Set(ctx, cacheKey(user.TgID), string(data), s.CacheTTL); err != nil {
		s.Log.Warn("failed to cache user", "error", err, "telegram_user_id", user.TgID)
	}
}
