package paymentRepo

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

type paymentColumns struct {
	TableName     string
	ID            string
	UserID        string
	Status        string
	TransactionID string
	PackName      string
	CreatedAt     string
	UpdatedAt     string
}

type Repository struct {
	db      persistence.Persistence
	Log     *slog.Logger
	columns paymentColumns
	now     func() time.Time
}

// New создаёт новый репозиторий для работы с платежами
func New(db persistence.Persistence, log *slog.Logger) ports.IPaymentRepo {
	return newRepository(db, log)
}

func newRepository(db persistence.Persistence, log *slog.Logger) *Repository {
	cols := paymentColumns{
		TableName:     "payments",
		ID:            "id",
		UserID:        "user_id",
		Status:        "status",
		TransactionID: "transaction_id",
		PackName:      "pack_name",
		CreatedAt:     "created_at",
		UpdatedAt:     "updated_at",
	}
	return &Repository{
		db:      db,
		Log:     log,
		columns: cols,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Create создаёт платёж, пустые id и даты заполняются
func (r *Repository) Create(ctx context.Context, payment *domain.Payment) (*domain.Payment, error) {
	now := r.now()
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = now
	}
	if payment.UpdatedAt.IsZero() {
		payment.UpdatedAt = now
	}

	var created domain.Payment
	err := r.db.InsertReturning(ctx, r.columns.TableName, persistence.Values{
		r.columns.ID:            payment.ID,
		r.columns.UserID:        payment.UserID,
		r.columns.Status:        string(payment.Status),
		r.columns.TransactionID: payment.TransactionID,
		r.columns.PackName:      payment.PackName,
		r.columns.CreatedAt:     payment.CreatedAt,
		r.columns.UpdatedAt:     payment.UpdatedAt,
	}, &created)
	if err != nil {
		r.Log.Error("failed to create payment",
			"error", err,
			"payment_id", payment.ID,
			"user_id", payment.UserID)
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	r.Log.Debug("payment created successfully",
		"payment_id", created.ID,
		"user_id", created.UserID,
		"pack_name", created.PackName)
	return &created, nil
}

// GetByID получает платёж по ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	var payment domain.Payment
	err := r.db.SelectOne(ctx, r.columns.TableName, []persistence.Filter{
		persistence.Equals(r.columns.ID, id),
	}, &payment)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			r.Log.Debug("payment not found", "payment_id", id)
		} else {
			r.Log.Error("failed to get payment by id", "error", err, "payment_id", id)
		}
		return nil, fmt.Errorf("failed to get payment by id: %w", err)
	}
	return &payment, nil
}

// GetLatest последний по created_at платёж пользователя в одном из статусов
func (r *Repository) GetLatest(ctx context.Context, userID int64, statuses ...domain.PaymentStatus) (*domain.Payment, error) {
	filters := []persistence.Filter{persistence.Equals(r.columns.UserID, userID)}
	if len(statuses) > 0 {
		filters = append(filters, persistence.In(r.columns.Status, statusValues(statuses)...))
	}

	var payments []domain.Payment
	_, err := r.db.SelectMany(ctx, r.columns.TableName, filters,
		persistence.Range{Limit: 1},
		[]persistence.Sort{{Field: r.columns.CreatedAt, Desc: true}},
		&payments)
	if err != nil {
		r.Log.Error("failed to get latest payment",
			"error", err,
			"user_id", userID,
			"statuses", statuses)
		return nil, fmt.Errorf("failed to get latest payment: %w", err)
	}
	if len(payments) == 0 {
		r.Log.Debug("latest payment not found", "user_id", userID, "statuses", statuses)
		return nil, fmt.Errorf("latest payment for user %d: %w", userID, domain.ErrNotFound)
	}
	return &payments[0], nil
}

// Transition переводит платёж из статуса from в to.
// Если платёж уже не в статусе from, возвращает domain.ErrNotFound
func (r *Repository) Transition(
	ctx context.Context,
	id uuid.UUID,
	from, to domain.PaymentStatus,
	transactionID *string,
) (*domain.Payment, error) {
	values := persistence.Values{
		r.columns.Status:    string(to),
		r.columns.UpdatedAt: r.now(),
	}
	if transactionID != nil {
		values[r.columns.TransactionID] = *transactionID
	}

	var updated domain.Payment
	err := r.db.UpdateReturning(ctx, r.columns.TableName, []persistence.Filter{
		persistence.Equals(r.columns.ID, id),
		persistence.Equals(r.columns.Status, string(from)),
	}, values, &updated)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrUniqueViolation) {
			r.Log.Warn("payment transition rejected",
				"error", err,
				"payment_id", id,
				"from", from,
				"to", to)
		} else {
			r.Log.Error("failed to transition payment",
				"error", err,
				"payment_id", id,
				"from", from,
				"to", to)
		}
		return nil, fmt.Errorf("failed to transition payment %s -> %s: %w", from, to, err)
	}

	r.Log.Info("payment status changed",
		"payment_id", id,
		"user_id", updated.UserID,
		"from", from,
		"to", to)
	return &updated, nil
}

// ListByStatus платежи в статусе, старые первыми. limit <= 0 без ограничения
func (r *Repository) ListByStatus(ctx context.Context, status domain.PaymentStatus, limit int) ([]domain.Payment, int64, error) {
	var payments []domain.Payment
	total, err := r.db.SelectMany(ctx, r.columns.TableName,
		[]persistence.Filter{persistence.Equals(r.columns.Status, string(status))},
		persistence.Range{Limit: limit},
		[]persistence.Sort{{Field: r.columns.CreatedAt}},
		&payments)
	if err != nil {
		r.Log.Error("failed to list payments by status", "error", err, "status", status)
		return nil, 0, fmt.Errorf("failed to list payments by status: %w", err)
	}
	return payments, total, nil
}

func statusValues(statuses []domain.PaymentStatus) []string {
	values := make([]string, len(statuses))
	for i, s := range statuses {
		values[i] = string(s)
	}
	return values
}
