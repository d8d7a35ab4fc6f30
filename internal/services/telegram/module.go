package telegram

import (
	"context"
	"log/slog"

	"github.com/anastasia-gushchina/topdj-bot/internal/domain"
	"github.com/anastasia-gushchina/topdj-bot/internal/ports/state"
	"github.com/anastasia-gushchina/topdj-bot/internal/ports/telegram"
	"github.com/anastasia-gushchina/topdj-bot/internal/services/conversation"
)

// PurchaseFlow диалог выбора и покупки пака
type PurchaseFlow interface {
	Start(ctx context.Context, scope *conversation.Scope) error
	HandleInput(ctx context.Context, scope *conversation.Scope, input string) error
	HandleCallback(ctx context.Context, scope *conversation.Scope, data string) error
}

// PaymentHandler обработка платёжных событий Telegram
type PaymentHandler interface {
	HandlePreCheckout(ctx context.Context, query *domain.PreCheckoutQuery) error
	HandleSuccessfulPayment(ctx context.Context, scope *conversation.Scope, sp *domain.SuccessfulPayment) error
}

type Service struct {
	Purchase  PurchaseFlow
	Payments  PaymentHandler
	States    state.Store
	Messenger telegram.IClient
	Log       *slog.Logger

	locks *userLocks
}

func New(
	purchase PurchaseFlow,
	payments PaymentHandler,
	states state.Store,
	messenger telegram.IClient,
	log *slog.Logger,
) *Service {
	return &Service{
		Purchase:  purchase,
		Payments:  payments,
		States:    states,
		Messenger: messenger,
		Log:       log,
		locks:     newUserLocks(),
	}
}
