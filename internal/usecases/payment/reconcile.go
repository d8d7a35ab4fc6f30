package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/anastasia-gushchina/topdj-bot/internal/domain"
	"github.com/anastasia-gushchina/topdj-bot/internal/pkg/logger"
	"github.com/anastasia-gushchina/topdj-bot/internal/services/conversation"
	"github.com/google/uuid"
)

const (
	textThanks            = "Спасибо за оплату пака %s, сейчас пришлю архив"
	textManualContact     = "Спасибо за оплату, напишите администратору и прикрепите сообщения с оплатой и выбранным паком, чтобы получить его"
	textManualButton      = "Написать админу"
	alertTransitionFailed = "Не получилось перевести статус платежа: user_id=%d payment=%s %s -> %s: %v"
	alertNoPayment        = "Не найден платёж: user_id=%d payload=%s статус %s: %v"
	alertInconsistent     = "Оплата без пака: пользователь %s (id %d), payload=%s. Нужно выдать пак вручную"
	alertDeliveryFailed   = "Не удалось выдать пак %s пользователю %s: %v"
)

// findPayment платёж пользователя по payload (id записи), иначе последний в одном из статусов.
// byPayload true, если запись найдена именно по payload
func (s *Service) findPayment(
	ctx context.Context,
	userID int64,
	payload string,
	fallback ...domain.PaymentStatus,
) (payment *domain.Payment, byPayload bool, err error) {
	if id, parseErr := uuid.Parse(payload); parseErr == nil {
		payment, err = s.PaymentRepo.GetByID(ctx, id)
		switch {
		case err == nil && payment.UserID == userID:
			return payment, true, nil
		case err == nil:
			s.Log.Warn("invoice payload belongs to another user",
				"payment_id", id,
				"payment_user_id", payment.UserID,
				"user_id", userID)
		case !errors.Is(err, domain.ErrNotFound):
			return nil, false, err
		}
	}

	payment, err = s.PaymentRepo.GetLatest(ctx, userID, fallback...)
	if err != nil {
		return nil, false, err
	}
	return payment, false, nil
}

// HandlePreCheckout всегда подтверждает оплату, затем переводит запись started -> transaction_created.
// Ошибки сверки не влияют на подтверждение
func (s *Service) HandlePreCheckout(ctx context.Context, query *domain.PreCheckoutQuery) error {
	if err := s.PaymentProvider.ConfirmPreCheckout(ctx, query.ID, true, nil); err != nil {
		s.Log.Error("failed to confirm pre_checkout_query", "error", err, "query_id", query.ID)
		return fmt.Errorf("failed to confirm pre_checkout_query: %w", err)
	}
	if query.From == nil {
		s.Log.Warn("pre_checkout_query without sender", "query_id", query.ID)
		return nil
	}
	userID := query.From.ID

	payment, _, err := s.findPayment(ctx, userID, query.InvoicePayload, domain.PaymentStatusStarted)
	if err != nil {
		s.Log.Warn("payment for pre_checkout_query not found",
			"error", err,
			"query_id", query.ID,
			"user_id", userID,
			"payload", query.InvoicePayload)
		s.Notifier.Notify(ctx, fmt.Sprintf(alertNoPayment, userID, query.InvoicePayload, domain.PaymentStatusStarted, err))
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to find payment: %w", err)
	}

	if payment.Status == domain.PaymentStatusTransactionCreated && payment.TransactionID != nil && *payment.TransactionID == query.ID {
		s.Log.Info("pre_checkout_query already reconciled", "query_id", query.ID, "payment_id", payment.ID)
		return nil
	}

	transactionID := query.ID
	_, err = s.PaymentRepo.Transition(ctx, payment.ID, domain.PaymentStatusStarted, domain.PaymentStatusTransactionCreated, &transactionID)
	switch {
	case err == nil:
		s.Log.Info("payment transaction created",
			"payment_id", payment.ID,
			"user_id", userID,
			"query_id", query.ID)
		return nil
	case errors.Is(err, domain.ErrUniqueViolation):
		// эта транзакция уже записана за пользователем
		s.Log.Info("pre_checkout_query transaction already recorded",
			"payment_id", payment.ID,
			"query_id", query.ID)
		return nil
	default:
		s.Notifier.Notify(ctx, fmt.Sprintf(alertTransitionFailed, userID, payment.ID,
			domain.PaymentStatusStarted, domain.PaymentStatusTransactionCreated, err))
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to mark transaction created: %w", err)
	}
}

// HandleSuccessfulPayment выдаёт оплаченный пак и переводит запись в transaction_completed
func (s *Service) HandleSuccessfulPayment(ctx context.Context, scope *conversation.Scope, sp *domain.SuccessfulPayment) error {
	buyer := logger.Username(scope.Username(), scope.UserID)

	payment, byPayload, err := s.findPayment(ctx, scope.UserID, sp.InvoicePayload, domain.PaymentStatusTransactionCreated)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("failed to find payment: %w", err)
	}

	// выдаём пак только по записи в transaction_created
	if payment != nil && payment.Status != domain.PaymentStatusTransactionCreated {
		if payment.Status == domain.PaymentStatusTransactionCompleted {
			s.Log.Warn("successful_payment replay ignored",
				"payment_id", payment.ID,
				"user_id", scope.UserID,
				"charge_id", sp.TelegramPaymentChargeID)
			return nil
		}
		s.Log.Error("successful_payment for payment without pre-checkout",
			"error", domain.ErrInconsistentPayment,
			"payment_id", payment.ID,
			"status", payment.Status,
			"user_id", scope.UserID)
		return s.manualContact(ctx, scope, buyer, sp.InvoicePayload)
	}

	packName := s.resolvePackName(scope, payment, byPayload)
	if packName == "" {
		s.Log.Error("paid pack cannot be resolved",
			"error", domain.ErrInconsistentPayment,
			"user_id", scope.UserID,
			"payload", sp.InvoicePayload,
			"charge_id", sp.TelegramPaymentChargeID)
		return s.manualContact(ctx, scope, buyer, sp.InvoicePayload)
	}

	pack, err := s.Catalog.Pack(packName)
	if err != nil {
		s.Log.Error("paid pack is missing from catalog", "error", err, "pack_name", packName, "user_id", scope.UserID)
		return s.manualContact(ctx, scope, buyer, sp.InvoicePayload)
	}

	if err := s.Delivery.Deliver(ctx, scope.ChatID, buyer, pack); err != nil {
		s.Log.Error("pack delivery failed",
			"error", err,
			"user_id", scope.UserID,
			"pack_name", pack.Name)
		s.Notifier.Notify(ctx, fmt.Sprintf(alertDeliveryFailed, pack.HumanName, buyer, err))
		return fmt.Errorf("failed to deliver pack %s: %w", pack.Name, err)
	}

	if err := s.complete(ctx, scope, payment, pack, sp); err != nil {
		return err
	}
	return scope.Clear(ctx)
}

// resolvePackName запись по payload точнее состояния: пользователь мог выставить
// несколько счетов и оплатить старый
func (s *Service) resolvePackName(scope *conversation.Scope, payment *domain.Payment, byPayload bool) string {
	statePack, _ := scope.Value(domain.DataPackName)
	switch {
	case byPayload:
		if statePack != "" && statePack != payment.PackName {
			s.Log.Warn("paid pack differs from conversation state",
				"user_id", scope.UserID,
				"state_pack", statePack,
				"payment_pack", payment.PackName)
		}
		return payment.PackName
	case statePack != "":
		return statePack
	case payment != nil:
		s.Log.Info("pack restored from latest payment", "user_id", scope.UserID, "payment_id", payment.ID)
		return payment.PackName
	default:
		return ""
	}
}

func (s *Service) complete(
	ctx context.Context,
	scope *conversation.Scope,
	payment *domain.Payment,
	pack *domain.Pack,
	sp *domain.SuccessfulPayment,
) error {
	if payment == nil {
		s.Log.Warn("delivered pack has no payment record", "user_id", scope.UserID, "pack_name", pack.Name)
		s.Notifier.Notify(ctx, fmt.Sprintf(alertNoPayment, scope.UserID, sp.InvoicePayload,
			domain.PaymentStatusTransactionCreated, domain.ErrNotFound))
		return nil
	}

	completed, err := s.PaymentRepo.Transition(ctx, payment.ID,
		domain.PaymentStatusTransactionCreated, domain.PaymentStatusTransactionCompleted, nil)
	if err != nil {
		s.Notifier.Notify(ctx, fmt.Sprintf(alertTransitionFailed, scope.UserID, payment.ID,
			domain.PaymentStatusTransactionCreated, domain.PaymentStatusTransactionCompleted, err))
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to mark payment completed: %w", err)
	}

	s.publish(ctx, scope, completed, pack, sp)
	return nil
}

func (s *Service) publish(
	ctx context.Context,
	scope *conversation.Scope,
	payment *domain.Payment,
	pack *domain.Pack,
	sp *domain.SuccessfulPayment,
) {
	if s.Publisher == nil {
		return
	}
	event := domain.PurchaseEvent{
		Type:        domain.PurchaseEventPackPurchased,
		PaymentID:   payment.ID,
		UserID:      scope.UserID,
		PackName:    pack.Name,
		Amount:      sp.TotalAmount,
		Currency:    sp.Currency,
		CompletedAt: s.now(),
	}
	if u := scope.Username(); u != nil {
		event.Username = *u
	}
	if event.Currency == "" {
		event.Currency = s.cfg.Currency
	}
	if err := s.Publisher.PublishPurchase(ctx, event); err != nil {
		s.Log.Warn("failed to publish purchase event", "error", err, "payment_id", payment.ID)
	}
}

// manualContact просит пользователя написать администратору
func (s *Service) manualContact(ctx context.Context, scope *conversation.Scope, buyer, payload string) error {
	s.Notifier.Notify(ctx, fmt.Sprintf(alertInconsistent, buyer, scope.UserID, payload))

	keyboard := domain.InlineKeyboard{{
		{Text: textManualButton, URL: fmt.Sprintf("tg://openmessage?user_id=%d", s.cfg.AdminChatID)},
	}}
	if err := s.Messenger.SendMessageWithKeyboard(ctx, scope.ChatID, textManualContact, keyboard); err != nil {
		return fmt.Errorf("failed to send manual contact message: %w", err)
	}
	return nil
}
