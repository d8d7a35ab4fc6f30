package purchase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anastasia-gushchina/topdj-bot/internal/domain"
	"github.com/anastasia-gushchina/topdj-bot/internal/pkg/logger"
	paymentPort "github.com/anastasia-gushchina/topdj-bot/internal/ports/payment"
	"github.com/anastasia-gushchina/topdj-bot/internal/services/conversation"
	"github.com/google/uuid"
)

// HandleCallback callback_data inline-кнопки. Запрос нового пака принимается
// только текстом, нажатия старых кнопок в этом состоянии не пересылаются
func (s *Service) HandleCallback(ctx context.Context, scope *conversation.Scope, data string) error {
	if scope.State() == StateCreateNewPack {
		s.Log.Debug("callback ignored while waiting for pack request",
			"user_id", scope.UserID,
			"data", data)
		return s.reply(ctx, scope, textNewPackPrompt)
	}
	return s.HandleInput(ctx, scope, data)
}

// HandleInput текст сообщения или callback_data в текущем состоянии
func (s *Service) HandleInput(ctx context.Context, scope *conversation.Scope, input string) error {
	if name, ok := strings.CutPrefix(input, BuyCallbackPrefix); ok {
		return s.Buy(ctx, scope, name)
	}

	switch scope.State() {
	case StatePackCategory:
		return s.categories.Handle(ctx, scope, input)
	case StatePackName, StatePackInfo:
		// из описания пака можно выбрать другой пак из списка выше
		return s.packs.Handle(ctx, scope, input)
	case StateCreateNewPack:
		return s.requestNewPack(ctx, scope, input)
	case StateNewInvoice:
		return s.reply(ctx, scope, textAwaitPayment)
	default:
		return s.reply(ctx, scope, textUseStart)
	}
}

func (s *Service) showPackInfo(ctx context.Context, scope *conversation.Scope, pack *domain.Pack) error {
	keyboard := domain.InlineKeyboard{{
		{Text: textBuyButton, CallbackData: BuyCallbackPrefix + pack.Name},
	}}
	if err := s.Messenger.SendMessageWithKeyboard(ctx, scope.ChatID, packDescription(pack, s.cfg.Currency), keyboard); err != nil {
		return fmt.Errorf("failed to send pack info: %w", err)
	}
	return nil
}

// Buy выставляет счёт за пак: запись started, затем invoice с payload = id записи
func (s *Service) Buy(ctx context.Context, scope *conversation.Scope, packName string) error {
	pack, err := s.Catalog.Pack(packName)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.Log.Warn("buy requested for unknown pack", "user_id", scope.UserID, "pack_name", packName)
			return s.reply(ctx, scope, textChoosePack)
		}
		return err
	}

	if err := scope.Update(ctx, map[string]string{domain.DataPackName: pack.Name}); err != nil {
		return err
	}

	payment, err := s.PaymentRepo.Create(ctx, &domain.Payment{
		ID:       uuid.New(),
		UserID:   scope.UserID,
		Status:   domain.PaymentStatusStarted,
		PackName: pack.Name,
	})
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}

	amount := s.Catalog.PriceOf(&pack.Name)
	_, err = s.Payments.CreateInvoice(ctx, paymentPort.CreateInvoiceRequest{
		PaymentID:   payment.ID,
		ChatID:      scope.ChatID,
		Title:       invoiceTitle,
		Description: fmt.Sprintf(invoiceDescription, pack.HumanName),
		PriceLabel:  fmt.Sprintf(invoicePriceLabel, pack.HumanName),
		Amount:      amount,
	})
	if err != nil {
		s.Log.Error("failed to issue invoice",
			"error", err,
			"user_id", scope.UserID,
			"payment_id", payment.ID,
			"pack_name", pack.Name)
		return fmt.Errorf("failed to issue invoice: %w", err)
	}

	s.Log.Info("invoice issued",
		"user_id", scope.UserID,
		"payment_id", payment.ID,
		"pack_name", pack.Name,
		"amount", amount)
	return scope.SetState(ctx, StateNewInvoice)
}

// requestNewPack пересылает описание желаемого пака оператору
func (s *Service) requestNewPack(ctx context.Context, scope *conversation.Scope, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return s.reply(ctx, scope, textNewPackEmpty)
	}

	s.Notifier.Notify(ctx, fmt.Sprintf(textNewPackAlert, logger.Username(scope.Username(), scope.UserID), text))
	if err := s.reply(ctx, scope, textNewPackThanks); err != nil {
		return err
	}
	return scope.Clear(ctx)
}

func (s *Service) reply(ctx context.Context, scope *conversation.Scope, text string) error {
	if err := s.Messenger.SendMessage(ctx, scope.ChatID, text); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}
