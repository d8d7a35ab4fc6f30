package telegram_invoice

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/anastasia-gushchina/topdj-bot/internal/adapters/secondary/telegram"
	paymentPort "github.com/anastasia-gushchina/topdj-bot/internal/ports/payment"
)

const defaultStartParameter = "music_pack_payment"

// invoiceSender часть telegram.Client, нужная провайдеру
type invoiceSender interface {
	SendInvoice(ctx context.Context, req telegram.SendInvoiceRequest) (int64, error)
	AnswerPreCheckoutQuery(ctx context.Context, queryID string, ok bool, errorMessage *string) error
}

// Provider реализует IPaymentProvider через нативные платежи Telegram
// (sendInvoice с provider_token)
type Provider struct {
	client         invoiceSender
	providerToken  string
	currency       string
	startParameter string
	log            *slog.Logger
}

// NewProvider создаёт провайдер
func NewProvider(client invoiceSender, providerToken, currency string, log *slog.Logger) *Provider {
	return &Provider{
		client:         client,
		providerToken:  providerToken,
		currency:       currency,
		startParameter: defaultStartParameter,
		log:            log,
	}
}

// CreateInvoice выставляет счёт, payload = id платежа
func (p *Provider) CreateInvoice(ctx context.Context, req paymentPort.CreateInvoiceRequest) (*paymentPort.CreateInvoiceResult, error) {
	payload := req.PaymentID.String()
	startParameter := p.startParameter

	label := req.PriceLabel
	if label == "" {
		label = req.Title
	}

	messageID, err := p.client.SendInvoice(ctx, telegram.SendInvoiceRequest{
		ChatID:         req.ChatID,
		Title:          req.Title,
		Description:    req.Description,
		Payload:        payload,
		ProviderToken:  p.providerToken,
		Currency:       p.currency,
		Prices:         []telegram.LabeledPrice{{Label: label, Amount: req.Amount}},
		StartParameter: &startParameter,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to send invoice: %w", err)
	}

	p.log.Info("invoice created",
		"payment_id", payload,
		"chat_id", req.ChatID,
		"amount", req.Amount,
		"currency", p.currency,
	)

	return &paymentPort.CreateInvoiceResult{
		InvoiceID: strconv.FormatInt(messageID, 10),
		Payload:   payload,
	}, nil
}

// ConfirmPreCheckout отвечает на pre_checkout_query
func (p *Provider) ConfirmPreCheckout(ctx context.Context, queryID string, ok bool, errorMessage *string) error {
	if err := p.client.AnswerPreCheckoutQuery(ctx, queryID, ok, errorMessage); err != nil {
		return fmt.Errorf("failed to answer pre_checkout_query: %w", err)
	}
	return nil
}
