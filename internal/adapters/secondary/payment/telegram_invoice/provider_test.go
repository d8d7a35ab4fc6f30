package telegram_invoice

import (
	"context"
	"errors"
	"testing"

	"github.com/anastasia-gushchina/topdj-bot/internal/adapters/secondary/telegram"
	"github.com/anastasia-gushchina/topdj-bot/internal/pkg/logger"
	paymentPort "github.com/anastasia-gushchina/topdj-bot/internal/ports/payment"
	"github.com/google/uuid"
)

type fakeSender struct {
	invoice  *telegram.SendInvoiceRequest
	answered []bool
	err      error
}

func (f *fakeSender) SendInvoice(_ context.Context, req telegram.SendInvoiceRequest) (int64, error) {
	f.invoice = &req
	return 99, f.err
}

func (f *fakeSender) AnswerPreCheckoutQuery(_ context.Context, _ string, ok bool, _ *string) error {
	f.answered = append(f.answered, ok)
	return f.err
}

func TestCreateInvoiceUsesPaymentIDAsPayload(t *testing.T) {
	sender := &fakeSender{}
	p := NewProvider(sender, "provider-token", "RUB", logger.Discard())
	id := uuid.New()

	res, err := p.CreateInvoice(context.Background(), paymentPort.CreateInvoiceRequest{
		PaymentID:  id,
		ChatID:     3,
		Title:      "Techno Pack",
		PriceLabel: "Техно пак",
		Amount:     500000,
	})
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}

	if res.Payload != id.String() || res.InvoiceID != "99" {
		t.Fatalf("unexpected result %+v", res)
	}
	inv := sender.invoice
	if inv.Payload != id.String() || inv.ProviderToken != "provider-token" || inv.Currency != "RUB" {
		t.Fatalf("unexpected invoice %+v", inv)
	}
	if *inv.StartParameter != "music_pack_payment" {
		t.Fatalf("start parameter = %s", *inv.StartParameter)
	}
	if len(inv.Prices) != 1 || inv.Prices[0].Amount != 500000 || inv.Prices[0].Label != "Техно пак" {
		t.Fatalf("unexpected prices %+v", inv.Prices)
	}
}

func TestCreateInvoiceError(t *testing.T) {
	p := NewProvider(&fakeSender{err: errors.New("boom")}, "t", "RUB", logger.Discard())

	if _, err := p.CreateInvoice(context.Background(), paymentPort.CreateInvoiceRequest{PaymentID: uuid.New()}); err == nil {
		t.Fatal("expected error")
	}
}

func TestConfirmPreCheckout(t *testing.T) {
	sender := &fakeSender{}
	p := NewProvider(sender, "t", "RUB", logger.Discard())

	if err := p.ConfirmPreCheckout(context.Background(), "q1", true, nil); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if len(sender.answered) != 1 || !sender.answered[0] {
		t.Fatalf("answered = %v", sender.answered)
	}
}
