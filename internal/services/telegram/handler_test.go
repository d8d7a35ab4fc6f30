package telegram

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/anastasia-gushchina/topdj-bot/internal/adapters/secondary/storage/inmemory"
	"github.com/anastasia-gushchina/topdj-bot/internal/domain"
	"github.com/anastasia-gushchina/topdj-bot/internal/pkg/logger"
	"github.com/anastasia-gushchina/topdj-bot/internal/services/conversation"
)

type fakePurchase struct {
	mu      sync.Mutex
	started []int64
	inputs    []string
	callbacks []string
	chats     []int64
	err     error

	delay   time.Duration
	active  atomic.Int32
	overlap atomic.Bool
}

func (f *fakePurchase) Start(_ context.Context, scope *conversation.Scope) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started = append(f.started, scope.UserID)
	return f.err
}

func (f *fakePurchase) HandleInput(_ context.Context, scope *conversation.Scope, input string) error {
	if f.active.Add(1) > 1 {
		f.overlap.Store(true)
	}
	time.Sleep(f.delay)
	f.active.Add(-1)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, input)
	f.chats = append(f.chats, scope.ChatID)
	return f.err
}

func (f *fakePurchase) HandleCallback(ctx context.Context, scope *conversation.Scope, data string) error {
	f.mu.Lock()
	f.callbacks = append(f.callbacks, data)
	f.mu.Unlock()
	return f.HandleInput(ctx, scope, data)
}

type fakePayments struct {
	preCheckouts []string
	successful   []string
}

func (f *fakePayments) HandlePreCheckout(_ context.Context, q *domain.PreCheckoutQuery) error {
	f.preCheckouts = append(f.preCheckouts, q.ID)
	return nil
}

func (f *fakePayments) HandleSuccessfulPayment(_ context.Context, _ *conversation.Scope, sp *domain.SuccessfulPayment) error {
	f.successful = append(f.successful, sp.InvoicePayload)
	return nil
}

type fakeMessenger struct {
	answered []string
}

func (f *fakeMessenger) SendMessage(context.Context, int64, string) error { return nil }

func (f *fakeMessenger) SendMessageWithKeyboard(context.Context, int64, string, domain.InlineKeyboard) error {
	return nil
}

func (f *fakeMessenger) SendDocument(context.Context, int64, domain.OutgoingDocument) error { return nil }

func (f *fakeMessenger) AnswerCallbackQuery(_ context.Context, id string, _ string, _ bool) error {
	f.answered = append(f.answered, id)
	return nil
}

func newTestService() (*Service, *fakePurchase, *fakePayments, *fakeMessenger) {
	p := &fakePurchase{}
	pay := &fakePayments{}
	m := &fakeMessenger{}
	return New(p, pay, inmemory.NewStateStore(), m, logger.Discard()), p, pay, m
}

func strPtr(s string) *string { return &s }

func textUpdate(userID int64, text string) *domain.Update {
	return &domain.Update{
		UpdateID: 1,
		Message: &domain.Message{
			From: &domain.TelegramUser{ID: userID},
			Chat: &domain.Chat{ID: userID, Type: "private"},
			Text: strPtr(text),
		},
	}
}

func TestStartCommandRoutesToPurchase(t *testing.T) {
	s, p, _, _ := newTestService()

	for _, text := range []string{"/start", "/start@topdj_bot", "/start ref"} {
		if err := s.HandleUpdate(context.Background(), textUpdate(5, text)); err != nil {
			t.Fatalf("%q: %v", text, err)
		}
	}
	if len(p.started) != 3 || len(p.inputs) != 0 {
		t.Fatalf("started=%v inputs=%v", p.started, p.inputs)
	}
}

func TestTextGoesToFlowInput(t *testing.T) {
	s, p, _, _ := newTestService()

	if err := s.HandleUpdate(context.Background(), textUpdate(5, "House")); err != nil {
		t.Fatal(err)
	}
	if err := s.HandleUpdate(context.Background(), textUpdate(5, "/help")); err != nil {
		t.Fatal(err)
	}
	if len(p.inputs) != 2 || p.inputs[0] != "House" || p.inputs[1] != "/help" {
		t.Fatalf("inputs = %v", p.inputs)
	}
}

func TestCallbackAnsweredAndDispatched(t *testing.T) {
	s, p, _, m := newTestService()

	err := s.HandleUpdate(context.Background(), &domain.Update{
		CallbackQuery: &domain.CallbackQuery{
			ID:      "cb-1",
			From:    &domain.TelegramUser{ID: 5},
			Message: &domain.Message{Chat: &domain.Chat{ID: 500, Type: "private"}},
			Data:    strPtr("buy_pack_house_30"),
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(m.answered) != 1 || m.answered[0] != "cb-1" {
		t.Fatalf("answered = %v", m.answered)
	}
	if len(p.callbacks) != 1 || p.callbacks[0] != "buy_pack_house_30" || p.chats[0] != 500 {
		t.Fatalf("callbacks=%v chats=%v", p.callbacks, p.chats)
	}
}

func TestTextIsNotCallback(t *testing.T) {
	s, p, _, _ := newTestService()

	if err := s.HandleUpdate(context.Background(), textUpdate(5, "house_30")); err != nil {
		t.Fatal(err)
	}
	if len(p.callbacks) != 0 || len(p.inputs) != 1 {
		t.Fatalf("callbacks=%v inputs=%v", p.callbacks, p.inputs)
	}
}

func TestPaymentUpdatesRouted(t *testing.T) {
	s, _, pay, _ := newTestService()
	ctx := context.Background()

	err := s.HandleUpdate(ctx, &domain.Update{PreCheckoutQuery: &domain.PreCheckoutQuery{
		ID:   "q-1",
		From: &domain.TelegramUser{ID: 5},
	}})
	if err != nil {
		t.Fatal(err)
	}

	err = s.HandleUpdate(ctx, &domain.Update{Message: &domain.Message{
		From:              &domain.TelegramUser{ID: 5},
		Chat:              &domain.Chat{ID: 5, Type: "private"},
		SuccessfulPayment: &domain.SuccessfulPayment{InvoicePayload: "p-1"},
	}})
	if err != nil {
		t.Fatal(err)
	}

	if len(pay.preCheckouts) != 1 || len(pay.successful) != 1 || pay.successful[0] != "p-1" {
		t.Fatalf("pre=%v ok=%v", pay.preCheckouts, pay.successful)
	}
}

func TestPreCheckoutWithoutSenderStillHandled(t *testing.T) {
	s, _, pay, _ := newTestService()

	err := s.HandleUpdate(context.Background(), &domain.Update{PreCheckoutQuery: &domain.PreCheckoutQuery{ID: "q-2"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(pay.preCheckouts) != 1 || pay.preCheckouts[0] != "q-2" {
		t.Fatalf("pre = %v", pay.preCheckouts)
	}
}

func TestIgnoresBotsAndGroups(t *testing.T) {
	s, p, _, _ := newTestService()
	ctx := context.Background()

	bot := textUpdate(5, "hi")
	bot.Message.From.IsBot = true
	group := textUpdate(5, "hi")
	group.Message.Chat.Type = "supergroup"

	for _, u := range []*domain.Update{bot, group, {UpdateID: 9}} {
		if err := s.HandleUpdate(ctx, u); err != nil {
			t.Fatal(err)
		}
	}
	if len(p.inputs) != 0 {
		t.Fatalf("inputs = %v", p.inputs)
	}
	if err := s.HandleUpdate(ctx, nil); err == nil {
		t.Fatal("nil update must fail")
	}
}

func TestFlowErrorIsBusinessError(t *testing.T) {
	s, p, _, _ := newTestService()
	p.err = errors.New("invoice failed")

	err := s.HandleUpdate(context.Background(), textUpdate(5, "buy_pack_house_30"))
	if !domain.IsBusinessError(err) {
		t.Fatalf("expected business error, got %v", err)
	}
}

func TestEventsOfOneUserAreSerialized(t *testing.T) {
	s, p, _, _ := newTestService()
	p.delay = 5 * time.Millisecond

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.HandleUpdate(context.Background(), textUpdate(5, "x"))
		}()
	}
	wg.Wait()

	if p.overlap.Load() {
		t.Fatal("events of one user overlapped")
	}
	if len(p.inputs) != 8 {
		t.Fatalf("handled %d events", len(p.inputs))
	}
	if n := s.locks.size(); n != 0 {
		t.Fatalf("locks leaked: %d", n)
	}
}

func TestUserLocksIndependent(t *testing.T) {
	l := newUserLocks()
	unlockA := l.Lock(1)

	done := make(chan struct{})
	go func() {
		unlockB := l.Lock(2)
		unlockB()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock of another user must not block")
	}
	unlockA()
}
