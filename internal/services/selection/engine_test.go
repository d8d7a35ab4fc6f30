package selection

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/anastasia-gushchina/topdj-bot/internal/adapters/secondary/storage/inmemory"
	"github.com/anastasia-gushchina/topdj-bot/internal/domain"
	"github.com/anastasia-gushchina/topdj-bot/internal/pkg/logger"
	"github.com/anastasia-gushchina/topdj-bot/internal/services/conversation"
)

type sentMessage struct {
	chatID   int64
	text     string
	keyboard domain.InlineKeyboard
}

type fakeMessenger struct {
	sent []sentMessage
}

func (f *fakeMessenger) SendMessage(_ context.Context, chatID int64, text string) error {
	f.sent = append(f.sent, sentMessage{chatID: chatID, text: text})
	return nil
}

func (f *fakeMessenger) SendMessageWithKeyboard(_ context.Context, chatID int64, text string, kb domain.InlineKeyboard) error {
	f.sent = append(f.sent, sentMessage{chatID: chatID, text: text, keyboard: kb})
	return nil
}

func (f *fakeMessenger) SendDocument(context.Context, int64, domain.OutgoingDocument) error {
	return nil
}

func (f *fakeMessenger) AnswerCallbackQuery(context.Context, string, string, bool) error {
	return nil
}

func (f *fakeMessenger) last(t *testing.T) sentMessage {
	t.Helper()
	if len(f.sent) == 0 {
		t.Fatal("nothing sent")
	}
	return f.sent[len(f.sent)-1]
}

// numberSource список 1..total с числовыми ключами
type numberSource struct {
	total    int
	selected []string
	onSelect func(key string) (domain.State, error)
}

func (s *numberSource) FetchPage(_ context.Context, _ *conversation.Scope, limit, offset int) ([]Item, int, error) {
	var items []Item
	for i := offset + 1; i <= s.total && len(items) < limit; i++ {
		items = append(items, Item{Key: strconv.Itoa(i), Label: fmt.Sprintf("Элемент %d", i)})
	}
	return items, s.total, nil
}

func (s *numberSource) FetchItem(_ context.Context, _ *conversation.Scope, key string) (Item, error) {
	n, _ := strconv.Atoi(key)
	if n < 1 || n > s.total {
		return Item{}, domain.ErrItemNotFound
	}
	return Item{Key: key}, nil
}

func (s *numberSource) Decode(input string) (string, error) {
	return DecodeInt(input)
}

func (s *numberSource) OnSelected(_ context.Context, _ *conversation.Scope, key string) (domain.State, error) {
	s.selected = append(s.selected, key)
	if s.onSelect != nil {
		return s.onSelect(key)
	}
	return "done", nil
}

type fixture struct {
	engine    *Engine
	source    *numberSource
	messenger *fakeMessenger
	scope     *conversation.Scope
}

func newFixture(t *testing.T, cfg Config, total int) *fixture {
	t.Helper()
	src := &numberSource{total: total}
	msg := &fakeMessenger{}
	e, err := New(cfg, src, msg, logger.Discard())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	scope, err := conversation.Load(context.Background(), inmemory.NewStateStore(), &domain.TelegramUser{ID: 1}, 100)
	if err != nil {
		t.Fatal(err)
	}
	return &fixture{engine: e, source: src, messenger: msg, scope: scope}
}

func defaultConfig() Config {
	return Config{Name: "Numbers", State: "numbers", Buttons: true, Pagination: true, PageSize: 10}
}

func navTexts(kb domain.InlineKeyboard) []string {
	var texts []string
	for _, row := range kb {
		for _, b := range row {
			if strings.Contains(b.CallbackData, "_page_") {
				texts = append(texts, b.Text)
			}
		}
	}
	return texts
}

func TestPaginationControls(t *testing.T) {
	tests := []struct {
		page     int
		wantNav  []string
		wantKeys int
	}{
		{0, []string{"➡️ Далее"}, 10},
		{1, []string{"⬅️ Назад", "➡️ Далее"}, 10},
		{2, []string{"⬅️ Назад"}, 5},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("page %d", tt.page), func(t *testing.T) {
			f := newFixture(t, defaultConfig(), 25)
			ctx := context.Background()

			if err := f.engine.Handle(ctx, f.scope, fmt.Sprintf("Numbers_page_%d", tt.page)); err != nil {
				t.Fatalf("handle: %v", err)
			}

			kb := f.messenger.last(t).keyboard
			nav := navTexts(kb)
			if strings.Join(nav, ",") != strings.Join(tt.wantNav, ",") {
				t.Fatalf("nav = %v, want %v", nav, tt.wantNav)
			}
			if got := kb.ButtonsCount() - len(nav); got != tt.wantKeys {
				t.Fatalf("item buttons = %d, want %d", got, tt.wantKeys)
			}
			if f.scope.State() != "numbers" || f.scope.Page() != tt.page {
				t.Fatalf("state=%s page=%d", f.scope.State(), f.scope.Page())
			}
		})
	}
}

func TestNavigationCallbackData(t *testing.T) {
	f := newFixture(t, defaultConfig(), 25)
	if err := f.engine.Handle(context.Background(), f.scope, "Numbers_page_1"); err != nil {
		t.Fatal(err)
	}
	kb := f.messenger.last(t).keyboard
	nav := kb[len(kb)-1]
	if nav[0].CallbackData != "Numbers_page_0" || nav[1].CallbackData != "Numbers_page_2" {
		t.Fatalf("unexpected nav %+v", nav)
	}
}

func TestItemButtonsTwoPerRow(t *testing.T) {
	f := newFixture(t, defaultConfig(), 3)
	if err := f.engine.Enter(context.Background(), f.scope); err != nil {
		t.Fatal(err)
	}
	kb := f.messenger.last(t).keyboard
	if len(kb) != 2 || len(kb[0]) != 2 || len(kb[1]) != 1 {
		t.Fatalf("unexpected layout %+v", kb)
	}
	if kb[0][0].CallbackData != "1" || kb[0][0].Text != "1" {
		t.Fatalf("unexpected button %+v", kb[0][0])
	}
}

func TestButtonsOmittedWhenOverBudget(t *testing.T) {
	cfg := defaultConfig()
	cfg.PageSize = 11 // 11 + 2 навигации > 12
	f := newFixture(t, cfg, 40)
	ctx := context.Background()

	if err := f.engine.Enter(ctx, f.scope); err != nil {
		t.Fatal(err)
	}
	// на первой странице только "Далее": 11 + 1 влезает
	if got := f.messenger.last(t).keyboard.ButtonsCount(); got != 12 {
		t.Fatalf("first page buttons = %d", got)
	}

	if err := f.engine.Handle(ctx, f.scope, "Numbers_page_1"); err != nil {
		t.Fatal(err)
	}
	kb := f.messenger.last(t).keyboard
	if kb.ButtonsCount() != 2 || len(navTexts(kb)) != 2 {
		t.Fatalf("expected nav only, got %+v", kb)
	}
}

func TestListText(t *testing.T) {
	cfg := defaultConfig()
	cfg.Header = "Выбери:"
	f := newFixture(t, cfg, 2)
	if err := f.engine.Enter(context.Background(), f.scope); err != nil {
		t.Fatal(err)
	}
	want := "Выбери:\n\n1) Элемент 1\n\n2) Элемент 2\n\nВведите ключ нужного элемента:"
	if got := f.messenger.last(t).text; got != want {
		t.Fatalf("text = %q", got)
	}
}

func TestInvalidInputStaysInSelect(t *testing.T) {
	f := newFixture(t, defaultConfig(), 5)
	ctx := context.Background()
	if err := f.engine.Enter(ctx, f.scope); err != nil {
		t.Fatal(err)
	}
	sentBefore := len(f.messenger.sent)

	if err := f.engine.Handle(ctx, f.scope, "abc"); err != nil {
		t.Fatal(err)
	}

	if len(f.messenger.sent) != sentBefore+1 {
		t.Fatal("page must not be re-rendered")
	}
	if msg := f.messenger.last(t); msg.text != "Некорректный ввод." || msg.keyboard != nil {
		t.Fatalf("unexpected reply %+v", msg)
	}
	if f.scope.State() != "numbers" || len(f.source.selected) != 0 {
		t.Fatal("state must not change")
	}
}

func TestUnknownItem(t *testing.T) {
	f := newFixture(t, defaultConfig(), 5)
	ctx := context.Background()
	if err := f.engine.Enter(ctx, f.scope); err != nil {
		t.Fatal(err)
	}

	if err := f.engine.Handle(ctx, f.scope, "42"); err != nil {
		t.Fatal(err)
	}
	if f.messenger.last(t).text != "Элемент не найден." || f.scope.State() != "numbers" {
		t.Fatal("expected item-not-found reply and unchanged state")
	}
}

func TestSelectionTransitions(t *testing.T) {
	f := newFixture(t, defaultConfig(), 5)
	ctx := context.Background()
	if err := f.engine.Enter(ctx, f.scope); err != nil {
		t.Fatal(err)
	}

	if err := f.engine.Handle(ctx, f.scope, " 3 "); err != nil {
		t.Fatal(err)
	}
	if len(f.source.selected) != 1 || f.source.selected[0] != "3" {
		t.Fatalf("selected = %v", f.source.selected)
	}
	if f.scope.State() != "done" {
		t.Fatalf("state = %s", f.scope.State())
	}
}

func TestValidationErrorFromCallback(t *testing.T) {
	f := newFixture(t, defaultConfig(), 5)
	f.source.onSelect = func(string) (domain.State, error) {
		return "", domain.NewValidationError("Этот элемент сейчас недоступен")
	}
	ctx := context.Background()
	if err := f.engine.Enter(ctx, f.scope); err != nil {
		t.Fatal(err)
	}

	if err := f.engine.Handle(ctx, f.scope, "2"); err != nil {
		t.Fatal(err)
	}
	if f.messenger.last(t).text != "Этот элемент сейчас недоступен" || f.scope.State() != "numbers" {
		t.Fatal("validation error must keep select state")
	}
}

func TestTerminalSelection(t *testing.T) {
	f := newFixture(t, defaultConfig(), 5)
	f.source.onSelect = func(string) (domain.State, error) { return domain.StateNone, nil }
	ctx := context.Background()
	if err := f.engine.Enter(ctx, f.scope); err != nil {
		t.Fatal(err)
	}
	if err := f.engine.Handle(ctx, f.scope, "1"); err != nil {
		t.Fatal(err)
	}
	if f.scope.State() != domain.StateNone {
		t.Fatalf("state = %s", f.scope.State())
	}
}

func TestPageCallbackIgnoredWithoutPagination(t *testing.T) {
	cfg := defaultConfig()
	cfg.Pagination = false
	f := newFixture(t, cfg, 25)
	if err := f.engine.Handle(context.Background(), f.scope, "Numbers_page_1"); err != nil {
		t.Fatal(err)
	}
	if f.messenger.last(t).text != "Некорректный ввод." {
		t.Fatal("page callback must be treated as selection input")
	}
}

func TestNewValidatesConfig(t *testing.T) {
	if _, err := New(Config{State: "x"}, &numberSource{}, &fakeMessenger{}, logger.Discard()); err == nil {
		t.Fatal("expected error without name")
	}
	if _, err := New(Config{Name: "x"}, &numberSource{}, &fakeMessenger{}, logger.Discard()); err == nil {
		t.Fatal("expected error without state")
	}
}

type titledSource struct {
	numberSource
}

func (s *titledSource) Title(scope *conversation.Scope) string {
	return fmt.Sprintf("Список для %d", scope.UserID)
}

func TestTitlerOverridesHeader(t *testing.T) {
	cfg := defaultConfig()
	cfg.Header = "static"
	msg := &fakeMessenger{}
	e, err := New(cfg, &titledSource{numberSource{total: 1}}, msg, logger.Discard())
	if err != nil {
		t.Fatal(err)
	}
	scope, err := conversation.Load(context.Background(), inmemory.NewStateStore(), &domain.TelegramUser{ID: 9}, 9)
	if err != nil {
		t.Fatal(err)
	}

	if err := e.Enter(context.Background(), scope); err != nil {
		t.Fatal(err)
	}
	if got := msg.last(t).text; !strings.HasPrefix(got, "Список для 9\n\n1) Элемент 1") {
		t.Fatalf("text = %q", got)
	}
}
