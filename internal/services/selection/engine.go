// Package selection постраничный выбор одного элемента из списка
package selection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/anastasia-gushchina/topdj-bot/internal/domain"
	"github.com/anastasia-gushchina/topdj-bot/internal/ports/telegram"
	"github.com/anastasia-gushchina/topdj-bot/internal/services/conversation"
)

// MaxControls лимит кнопок в одном сообщении, включая навигацию
const MaxControls = 12

const (
	defaultPageSize = 10
	buttonsPerRow   = 2

	textInvalidInput = "Некорректный ввод."
	textItemNotFound = "Элемент не найден."
	textListFooter   = "Введите ключ нужного элемента:"
	textEmptyList    = "Список пуст."
	textPrev         = "⬅️ Назад"
	textNext         = "➡️ Далее"
)

// Item элемент списка
type Item struct {
	Key    string // уходит в callback_data, им же выбирают текстом
	Label  string // строка в тексте сообщения
	Button string // текст кнопки, по умолчанию Key
}

// Source то, что конкретный список даёт движку
type Source interface {
	// FetchPage элементы страницы и общее количество
	FetchPage(ctx context.Context, scope *conversation.Scope, limit, offset int) ([]Item, int, error)
	// FetchItem элемент по ключу, domain.ErrItemNotFound если его нет
	FetchItem(ctx context.Context, scope *conversation.Scope, key string) (Item, error)
	// Decode приводит ввод пользователя к ключу
	Decode(input string) (string, error)
	// OnSelected вызывается после выбора и возвращает следующее состояние.
	// domain.ValidationError оставляет пользователя в выборе
	OnSelected(ctx context.Context, scope *conversation.Scope, key string) (domain.State, error)
}

// Titler заголовок, который зависит от диалога, заменяет Config.Header
type Titler interface {
	Title(scope *conversation.Scope) string
}

// Config параметры списка
type Config struct {
	Name       string       // префикс callback-ов пагинации
	State      domain.State // состояние выбора
	Header     string       // текст над списком
	Buttons    bool
	Pagination bool
	PageSize   int
}

type Engine struct {
	cfg       Config
	source    Source
	messenger telegram.IClient
	log       *slog.Logger
}

func New(cfg Config, source Source, messenger telegram.IClient, log *slog.Logger) (*Engine, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("selection: name is required")
	}
	if cfg.State == domain.StateNone {
		return nil, fmt.Errorf("selection %s: state is required", cfg.Name)
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	return &Engine{
		cfg:       cfg,
		source:    source,
		messenger: messenger,
		log:       log.With("selection", cfg.Name),
	}, nil
}

// State состояние, в котором список ждёт выбора
func (e *Engine) State() domain.State {
	return e.cfg.State
}

// Enter показывает первую страницу и переводит диалог в выбор
func (e *Engine) Enter(ctx context.Context, scope *conversation.Scope) error {
	return e.showPage(ctx, scope, 0)
}

// Handle обрабатывает текст или callback_data в состоянии выбора
func (e *Engine) Handle(ctx context.Context, scope *conversation.Scope, input string) error {
	if page, ok := e.parsePage(input); ok {
		return e.showPage(ctx, scope, page)
	}
	return e.handleSelection(ctx, scope, input)
}

func (e *Engine) pagePrefix() string {
	return e.cfg.Name + "_page_"
}

// parsePage разбирает callback пагинации вида <Name>_page_<n>
func (e *Engine) parsePage(input string) (int, bool) {
	if !e.cfg.Pagination || !strings.HasPrefix(input, e.pagePrefix()) {
		return 0, false
	}
	page, err := strconv.Atoi(strings.TrimPrefix(input, e.pagePrefix()))
	if err != nil || page < 0 {
		return 0, false
	}
	return page, true
}

func (e *Engine) showPage(ctx context.Context, scope *conversation.Scope, page int) error {
	offset := page * e.cfg.PageSize
	items, total, err := e.source.FetchPage(ctx, scope, e.cfg.PageSize, offset)
	if err != nil {
		return fmt.Errorf("selection %s: fetch page %d: %w", e.cfg.Name, page, err)
	}

	keyboard := e.buildKeyboard(items, page, offset, total)
	if err := e.messenger.SendMessageWithKeyboard(ctx, scope.ChatID, e.formatList(e.header(scope), items), keyboard); err != nil {
		return fmt.Errorf("selection %s: send page %d: %w", e.cfg.Name, page, err)
	}

	if err := scope.SetState(ctx, e.cfg.State); err != nil {
		return err
	}
	if err := scope.Update(ctx, map[string]string{domain.DataPage: strconv.Itoa(page)}); err != nil {
		return err
	}

	e.log.Debug("selection page shown",
		"user_id", scope.UserID,
		"page", page,
		"items", len(items),
		"total", total)
	return nil
}

func (e *Engine) buildKeyboard(items []Item, page, offset, total int) domain.InlineKeyboard {
	var nav []domain.InlineButton
	if e.cfg.Pagination {
		if offset > 0 {
			nav = append(nav, domain.InlineButton{Text: textPrev, CallbackData: e.pagePrefix() + strconv.Itoa(page-1)})
		}
		if offset+e.cfg.PageSize < total {
			nav = append(nav, domain.InlineButton{Text: textNext, CallbackData: e.pagePrefix() + strconv.Itoa(page+1)})
		}
	}

	var keyboard domain.InlineKeyboard
	// кнопки элементов только если вся страница влезает в лимит
	if e.cfg.Buttons && e.cfg.PageSize <= MaxControls-len(nav) {
		var row []domain.InlineButton
		for _, item := range items {
			text := item.Button
			if text == "" {
				text = item.Key
			}
			row = append(row, domain.InlineButton{Text: text, CallbackData: item.Key})
			if len(row) == buttonsPerRow {
				keyboard = append(keyboard, row)
				row = nil
			}
		}
		if len(row) > 0 {
			keyboard = append(keyboard, row)
		}
	}

	if len(nav) > 0 {
		keyboard = append(keyboard, nav)
	}
	return keyboard
}

func (e *Engine) header(scope *conversation.Scope) string {
	if t, ok := e.source.(Titler); ok {
		return t.Title(scope)
	}
	return e.cfg.Header
}

func (e *Engine) formatList(header string, items []Item) string {
	var b strings.Builder
	if header != "" {
		b.WriteString(header)
		b.WriteString("\n\n")
	}
	if len(items) == 0 {
		b.WriteString(textEmptyList)
		return b.String()
	}
	for _, item := range items {
		b.WriteString(item.Key)
		if item.Label != "" {
			b.WriteString(") ")
			b.WriteString(item.Label)
		}
		b.WriteString("\n\n")
	}
	b.WriteString(textListFooter)
	return b.String()
}

func (e *Engine) handleSelection(ctx context.Context, scope *conversation.Scope, input string) error {
	key, err := e.source.Decode(strings.TrimSpace(input))
	if err != nil {
		e.log.Debug("selection input rejected", "user_id", scope.UserID, "input", input, "error", err)
		return e.reply(ctx, scope, textInvalidInput)
	}

	if _, err := e.source.FetchItem(ctx, scope, key); err != nil {
		if errors.Is(err, domain.ErrItemNotFound) || errors.Is(err, domain.ErrNotFound) {
			return e.reply(ctx, scope, textItemNotFound)
		}
		return fmt.Errorf("selection %s: fetch item %q: %w", e.cfg.Name, key, err)
	}

	next, err := e.source.OnSelected(ctx, scope, key)
	if err != nil {
		if vErr, ok := domain.AsValidationError(err); ok {
			return e.reply(ctx, scope, vErr.Message)
		}
		return fmt.Errorf("selection %s: on selected %q: %w", e.cfg.Name, key, err)
	}

	e.log.Debug("item selected", "user_id", scope.UserID, "key", key, "next_state", next)
	return scope.SetState(ctx, next)
}

func (e *Engine) reply(ctx context.Context, scope *conversation.Scope, text string) error {
	if err := e.messenger.SendMessage(ctx, scope.ChatID, text); err != nil {
		return fmt.Errorf("selection %s: reply: %w", e.cfg.Name, err)
	}
	return nil
}

// DecodeInt декодер для списков с числовыми ключами
func DecodeInt(input string) (string, error) {
	n, err := strconv.Atoi(input)
	if err != nil {
		return "", fmt.Errorf("%q: %w", input, domain.ErrInvalidInput)
	}
	return strconv.Itoa(n), nil
}

// DecodeText декодер для текстовых ключей
func DecodeText(input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("empty input: %w", domain.ErrInvalidInput)
	}
	return input, nil
}
