package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

type Config struct {
	Encoding  string `envconfig:"ENCODING" default:"console"`
	Level     string `envconfig:"LEVEL" default:"info"`
	AddSource bool   `envconfig:"ADD_SOURCE" default:"true"`
}

// New создаёт логгер приложения, на невалидном конфиге паникует
func New(app string, cfg *Config) *slog.Logger {
	if cfg == nil {
		cfg = &Config{Encoding: "console", Level: "info", AddSource: true}
	}

	handler, err := newHandler(os.Stdout, cfg)
	if err != nil {
		panic(fmt.Errorf("invalid logger config: %w", err))
	}

	return slog.New(handler).With("app", app)
}

// Discard логгер, который ничего не пишет (для тестов)
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

func newHandler(w io.Writer, cfg *Config) (slog.Handler, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.AddSource,
	}

	switch strings.ToLower(cfg.Encoding) {
	case "json":
		return slog.NewJSONHandler(w, opts), nil
	case "", "console":
		return NewConsoleHandler(w, opts), nil
	default:
		return nil, fmt.Errorf("encoding %s is not supported", cfg.Encoding)
	}
}

// parseLevel парсит строковый уровень в slog.Level
func parseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("level %s is not supported", level)
	}
}

// ConsoleHandler текстовый вывод для локальной разработки
type ConsoleHandler struct {
	handler slog.Handler
}

func NewConsoleHandler(w io.Writer, opts *slog.HandlerOptions) *ConsoleHandler {
	return &ConsoleHandler{
		handler: slog.NewTextHandler(w, opts),
	}
}

func (h *ConsoleHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *ConsoleHandler) Handle(ctx context.Context, record slog.Record) error {
	return h.handler.Handle(ctx, record)
}

func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ConsoleHandler{handler: h.handler.WithAttrs(attrs)}
}

func (h *ConsoleHandler) WithGroup(name string) slog.Handler {
	return &ConsoleHandler{handler: h.handler.WithGroup(name)}
}

// Username форматирует ник для логов и уведомлений
func Username(username *string, fallbackID int64) string {
	if username != nil && *username != "" {
		return "@" + *username
	}
	return fmt.Sprintf("id%d", fallbackID)
}
