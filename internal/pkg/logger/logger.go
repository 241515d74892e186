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

// New собирает slog логгер приложения, пишет в stdout (json) или stderr (console)
func New(app string, cfg *Config) *slog.Logger {
	var w io.Writer = os.Stderr
	if cfg != nil && cfg.Encoding == "json" {
		w = os.Stdout
	}

	logger, err := NewWithWriter(app, cfg, w)
	if err != nil {
		panic(fmt.Errorf("invalid logger config: %w", err))
	}
	return logger
}

// NewWithWriter то же, что New, но с явным writer и без паники (удобно в тестах)
func NewWithWriter(app string, cfg *Config, w io.Writer) (*slog.Logger, error) {
	if cfg == nil {
		cfg = &Config{
			Encoding:  "console",
			Level:     "info",
			AddSource: true,
		}
	}

	encoding := cfg.Encoding
	if encoding == "" {
		encoding = "console"
	}

	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler

	switch encoding {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	case "console":
		handler = NewConsoleHandler(w, opts)
	default:
		return nil, fmt.Errorf("encoding %s is not supported", encoding)
	}

	return slog.New(handler).With("app", app), nil
}

// Nop логгер, который ничего не пишет
func Nop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// parseLevel парсит строковый уровень в slog.Level, пустая строка = info
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

// ConsoleHandler консольный вывод для slog
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
	return &ConsoleHandler{
		handler: h.handler.WithAttrs(attrs),
	}
}

func (h *ConsoleHandler) WithGroup(name string) slog.Handler {
	return &ConsoleHandler{
		handler: h.handler.WithGroup(name),
	}
}
