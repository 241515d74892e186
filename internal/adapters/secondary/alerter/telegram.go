package alerter

import (
	"context"
	"fmt"

	"log/slog"

	"github.com/YusufBro01/ymastar/internal/adapters/secondary/telegram"
)

// Client клиент для отправки алертов через Telegram, отдельным ботом в служебный чат
type Client struct {
	telegramClient  *telegram.Client
	chatID          int64
	messageThreadID *int64
	log             *slog.Logger
}

// NewClient создаёт новый клиент для отправки алертов, без конфига возвращает nil
func NewClient(cfg *Config, log *slog.Logger, opts ...telegram.Option) *Client {
	if !cfg.Enabled() {
		return nil
	}

	return &Client{
		telegramClient:  telegram.NewClient(cfg.BotToken, log, opts...),
		chatID:          cfg.ChatID,
		messageThreadID: cfg.MessageThreadID,
		log:             log,
	}
}

// SendAlert отправляет алерт в Telegram группу (или топик форума)
func (c *Client) SendAlert(ctx context.Context, message string) error {
	if c == nil || c.telegramClient == nil {
		return fmt.Errorf("alerter client is not initialized")
	}

	_, err := c.telegramClient.SendMessageWithRequest(ctx, telegram.SendMessageRequest{
		ChatID:          c.chatID,
		MessageThreadID: c.messageThreadID,
		Text:            message,
	})
	if err != nil {
		c.log.Warn("failed to send alert",
			"error", err,
			"chat_id", c.chatID,
			"message_thread_id", c.messageThreadID,
		)
		return fmt.Errorf("failed to send alert: %w", err)
	}

	c.log.Debug("alert sent successfully", "chat_id", c.chatID)
	return nil
}
