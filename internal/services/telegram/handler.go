package telegram

import (
	"context"
	"fmt"
	"strings"

	"github.com/YusufBro01/ymastar/internal/domain"
)

// HandleUpdate Основной метод для обработки всех типов обновлений
func (s *Service) HandleUpdate(ctx context.Context, update *domain.Update) error {
	if update == nil {
		return fmt.Errorf("update is nil")
	}

	if update.Message != nil {
		return s.HandleMessage(ctx, update.Message, update.UpdateID)
	}

	return nil
}

// HandleMessage обрабатывает входящее сообщение, отвечает только на команды в личке
func (s *Service) HandleMessage(ctx context.Context, message *domain.Message, updateID int64) error {
	if message == nil {
		return fmt.Errorf("message is nil")
	}

	if message.From == nil || message.From.IsBot {
		s.Log.Debug("ignoring message from bot", "update_id", updateID)
		return nil
	}

	if !message.Chat.IsPrivate() {
		s.Log.Debug("ignoring message from group/chat", "update_id", updateID)
		return nil
	}

	if message.Text == nil || !IsCommand(*message.Text) {
		return nil
	}

	command := ParseCommand(*message.Text)
	s.Log.Info("command received",
		"command", command,
		"telegram_user_id", message.From.ID,
		"update_id", updateID,
	)

	return s.HandleCommand(ctx, message.Chat.ID, command)
}

func ParseCommand(text string) string {
	text = strings.TrimPrefix(text, "/")

	if idx := strings.Index(text, "@"); idx != -1 {
		text = text[:idx]
	}

	if idx := strings.Index(text, " "); idx != -1 {
		text = text[:idx]
	}

	return strings.ToLower(text)
}

func IsCommand(text string) bool {
	return len(text) > 0 && text[0] == '/'
}
