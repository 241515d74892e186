package telegram

import (
	"context"

	"github.com/YusufBro01/ymastar/internal/domain"
)

// IClient интерфейс для клиента Telegram API
type IClient interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendMessageWithKeyboard(ctx context.Context, chatID int64, text string, keyboard *domain.InlineKeyboardMarkup) error
}

// IChatClient методы Bot API для поиска пользователей и их аватаров
type IChatClient interface {
	GetChat(ctx context.Context, chatID string) (*domain.Chat, error)
	GetFile(ctx context.Context, fileID string) (*domain.File, error)
	DownloadFile(ctx context.Context, filePath string) ([]byte, error)
	FileURL(filePath string) string
}
