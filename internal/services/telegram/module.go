package telegram

import (
	"log/slog"

	"github.com/YusufBro01/ymastar/internal/ports/telegram"
)

// Service фронт бота: /start с кнопкой мини-приложения, /help, /referral
type Service struct {
	Client     telegram.IClient
	WebAppURL  string
	ChannelURL string
	Log        *slog.Logger
}

func New(client telegram.IClient, webAppURL, channelURL string, log *slog.Logger) *Service {
	return &Service{
		Client:     client,
		WebAppURL:  webAppURL,
		ChannelURL: channelURL,
		Log:        log,
	}
}
