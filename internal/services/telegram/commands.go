package telegram

import (
	"context"
	"fmt"

	"github.com/YusufBro01/ymastar/internal/domain"
)

const (
	CommandStart    = "start"
	CommandReferral = "referral"
	CommandHelp     = "help"
)

const (
	welcomeText = "⭐ Tez Starʼga xush kelibsiz! 👏\n\n" +
		"Viza kartasiz o'zingiz yoki do'stlaringiz uchun Telegram Premium va ⭐ olishingiz mumkin."
	helpText = "Yordam\n\n" +
		"1. «Ilovani ochish» tugmasini bosing.\n" +
		"2. Qabul qiluvchining @username'ini kiriting.\n" +
		"3. Miqdor va to'lov usulini tanlang (Payme yoki Click).\n" +
		"4. Buyurtma 30 daqiqa davomida amal qiladi.\n\n" +
		"Buyurtma xabari kelmasa, botni /start orqali qayta ishga tushiring."
	referralText = "Referral dasturi tez orada ishga tushadi."

	openAppButton = "Ilovani ochish 🚀"
	channelButton = "Kanalimizga a’zo bo‘ling"
)

// Commands меню команд бота для setMyCommands
func Commands() []domain.BotCommand {
	return []domain.BotCommand{
		{Command: CommandStart, Description: "Botni ishga tushirish"},
		{Command: CommandReferral, Description: "Referral program"},
		{Command: CommandHelp, Description: "Yordam"},
	}
}

// HandleCommand отвечает на команду; неизвестные команды молча игнорируются
func (s *Service) HandleCommand(ctx context.Context, chatID int64, command string) error {
	var err error
	switch command {
	case CommandStart:
		err = s.Client.SendMessageWithKeyboard(ctx, chatID, welcomeText, s.startKeyboard())
	case CommandHelp:
		err = s.Client.SendMessage(ctx, chatID, helpText)
	case CommandReferral:
		err = s.Client.SendMessage(ctx, chatID, referralText)
	default:
		s.Log.Debug("unknown command", "command", command, "chat_id", chatID)
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to answer /%s: %w", command, err)
	}
	return nil
}

func (s *Service) startKeyboard() *domain.InlineKeyboardMarkup {
	var rows [][]domain.InlineKeyboardButton
	if s.WebAppURL != "" {
		rows = append(rows, []domain.InlineKeyboardButton{{Text: openAppButton, WebApp: &domain.WebAppInfo{URL: s.WebAppURL}}})
	}
	if s.ChannelURL != "" {
		rows = append(rows, []domain.InlineKeyboardButton{{Text: channelButton, URL: s.ChannelURL}})
	}
	if len(rows) == 0 {
		return nil
	}
	return &domain.InlineKeyboardMarkup{InlineKeyboard: rows}
}
