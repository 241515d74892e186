package notifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/YusufBro01/ymastar/internal/domain"
	"github.com/YusufBro01/ymastar/internal/ports/service"
	"github.com/YusufBro01/ymastar/internal/ports/telegram"
)

const payButton = "💳 To'lash"

type Config struct {
	OrdersChatID int64          // чат операторов, 0 - копии не слать
	Location     *time.Location // в каком поясе показывать срок действия, nil - UTC
}

// Service отправляет заказ покупателю сообщением в Telegram
type Service struct {
	client telegram.IClient
	cfg    Config
	log    *slog.Logger
}

func New(client telegram.IClient, cfg Config, log *slog.Logger) *Service {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Service{
		client: client,
		cfg:    cfg,
		log:    log,
	}
}

var _ service.IOrderNotifier = (*Service)(nil)

// NotifyOrder ошибка доставки покупателю возвращается, сбой копии операторам только логируется
func (s *Service) NotifyOrder(ctx context.Context, n domain.OrderNotification) error {
	text := s.orderText(n)

	err := s.client.SendMessageWithKeyboard(ctx, n.SenderID, text, payKeyboard(n.Order.PaymentMethod))
	if err != nil {
		if isUnreachable(err) {
			return fmt.Errorf("order %d to chat %d: %w: %w", n.OrderID, n.SenderID, domain.ErrRecipientUnreachable, err)
		}
		return fmt.Errorf("failed to send order %d: %w", n.OrderID, err)
	}

	if s.cfg.OrdersChatID != 0 {
		copyText := fmt.Sprintf("Yangi buyurtma, xaridor ID: %d\n\n%s", n.SenderID, text)
		if err := s.client.SendMessage(ctx, s.cfg.OrdersChatID, copyText); err != nil {
			s.log.Warn("failed to copy order to operators chat",
				"order_id", n.OrderID,
				"chat_id", s.cfg.OrdersChatID,
				"error", err,
			)
		}
	}

	s.log.Info("order notification sent", "order_id", n.OrderID, "sender_id", n.SenderID)
	return nil
}

func (s *Service) orderText(n domain.OrderNotification) string {
	order := n.Order

	var b strings.Builder
	fmt.Fprintf(&b, "🧾 Buyurtma #%d\n\n", n.OrderID)
	fmt.Fprintf(&b, "Qabul qiluvchi: %s (%s)\n", order.Recipient.Handle, order.Recipient.DisplayName)
	switch order.Product {
	case domain.ProductPremium:
		fmt.Fprintf(&b, "Mahsulot: Telegram Premium, %d oy\n", order.Quantity)
	default:
		fmt.Fprintf(&b, "Mahsulot: %d ⭐\n", order.Quantity)
	}
	fmt.Fprintf(&b, "Jami: %s\n", order.TotalFormatted)
	fmt.Fprintf(&b, "To'lov usuli: %s\n\n", order.PaymentMethod.Title())
	fmt.Fprintf(&b, "Buyurtma %s gacha amal qiladi.", n.ExpiresAt.In(s.cfg.Location).Format("15:04"))
	return b.String()
}

func payKeyboard(method domain.PaymentMethod) *domain.InlineKeyboardMarkup {
	url := method.CheckoutURL()
	if url == "" {
		return nil
	}
	return &domain.InlineKeyboardMarkup{
		InlineKeyboard: [][]domain.InlineKeyboardButton{
			{{Text: payButton + " (" + method.Title() + ")", URL: url}},
		},
	}
}

// isUnreachable 403 - бот заблокирован или не запущен, 400 chat not found - покупатель не писал боту
func isUnreachable(err error) bool {
	var apiErr *domain.TelegramAPIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.Code {
	case http.StatusForbidden:
		return true
	case http.StatusBadRequest:
		return strings.Contains(strings.ToLower(apiErr.Description), "chat not found")
	default:
		return false
	}
}
