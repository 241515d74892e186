package service

import (
	"context"

	"github.com/YusufBro01/ymastar/internal/domain"
)

// IOrderNotifier доставка заказа в канал уведомлений (Telegram).
// Если покупатель недоступен в канале - ошибка оборачивает domain.ErrRecipientUnreachable.
type IOrderNotifier interface {
	NotifyOrder(ctx context.Context, notification domain.OrderNotification) error
}
