package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/YusufBro01/ymastar/internal/domain"
	"github.com/YusufBro01/ymastar/internal/ports/service"
)

const DefaultTimeout = 10 * time.Second

// Dispatcher одна попытка отправить заказ в Telegram. Заказ при неудаче не откатывается.
type Dispatcher struct {
	notifier service.IOrderNotifier
	alerter  service.IAlerterService
	timeout  time.Duration
	log      *slog.Logger
}

// New alerter может быть nil
func New(notifier service.IOrderNotifier, alerter service.IAlerterService, timeout time.Duration, log *slog.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Dispatcher{
		notifier: notifier,
		alerter:  alerter,
		timeout:  timeout,
		log:      log,
	}
}

// Dispatch отправляет уведомление о заказе покупателю senderID
func (d *Dispatcher) Dispatch(ctx context.Context, senderID int64, order domain.PendingOrder) domain.DeliveryResult {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	err := d.notifier.NotifyOrder(ctx, domain.OrderNotification{
		OrderID:   order.ID,
		SenderID:  senderID,
		Order:     order.Order,
		ExpiresAt: order.ExpiresAt,
	})
	if err == nil {
		d.log.Info("order dispatched", "order_id", order.ID, "sender_id", senderID)
		return domain.DeliveryResult{Success: true, OrderID: order.ID}
	}

	reason := FailureReason(err)
	d.log.Warn("order dispatch failed",
		"order_id", order.ID,
		"sender_id", senderID,
		"reason", reason,
		"error", err,
	)

	if reason != domain.FailureRecipientUnreachable {
		d.sendAlert(order, senderID, reason, err)
	}

	return domain.DeliveryResult{OrderID: order.ID, FailureReason: &reason}
}

// FailureReason переводит ошибку канала в код причины для UI
func FailureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrRecipientUnreachable):
		return domain.FailureRecipientUnreachable
	case errors.Is(err, context.DeadlineExceeded):
		return domain.FailureChannelTimeout
	default:
		return domain.FailureChannelError
	}
}

// sendAlert алерт уходит с отдельным контекстом, контекст запроса к этому моменту мог истечь
func (d *Dispatcher) sendAlert(order domain.PendingOrder, senderID int64, reason string, cause error) {
	if d.alerter == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	message := fmt.Sprintf("⚠️ Заказ #%d не доставлен\nПокупатель: %d\nПричина: %s\nОшибка: %s",
		order.ID, senderID, reason, cause)
	if err := d.alerter.SendAlert(ctx, message); err != nil {
		d.log.Warn("failed to send dispatch alert", "order_id", order.ID, "error", err)
	}
}
