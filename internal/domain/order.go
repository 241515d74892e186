package domain

import "time"

// Product что покупается
type Product string

const (
	ProductStars   Product = "stars"
	ProductPremium Product = "premium" // quantity = количество месяцев
)

func (p Product) IsValid() bool {
	switch p {
	case ProductStars, ProductPremium:
		return true
	default:
		return false
	}
}

func (p Product) String() string {
	return string(p)
}

// OrderRequest провалидированная заявка на покупку, после создания не меняется
type OrderRequest struct {
	Product        Product           `json:"product"`
	Recipient      RecipientIdentity `json:"recipient"`
	Quantity       int64             `json:"quantity"`
	UnitPriceMinor int64             `json:"unit_price_minor"` // цена за единицу в минимальных единицах валюты
	TotalMinor     int64             `json:"total_minor"`      // Quantity * UnitPriceMinor
	TotalFormatted string            `json:"total_formatted"`
	Currency       string            `json:"currency"`
	PaymentMethod  PaymentMethod     `json:"payment_method"`
}

// PendingOrder созданный, но ещё не оплаченный заказ
type PendingOrder struct {
	ID        int64        `json:"id"`
	Order     OrderRequest `json:"order"`
	CreatedAt time.Time    `json:"created_at"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// IsExpired истёк ли заказ на момент now (ровно в ExpiresAt ещё жив)
func (o PendingOrder) IsExpired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}

// Remaining сколько осталось до истечения, не меньше нуля
func (o PendingOrder) Remaining(now time.Time) time.Duration {
	left := o.ExpiresAt.Sub(now)
	if left < 0 {
		return 0
	}
	return left
}

// OrderState состояние слота заказа в сессии
type OrderState string

const (
	OrderStateEmpty      OrderState = "empty"
	OrderStatePending    OrderState = "pending"
	OrderStateExpired    OrderState = "expired"
	OrderStateSuperseded OrderState = "superseded"
	OrderStateCancelled  OrderState = "cancelled"
)

// DeliveryResult результат одной попытки отправить заказ в Telegram
type DeliveryResult struct {
	Success       bool    `json:"success"`
	OrderID       int64   `json:"order_id"`
	FailureReason *string `json:"failure_reason,omitempty"`
}

// Коды причин недоставки, UI сам локализует
const (
	FailureRecipientUnreachable = "recipient_unreachable"
	FailureChannelTimeout       = "channel_timeout"
	FailureChannelError         = "channel_error"
)

// OrderNotification то, что уходит в канал уведомлений
type OrderNotification struct {
	OrderID   int64
	SenderID  int64
	Order     OrderRequest
	ExpiresAt time.Time
}
