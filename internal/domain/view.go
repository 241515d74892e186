package domain

import "time"

// View экран мини-приложения
type View string

const (
	ViewSplash       View = "splash"
	ViewMain         View = "main"
	ViewProfile      View = "profile"
	ViewBuyStars     View = "buy"
	ViewBuyPremium   View = "premium"
	ViewOrderSuccess View = "orderSuccess"
)

func (v View) IsValid() bool {
	switch v {
	case ViewSplash, ViewMain, ViewProfile, ViewBuyStars, ViewBuyPremium, ViewOrderSuccess:
		return true
	default:
		return false
	}
}

// Back куда ведёт кнопка "назад" в шапке
func (v View) Back() View {
	if v == ViewOrderSuccess {
		return ViewBuyStars
	}
	return ViewMain
}

// PendingOrderSummary то, что показывает экран заказа и баннер на главной
type PendingOrderSummary struct {
	OrderID          int64         `json:"order_id"`
	Product          Product       `json:"product"`
	Recipient        string        `json:"recipient"`
	RecipientName    string        `json:"recipient_name"`
	Quantity         int64         `json:"quantity"`
	TotalFormatted   string        `json:"total_formatted"`
	PaymentMethod    PaymentMethod `json:"payment_method"`
	CheckoutURL      string        `json:"checkout_url"`
	ExpiresAt        time.Time     `json:"expires_at"`
	RemainingSeconds int64         `json:"remaining_seconds"`
}

// Summarize сводка заказа на момент now
func Summarize(order PendingOrder, now time.Time) PendingOrderSummary {
	return PendingOrderSummary{
		OrderID:          order.ID,
		Product:          order.Order.Product,
		Recipient:        order.Order.Recipient.Handle,
		RecipientName:    order.Order.Recipient.DisplayName,
		Quantity:         order.Order.Quantity,
		TotalFormatted:   order.Order.TotalFormatted,
		PaymentMethod:    order.Order.PaymentMethod,
		CheckoutURL:      order.Order.PaymentMethod.CheckoutURL(),
		ExpiresAt:        order.ExpiresAt,
		RemainingSeconds: int64(order.Remaining(now) / time.Second),
	}
}

// Screen что рисовать: экран плюс данные заказа, если он есть
type Screen struct {
	View         View                 `json:"view"`
	Back         View                 `json:"back,omitempty"`
	PendingOrder *PendingOrderSummary `json:"pending_order,omitempty"`
}

// RenderScreen чистая функция {view, заказ} -> экран.
// Экран заказа без живого заказа превращается в главную.
func RenderScreen(view View, order *PendingOrder, now time.Time) Screen {
	var summary *PendingOrderSummary
	if order != nil && !order.IsExpired(now) {
		s := Summarize(*order, now)
		summary = &s
	}

	if !view.IsValid() {
		view = ViewMain
	}
	if view == ViewOrderSuccess && summary == nil {
		view = ViewMain
	}

	screen := Screen{View: view, PendingOrder: summary}
	if view != ViewMain && view != ViewSplash {
		screen.Back = view.Back()
	}
	return screen
}
