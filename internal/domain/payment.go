package domain

// PaymentMethod способ оплаты заказа
type PaymentMethod string

const (
	PaymentMethodPayme PaymentMethod = "payme"
	PaymentMethodClick PaymentMethod = "click"
)

var checkoutURLs = map[PaymentMethod]string{
	PaymentMethodPayme: "https://payme.uz/",
	PaymentMethodClick: "https://click.uz/",
}

func (m PaymentMethod) String() string {
	return string(m)
}

func (m PaymentMethod) IsValid() bool {
	_, ok := checkoutURLs[m]
	return ok
}

// CheckoutURL страница провайдера, куда уходит покупатель по кнопке "Оплатить"
func (m PaymentMethod) CheckoutURL() string {
	return checkoutURLs[m]
}

// Title название способа оплаты для сообщений в Telegram
func (m PaymentMethod) Title() string {
	switch m {
	case PaymentMethodPayme:
		return "Payme"
	case PaymentMethodClick:
		return "Click"
	default:
		return string(m)
	}
}
