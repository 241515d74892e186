package order

import (
	"strconv"
	"strings"

	"github.com/YusufBro01/ymastar/internal/domain"
	"github.com/YusufBro01/ymastar/internal/pkg/money"
)

// Builder собирает и валидирует заявку из ввода формы. Чистый, без состояния.
type Builder struct {
	catalog   *domain.Catalog
	formatter *money.Formatter
}

func NewBuilder(catalog *domain.Catalog, formatter *money.Formatter) *Builder {
	return &Builder{
		catalog:   catalog,
		formatter: formatter,
	}
}

// Catalog прайс, по которому считаются заявки
func (b *Builder) Catalog() *domain.Catalog {
	return b.catalog
}

// Build проверяет ввод и считает итог. Способ оплаты никогда не подставляется по умолчанию.
func (b *Builder) Build(
	product domain.Product,
	recipient *domain.RecipientIdentity,
	quantityInput string,
	method domain.PaymentMethod,
) (domain.OrderRequest, error) {
	rules, ok := b.catalog.Rules(product)
	if !product.IsValid() || !ok {
		return domain.OrderRequest{}, domain.NewValidationFailed(domain.FieldProduct, domain.CodeProductUnsupported)
	}

	if recipient == nil || recipient.Handle == "" {
		return domain.OrderRequest{}, domain.NewValidationFailed(domain.FieldRecipient, domain.CodeRecipientRequired)
	}

	quantity, err := parseQuantity(quantityInput)
	if err != nil {
		return domain.OrderRequest{}, err
	}

	if rules.FreeQuantity {
		if quantity < rules.MinQuantity {
			return domain.OrderRequest{}, domain.NewValidationFailed(domain.FieldQuantity, domain.CodeMinimumNotMet)
		}
		if rules.MaxQuantity > 0 && quantity > rules.MaxQuantity {
			return domain.OrderRequest{}, domain.NewValidationFailed(domain.FieldQuantity, domain.CodeMaximumExceeded)
		}
	}

	unitPrice, ok := b.catalog.UnitPrice(product, quantity)
	if !ok {
		return domain.OrderRequest{}, domain.NewValidationFailed(domain.FieldQuantity, domain.CodePackageUnavailable)
	}

	switch {
	case method == "":
		return domain.OrderRequest{}, domain.NewValidationFailed(domain.FieldPaymentMethod, domain.CodePaymentMethodRequired)
	case !method.IsValid():
		return domain.OrderRequest{}, domain.NewValidationFailed(domain.FieldPaymentMethod, domain.CodePaymentMethodUnsupported)
	}

	total, err := money.Total(quantity, unitPrice)
	if err != nil {
		return domain.OrderRequest{}, domain.NewValidationFailed(domain.FieldQuantity, domain.CodeMaximumExceeded)
	}

	return domain.OrderRequest{
		Product:        product,
		Recipient:      *recipient,
		Quantity:       quantity,
		UnitPriceMinor: unitPrice,
		TotalMinor:     total,
		TotalFormatted: b.formatter.Format(total),
		Currency:       b.formatter.Currency(),
		PaymentMethod:  method,
	}, nil
}

// parseQuantity пустая строка, не число и q <= 0 - ошибка ввода
func parseQuantity(input string) (int64, error) {
	quantity, err := strconv.ParseInt(strings.TrimSpace(input), 10, 64)
	if err != nil || quantity <= 0 {
		return 0, domain.NewInputInvalid(domain.FieldQuantity, domain.CodeQuantityInvalid)
	}
	return quantity, nil
}
