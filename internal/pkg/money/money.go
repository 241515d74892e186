package money

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var maxInt64 = decimal.NewFromInt(math.MaxInt64)

// Formatter форматирует суммы в минимальных единицах с группировкой разрядов локали
type Formatter struct {
	printer *message.Printer
	unit    currency.Unit
	scale   int32
	point   string // десятичный разделитель локали
}

// NewFormatter locale - BCP 47 ("uz", "ru", "en"), currencyCode - ISO 4217, scale - число знаков после запятой
func NewFormatter(locale, currencyCode string, scale int) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("locale[%s] is not valid: %w", locale, err)
	}

	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		return nil, fmt.Errorf("currency[%s] is not valid: %w", currencyCode, err)
	}

	if scale < 0 || scale > 4 {
		return nil, fmt.Errorf("scale %d is out of range", scale)
	}

	printer := message.NewPrinter(tag)

	return &Formatter{
		printer: printer,
		unit:    unit,
		scale:   int32(scale),
		point:   decimalPoint(printer),
	}, nil
}

// decimalPoint разделитель берётся из того, как локаль печатает 1.5
func decimalPoint(p *message.Printer) string {
	sample := p.Sprintf("%v", number.Decimal(1.5, number.Scale(1)))
	point := strings.TrimSuffix(strings.TrimPrefix(sample, "1"), "5")
	if point == "" || point == sample {
		return "."
	}
	return point
}

// Currency ISO код валюты
func (f *Formatter) Currency() string {
	return f.unit.String()
}

// Format 1299900 -> "12 999,00 UZS" (для uz), "12,999.00 UZS" (для en).
// Целая и дробная части печатаются отдельно как целые числа, без перехода через float64.
func (f *Formatter) Format(amountMinor int64) string {
	amount := decimal.New(amountMinor, -f.scale)

	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Abs()
	}

	whole := amount.Truncate(0)
	text := sign + f.printer.Sprintf("%v", number.Decimal(whole.IntPart()))

	if f.scale > 0 {
		fraction := amount.Sub(whole).Shift(f.scale).IntPart()
		text += f.point + fmt.Sprintf("%0*d", int(f.scale), fraction)
	}
	return text + " " + f.unit.String()
}

// Total quantity * unitPriceMinor без переполнения int64
func Total(quantity, unitPriceMinor int64) (int64, error) {
	if quantity < 0 || unitPriceMinor < 0 {
		return 0, fmt.Errorf("negative operand: quantity=%d unit_price=%d", quantity, unitPriceMinor)
	}

	total := decimal.NewFromInt(quantity).Mul(decimal.NewFromInt(unitPriceMinor))
	if total.GreaterThan(maxInt64) {
		return 0, fmt.Errorf("total overflows int64: quantity=%d unit_price=%d", quantity, unitPriceMinor)
	}
	return total.IntPart(), nil
}
