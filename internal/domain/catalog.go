package domain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
)

// PricePlan строка прайса: для звёзд это ступень цены, для премиума конкретный пакет
type PricePlan struct {
	Product        Product `json:"product" db:"product_code"`
	Quantity       int64   `json:"quantity" db:"quantity"`
	UnitPriceMinor int64   `json:"unit_price_minor" db:"unit_price_minor"`
}

// ProductRules правила продукта из таблицы products
type ProductRules struct {
	Product      Product `json:"product" db:"code"`
	Currency     string  `json:"currency" db:"currency"`
	MinQuantity  int64   `json:"min_quantity" db:"min_quantity"`
	MaxQuantity  int64   `json:"max_quantity" db:"max_quantity"`
	FreeQuantity bool    `json:"free_quantity" db:"free_quantity"` // можно ввести любое количество, а не только пакет
}

// Catalog прайс-лист магазина, загружается один раз при старте
type Catalog struct {
	rules map[Product]ProductRules
	plans map[Product][]PricePlan // отсортированы по Quantity
}

// NewCatalog собирает каталог и проверяет, что у каждого продукта есть хотя бы одна цена
func NewCatalog(rules []ProductRules, plans []PricePlan) (*Catalog, error) {
	c := &Catalog{
		rules: lo.KeyBy(rules, func(r ProductRules) Product { return r.Product }),
		plans: lo.GroupBy(plans, func(p PricePlan) Product { return p.Product }),
	}

	for product, rule := range c.rules {
		if !product.IsValid() {
			return nil, fmt.Errorf("unknown product in catalog: %s", product)
		}
		if rule.MinQuantity <= 0 {
			return nil, fmt.Errorf("product %s: min_quantity must be positive", product)
		}
		productPlans := c.plans[product]
		if len(productPlans) == 0 {
			return nil, fmt.Errorf("product %s has no price plans", product)
		}
		for _, plan := range productPlans {
			if plan.Quantity <= 0 || plan.UnitPriceMinor <= 0 {
				return nil, fmt.Errorf("product %s: invalid plan %+v", product, plan)
			}
		}
		sort.Slice(productPlans, func(i, j int) bool {
			return productPlans[i].Quantity < productPlans[j].Quantity
		})
	}

	return c, nil
}

// DefaultCatalog прайс по умолчанию (совпадает с сидом миграций)
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(
		[]ProductRules{
			{Product: ProductStars, Currency: "UZS", MinQuantity: 50, MaxQuantity: 1_000_000, FreeQuantity: true},
			{Product: ProductPremium, Currency: "UZS", MinQuantity: 1, MaxQuantity: 12, FreeQuantity: false},
		},
		[]PricePlan{
			{Product: ProductStars, Quantity: 50, UnitPriceMinor: 25998},
			{Product: ProductStars, Quantity: 100, UnitPriceMinor: 25998},
			{Product: ProductPremium, Quantity: 1, UnitPriceMinor: 3_500_000},
			{Product: ProductPremium, Quantity: 3, UnitPriceMinor: 3_000_000},
			{Product: ProductPremium, Quantity: 12, UnitPriceMinor: 2_500_000},
		},
	)
	if err != nil {
		panic(err)
	}
	return c
}

// Rules правила продукта
func (c *Catalog) Rules(product Product) (ProductRules, bool) {
	r, ok := c.rules[product]
	return r, ok
}

// Products правила всех продуктов в порядке кода
func (c *Catalog) Products() []ProductRules {
	out := lo.Values(c.rules)
	sort.Slice(out, func(i, j int) bool { return out[i].Product < out[j].Product })
	return out
}

// CheckCurrency все продукты каталога должны продаваться в валюте магазина
func (c *Catalog) CheckCurrency(code string) error {
	for _, rule := range c.Products() {
		if !strings.EqualFold(rule.Currency, code) {
			return fmt.Errorf("product %s is priced in %q, shop currency is %q", rule.Product, rule.Currency, code)
		}
	}
	return nil
}

// Plans пакеты продукта по возрастанию количества
func (c *Catalog) Plans(product Product) []PricePlan {
	return c.plans[product]
}

// UnitPrice цена за единицу для количества q.
// Для свободного количества берётся ступень с наибольшим Quantity <= q,
// для пакетного продукта q должно совпасть с пакетом.
func (c *Catalog) UnitPrice(product Product, q int64) (int64, bool) {
	rule, ok := c.rules[product]
	if !ok {
		return 0, false
	}
	plans := c.plans[product]

	if !rule.FreeQuantity {
		plan, found := lo.Find(plans, func(p PricePlan) bool { return p.Quantity == q })
		return plan.UnitPriceMinor, found
	}

	price := plans[0].UnitPriceMinor
	for _, p := range plans {
		if p.Quantity > q {
			break
		}
		price = p.UnitPriceMinor
	}
	return price, true
}
