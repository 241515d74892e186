package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCatalog_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		rules []ProductRules
		plans []PricePlan
	}{
		{
			name:  "unknown product",
			rules: []ProductRules{{Product: "gifts", MinQuantity: 1}},
			plans: []PricePlan{{Product: "gifts", Quantity: 1, UnitPriceMinor: 1}},
		},
		{
			name:  "no plans",
			rules: []ProductRules{{Product: ProductStars, MinQuantity: 50}},
		},
		{
			name:  "zero minimum",
			rules: []ProductRules{{Product: ProductStars}},
			plans: []PricePlan{{Product: ProductStars, Quantity: 50, UnitPriceMinor: 1}},
		},
		{
			name:  "zero price",
			rules: []ProductRules{{Product: ProductStars, MinQuantity: 50}},
			plans: []PricePlan{{Product: ProductStars, Quantity: 50}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.rules, tt.plans)
			require.Error(t, err)
		})
	}
}

func TestCatalog_UnitPrice(t *testing.T) {
	c, err := NewCatalog(
		[]ProductRules{
			{Product: ProductStars, MinQuantity: 50, MaxQuantity: 10_000, FreeQuantity: true},
			{Product: ProductPremium, MinQuantity: 1, MaxQuantity: 12},
		},
		[]PricePlan{
			{Product: ProductStars, Quantity: 1000, UnitPriceMinor: 200},
			{Product: ProductStars, Quantity: 50, UnitPriceMinor: 250},
			{Product: ProductPremium, Quantity: 3, UnitPriceMinor: 3000},
			{Product: ProductPremium, Quantity: 1, UnitPriceMinor: 3500},
		},
	)
	require.NoError(t, err)

	tests := []struct {
		name    string
		product Product
		q       int64
		want    int64
		wantOK  bool
	}{
		{name: "below first tier uses first tier", product: ProductStars, q: 10, want: 250, wantOK: true},
		{name: "first tier", product: ProductStars, q: 999, want: 250, wantOK: true},
		{name: "second tier boundary", product: ProductStars, q: 1000, want: 200, wantOK: true},
		{name: "package", product: ProductPremium, q: 3, want: 3000, wantOK: true},
		{name: "missing package", product: ProductPremium, q: 2, wantOK: false},
		{name: "unknown product", product: "gifts", q: 1, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := c.UnitPrice(tt.product, tt.q)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}

	plans := c.Plans(ProductPremium)
	require.Len(t, plans, 2)
	assert.Equal(t, int64(1), plans[0].Quantity)
}

func TestCatalog_Products(t *testing.T) {
	products := DefaultCatalog().Products()
	require.Len(t, products, 2)
	assert.Equal(t, ProductPremium, products[0].Product)
	assert.Equal(t, ProductStars, products[1].Product)
}

func TestCatalog_CheckCurrency(t *testing.T) {
	c := DefaultCatalog()
	require.NoError(t, c.CheckCurrency("UZS"))
	require.NoError(t, c.CheckCurrency("uzs"))

	err := c.CheckCurrency("USD")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `shop currency is "USD"`)

	mixed, err := NewCatalog(
		[]ProductRules{
			{Product: ProductStars, Currency: "UZS", MinQuantity: 50, MaxQuantity: 100, FreeQuantity: true},
			{Product: ProductPremium, Currency: "USD", MinQuantity: 1, MaxQuantity: 12},
		},
		[]PricePlan{
			{Product: ProductStars, Quantity: 50, UnitPriceMinor: 1},
			{Product: ProductPremium, Quantity: 1, UnitPriceMinor: 1},
		},
	)
	require.NoError(t, err)
	require.Error(t, mixed.CheckCurrency("UZS"))
}
