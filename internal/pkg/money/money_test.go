package money

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		name      string
		locale    string
		currency  string
		scale     int
		wantError bool
	}{
		{name: "uzbek sum", locale: "uz", currency: "UZS", scale: 2},
		{name: "english dollars", locale: "en", currency: "USD", scale: 2},
		{name: "bad locale", locale: "%%", currency: "UZS", scale: 2, wantError: true},
		{name: "bad currency", locale: "uz", currency: "ZZZZ", scale: 2, wantError: true},
		{name: "bad scale", locale: "uz", currency: "UZS", scale: 9, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewFormatter(tt.locale, tt.currency, tt.scale)
			if tt.wantError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.currency, f.Currency())
		})
	}
}

func TestFormatter_Format(t *testing.T) {
	f, err := NewFormatter("en", "UZS", 2)
	require.NoError(t, err)

	assert.Equal(t, "12,999.00 UZS", f.Format(1_299_900))
	assert.Equal(t, "0.50 UZS", f.Format(50))

	assert.Equal(t, "0.05 UZS", f.Format(5))
	assert.Equal(t, "0.00 UZS", f.Format(0))

	// одно и то же значение всегда даёт одну и ту же строку
	assert.Equal(t, f.Format(2_599_800), f.Format(2_599_800))
}

func TestFormatter_FormatIsExactForLargeTotals(t *testing.T) {
	f, err := NewFormatter("en", "UZS", 2)
	require.NoError(t, err)

	// за пределами 2^53 float64 уже теряет последние цифры
	assert.Equal(t, "92,233,720,368,547,758.07 UZS", f.Format(math.MaxInt64))
	assert.Equal(t, "90,071,992,547,409.93 UZS", f.Format(9_007_199_254_740_993))
}

func TestFormatter_FormatWithoutFraction(t *testing.T) {
	f, err := NewFormatter("en", "UZS", 0)
	require.NoError(t, err)
	assert.Equal(t, "1,299,900 UZS", f.Format(1_299_900))
}

func TestFormatter_LocaleSeparators(t *testing.T) {
	f, err := NewFormatter("de", "EUR", 2)
	require.NoError(t, err)
	assert.Equal(t, "1.234,56 EUR", f.Format(123_456))
}

func TestTotal(t *testing.T) {
	total, err := Total(100, 25998)
	require.NoError(t, err)
	assert.Equal(t, int64(2_599_800), total)

	total, err = Total(0, 25998)
	require.NoError(t, err)
	assert.Zero(t, total)

	_, err = Total(math.MaxInt64, 2)
	require.Error(t, err)

	_, err = Total(-1, 2)
	require.Error(t, err)
}
