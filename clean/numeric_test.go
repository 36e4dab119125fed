package clean

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeNumeric(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
		ok   bool
	}{
		{name: "целое число", raw: "1500", want: 1500, ok: true},
		{name: "десятичная точка", raw: "-250.75", want: -250.75, ok: true},
		{name: "десятичная запятая", raw: "1,50", want: 1.5, ok: true},
		{name: "запятая с нулями", raw: "2,00", want: 2, ok: true},
		{name: "точка тысяч и запятая десятичная", raw: "1.234,56", want: 1234.56, ok: true},
		{name: "запятая тысяч и точка десятичная", raw: "1,234.56", want: 1234.56, ok: true},
		{name: "несколько запятых как тысячи", raw: "1,234,567", want: 1234567, ok: true},
		{name: "пробелы как разделители тысяч", raw: "1 500,50", want: 1500.5, ok: true},
		{name: "валютный символ ранд", raw: "R 1 234,56", want: 1234.56, ok: true},
		{name: "валютный символ доллар", raw: "$99.90", want: 99.9, ok: true},
		{name: "скобочная запись отрицательного", raw: "(1500)", want: -1500, ok: true},
		{name: "скобки с валютой и тысячами", raw: "($1,500.00)", want: -1500, ok: true},
		{name: "префикс NA с числом", raw: "NA 120.00", want: 120, ok: true},
		{name: "ведущий минус", raw: "-1 200,00", want: -1200, ok: true},
		{name: "пустая строка", raw: "", want: 0, ok: false},
		{name: "одиночный дефис", raw: "-", want: 0, ok: false},
		{name: "доллар с дефисом", raw: "$-", want: 0, ok: false},
		{name: "литерал NA", raw: "NA", want: 0, ok: false},
		{name: "литерал n/a", raw: "n/a", want: 0, ok: false},
		{name: "литерал null", raw: "NULL", want: 0, ok: false},
		{name: "мусорная строка", raw: "abc", want: 0, ok: false},
		{name: "BOM перед числом", raw: "\uFEFF42.5", want: 42.5, ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeNumeric(tt.raw)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

// Повторная нормализация канонической записи не меняет значение
func TestNormalizeNumericIdempotent(t *testing.T) {
	raws := []string{"1,50", "R 1 234,56", "(1500)", "1.234,56", "-250.75", "1,234,567"}

	for _, raw := range raws {
		first, ok := NormalizeNumeric(raw)
		require.True(t, ok, "исходное значение должно разбираться: %q", raw)

		second, ok := NormalizeNumeric(FormatNumeric(first))
		require.True(t, ok)
		assert.InDelta(t, first, second, 1e-9)
	}
}

func TestFormatNumeric(t *testing.T) {
	assert.Equal(t, "1.5", FormatNumeric(1.5))
	assert.Equal(t, "1500", FormatNumeric(1500))
	assert.Equal(t, "-250.75", FormatNumeric(-250.75))
}
