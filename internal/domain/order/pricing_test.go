package order

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/pizzaria/internal/domain/discount"
	"github.com/xenking/pizzaria/internal/domain/product"
)

func catalogOf(products ...product.Product) map[int64]product.Product {
	m := make(map[int64]product.Product, len(products))
	for _, p := range products {
		m[p.ID] = p
	}
	return m
}

func TestPrice(t *testing.T) {
	catalog := catalogOf(
		product.Product{ID: 1, Name: "Calabresa", Price: decimal.RequireFromString("50.00")},
		product.Product{ID: 2, Name: "Refrigerante", Price: decimal.RequireFromString("30.00")},
		product.Product{ID: 3, Name: "Borda", Price: decimal.RequireFromString("7.50")},
	)

	tests := []struct {
		name         string
		items        string
		wantSubtotal string
		wantDiscount string
		wantTotal    string
		wantLines    int
		wantSkipped  int
	}{
		{
			name:         "above threshold gets ten percent",
			items:        "1:2;2:1",
			wantSubtotal: "130",
			wantDiscount: "13",
			wantTotal:    "117",
			wantLines:    2,
		},
		{
			name:         "exactly threshold has no discount",
			items:        "1:2",
			wantSubtotal: "100",
			wantDiscount: "0",
			wantTotal:    "100",
			wantLines:    1,
		},
		{
			name:         "below threshold",
			items:        "3:2;2:1",
			wantSubtotal: "45",
			wantDiscount: "0",
			wantTotal:    "45",
			wantLines:    2,
		},
		{
			name:         "unknown product is excluded",
			items:        "1:1;99:10",
			wantSubtotal: "50",
			wantDiscount: "0",
			wantTotal:    "50",
			wantLines:    1,
			wantSkipped:  1,
		},
		{
			name:         "fractional discount is kept unrounded",
			items:        "3:14",
			wantSubtotal: "105",
			wantDiscount: "10.5",
			wantTotal:    "94.5",
			wantLines:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Price(ParseItems(tt.items), catalog, discount.Default())

			assert.True(t, decimal.RequireFromString(tt.wantSubtotal).Equal(q.Subtotal), "subtotal %s", q.Subtotal)
			assert.True(t, decimal.RequireFromString(tt.wantDiscount).Equal(q.Discount), "discount %s", q.Discount)
			assert.True(t, decimal.RequireFromString(tt.wantTotal).Equal(q.Total), "total %s", q.Total)
			assert.Len(t, q.Lines, tt.wantLines)
			assert.Len(t, q.Skipped, tt.wantSkipped)
			assert.True(t, q.Subtotal.Equal(q.Total.Add(q.Discount)))
		})
	}
}

func TestPrice_LineAmounts(t *testing.T) {
	catalog := catalogOf(product.Product{ID: 1, Name: "Margherita", Price: decimal.RequireFromString("42.90")})

	q := Price([]LineItem{{ProductID: 1, Quantity: 3}}, catalog, discount.Default())
	require.Len(t, q.Lines, 1)
	assert.Equal(t, "Margherita", q.Lines[0].Name)
	assert.True(t, decimal.RequireFromString("128.70").Equal(q.Lines[0].Amount))
	assert.True(t, decimal.RequireFromString("12.87").Equal(q.Discount))
	assert.True(t, decimal.RequireFromString("115.83").Equal(q.Total))
}
