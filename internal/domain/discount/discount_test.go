package discount

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRule_Apply(t *testing.T) {
	rule := Default()

	tests := []struct {
		name     string
		subtotal string
		want     string
	}{
		{name: "zero", subtotal: "0", want: "0"},
		{name: "below threshold", subtotal: "99.99", want: "0"},
		{name: "exactly threshold is not discounted", subtotal: "100", want: "0"},
		{name: "just above threshold", subtotal: "100.01", want: "10.001"},
		{name: "two pizzas and a soda", subtotal: "130", want: "13"},
		{name: "large order", subtotal: "1234.56", want: "123.456"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rule.Apply(decimal.RequireFromString(tt.subtotal))
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s, want %s", got, tt.want)
		})
	}
}

func TestRule_TotalInvariant(t *testing.T) {
	rule := Default()
	for _, s := range []string{"1", "50", "100", "100.5", "250", "999.99"} {
		subtotal := decimal.RequireFromString(s)
		d := rule.Apply(subtotal)
		total := subtotal.Sub(d)

		if subtotal.GreaterThan(decimal.NewFromInt(100)) {
			assert.True(t, subtotal.Mul(DefaultRate).Equal(d), "subtotal %s", s)
		} else {
			assert.True(t, d.IsZero(), "subtotal %s", s)
			assert.True(t, subtotal.Equal(total), "subtotal %s", s)
		}
		assert.True(t, total.Add(d).Equal(subtotal))
	}
}

func TestParse(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		rule, err := Parse("50", "0.2")
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(50).Equal(rule.Threshold))
		assert.True(t, decimal.RequireFromString("0.2").Equal(rule.Rate))
	})

	t.Run("not a number", func(t *testing.T) {
		_, err := Parse("abc", "0.1")
		require.Error(t, err)
	})

	t.Run("rate above one", func(t *testing.T) {
		_, err := Parse("100", "1.5")
		require.ErrorIs(t, err, ErrInvalidRule)
	})

	t.Run("negative threshold", func(t *testing.T) {
		_, err := Parse("-1", "0.1")
		require.ErrorIs(t, err, ErrInvalidRule)
	})
}
