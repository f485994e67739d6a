// Package report aggregates placed orders into sales summaries.
package report

import (
	"context"

	"github.com/shopspring/decimal"
)

// Period is the number of orders and the sum of their totals over a window.
type Period struct {
	Orders int64
	Total  decimal.Decimal
}

// Sales summarizes the current day and the current calendar month.
type Sales struct {
	Today Period
	Month Period
}

// Repository computes sales summaries from the store clock.
type Repository interface {
	Sales(ctx context.Context) (*Sales, error)
}
