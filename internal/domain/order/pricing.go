package order

import (
	"github.com/shopspring/decimal"

	"github.com/xenking/pizzaria/internal/domain/discount"
	"github.com/xenking/pizzaria/internal/domain/product"
)

// PricedLine is a line item resolved against the catalog.
type PricedLine struct {
	LineItem
	Name      string
	UnitPrice decimal.Decimal
	Amount    decimal.Decimal
}

// Quote is the outcome of pricing a set of line items.
type Quote struct {
	Lines []PricedLine
	// Skipped holds line items whose product is not in the catalog.
	Skipped  []LineItem
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// Price computes subtotal, discount and total for items. Items referencing
// products missing from catalog do not contribute to the subtotal.
func Price(items []LineItem, catalog map[int64]product.Product, rule discount.Rule) Quote {
	q := Quote{
		Lines:    make([]PricedLine, 0, len(items)),
		Subtotal: decimal.Zero,
	}
	for _, item := range items {
		p, ok := catalog[item.ProductID]
		if !ok {
			q.Skipped = append(q.Skipped, item)
			continue
		}
		amount := p.Price.Mul(decimal.NewFromInt(item.Quantity))
		q.Lines = append(q.Lines, PricedLine{
			LineItem:  item,
			Name:      p.Name,
			UnitPrice: p.Price,
			Amount:    amount,
		})
		q.Subtotal = q.Subtotal.Add(amount)
	}

	q.Discount = rule.Apply(q.Subtotal)
	q.Total = q.Subtotal.Sub(q.Discount)
	return q
}
