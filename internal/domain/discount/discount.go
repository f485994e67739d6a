// Package discount implements the order-level promotion: a percentage taken
// off the subtotal once it strictly exceeds a threshold.
package discount

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var (
	// DefaultThreshold is the subtotal that must be exceeded for the
	// promotion to apply.
	DefaultThreshold = decimal.NewFromInt(100)
	// DefaultRate is the fraction of the subtotal taken off.
	DefaultRate = decimal.RequireFromString("0.10")
)

// ErrInvalidRule is returned by Rule.Validate for rates outside [0, 1] or a
// negative threshold.
var ErrInvalidRule = errors.New("invalid discount rule")

// Rule is a threshold percentage promotion.
type Rule struct {
	Threshold decimal.Decimal
	Rate      decimal.Decimal
}

// Default returns the house rule: 10% off subtotals above 100.
func Default() Rule {
	return Rule{Threshold: DefaultThreshold, Rate: DefaultRate}
}

// Parse builds a Rule from its textual threshold and rate.
func Parse(threshold, rate string) (Rule, error) {
	t, err := decimal.NewFromString(threshold)
	if err != nil {
		return Rule{}, errors.Wrapf(err, "parse threshold %q", threshold)
	}
	r, err := decimal.NewFromString(rate)
	if err != nil {
		return Rule{}, errors.Wrapf(err, "parse rate %q", rate)
	}
	rule := Rule{Threshold: t, Rate: r}
	if err := rule.Validate(); err != nil {
		return Rule{}, err
	}
	return rule, nil
}

// Validate reports whether the rule can be applied.
func (r Rule) Validate() error {
	if r.Threshold.IsNegative() {
		return errors.Wrapf(ErrInvalidRule, "threshold %s is negative", r.Threshold)
	}
	if r.Rate.IsNegative() || r.Rate.GreaterThan(decimal.NewFromInt(1)) {
		return errors.Wrapf(ErrInvalidRule, "rate %s is outside [0, 1]", r.Rate)
	}
	return nil
}

// Apply returns the discount for subtotal. The amount is not rounded; callers
// format to two decimals for display and the store rounds on write.
func (r Rule) Apply(subtotal decimal.Decimal) decimal.Decimal {
	if !subtotal.GreaterThan(r.Threshold) {
		return decimal.Zero
	}
	return floorAtZero(subtotal.Mul(r.Rate))
}

func floorAtZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
