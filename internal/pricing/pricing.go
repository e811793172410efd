// Package pricing derives subtotal, discount and total for a cart. Every
// amount is integer cents and the results always satisfy
// 0 <= discount <= subtotal and 0 <= total <= subtotal.
package pricing

import (
	"github.com/lbstore/storefront-backend/internal/money"
	"github.com/lbstore/storefront-backend/pkg/enums"
)

// percentScale converts a basis-point percentage (1000 = 10.00%) to a fraction.
const percentScale = 10000

// Line is one priced cart entry.
type Line struct {
	UnitPrice money.Cents
	Quantity  int
}

// Rule is the applied coupon's discount definition.
type Rule struct {
	Kind  enums.CouponKind
	Value int64
}

// Breakdown is the priced result.
type Breakdown struct {
	Subtotal money.Cents `json:"subtotal"`
	Discount money.Cents `json:"discount"`
	Total    money.Cents `json:"total"`
}

// Subtotal sums price times quantity. Non-positive quantities contribute nothing.
func Subtotal(lines []Line) money.Cents {
	var sum money.Cents
	for _, l := range lines {
		if l.Quantity <= 0 || l.UnitPrice <= 0 {
			continue
		}
		sum += l.UnitPrice.Times(l.Quantity)
	}
	return sum
}

// Discount computes the discount a rule grants on subtotal. A nil rule grants none.
func Discount(subtotal money.Cents, rule *Rule) money.Cents {
	if rule == nil || subtotal <= 0 || rule.Value <= 0 {
		return 0
	}
	var d money.Cents
	switch rule.Kind {
	case enums.CouponKindPercentage:
		d = roundDiv(int64(subtotal)*rule.Value, percentScale)
	case enums.CouponKindFixed:
		d = money.Cents(rule.Value)
	default:
		return 0
	}
	return money.Min(d, subtotal)
}

// Quote prices the lines with an optional rule.
func Quote(lines []Line, rule *Rule) Breakdown {
	subtotal := Subtotal(lines)
	discount := Discount(subtotal, rule)
	return Breakdown{
		Subtotal: subtotal,
		Discount: discount,
		Total:    money.Max(0, subtotal-discount),
	}
}

// roundDiv divides non-negative n by d rounding half up.
func roundDiv(n, d int64) money.Cents {
	return money.Cents((n + d/2) / d)
}
