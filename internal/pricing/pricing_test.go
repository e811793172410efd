package pricing

import (
	"math/rand"
	"testing"

	"github.com/lbstore/storefront-backend/internal/money"
	"github.com/lbstore/storefront-backend/pkg/enums"
)

func TestQuote(t *testing.T) {
	tests := []struct {
		name  string
		lines []Line
		rule  *Rule
		want  Breakdown
	}{
		{
			name:  "no coupon",
			lines: []Line{{UnitPrice: 2500, Quantity: 2}, {UnitPrice: 1000, Quantity: 1}},
			want:  Breakdown{Subtotal: 6000, Discount: 0, Total: 6000},
		},
		{
			name:  "ten percent of 10000",
			lines: []Line{{UnitPrice: 10000, Quantity: 1}},
			rule:  &Rule{Kind: enums.CouponKindPercentage, Value: 1000},
			want:  Breakdown{Subtotal: 10000, Discount: 1000, Total: 9000},
		},
		{
			name:  "fixed capped at subtotal",
			lines: []Line{{UnitPrice: 1500, Quantity: 2}},
			rule:  &Rule{Kind: enums.CouponKindFixed, Value: 5000},
			want:  Breakdown{Subtotal: 3000, Discount: 3000, Total: 0},
		},
		{
			name:  "percentage rounds half up",
			lines: []Line{{UnitPrice: 1005, Quantity: 1}},
			rule:  &Rule{Kind: enums.CouponKindPercentage, Value: 1000},
			want:  Breakdown{Subtotal: 1005, Discount: 101, Total: 904},
		},
		{
			name:  "percentage rounds down below half",
			lines: []Line{{UnitPrice: 1004, Quantity: 1}},
			rule:  &Rule{Kind: enums.CouponKindPercentage, Value: 1000},
			want:  Breakdown{Subtotal: 1004, Discount: 100, Total: 904},
		},
		{
			name:  "percentage above 100 is capped",
			lines: []Line{{UnitPrice: 800, Quantity: 1}},
			rule:  &Rule{Kind: enums.CouponKindPercentage, Value: 25000},
			want:  Breakdown{Subtotal: 800, Discount: 800, Total: 0},
		},
		{
			name:  "negative value grants nothing",
			lines: []Line{{UnitPrice: 800, Quantity: 1}},
			rule:  &Rule{Kind: enums.CouponKindFixed, Value: -300},
			want:  Breakdown{Subtotal: 800, Discount: 0, Total: 800},
		},
		{
			name: "empty cart",
			rule: &Rule{Kind: enums.CouponKindFixed, Value: 300},
			want: Breakdown{},
		},
		{
			name:  "unknown kind grants nothing",
			lines: []Line{{UnitPrice: 800, Quantity: 1}},
			rule:  &Rule{Kind: "bogus", Value: 300},
			want:  Breakdown{Subtotal: 800, Discount: 0, Total: 800},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Quote(tt.lines, tt.rule); got != tt.want {
				t.Fatalf("expected %+v got %+v", tt.want, got)
			}
		})
	}
}

func TestQuoteBoundsHoldForRandomInput(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	kinds := []enums.CouponKind{enums.CouponKindFixed, enums.CouponKindPercentage}

	for i := 0; i < 2000; i++ {
		lines := make([]Line, rng.Intn(5))
		for j := range lines {
			lines[j] = Line{UnitPrice: money.Cents(rng.Int63n(100000)), Quantity: rng.Intn(10)}
		}
		var rule *Rule
		if rng.Intn(4) > 0 {
			rule = &Rule{Kind: kinds[rng.Intn(2)], Value: rng.Int63n(2000000) - 1000}
		}

		b := Quote(lines, rule)
		if b.Discount < 0 || b.Discount > b.Subtotal {
			t.Fatalf("discount out of bounds: %+v rule=%+v", b, rule)
		}
		if b.Total < 0 || b.Total > b.Subtotal {
			t.Fatalf("total out of bounds: %+v rule=%+v", b, rule)
		}
		if b.Total != b.Subtotal-b.Discount {
			t.Fatalf("total mismatch: %+v", b)
		}
	}
}
