package cart

import (
	"testing"

	"github.com/lbstore/storefront-backend/internal/coupons"
	pkgerrors "github.com/lbstore/storefront-backend/pkg/errors"
	"github.com/lbstore/storefront-backend/pkg/enums"
)

func testCoupons() []coupons.Coupon {
	return []coupons.Coupon{
		{ID: 1, Code: "DESCONTO10", Kind: enums.CouponKindPercentage, Value: 1000, Active: true},
		{ID: 2, Code: "FRETE", Kind: enums.CouponKindFixed, Value: 2000, Active: true},
		{ID: 3, Code: "VELHO", Kind: enums.CouponKindFixed, Value: 500, Active: false},
	}
}

func TestAddToCartUsesSelectedQuantity(t *testing.T) {
	s := NewSession("s1")
	s.SelectQuantity(1, 3)
	if s.Selected(1) != 3 {
		t.Fatalf("expected selected 3, got %d", s.Selected(1))
	}

	s.AddToCart(testCatalog(), 1)
	if s.Cart[1].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", s.Cart[1].Quantity)
	}
	if s.Selected(1) != 1 {
		t.Fatalf("expected picker reset to 1, got %d", s.Selected(1))
	}

	s.AddToCart(testCatalog(), 1)
	if s.Cart[1].Quantity != 4 {
		t.Fatalf("expected quantity 4, got %d", s.Cart[1].Quantity)
	}
}

func TestApplyCouponKeepsPreviousOnFailure(t *testing.T) {
	s := NewSession("s1")
	if err := s.ApplyCoupon(" desconto10 ", testCoupons()); err != nil {
		t.Fatalf("apply: %v", err)
	}

	err := s.ApplyCoupon("VELHO", testCoupons())
	if !pkgerrors.Is(err, pkgerrors.CodeInvalidCoupon) {
		t.Fatalf("expected invalid coupon, got %v", err)
	}
	if s.Coupon == nil || s.Coupon.Code != "DESCONTO10" {
		t.Fatalf("expected previous coupon kept, got %+v", s.Coupon)
	}

	s.RemoveCoupon()
	if s.Coupon != nil {
		t.Fatalf("expected coupon cleared")
	}
}

func TestQuoteWithCoupon(t *testing.T) {
	s := NewSession("s1")
	s.Add(testCatalog(), 1, 2) // 10000
	s.Add(testCatalog(), 2, 1) // 3000

	if q := s.Quote(); q.Subtotal != 13000 || q.Discount != 0 || q.Total != 13000 {
		t.Fatalf("unexpected quote %+v", q)
	}
	if err := s.ApplyCoupon("DESCONTO10", testCoupons()); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if q := s.Quote(); q.Discount != 1300 || q.Total != 11700 {
		t.Fatalf("unexpected percentage quote %+v", q)
	}
	if err := s.ApplyCoupon("frete", testCoupons()); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if q := s.Quote(); q.Discount != 2000 || q.Total != 11000 {
		t.Fatalf("unexpected fixed quote %+v", q)
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	s := NewSession("s1")
	s.Add(testCatalog(), 1, 2)
	s.SelectQuantity(2, 2)
	s.SetContact(" 65999990000 ")
	if err := s.ApplyCoupon("FRETE", testCoupons()); err != nil {
		t.Fatalf("apply: %v", err)
	}

	restored := Restore("s1", s.Snapshot(), testCoupons())
	if restored.Cart[1].Quantity != 2 || restored.Contact != "65999990000" {
		t.Fatalf("unexpected restored session %+v", restored)
	}
	if restored.Selected(2) != 2 {
		t.Fatalf("expected selection restored")
	}
	if restored.Coupon == nil || restored.Coupon.Code != "FRETE" || restored.CouponDropped() {
		t.Fatalf("expected coupon restored, got %+v", restored.Coupon)
	}
}

func TestRestoreDropsDeactivatedCoupon(t *testing.T) {
	s := NewSession("s1")
	if err := s.ApplyCoupon("FRETE", testCoupons()); err != nil {
		t.Fatalf("apply: %v", err)
	}
	snap := s.Snapshot()

	active := testCoupons()[:1]
	restored := Restore("s1", snap, active)
	if restored.Coupon != nil {
		t.Fatalf("expected coupon dropped, got %+v", restored.Coupon)
	}
	if !restored.CouponDropped() {
		t.Fatalf("expected dropped flag")
	}
}
