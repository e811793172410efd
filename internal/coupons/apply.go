package coupons

import pkgerrors "github.com/lbstore/storefront-backend/pkg/errors"

// Apply resolves code against the available coupons. The match is exact on
// the uppercased code and the coupon must be active.
func Apply(code string, available []Coupon) (Coupon, error) {
	normalized := NormalizeCode(code)
	if normalized == "" {
		return Coupon{}, pkgerrors.New(pkgerrors.CodeInvalidCoupon, "coupon code is required")
	}
	for _, c := range available {
		if c.Active && c.Code == normalized {
			return c, nil
		}
	}
	return Coupon{}, pkgerrors.Newf(pkgerrors.CodeInvalidCoupon, "coupon %s is invalid or inactive", normalized)
}
