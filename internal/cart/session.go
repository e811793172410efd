package cart

import (
	"strings"

	"github.com/lbstore/storefront-backend/internal/coupons"
	"github.com/lbstore/storefront-backend/internal/pricing"
)

// Session is one shopper's cart state: lines, applied coupon, contact number
// and the per-product quantity picked before adding. It is not safe for
// concurrent use.
type Session struct {
	ID       string
	Cart     Cart
	Coupon   *coupons.Coupon
	Contact  string
	selected map[uint]int

	couponDropped bool
}

// NewSession returns an empty session.
func NewSession(id string) *Session {
	return &Session{ID: id, Cart: Cart{}, selected: map[uint]int{}}
}

// Selected returns the quantity picked for a product, 1 when unset.
func (s *Session) Selected(productID uint) int {
	if q, ok := s.selected[productID]; ok && q > 0 {
		return q
	}
	return 1
}

// SelectQuantity records the quantity picker value for a product.
func (s *Session) SelectQuantity(productID uint, qty int) {
	if qty <= 1 {
		delete(s.selected, productID)
		return
	}
	s.selected[productID] = qty
}

// AddToCart adds the selected quantity of a product and resets the picker to 1.
func (s *Session) AddToCart(catalog Catalog, productID uint) {
	s.Cart.Add(catalog, productID, s.Selected(productID))
	delete(s.selected, productID)
}

// Add adds an explicit quantity and resets the picker to 1.
func (s *Session) Add(catalog Catalog, productID uint, qty int) {
	s.Cart.Add(catalog, productID, qty)
	delete(s.selected, productID)
}

// ApplyCoupon resolves code against available and stores the match. On
// failure the previously applied coupon is kept.
func (s *Session) ApplyCoupon(code string, available []coupons.Coupon) error {
	c, err := coupons.Apply(code, available)
	if err != nil {
		return err
	}
	s.Coupon = &c
	s.couponDropped = false
	return nil
}

// RemoveCoupon clears the applied coupon.
func (s *Session) RemoveCoupon() {
	s.Coupon = nil
	s.couponDropped = false
}

// SetContact stores the shopper's WhatsApp number.
func (s *Session) SetContact(number string) {
	s.Contact = strings.TrimSpace(number)
}

// CouponDropped reports whether a persisted coupon stopped resolving on load.
func (s *Session) CouponDropped() bool {
	return s.couponDropped
}

// Quote prices the cart with the applied coupon.
func (s *Session) Quote() pricing.Breakdown {
	return pricing.Quote(s.Cart.PricingLines(), s.rule())
}

func (s *Session) rule() *pricing.Rule {
	if s.Coupon == nil {
		return nil
	}
	return &pricing.Rule{Kind: s.Coupon.Kind, Value: s.Coupon.Value}
}

// Snapshot returns the durable form of the session.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Version: snapshotVersion,
		Items:   make(map[uint]LineItem, len(s.Cart)),
		Contact: s.Contact,
	}
	for id, l := range s.Cart {
		snap.Items[id] = l
	}
	if len(s.selected) > 0 {
		snap.Selected = make(map[uint]int, len(s.selected))
		for id, q := range s.selected {
			snap.Selected[id] = q
		}
	}
	if s.Coupon != nil {
		snap.CouponCode = s.Coupon.Code
	}
	return snap
}

// Restore rebuilds a session from its snapshot. The persisted coupon code is
// re-resolved against active; when it no longer matches it is dropped and
// CouponDropped reports true.
func Restore(id string, snap Snapshot, active []coupons.Coupon) *Session {
	s := NewSession(id)
	s.Contact = snap.Contact
	for pid, l := range snap.Items {
		if l.Quantity <= 0 {
			continue
		}
		l.ProductID = pid
		s.Cart[pid] = l
	}
	for pid, q := range snap.Selected {
		s.SelectQuantity(pid, q)
	}
	if snap.CouponCode != "" {
		if c, err := coupons.Apply(snap.CouponCode, active); err == nil {
			s.Coupon = &c
		} else {
			s.couponDropped = true
		}
	}
	return s
}
