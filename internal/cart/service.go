package cart

import (
	"context"
	"fmt"
	"sort"

	"github.com/lbstore/storefront-backend/internal/coupons"
	"github.com/lbstore/storefront-backend/internal/pricing"
	"github.com/lbstore/storefront-backend/internal/products"
	pkgerrors "github.com/lbstore/storefront-backend/pkg/errors"
	"github.com/lbstore/storefront-backend/pkg/logger"
)

// Service runs one cart mutation per call against the persisted session.
type Service interface {
	Get(ctx context.Context, sessionID string) (*View, error)
	Add(ctx context.Context, sessionID string, productID uint, qty *int) (*View, error)
	SelectQuantity(ctx context.Context, sessionID string, productID uint, qty int) (*View, error)
	Update(ctx context.Context, sessionID string, productID uint, qty int) (*View, error)
	Remove(ctx context.Context, sessionID string, productID uint) (*View, error)
	ApplyCoupon(ctx context.Context, sessionID, code string) (*View, error)
	RemoveCoupon(ctx context.Context, sessionID string) (*View, error)
	SetContact(ctx context.Context, sessionID, number string) (*View, error)
}

// View is the cart as the storefront renders it.
type View struct {
	SessionID     string            `json:"session_id"`
	Items         []LineItem        `json:"items"`
	LineCount     int               `json:"line_count"`
	Quote         pricing.Breakdown `json:"quote"`
	Coupon        *coupons.Coupon   `json:"coupon,omitempty"`
	CouponDropped bool              `json:"coupon_dropped"`
	Contact       string            `json:"contact,omitempty"`
	Selected      []Selection       `json:"selected,omitempty"`
}

// Selection is a pending quantity picker value.
type Selection struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

type catalogSource interface {
	Catalog(ctx context.Context) *products.Catalog
}

type couponSource interface {
	ListActive(ctx context.Context) []coupons.Coupon
}

type mutationRecorder interface {
	IncCartMutation(op string)
	IncCouponApply(ok bool)
}

// ServiceParams groups the cart service dependencies.
type ServiceParams struct {
	Products  catalogSource
	Coupons   couponSource
	Persister Persister
	Logger    *logger.Logger
	Metrics   mutationRecorder
}

type service struct {
	products  catalogSource
	coupons   couponSource
	persister Persister
	logg      *logger.Logger
	metrics   mutationRecorder
}

// NewService constructs the cart service.
func NewService(params ServiceParams) (Service, error) {
	if params.Products == nil {
		return nil, fmt.Errorf("product source required")
	}
	if params.Coupons == nil {
		return nil, fmt.Errorf("coupon source required")
	}
	if params.Persister == nil {
		return nil, fmt.Errorf("cart persister required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		products:  params.Products,
		coupons:   params.Coupons,
		persister: params.Persister,
		logg:      params.Logger,
		metrics:   params.Metrics,
	}, nil
}

func (s *service) Get(ctx context.Context, sessionID string) (*View, error) {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return ViewOf(session), nil
}

func (s *service) Add(ctx context.Context, sessionID string, productID uint, qty *int) (*View, error) {
	return s.mutate(ctx, sessionID, "add", func(ctx context.Context, session *Session) error {
		catalog := s.products.Catalog(ctx)
		if qty != nil {
			session.Add(catalog, productID, *qty)
			return nil
		}
		session.AddToCart(catalog, productID)
		return nil
	})
}

func (s *service) SelectQuantity(ctx context.Context, sessionID string, productID uint, qty int) (*View, error) {
	return s.mutate(ctx, sessionID, "select", func(_ context.Context, session *Session) error {
		session.SelectQuantity(productID, qty)
		return nil
	})
}

func (s *service) Update(ctx context.Context, sessionID string, productID uint, qty int) (*View, error) {
	return s.mutate(ctx, sessionID, "update", func(ctx context.Context, session *Session) error {
		var catalog Catalog
		if qty > 0 {
			catalog = s.products.Catalog(ctx)
		}
		session.Cart.UpdateQuantity(catalog, productID, qty)
		return nil
	})
}

func (s *service) Remove(ctx context.Context, sessionID string, productID uint) (*View, error) {
	return s.mutate(ctx, sessionID, "remove", func(_ context.Context, session *Session) error {
		session.Cart.Remove(productID)
		return nil
	})
}

func (s *service) ApplyCoupon(ctx context.Context, sessionID, code string) (*View, error) {
	return s.mutate(ctx, sessionID, "apply_coupon", func(ctx context.Context, session *Session) error {
		err := session.ApplyCoupon(code, s.coupons.ListActive(ctx))
		if s.metrics != nil {
			s.metrics.IncCouponApply(err == nil)
		}
		return err
	})
}

func (s *service) RemoveCoupon(ctx context.Context, sessionID string) (*View, error) {
	return s.mutate(ctx, sessionID, "remove_coupon", func(_ context.Context, session *Session) error {
		session.RemoveCoupon()
		return nil
	})
}

func (s *service) SetContact(ctx context.Context, sessionID, number string) (*View, error) {
	return s.mutate(ctx, sessionID, "contact", func(_ context.Context, session *Session) error {
		session.SetContact(number)
		return nil
	})
}

func (s *service) mutate(ctx context.Context, sessionID, op string, fn func(context.Context, *Session) error) (*View, error) {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := fn(ctx, session); err != nil {
		return nil, err
	}
	if err := s.persister.Save(ctx, sessionID, session.Snapshot()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "save cart")
	}
	if s.metrics != nil {
		s.metrics.IncCartMutation(op)
	}
	return ViewOf(session), nil
}

func (s *service) load(ctx context.Context, sessionID string) (*Session, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart session is required")
	}
	snap, err := s.persister.Load(ctx, sessionID)
	if err != nil {
		// A corrupt or unreachable slot starts over with an empty cart.
		s.logg.Warn(s.logg.WithField(s.logg.WithCartSession(ctx, sessionID), "error", err.Error()), "cart.load.degraded")
		return NewSession(sessionID), nil
	}
	var active []coupons.Coupon
	if snap.CouponCode != "" {
		active = s.coupons.ListActive(ctx)
	}
	session := Restore(sessionID, snap, active)
	if session.CouponDropped() {
		s.logg.Info(s.logg.WithField(s.logg.WithCartSession(ctx, sessionID), "coupon", snap.CouponCode), "cart.coupon.dropped")
	}
	return session, nil
}

// ViewOf renders a session.
func ViewOf(session *Session) *View {
	view := &View{
		SessionID:     session.ID,
		Items:         session.Cart.Lines(),
		LineCount:     session.Cart.LineCount(),
		Quote:         session.Quote(),
		Coupon:        session.Coupon,
		CouponDropped: session.CouponDropped(),
		Contact:       session.Contact,
	}
	for id, qty := range session.selected {
		view.Selected = append(view.Selected, Selection{ProductID: id, Quantity: qty})
	}
	sort.Slice(view.Selected, func(i, j int) bool { return view.Selected[i].ProductID < view.Selected[j].ProductID })
	return view
}
