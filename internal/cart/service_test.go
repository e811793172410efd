package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/lbstore/storefront-backend/internal/coupons"
	"github.com/lbstore/storefront-backend/internal/products"
	pkgerrors "github.com/lbstore/storefront-backend/pkg/errors"
	"github.com/lbstore/storefront-backend/pkg/logger"
)

type stubProducts struct{ catalog *products.Catalog }

func (s stubProducts) Catalog(context.Context) *products.Catalog { return s.catalog }

type stubCoupons struct{ active []coupons.Coupon }

func (s *stubCoupons) ListActive(context.Context) []coupons.Coupon { return s.active }

type failingPersister struct{ loadErr, saveErr error }

func (f failingPersister) Load(context.Context, string) (Snapshot, error) {
	return Snapshot{}, f.loadErr
}

func (f failingPersister) Save(context.Context, string, Snapshot) error { return f.saveErr }

type countingMetrics struct {
	mutations map[string]int
	applied   int
	rejected  int
}

func (m *countingMetrics) IncCartMutation(op string) {
	if m.mutations == nil {
		m.mutations = map[string]int{}
	}
	m.mutations[op]++
}

func (m *countingMetrics) IncCouponApply(ok bool) {
	if ok {
		m.applied++
		return
	}
	m.rejected++
}

func newTestService(t *testing.T, active *stubCoupons, persister Persister, metrics *countingMetrics) Service {
	t.Helper()
	params := ServiceParams{
		Products:  stubProducts{catalog: testCatalog()},
		Coupons:   active,
		Persister: persister,
		Logger:    logger.Nop(),
	}
	if metrics != nil {
		params.Metrics = metrics
	}
	svc, err := NewService(params)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestServicePersistsAcrossCalls(t *testing.T) {
	ctx := context.Background()
	metrics := &countingMetrics{}
	svc := newTestService(t, &stubCoupons{active: testCoupons()}, NewMemoryPersister(), metrics)

	if _, err := svc.SelectQuantity(ctx, "s1", 1, 2); err != nil {
		t.Fatalf("select: %v", err)
	}
	view, err := svc.Add(ctx, "s1", 1, nil)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if view.Items[0].Quantity != 2 || len(view.Selected) != 0 {
		t.Fatalf("unexpected view %+v", view)
	}

	qty := 1
	if _, err := svc.Add(ctx, "s1", 2, &qty); err != nil {
		t.Fatalf("add explicit: %v", err)
	}
	if _, err := svc.ApplyCoupon(ctx, "s1", "desconto10"); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if _, err := svc.SetContact(ctx, "s1", "65999990000"); err != nil {
		t.Fatalf("contact: %v", err)
	}

	view, err = svc.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if view.LineCount != 2 || view.Quote.Subtotal != 13000 || view.Quote.Discount != 1300 {
		t.Fatalf("unexpected view %+v", view)
	}
	if view.Coupon == nil || view.Contact != "65999990000" {
		t.Fatalf("expected coupon and contact, got %+v", view)
	}
	if metrics.mutations["add"] != 2 || metrics.applied != 1 {
		t.Fatalf("unexpected metrics %+v", metrics)
	}

	other, err := svc.Get(ctx, "s2")
	if err != nil || other.LineCount != 0 {
		t.Fatalf("expected isolated empty session, got %+v (%v)", other, err)
	}
}

func TestServiceUpdateAndRemove(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, &stubCoupons{}, NewMemoryPersister(), nil)

	qty := 2
	if _, err := svc.Add(ctx, "s1", 1, &qty); err != nil {
		t.Fatalf("add: %v", err)
	}
	view, err := svc.Update(ctx, "s1", 1, 10)
	if err != nil || view.Items[0].Quantity != 5 {
		t.Fatalf("expected clamp to 5, got %+v (%v)", view, err)
	}
	view, err = svc.Update(ctx, "s1", 1, -5)
	if err != nil || view.LineCount != 0 {
		t.Fatalf("expected removal, got %+v (%v)", view, err)
	}
	if _, err := svc.Remove(ctx, "s1", 1); err != nil {
		t.Fatalf("remove on empty cart: %v", err)
	}
	view, err = svc.Update(ctx, "s1", 2, 1)
	if err != nil || view.LineCount != 0 {
		t.Fatalf("expected update of a product not in the cart to change nothing, got %+v (%v)", view, err)
	}
}

func TestServiceApplyInvalidCouponKeepsState(t *testing.T) {
	ctx := context.Background()
	metrics := &countingMetrics{}
	svc := newTestService(t, &stubCoupons{active: testCoupons()}, NewMemoryPersister(), metrics)

	if _, err := svc.ApplyCoupon(ctx, "s1", "FRETE"); err != nil {
		t.Fatalf("apply: %v", err)
	}
	_, err := svc.ApplyCoupon(ctx, "s1", "NOPE")
	if !pkgerrors.Is(err, pkgerrors.CodeInvalidCoupon) {
		t.Fatalf("expected invalid coupon, got %v", err)
	}
	view, _ := svc.Get(ctx, "s1")
	if view.Coupon == nil || view.Coupon.Code != "FRETE" {
		t.Fatalf("expected FRETE kept, got %+v", view.Coupon)
	}
	if metrics.rejected != 1 {
		t.Fatalf("expected one rejected apply, got %d", metrics.rejected)
	}

	view, err = svc.RemoveCoupon(ctx, "s1")
	if err != nil || view.Coupon != nil {
		t.Fatalf("expected coupon removed, got %+v (%v)", view, err)
	}
}

func TestServiceDropsCouponDeactivatedBetweenRequests(t *testing.T) {
	ctx := context.Background()
	active := &stubCoupons{active: testCoupons()}
	svc := newTestService(t, active, NewMemoryPersister(), nil)

	if _, err := svc.ApplyCoupon(ctx, "s1", "FRETE"); err != nil {
		t.Fatalf("apply: %v", err)
	}
	active.active = nil

	view, err := svc.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if view.Coupon != nil || !view.CouponDropped {
		t.Fatalf("expected dropped coupon, got %+v", view)
	}
}

func TestServiceStoreFailures(t *testing.T) {
	ctx := context.Background()

	degraded := newTestService(t, &stubCoupons{}, failingPersister{loadErr: errors.New("down")}, nil)
	view, err := degraded.Get(ctx, "s1")
	if err != nil || view.LineCount != 0 {
		t.Fatalf("expected degraded empty cart, got %+v (%v)", view, err)
	}

	broken := newTestService(t, &stubCoupons{}, failingPersister{saveErr: errors.New("down")}, nil)
	qty := 1
	_, err = broken.Add(ctx, "s1", 1, &qty)
	if !pkgerrors.Is(err, pkgerrors.CodeStoreUnavailable) {
		t.Fatalf("expected store unavailable, got %v", err)
	}

	if _, err := degraded.Get(ctx, ""); !pkgerrors.Is(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for empty session, got %v", err)
	}
}
