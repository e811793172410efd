package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Storefront records request, cart and coupon activity. A nil *Storefront is
// valid and records nothing.
type Storefront struct {
	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	degraded      *prometheus.CounterVec
	cartMutations *prometheus.CounterVec
	couponApplies *prometheus.CounterVec
	checkouts     prometheus.Counter
}

// NewStorefront registers the storefront metrics on the provided registerer.
func NewStorefront(reg prometheus.Registerer) *Storefront {
	if reg == nil {
		return &Storefront{}
	}
	m := &Storefront{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_http_requests_total",
			Help: "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "storefront_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		degraded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_store_degraded_total",
			Help: "Reads that fell back to an empty result because the store failed.",
		}, []string{"resource"}),
		cartMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_cart_mutations_total",
			Help: "Cart mutations by operation.",
		}, []string{"op"}),
		couponApplies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_coupon_apply_total",
			Help: "Coupon apply attempts by outcome.",
		}, []string{"outcome"}),
		checkouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storefront_checkouts_total",
			Help: "Order messages built.",
		}),
	}
	reg.MustRegister(m.requests, m.duration, m.degraded, m.cartMutations, m.couponApplies, m.checkouts)
	return m
}

// ObserveRequest records a finished HTTP request.
func (m *Storefront) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil || m.requests == nil {
		return
	}
	route = normalizeLabel(route)
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method, route).Observe(d.Seconds())
}

// IncStoreDegraded counts a read that degraded to an empty result.
func (m *Storefront) IncStoreDegraded(resource string) {
	if m == nil || m.degraded == nil {
		return
	}
	m.degraded.WithLabelValues(normalizeLabel(resource)).Inc()
}

// IncCartMutation counts a cart mutation.
func (m *Storefront) IncCartMutation(op string) {
	if m == nil || m.cartMutations == nil {
		return
	}
	m.cartMutations.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncCouponApply counts a coupon apply attempt.
func (m *Storefront) IncCouponApply(ok bool) {
	if m == nil || m.couponApplies == nil {
		return
	}
	outcome := "rejected"
	if ok {
		outcome = "applied"
	}
	m.couponApplies.WithLabelValues(outcome).Inc()
}

// IncCheckout counts a built order message.
func (m *Storefront) IncCheckout() {
	if m == nil || m.checkouts == nil {
		return
	}
	m.checkouts.Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
