package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/lbstore/storefront-backend/internal/cart"
	"github.com/lbstore/storefront-backend/internal/coupons"
	"github.com/lbstore/storefront-backend/internal/pricing"
	pkgerrors "github.com/lbstore/storefront-backend/pkg/errors"
	"github.com/lbstore/storefront-backend/pkg/logger"
)

// Order is the checkout result handed back to the storefront.
type Order struct {
	Items   []cart.LineItem   `json:"items"`
	Quote   pricing.Breakdown `json:"quote"`
	Coupon  *coupons.Coupon   `json:"coupon,omitempty"`
	Number  string            `json:"number"`
	Message string            `json:"message"`
	Link    string            `json:"link"`
}

// Service builds the order message for a cart session.
type Service interface {
	Checkout(ctx context.Context, sessionID string) (*Order, error)
}

type cartReader interface {
	Get(ctx context.Context, sessionID string) (*cart.View, error)
}

type checkoutRecorder interface {
	IncCheckout()
}

// ServiceParams groups checkout dependencies.
type ServiceParams struct {
	Carts         cartReader
	AppTitle      string
	DefaultNumber string
	Logger        *logger.Logger
	Metrics       checkoutRecorder
}

type service struct {
	carts         cartReader
	appTitle      string
	defaultNumber string
	logg          *logger.Logger
	metrics       checkoutRecorder
}

// NewService constructs the checkout service.
func NewService(params ServiceParams) (Service, error) {
	if params.Carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(params.AppTitle) == "" {
		return nil, fmt.Errorf("app title required")
	}
	return &service{
		carts:         params.Carts,
		appTitle:      params.AppTitle,
		defaultNumber: params.DefaultNumber,
		logg:          params.Logger,
		metrics:       params.Metrics,
	}, nil
}

// Checkout reads the session and renders its order. The session's contact
// number overrides the store default as the message destination.
func (s *service) Checkout(ctx context.Context, sessionID string) (*Order, error) {
	view, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if view.LineCount == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	number := view.Contact
	if digits(number) == "" {
		number = s.defaultNumber
	}
	if digits(number) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "whatsapp number is required")
	}

	message := BuildMessage(s.appTitle, view.Items, view.Coupon, view.Quote)
	order := &Order{
		Items:   view.Items,
		Quote:   view.Quote,
		Coupon:  view.Coupon,
		Number:  digits(number),
		Message: message,
		Link:    Link(number, message),
	}

	if s.metrics != nil {
		s.metrics.IncCheckout()
	}
	s.logg.Info(s.logg.WithFields(s.logg.WithCartSession(ctx, sessionID), map[string]any{
		"lines": view.LineCount,
		"total": int64(view.Quote.Total),
	}), "checkout.built")
	return order, nil
}
