package controllers

import (
	"net/http"

	"github.com/lbstore/storefront-backend/api/middleware"
	"github.com/lbstore/storefront-backend/api/responses"
	"github.com/lbstore/storefront-backend/api/validators"
	"github.com/lbstore/storefront-backend/internal/cart"
	"github.com/lbstore/storefront-backend/internal/checkout"
	"github.com/lbstore/storefront-backend/pkg/logger"
)

func writeView(w http.ResponseWriter, r *http.Request, logg *logger.Logger, view *cart.View, err error) {
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}
	responses.WriteSuccess(w, view)
}

func GetCart(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := svc.Get(r.Context(), middleware.CartSessionFromContext(r.Context()))
		writeView(w, r, logg, view, err)
	}
}

// AddCartItem adds quantity, or the session's picked quantity when omitted.
func AddCartItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.Add(r.Context(), middleware.CartSessionFromContext(r.Context()), payload.ProductID, payload.Quantity)
		writeView(w, r, logg, view, err)
	}
}

func SelectCartQuantity(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload quantityRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.SelectQuantity(r.Context(), middleware.CartSessionFromContext(r.Context()), id, *payload.Quantity)
		writeView(w, r, logg, view, err)
	}
}

func UpdateCartItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload quantityRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.Update(r.Context(), middleware.CartSessionFromContext(r.Context()), id, *payload.Quantity)
		writeView(w, r, logg, view, err)
	}
}

func RemoveCartItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.Remove(r.Context(), middleware.CartSessionFromContext(r.Context()), id)
		writeView(w, r, logg, view, err)
	}
}

func ApplyCartCoupon(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload couponCodeRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.ApplyCoupon(r.Context(), middleware.CartSessionFromContext(r.Context()), payload.Code)
		writeView(w, r, logg, view, err)
	}
}

func RemoveCartCoupon(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := svc.RemoveCoupon(r.Context(), middleware.CartSessionFromContext(r.Context()))
		writeView(w, r, logg, view, err)
	}
}

func SetCartContact(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload contactRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.SetContact(r.Context(), middleware.CartSessionFromContext(r.Context()), payload.Number)
		writeView(w, r, logg, view, err)
	}
}

func Checkout(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, err := svc.Checkout(r.Context(), middleware.CartSessionFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
