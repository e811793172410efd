package controllers

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/lbstore/storefront-backend/internal/coupons"
	"github.com/lbstore/storefront-backend/internal/money"
	"github.com/lbstore/storefront-backend/internal/products"
	pkgerrors "github.com/lbstore/storefront-backend/pkg/errors"
)

// flexBool accepts true/false as well as the 0/1 integers older admin
// clients send for the active flag.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "true", "1":
		*b = true
	case "false", "0":
		*b = false
	default:
		return fmt.Errorf("expected boolean or 0/1, got %s", data)
	}
	return nil
}

func (b *flexBool) ptr() *bool {
	if b == nil {
		return nil
	}
	v := bool(*b)
	return &v
}

// amount resolves an integer cents field or its decimal display alternative.
func amount(field string, cents *int64, display *string) (*int64, error) {
	if display == nil {
		return cents, nil
	}
	if cents != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{field: "cannot be combined with " + field + "_display"})
	}
	parsed, err := money.ParseMajor(*display)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{field + "_display": "must be a decimal amount"})
	}
	v := parsed.Int64()
	return &v, nil
}

type createProductRequest struct {
	Title        string  `json:"title" validate:"required,max=255"`
	Price        *int64  `json:"price" validate:"omitempty,gte=0"`
	PriceDisplay *string `json:"price_display" validate:"omitempty,max=32"`
	Size         string  `json:"size" validate:"max=50"`
	Color        string  `json:"color" validate:"max=50"`
	Img          string  `json:"img"`
	SKU          string  `json:"sku" validate:"required,max=100"`
	Stock        int     `json:"stock" validate:"gte=0"`
}

func (r createProductRequest) toInput() (products.CreateInput, error) {
	price, err := amount("price", r.Price, r.PriceDisplay)
	if err != nil {
		return products.CreateInput{}, err
	}
	if price == nil {
		return products.CreateInput{}, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"price": "is required"})
	}
	return products.CreateInput{
		Title: r.Title,
		Price: money.Cents(*price),
		Size:  r.Size,
		Color: r.Color,
		Img:   r.Img,
		SKU:   r.SKU,
		Stock: r.Stock,
	}, nil
}

type updateProductRequest struct {
	Title        *string `json:"title" validate:"omitempty,max=255"`
	Price        *int64  `json:"price" validate:"omitempty,gte=0"`
	PriceDisplay *string `json:"price_display" validate:"omitempty,max=32"`
	Size         *string `json:"size" validate:"omitempty,max=50"`
	Color        *string `json:"color" validate:"omitempty,max=50"`
	Img          *string `json:"img"`
	SKU          *string `json:"sku" validate:"omitempty,max=100"`
	Stock        *int    `json:"stock" validate:"omitempty,gte=0"`
}

func (r updateProductRequest) toPatch() (products.Patch, error) {
	price, err := amount("price", r.Price, r.PriceDisplay)
	if err != nil {
		return products.Patch{}, err
	}
	patch := products.Patch{
		Title: r.Title,
		Size:  r.Size,
		Color: r.Color,
		Img:   r.Img,
		SKU:   r.SKU,
		Stock: r.Stock,
	}
	if price != nil {
		c := money.Cents(*price)
		patch.Price = &c
	}
	return patch, nil
}

type createCouponRequest struct {
	Code         string    `json:"code" validate:"required,max=50"`
	Kind         string    `json:"kind" validate:"required,coupon_kind"`
	Value        *int64    `json:"value" validate:"omitempty,gte=0"`
	ValueDisplay *string   `json:"value_display" validate:"omitempty,max=32"`
	Active       *flexBool `json:"active"`
	Description  *string   `json:"description" validate:"omitempty,max=500"`
}

func (r createCouponRequest) toInput() (coupons.CreateInput, error) {
	value, err := amount("value", r.Value, r.ValueDisplay)
	if err != nil {
		return coupons.CreateInput{}, err
	}
	if value == nil {
		return coupons.CreateInput{}, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"value": "is required"})
	}
	return coupons.CreateInput{
		Code:        r.Code,
		Kind:        strings.TrimSpace(r.Kind),
		Value:       *value,
		Active:      r.Active.ptr(),
		Description: r.Description,
	}, nil
}

type updateCouponRequest struct {
	Code         *string   `json:"code" validate:"omitempty,max=50"`
	Kind         *string   `json:"kind" validate:"omitempty,coupon_kind"`
	Value        *int64    `json:"value" validate:"omitempty,gte=0"`
	ValueDisplay *string   `json:"value_display" validate:"omitempty,max=32"`
	Active       *flexBool `json:"active"`
	Description  *string   `json:"description" validate:"omitempty,max=500"`
}

func (r updateCouponRequest) toPatch() (coupons.Patch, error) {
	value, err := amount("value", r.Value, r.ValueDisplay)
	if err != nil {
		return coupons.Patch{}, err
	}
	return coupons.Patch{
		Code:        r.Code,
		Kind:        r.Kind,
		Value:       value,
		Active:      r.Active.ptr(),
		Description: r.Description,
	}, nil
}

type addCartItemRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  *int `json:"quantity"`
}

type quantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

type couponCodeRequest struct {
	Code string `json:"code" validate:"required,max=50"`
}

type contactRequest struct {
	Number string `json:"number" validate:"max=32"`
}
