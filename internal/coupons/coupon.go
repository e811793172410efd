package coupons

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/lbstore/storefront-backend/pkg/db/models"
	"github.com/lbstore/storefront-backend/pkg/enums"
)

// MaxPercentageValue is 100.00% in basis points of a percent.
const MaxPercentageValue = 10000

const maxCodeLen = 50

// Coupon is a discount rule.
type Coupon struct {
	ID          uint             `json:"id"`
	Code        string           `json:"code"`
	Kind        enums.CouponKind `json:"kind"`
	Value       int64            `json:"value"`
	Active      bool             `json:"active"`
	Description *string          `json:"description,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// FromModel maps the persisted row to the domain value.
func FromModel(m *models.Coupon) Coupon {
	return Coupon{
		ID:          m.ID,
		Code:        m.Code,
		Kind:        m.Kind,
		Value:       m.Value,
		Active:      m.Active,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// NormalizeCode trims and uppercases a user-entered code.
func NormalizeCode(code string) string {
	return cases.Upper(language.Und).String(strings.TrimSpace(code))
}
