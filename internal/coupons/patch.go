package coupons

import (
	"github.com/lbstore/storefront-backend/pkg/db/models"
	"github.com/lbstore/storefront-backend/pkg/enums"
)

// CreateInput carries a new coupon. Active defaults to true when nil.
type CreateInput struct {
	Code        string
	Kind        string
	Value       int64
	Active      *bool
	Description *string
}

// Patch is a sparse coupon update. A nil field is left untouched.
type Patch struct {
	Code        *string
	Kind        *string
	Value       *int64
	Active      *bool
	Description *string
}

func (p Patch) IsEmpty() bool {
	return p.Code == nil && p.Kind == nil && p.Value == nil && p.Active == nil && p.Description == nil
}

// apply merges the patch over the row. Kind must already be validated.
func (p Patch) apply(row *models.Coupon) {
	if p.Code != nil {
		row.Code = *p.Code
	}
	if p.Kind != nil {
		row.Kind = enums.CouponKind(*p.Kind)
	}
	if p.Value != nil {
		row.Value = *p.Value
	}
	if p.Active != nil {
		row.Active = *p.Active
	}
	if p.Description != nil {
		row.Description = p.Description
	}
}

func (p Patch) columns() map[string]any {
	cols := map[string]any{}
	if p.Code != nil {
		cols["code"] = *p.Code
	}
	if p.Kind != nil {
		cols["kind"] = *p.Kind
	}
	if p.Value != nil {
		cols["value"] = *p.Value
	}
	if p.Active != nil {
		cols["active"] = *p.Active
	}
	if p.Description != nil {
		cols["description"] = *p.Description
	}
	return cols
}
