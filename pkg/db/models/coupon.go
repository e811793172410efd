package models

import (
	"time"

	"github.com/lbstore/storefront-backend/pkg/enums"
)

// Coupon is a discount rule. Value is cents for fixed coupons and basis
// points of a percent (1000 = 10.00%) for percentage coupons.
type Coupon struct {
	ID          uint             `gorm:"column:id;primaryKey;autoIncrement"`
	Code        string           `gorm:"column:code;type:varchar(50);not null;uniqueIndex:coupons_code_key"`
	Kind        enums.CouponKind `gorm:"column:kind;type:varchar(20);not null"`
	Value       int64            `gorm:"column:value;not null"`
	Active      bool             `gorm:"column:active;not null"`
	Description *string          `gorm:"column:description;type:text"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

func (Coupon) TableName() string { return "coupons" }
