package models

import "time"

// Product is a catalog entry. Price is stored in cents.
type Product struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement"`
	Title     string    `gorm:"column:title;type:varchar(255);not null"`
	Price     int64     `gorm:"column:price;not null"`
	Size      string    `gorm:"column:size;type:varchar(50);not null;default:''"`
	Color     string    `gorm:"column:color;type:varchar(50);not null;default:''"`
	Img       string    `gorm:"column:img;type:text;not null"`
	SKU       string    `gorm:"column:sku;type:varchar(100);not null;uniqueIndex:products_sku_key"`
	Stock     int       `gorm:"column:stock;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string { return "products" }
