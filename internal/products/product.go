package products

import (
	"time"

	"github.com/lbstore/storefront-backend/internal/money"
	"github.com/lbstore/storefront-backend/pkg/db/models"
)

// Product is the catalog entry as the storefront and admin see it.
type Product struct {
	ID        uint        `json:"id"`
	Title     string      `json:"title"`
	Price     money.Cents `json:"price"`
	Size      string      `json:"size"`
	Color     string      `json:"color"`
	Img       string      `json:"img"`
	SKU       string      `json:"sku"`
	Stock     int         `json:"stock"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// FromModel maps the persisted row to the domain value.
func FromModel(m *models.Product) Product {
	return Product{
		ID:        m.ID,
		Title:     m.Title,
		Price:     money.Cents(m.Price),
		Size:      m.Size,
		Color:     m.Color,
		Img:       m.Img,
		SKU:       m.SKU,
		Stock:     m.Stock,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// CreateInput carries the fields required to add a product.
type CreateInput struct {
	Title string
	Price money.Cents
	Size  string
	Color string
	Img   string
	SKU   string
	Stock int
}

func (in CreateInput) toModel() *models.Product {
	return &models.Product{
		Title: in.Title,
		Price: int64(in.Price),
		Size:  in.Size,
		Color: in.Color,
		Img:   in.Img,
		SKU:   in.SKU,
		Stock: in.Stock,
	}
}
