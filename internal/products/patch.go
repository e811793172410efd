package products

import (
	"strings"

	"github.com/lbstore/storefront-backend/internal/money"
	"github.com/lbstore/storefront-backend/pkg/db/models"
)

// Patch is a sparse product update. A nil field is left untouched.
type Patch struct {
	Title *string
	Price *money.Cents
	Size  *string
	Color *string
	Img   *string
	SKU   *string
	Stock *int
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Price == nil && p.Size == nil && p.Color == nil &&
		p.Img == nil && p.SKU == nil && p.Stock == nil
}

// Normalize trims the text fields in place.
func (p *Patch) Normalize() {
	for _, f := range []*string{p.Title, p.Size, p.Color, p.Img, p.SKU} {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}
}

// Apply merges the patch over product.
func (p Patch) Apply(product *models.Product) {
	if p.Title != nil {
		product.Title = *p.Title
	}
	if p.Price != nil {
		product.Price = int64(*p.Price)
	}
	if p.Size != nil {
		product.Size = *p.Size
	}
	if p.Color != nil {
		product.Color = *p.Color
	}
	if p.Img != nil {
		product.Img = *p.Img
	}
	if p.SKU != nil {
		product.SKU = *p.SKU
	}
	if p.Stock != nil {
		product.Stock = *p.Stock
	}
}

// Columns returns the column map for a partial UPDATE.
func (p Patch) Columns() map[string]any {
	cols := map[string]any{}
	if p.Title != nil {
		cols["title"] = *p.Title
	}
	if p.Price != nil {
		cols["price"] = int64(*p.Price)
	}
	if p.Size != nil {
		cols["size"] = *p.Size
	}
	if p.Color != nil {
		cols["color"] = *p.Color
	}
	if p.Img != nil {
		cols["img"] = *p.Img
	}
	if p.SKU != nil {
		cols["sku"] = *p.SKU
	}
	if p.Stock != nil {
		cols["stock"] = *p.Stock
	}
	return cols
}
