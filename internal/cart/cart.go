package cart

import (
	"sort"

	"github.com/lbstore/storefront-backend/internal/money"
	"github.com/lbstore/storefront-backend/internal/pricing"
	"github.com/lbstore/storefront-backend/internal/products"
)

// Catalog resolves product ids against the current product list.
type Catalog interface {
	Lookup(id uint) (products.Product, bool)
}

// LineItem is a product snapshot plus a quantity in [1, Stock].
type LineItem struct {
	ProductID uint        `json:"product_id"`
	Title     string      `json:"title"`
	Price     money.Cents `json:"price"`
	Size      string      `json:"size"`
	Color     string      `json:"color"`
	Img       string      `json:"img"`
	SKU       string      `json:"sku"`
	Stock     int         `json:"stock"`
	Quantity  int         `json:"quantity"`
}

// LineTotal is price times quantity.
func (l LineItem) LineTotal() money.Cents {
	return l.Price.Times(l.Quantity)
}

func lineFor(p products.Product, qty int) LineItem {
	return LineItem{
		ProductID: p.ID,
		Title:     p.Title,
		Price:     p.Price,
		Size:      p.Size,
		Color:     p.Color,
		Img:       p.Img,
		SKU:       p.SKU,
		Stock:     p.Stock,
		Quantity:  qty,
	}
}

// Cart maps product id to its line. There is at most one line per product
// and no line ever holds a quantity below 1.
type Cart map[uint]LineItem

// Add increases the product's quantity by qty, clamped to stock. Unknown
// products and non-positive quantities are ignored.
func (c Cart) Add(catalog Catalog, productID uint, qty int) {
	if qty <= 0 || catalog == nil {
		return
	}
	p, ok := catalog.Lookup(productID)
	if !ok {
		return
	}
	next := qty
	if existing, ok := c[productID]; ok {
		next = existing.Quantity + qty
	}
	c.set(p, next)
}

// UpdateQuantity sets the quantity of an existing line, clamped to stock. A
// quantity of zero or less removes the line. Products not in the cart are
// left alone.
func (c Cart) UpdateQuantity(catalog Catalog, productID uint, qty int) {
	if _, ok := c[productID]; !ok {
		return
	}
	if qty <= 0 {
		c.Remove(productID)
		return
	}
	if catalog == nil {
		return
	}
	p, ok := catalog.Lookup(productID)
	if !ok {
		return
	}
	c.set(p, qty)
}

// Remove deletes the line if present.
func (c Cart) Remove(productID uint) {
	delete(c, productID)
}

// LineCount is the number of distinct products, not the sum of quantities.
func (c Cart) LineCount() int {
	return len(c)
}

// Lines returns the lines ordered by product id.
func (c Cart) Lines() []LineItem {
	out := make([]LineItem, 0, len(c))
	for _, l := range c {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

// PricingLines converts the cart into pricing input.
func (c Cart) PricingLines() []pricing.Line {
	out := make([]pricing.Line, 0, len(c))
	for _, l := range c.Lines() {
		out = append(out, pricing.Line{UnitPrice: l.Price, Quantity: l.Quantity})
	}
	return out
}

func (c Cart) set(p products.Product, qty int) {
	if qty > p.Stock {
		qty = p.Stock
	}
	if qty <= 0 {
		delete(c, p.ID)
		return
	}
	c[p.ID] = lineFor(p, qty)
}
