package products

// Catalog is a point-in-time view of the product list keyed by id.
type Catalog struct {
	byID map[uint]Product
}

// NewCatalog indexes the given products.
func NewCatalog(items []Product) *Catalog {
	c := &Catalog{byID: make(map[uint]Product, len(items))}
	for _, p := range items {
		c.byID[p.ID] = p
	}
	return c
}

// Lookup returns the product with the given id.
func (c *Catalog) Lookup(id uint) (Product, bool) {
	if c == nil {
		return Product{}, false
	}
	p, ok := c.byID[id]
	return p, ok
}

// Len returns the number of products in the snapshot.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.byID)
}
