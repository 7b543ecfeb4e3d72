package domain

import "time"

type Product struct {
	ID        int64
	Name      string
	SKU       string
	Price     float64
	Cost      float64
	Stock     int
	StockMin  int
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LowStock reports whether the product is below its minimum stock threshold.
func (p Product) LowStock() bool {
	return p.Stock < p.StockMin
}

func (p Product) InStock() bool {
	return p.Stock > 0
}

// ProductDraft carries the fields for creating a product.
type ProductDraft struct {
	Name     string
	SKU      string
	Price    float64
	Cost     float64
	Stock    int
	StockMin int
}

// ProductPatch is a partial product update. Nil fields are left unchanged.
type ProductPatch struct {
	Name     *string
	SKU      *string
	Price    *float64
	Cost     *float64
	Stock    *int
	StockMin *int
	Active   *bool
}
