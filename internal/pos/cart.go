package pos

import (
	"strconv"
	"strings"

	"github.com/mrodal/stockpos/internal/core/domain"
)

// Line is one cart position. Name and unit price are captured when the
// product is first added and are not re-fetched afterwards.
type Line struct {
	ProductID int64
	Name      string
	UnitPrice float64
	Qty       int
}

func (l Line) Subtotal() float64 {
	return float64(l.Qty) * l.UnitPrice
}

// Cart is an ordered set of lines, at most one per product id, with
// quantities clamped to the cached stock. All mutation is in-memory.
type Cart struct {
	catalog *Catalog
	lines   []Line
	subs    []func()
}

func NewCart(catalog *Catalog) *Cart {
	return &Cart{catalog: catalog}
}

// Subscribe registers a callback invoked after every cart mutation.
func (c *Cart) Subscribe(fn func()) {
	c.subs = append(c.subs, fn)
}

func (c *Cart) notify() {
	for _, fn := range c.subs {
		fn()
	}
}

// AddItem adds one unit of the product. Unknown ids are a no-op. An
// existing line is incremented, clamped to the cached stock. A product
// with zero stock still gets a line with quantity zero, so the caller
// can flag it as unavailable instead of dropping it.
func (c *Cart) AddItem(productID int64) {
	p, ok := c.catalog.Get(productID)
	if !ok {
		return
	}

	if i := c.index(productID); i >= 0 {
		c.lines[i].Qty = clamp(c.lines[i].Qty+1, p.Stock)
		c.notify()
		return
	}

	qty := 0
	if p.Stock > 0 {
		qty = 1
	}
	c.lines = append(c.lines, Line{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		Qty:       qty,
	})
	c.notify()
}

// UpdateQuantity clamps the requested quantity into [0, cachedStock].
// The stock bound is resolved fresh from the catalog at call time, not
// from the value captured when the line was created.
func (c *Cart) UpdateQuantity(productID int64, requested int) {
	i := c.index(productID)
	if i < 0 {
		return
	}
	c.lines[i].Qty = clamp(requested, c.catalog.Stock(productID))
	c.notify()
}

// UpdateQuantityInput applies raw text input; non-numeric or empty
// input counts as zero.
func (c *Cart) UpdateQuantityInput(productID int64, raw string) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		n = 0
	}
	c.UpdateQuantity(productID, n)
}

func (c *Cart) RemoveItem(productID int64) {
	i := c.index(productID)
	if i < 0 {
		return
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	c.notify()
}

// Total sums qty times unit price over all lines. Zero-quantity lines
// contribute nothing but stay listed.
func (c *Cart) Total() float64 {
	var total float64
	for _, l := range c.lines {
		total += l.Subtotal()
	}
	return total
}

// Lines returns a copy in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) Clear() {
	if len(c.lines) == 0 {
		return
	}
	c.lines = nil
	c.notify()
}

// Items returns the sellable lines, quantity above zero only, as sale
// items with the cart-cached unit prices.
func (c *Cart) Items() []domain.SaleItem {
	var items []domain.SaleItem
	for _, l := range c.lines {
		if l.Qty <= 0 {
			continue
		}
		items = append(items, domain.SaleItem{
			ProductID: l.ProductID,
			Qty:       l.Qty,
			UnitPrice: l.UnitPrice,
		})
	}
	return items
}

func (c *Cart) index(productID int64) int {
	for i, l := range c.lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}

func clamp(qty, stock int) int {
	if stock < 0 {
		stock = 0
	}
	if qty < 0 {
		return 0
	}
	if qty > stock {
		return stock
	}
	return qty
}
