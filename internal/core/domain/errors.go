package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrCartEmpty is returned when a checkout starts with no sellable lines.
	ErrCartEmpty = errors.New("cart has no items with quantity above zero")

	// ErrNoMatch is returned when quick-match finds no product.
	ErrNoMatch = errors.New("no product matches the query")

	// ErrOutOfStock is returned when the matched product has no cached stock.
	ErrOutOfStock = errors.New("product is out of stock")

	ErrProductNotFound = errors.New("product not found")
	ErrSKUTaken        = errors.New("sku already exists")
	ErrNameRequired    = errors.New("product name is required")
	ErrNegativeValue   = errors.New("value must not be negative")

	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrInvalidQuantity      = errors.New("quantity must be above zero")
	ErrInvalidReason        = errors.New("invalid stock movement reason")
	ErrNegativeStock        = errors.New("stock would become negative")
)

// InsufficientStockError is raised by the sale transaction when the
// requested quantity exceeds the available stock.
type InsufficientStockError struct {
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf(
		"insufficient stock for %q: available %d, requested %d",
		e.ProductName, e.Available, e.Requested,
	)
}

// RemoteError carries a collaborator rejection verbatim, so the point of
// sale can surface the server-side detail without rewording it.
type RemoteError struct {
	Status int
	Detail string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote rejected request (%d): %s", e.Status, e.Detail)
}
