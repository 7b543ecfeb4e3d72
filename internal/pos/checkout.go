package pos

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrodal/stockpos/internal/core/domain"
	"github.com/mrodal/stockpos/internal/core/port"
)

var (
	// ErrNotConfirming is returned when Confirm or Cancel runs without a
	// pending confirmation.
	ErrNotConfirming = errors.New("no checkout awaiting confirmation")

	// ErrRefresh marks a post-sale refresh failure. The sale already
	// happened; the cart is not re-opened.
	ErrRefresh = errors.New("post-sale refresh failed")
)

type CheckoutState int

const (
	StateIdle CheckoutState = iota
	StateAwaitingConfirmation
)

func (s CheckoutState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingConfirmation:
		return "awaiting-confirmation"
	}
	return "unknown"
}

// History caches the sale list fetched from the reporting collaborator.
type History struct {
	reader port.SalesReader
	sales  []domain.Sale
}

func NewHistory(reader port.SalesReader) *History {
	return &History{reader: reader}
}

func (h *History) Refresh(ctx context.Context) error {
	const op = "History.Refresh"

	ss, err := h.reader.ListSales(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	h.sales = ss
	return nil
}

func (h *History) Sales() []domain.Sale {
	return h.sales
}

// Checkout validates and commits the cart as a single transaction and
// resynchronizes local state afterwards. The confirmation step is a
// two-state machine: Begin moves to awaiting-confirmation, Confirm
// submits, Cancel aborts with no state change.
type Checkout struct {
	cart    *Cart
	catalog *Catalog
	creator port.SaleCreator
	history *History

	payment domain.PaymentMethod
	state   CheckoutState
}

func NewCheckout(
	cart *Cart,
	catalog *Catalog,
	creator port.SaleCreator,
	history *History,
) *Checkout {
	return &Checkout{
		cart:    cart,
		catalog: catalog,
		creator: creator,
		history: history,
		payment: domain.PaymentUnspecified,
	}
}

func (c *Checkout) SetPaymentMethod(m domain.PaymentMethod) error {
	if !m.Valid() {
		return domain.ErrInvalidPaymentMethod
	}
	c.payment = m
	return nil
}

func (c *Checkout) PaymentMethod() domain.PaymentMethod {
	return c.payment
}

func (c *Checkout) State() CheckoutState {
	return c.state
}

// Begin opens the confirmation step. The cart must contain at least one
// line with quantity above zero; otherwise the sale-creation
// collaborator is never called.
func (c *Checkout) Begin() error {
	if len(c.cart.Items()) == 0 {
		return domain.ErrCartEmpty
	}
	c.state = StateAwaitingConfirmation
	return nil
}

// Cancel aborts a pending confirmation with no state change.
func (c *Checkout) Cancel() error {
	if c.state != StateAwaitingConfirmation {
		return ErrNotConfirming
	}
	c.state = StateIdle
	return nil
}

// Confirm commits a pending confirmation.
func (c *Checkout) Confirm(ctx context.Context) (domain.Sale, error) {
	if c.state != StateAwaitingConfirmation {
		return domain.Sale{}, ErrNotConfirming
	}
	c.state = StateIdle
	return c.Submit(ctx)
}

// Submit sends the cart as one atomic request. Only lines with quantity
// above zero are included, priced with the cart-cached unit prices.
// Stock is not re-validated client-side; the server is the source of
// truth and may reject.
//
// On success the whole cart is cleared and both the catalog and the
// sale history are refreshed; a refresh failure is reported wrapped in
// ErrRefresh, with the sale kept. On failure the cart is left untouched
// so the user can adjust and retry.
func (c *Checkout) Submit(ctx context.Context) (domain.Sale, error) {
	const op = "Checkout.Submit"

	items := c.cart.Items()
	if len(items) == 0 {
		return domain.Sale{}, domain.ErrCartEmpty
	}

	draft := domain.SaleDraft{PaymentMethod: c.payment, Items: items}
	sale, err := c.creator.CreateSale(ctx, draft)
	if err != nil {
		return domain.Sale{}, fmt.Errorf("%s: %w", op, err)
	}

	c.cart.Clear()

	refreshErr := errors.Join(
		c.catalog.Refresh(ctx),
		c.history.Refresh(ctx),
	)
	if refreshErr != nil {
		return sale, fmt.Errorf("%s: %w: %w", op, ErrRefresh, refreshErr)
	}
	return sale, nil
}
