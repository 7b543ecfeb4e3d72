package pos_test

import (
	"context"
	"errors"
	"testing"

	"github.com/mrodal/stockpos/internal/core/domain"
	"github.com/mrodal/stockpos/internal/pos"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSaleCreator struct {
	mock.Mock
}

func (m *MockSaleCreator) CreateSale(
	ctx context.Context, draft domain.SaleDraft,
) (domain.Sale, error) {
	args := m.Called(ctx, draft)
	return args.Get(0).(domain.Sale), args.Error(1)
}

type countingCatalogProvider struct {
	calls    int
	products []domain.Product
	err      error
}

func (p *countingCatalogProvider) ListProducts(context.Context) ([]domain.Product, error) {
	p.calls++
	return p.products, p.err
}

type countingSalesReader struct {
	calls int
	sales []domain.Sale
	err   error
}

func (r *countingSalesReader) ListSales(context.Context) ([]domain.Sale, error) {
	r.calls++
	return r.sales, r.err
}

type checkoutFixture struct {
	catalog  *pos.Catalog
	cart     *pos.Cart
	checkout *pos.Checkout
	creator  *MockSaleCreator
	provider *countingCatalogProvider
	reader   *countingSalesReader
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()

	provider := &countingCatalogProvider{products: testProducts()}
	reader := &countingSalesReader{}
	creator := new(MockSaleCreator)

	catalog := pos.NewCatalog(provider)
	catalog.Replace(testProducts())
	cart := pos.NewCart(catalog)
	history := pos.NewHistory(reader)

	return &checkoutFixture{
		catalog:  catalog,
		cart:     cart,
		checkout: pos.NewCheckout(cart, catalog, creator, history),
		creator:  creator,
		provider: provider,
		reader:   reader,
	}
}

func TestCheckoutPaymentMethod(t *testing.T) {
	f := newCheckoutFixture(t)

	assert.Equal(t, domain.PaymentUnspecified, f.checkout.PaymentMethod())

	require.NoError(t, f.checkout.SetPaymentMethod(domain.PaymentMercadoPago))
	assert.Equal(t, domain.PaymentMercadoPago, f.checkout.PaymentMethod())

	err := f.checkout.SetPaymentMethod("GIFT_CARD")
	assert.ErrorIs(t, err, domain.ErrInvalidPaymentMethod)
	assert.Equal(t, domain.PaymentMercadoPago, f.checkout.PaymentMethod())
}

func TestCheckoutEmptyCart(t *testing.T) {
	t.Run("NoLines", func(t *testing.T) {
		f := newCheckoutFixture(t)

		err := f.checkout.Begin()
		assert.ErrorIs(t, err, domain.ErrCartEmpty)

		_, err = f.checkout.Submit(t.Context())
		assert.ErrorIs(t, err, domain.ErrCartEmpty)

		f.creator.AssertNotCalled(t, "CreateSale", mock.Anything, mock.Anything)
	})

	t.Run("OnlyZeroQtyLines", func(t *testing.T) {
		f := newCheckoutFixture(t)
		f.cart.AddItem(2) // zero stock, line stays at qty 0

		err := f.checkout.Begin()
		assert.ErrorIs(t, err, domain.ErrCartEmpty)
		f.creator.AssertNotCalled(t, "CreateSale", mock.Anything, mock.Anything)
	})
}

func TestCheckoutConfirmationStates(t *testing.T) {
	f := newCheckoutFixture(t)
	f.cart.AddItem(1)

	assert.Equal(t, pos.StateIdle, f.checkout.State())
	assert.ErrorIs(t, f.checkout.Cancel(), pos.ErrNotConfirming)

	_, err := f.checkout.Confirm(t.Context())
	assert.ErrorIs(t, err, pos.ErrNotConfirming)

	require.NoError(t, f.checkout.Begin())
	assert.Equal(t, pos.StateAwaitingConfirmation, f.checkout.State())

	// Cancel aborts with no state change.
	require.NoError(t, f.checkout.Cancel())
	assert.Equal(t, pos.StateIdle, f.checkout.State())
	assert.Equal(t, 1, f.cart.Len())
	f.creator.AssertNotCalled(t, "CreateSale", mock.Anything, mock.Anything)
}

func TestCheckoutSubmit(t *testing.T) {
	t.Run("PayloadHoldsOnlySellableLines", func(t *testing.T) {
		f := newCheckoutFixture(t)
		require.NoError(t, f.checkout.SetPaymentMethod(domain.PaymentCash))
		f.cart.AddItem(1)
		f.cart.AddItem(1)
		f.cart.AddItem(2) // qty 0, excluded from the payload
		require.InDelta(t, 20.00, f.cart.Total(), 1e-9)

		wantDraft := domain.SaleDraft{
			PaymentMethod: domain.PaymentCash,
			Items: []domain.SaleItem{
				{ProductID: 1, Qty: 2, UnitPrice: 10.00},
			},
		}
		f.creator.On("CreateSale", mock.Anything, wantDraft).
			Return(domain.Sale{ID: 7, Total: 20.00}, nil)

		sale, err := f.checkout.Submit(t.Context())

		require.NoError(t, err)
		assert.Equal(t, int64(7), sale.ID)
		f.creator.AssertExpectations(t)
	})

	t.Run("SuccessClearsCartAndRefreshesOnce", func(t *testing.T) {
		f := newCheckoutFixture(t)
		f.cart.AddItem(1)
		f.creator.On("CreateSale", mock.Anything, mock.Anything).
			Return(domain.Sale{ID: 1}, nil)

		_, err := f.checkout.Submit(t.Context())

		require.NoError(t, err)
		assert.Zero(t, f.cart.Len())
		assert.Equal(t, 1, f.provider.calls)
		assert.Equal(t, 1, f.reader.calls)
	})

	t.Run("RejectionLeavesCartUntouched", func(t *testing.T) {
		f := newCheckoutFixture(t)
		f.cart.AddItem(1)
		f.cart.AddItem(1)
		f.cart.AddItem(2)
		remoteErr := &domain.RemoteError{Status: 400, Detail: "insufficient stock"}
		f.creator.On("CreateSale", mock.Anything, mock.Anything).
			Return(domain.Sale{}, remoteErr)

		_, err := f.checkout.Submit(t.Context())

		require.Error(t, err)
		var re *domain.RemoteError
		require.ErrorAs(t, err, &re)
		assert.Equal(t, "insufficient stock", re.Detail)

		lines := f.cart.Lines()
		require.Len(t, lines, 2)
		assert.Equal(t, 2, lines[0].Qty)
		assert.Equal(t, 0, lines[1].Qty)
		assert.Zero(t, f.provider.calls)
		assert.Zero(t, f.reader.calls)
	})

	t.Run("RefreshFailureKeepsSale", func(t *testing.T) {
		f := newCheckoutFixture(t)
		f.cart.AddItem(1)
		f.reader.err = errors.New("history unavailable")
		f.creator.On("CreateSale", mock.Anything, mock.Anything).
			Return(domain.Sale{ID: 3}, nil)

		sale, err := f.checkout.Submit(t.Context())

		require.ErrorIs(t, err, pos.ErrRefresh)
		assert.Equal(t, int64(3), sale.ID)
		// The sale happened: the cart stays cleared and both refreshes ran.
		assert.Zero(t, f.cart.Len())
		assert.Equal(t, 1, f.provider.calls)
		assert.Equal(t, 1, f.reader.calls)
	})
}

func TestCheckoutConfirmSubmits(t *testing.T) {
	f := newCheckoutFixture(t)
	f.cart.AddItem(1)
	f.creator.On("CreateSale", mock.Anything, mock.Anything).
		Return(domain.Sale{ID: 9}, nil)

	require.NoError(t, f.checkout.Begin())
	sale, err := f.checkout.Confirm(t.Context())

	require.NoError(t, err)
	assert.Equal(t, int64(9), sale.ID)
	assert.Equal(t, pos.StateIdle, f.checkout.State())
	assert.Zero(t, f.cart.Len())
}
