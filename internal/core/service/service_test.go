package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mrodal/stockpos/internal/core/domain"
	"github.com/mrodal/stockpos/internal/core/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockProductsStorage struct {
	mock.Mock
}

func (m *MockProductsStorage) CreateProduct(
	ctx context.Context, d domain.ProductDraft,
) (domain.Product, error) {
	args := m.Called(ctx, d)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockProductsStorage) ListProducts(
	ctx context.Context, includeInactive bool,
) ([]domain.Product, error) {
	args := m.Called(ctx, includeInactive)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockProductsStorage) GetProduct(
	ctx context.Context, id int64,
) (domain.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockProductsStorage) UpdateProduct(
	ctx context.Context, id int64, p domain.ProductPatch,
) (domain.Product, error) {
	args := m.Called(ctx, id, p)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockProductsStorage) DeleteProduct(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockSalesStorage struct {
	mock.Mock
}

func (m *MockSalesStorage) CreateSale(
	ctx context.Context, d domain.SaleDraft,
) (domain.Sale, error) {
	args := m.Called(ctx, d)
	return args.Get(0).(domain.Sale), args.Error(1)
}

func (m *MockSalesStorage) ListSales(ctx context.Context) ([]domain.Sale, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Sale), args.Error(1)
}

func (m *MockSalesStorage) SalesInRange(
	ctx context.Context, from, to time.Time,
) ([]domain.Sale, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]domain.Sale), args.Error(1)
}

func (m *MockSalesStorage) SaleRowsInRange(
	ctx context.Context, from, to time.Time,
) ([]domain.SaleCSVRow, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]domain.SaleCSVRow), args.Error(1)
}

type MockSaleEventProducer struct {
	mock.Mock
}

func (m *MockSaleEventProducer) ProduceSale(
	ctx context.Context, s domain.Sale,
) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func TestCreateProduct(t *testing.T) {
	t.Run("TrimsNameAndDelegates", func(t *testing.T) {
		products := new(MockProductsStorage)
		s := service.New(products, nil, nil, nil)

		draft := domain.ProductDraft{Name: "Yerba", Price: 10, Stock: 3}
		products.On("CreateProduct", mock.Anything, draft).
			Return(domain.Product{ID: 1, Name: "Yerba"}, nil)

		p, err := s.CreateProduct(t.Context(), domain.ProductDraft{
			Name: "  Yerba  ", Price: 10, Stock: 3,
		})

		require.NoError(t, err)
		assert.Equal(t, int64(1), p.ID)
		products.AssertExpectations(t)
	})

	t.Run("NameRequired", func(t *testing.T) {
		s := service.New(new(MockProductsStorage), nil, nil, nil)

		_, err := s.CreateProduct(t.Context(), domain.ProductDraft{Name: "   "})

		assert.ErrorIs(t, err, domain.ErrNameRequired)
	})

	t.Run("RejectsNegativeValues", func(t *testing.T) {
		s := service.New(new(MockProductsStorage), nil, nil, nil)

		_, err := s.CreateProduct(t.Context(), domain.ProductDraft{
			Name: "Yerba", Price: -1,
		})

		assert.ErrorIs(t, err, domain.ErrNegativeValue)
	})
}

func TestUpdateProduct(t *testing.T) {
	t.Run("EmptyNamePatchRejected", func(t *testing.T) {
		s := service.New(new(MockProductsStorage), nil, nil, nil)
		empty := " "

		_, err := s.UpdateProduct(t.Context(), 1, domain.ProductPatch{Name: &empty})

		assert.ErrorIs(t, err, domain.ErrNameRequired)
	})

	t.Run("NegativeStockPatchRejected", func(t *testing.T) {
		s := service.New(new(MockProductsStorage), nil, nil, nil)
		negative := -3

		_, err := s.UpdateProduct(t.Context(), 1, domain.ProductPatch{Stock: &negative})

		assert.ErrorIs(t, err, domain.ErrNegativeValue)
	})
}

func TestCreateSale(t *testing.T) {
	draft := domain.SaleDraft{
		PaymentMethod: domain.PaymentCash,
		Items:         []domain.SaleItem{{ProductID: 1, Qty: 2, UnitPrice: 10}},
	}

	t.Run("DelegatesAndProducesEvent", func(t *testing.T) {
		sales := new(MockSalesStorage)
		events := new(MockSaleEventProducer)
		s := service.New(nil, sales, nil, events)

		sale := domain.Sale{ID: 5, Total: 20, PaymentMethod: domain.PaymentCash}
		sales.On("CreateSale", mock.Anything, draft).Return(sale, nil)
		events.On("ProduceSale", mock.Anything, sale).Return(nil)

		got, err := s.CreateSale(t.Context(), draft)

		require.NoError(t, err)
		assert.Equal(t, sale, got)
		sales.AssertExpectations(t)
		events.AssertExpectations(t)
	})

	t.Run("EventFailureDoesNotFailSale", func(t *testing.T) {
		sales := new(MockSalesStorage)
		events := new(MockSaleEventProducer)
		s := service.New(nil, sales, nil, events)

		sale := domain.Sale{ID: 6}
		sales.On("CreateSale", mock.Anything, draft).Return(sale, nil)
		events.On("ProduceSale", mock.Anything, sale).
			Return(errors.New("broker unavailable"))

		got, err := s.CreateSale(t.Context(), draft)

		require.NoError(t, err)
		assert.Equal(t, sale, got)
	})

	t.Run("EmptyPaymentMethodFoldsToUnspecified", func(t *testing.T) {
		sales := new(MockSalesStorage)
		s := service.New(nil, sales, nil, nil)

		want := draft
		want.PaymentMethod = domain.PaymentUnspecified
		sales.On("CreateSale", mock.Anything, want).Return(domain.Sale{ID: 1}, nil)

		in := draft
		in.PaymentMethod = ""
		_, err := s.CreateSale(t.Context(), in)

		require.NoError(t, err)
		sales.AssertExpectations(t)
	})

	t.Run("UnknownPaymentMethodRejected", func(t *testing.T) {
		sales := new(MockSalesStorage)
		s := service.New(nil, sales, nil, nil)

		in := draft
		in.PaymentMethod = "BITCOIN"
		_, err := s.CreateSale(t.Context(), in)

		assert.ErrorIs(t, err, domain.ErrInvalidPaymentMethod)
		sales.AssertNotCalled(t, "CreateSale", mock.Anything, mock.Anything)
	})

	t.Run("NoItemsRejected", func(t *testing.T) {
		sales := new(MockSalesStorage)
		s := service.New(nil, sales, nil, nil)

		_, err := s.CreateSale(t.Context(), domain.SaleDraft{
			PaymentMethod: domain.PaymentCash,
		})

		assert.ErrorIs(t, err, domain.ErrCartEmpty)
		sales.AssertNotCalled(t, "CreateSale", mock.Anything, mock.Anything)
	})

	t.Run("ZeroQtyItemRejected", func(t *testing.T) {
		sales := new(MockSalesStorage)
		s := service.New(nil, sales, nil, nil)

		in := draft
		in.Items = []domain.SaleItem{{ProductID: 1, Qty: 0, UnitPrice: 10}}
		_, err := s.CreateSale(t.Context(), in)

		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	})
}

func TestAdjustStock(t *testing.T) {
	t.Run("InvalidReason", func(t *testing.T) {
		s := service.New(nil, nil, nil, nil)

		_, err := s.AdjustStock(t.Context(), 1, 5, "GIFT", "")

		assert.ErrorIs(t, err, domain.ErrInvalidReason)
	})
}
