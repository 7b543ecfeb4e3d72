package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mrodal/stockpos/internal/core/domain"
	"github.com/mrodal/stockpos/internal/core/port"
)

var _ port.CatalogService = (*Service)(nil)
var _ port.SalesService = (*Service)(nil)
var _ port.ReportsService = (*Service)(nil)
var _ port.StockService = (*Service)(nil)

type Service struct {
	products port.ProductsStorage
	sales    port.SalesStorage
	stock    port.StockStorage
	events   port.SaleEventProducer
}

func New(
	products port.ProductsStorage,
	sales port.SalesStorage,
	stock port.StockStorage,
	events port.SaleEventProducer,
) Service {
	return Service{
		products: products,
		sales:    sales,
		stock:    stock,
		events:   events,
	}
}

func (s Service) CreateProduct(
	ctx context.Context, draft domain.ProductDraft,
) (domain.Product, error) {
	const op = "Service.CreateProduct"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	draft.Name = strings.TrimSpace(draft.Name)
	if err := validateDraft(draft); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	p, err := s.products.CreateProduct(ctx, draft)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func (s Service) ListProducts(
	ctx context.Context, includeInactive bool,
) ([]domain.Product, error) {
	const op = "Service.ListProducts"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ps, err := s.products.ListProducts(ctx, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

func (s Service) GetProduct(
	ctx context.Context, id int64,
) (domain.Product, error) {
	const op = "Service.GetProduct"

	p, err := s.products.GetProduct(ctx, id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func (s Service) UpdateProduct(
	ctx context.Context, id int64, patch domain.ProductPatch,
) (domain.Product, error) {
	const op = "Service.UpdateProduct"

	if err := validatePatch(patch); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	p, err := s.products.UpdateProduct(ctx, id, patch)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func (s Service) DeleteProduct(ctx context.Context, id int64) error {
	const op = "Service.DeleteProduct"

	if err := s.products.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// CreateSale commits the draft transactionally and publishes the
// sale-created event. A publish failure is logged and never fails the
// committed sale.
func (s Service) CreateSale(
	ctx context.Context, draft domain.SaleDraft,
) (domain.Sale, error) {
	const op = "Service.CreateSale"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return domain.Sale{}, fmt.Errorf("%s: %w", op, err)
	}

	if draft.PaymentMethod == "" {
		draft.PaymentMethod = domain.PaymentUnspecified
	}
	if !draft.PaymentMethod.Valid() {
		return domain.Sale{}, fmt.Errorf("%s: %w", op, domain.ErrInvalidPaymentMethod)
	}
	if len(draft.Items) == 0 {
		return domain.Sale{}, fmt.Errorf("%s: %w", op, domain.ErrCartEmpty)
	}
	for _, it := range draft.Items {
		if it.Qty <= 0 {
			return domain.Sale{}, fmt.Errorf("%s: %w", op, domain.ErrInvalidQuantity)
		}
	}

	sale, err := s.sales.CreateSale(ctx, draft)
	if err != nil {
		return domain.Sale{}, fmt.Errorf("%s: %w", op, err)
	}

	if s.events != nil {
		if err := s.events.ProduceSale(ctx, sale); err != nil {
			log.Error("failed to produce sale event", "saleID", sale.ID, "err", err)
		}
	}

	return sale, nil
}

func (s Service) ListSales(ctx context.Context) ([]domain.Sale, error) {
	const op = "Service.ListSales"

	ss, err := s.sales.ListSales(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ss, nil
}

func (s Service) AdjustStock(
	ctx context.Context, productID int64, change int,
	reason domain.StockMovementReason, note string,
) (domain.Product, error) {
	const op = "Service.AdjustStock"

	if !reason.Valid() {
		return domain.Product{}, fmt.Errorf("%s: %w", op, domain.ErrInvalidReason)
	}

	p, err := s.stock.AdjustStock(ctx, productID, change, reason, note)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func (s Service) ListStockMovements(
	ctx context.Context, productID int64,
) ([]domain.StockMovement, error) {
	const op = "Service.ListStockMovements"

	ms, err := s.stock.ListStockMovements(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ms, nil
}

func validateDraft(d domain.ProductDraft) error {
	if d.Name == "" {
		return domain.ErrNameRequired
	}
	if d.Price < 0 || d.Cost < 0 || d.Stock < 0 || d.StockMin < 0 {
		return domain.ErrNegativeValue
	}
	return nil
}

func validatePatch(p domain.ProductPatch) error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return domain.ErrNameRequired
	}
	if (p.Price != nil && *p.Price < 0) ||
		(p.Cost != nil && *p.Cost < 0) ||
		(p.Stock != nil && *p.Stock < 0) ||
		(p.StockMin != nil && *p.StockMin < 0) {
		return domain.ErrNegativeValue
	}
	return nil
}
