package port

import (
	"context"
	"time"

	"github.com/mrodal/stockpos/internal/core/domain"
)

// Storage ports consumed by the core service.

type ProductsStorage interface {
	CreateProduct(context.Context, domain.ProductDraft) (domain.Product, error)
	ListProducts(ctx context.Context, includeInactive bool) ([]domain.Product, error)
	GetProduct(context.Context, int64) (domain.Product, error)
	UpdateProduct(context.Context, int64, domain.ProductPatch) (domain.Product, error)
	DeleteProduct(context.Context, int64) error
}

type SalesStorage interface {
	// CreateSale commits the sale, decrements stock and records the
	// movements in one transaction.
	CreateSale(context.Context, domain.SaleDraft) (domain.Sale, error)
	ListSales(context.Context) ([]domain.Sale, error)
	SalesInRange(ctx context.Context, from, to time.Time) ([]domain.Sale, error)
	SaleRowsInRange(ctx context.Context, from, to time.Time) ([]domain.SaleCSVRow, error)
}

type StockStorage interface {
	AdjustStock(ctx context.Context, productID int64, change int,
		reason domain.StockMovementReason, note string) (domain.Product, error)
	ListStockMovements(ctx context.Context, productID int64) ([]domain.StockMovement, error)
}

// SaleEventProducer publishes committed sales to the event stream.
type SaleEventProducer interface {
	ProduceSale(context.Context, domain.Sale) error
}

// Service ports consumed by the HTTP handlers.

type CatalogService interface {
	CreateProduct(context.Context, domain.ProductDraft) (domain.Product, error)
	ListProducts(ctx context.Context, includeInactive bool) ([]domain.Product, error)
	GetProduct(context.Context, int64) (domain.Product, error)
	UpdateProduct(context.Context, int64, domain.ProductPatch) (domain.Product, error)
	DeleteProduct(context.Context, int64) error
}

type SalesService interface {
	CreateSale(context.Context, domain.SaleDraft) (domain.Sale, error)
	ListSales(context.Context) ([]domain.Sale, error)
}

type ReportsService interface {
	SalesSummary(ctx context.Context, from, to time.Time) (domain.SalesSummary, error)
	SalesDaily(ctx context.Context, from, to time.Time) ([]domain.DailySales, error)
	SalesCSVRows(ctx context.Context, from, to time.Time) ([]domain.SaleCSVRow, error)
}

type StockService interface {
	AdjustStock(ctx context.Context, productID int64, change int,
		reason domain.StockMovementReason, note string) (domain.Product, error)
	ListStockMovements(ctx context.Context, productID int64) ([]domain.StockMovement, error)
}

// Collaborator ports consumed by the point-of-sale engine. The concrete
// transport lives behind these contracts.

type CatalogProvider interface {
	ListProducts(context.Context) ([]domain.Product, error)
}

type SaleCreator interface {
	CreateSale(context.Context, domain.SaleDraft) (domain.Sale, error)
}

type SalesReader interface {
	ListSales(context.Context) ([]domain.Sale, error)
}

type ReportsReader interface {
	SalesSummary(ctx context.Context, from, to time.Time) (domain.SalesSummary, error)
	SalesDaily(ctx context.Context, from, to time.Time) ([]domain.DailySales, error)
	ExportSalesCSV(ctx context.Context, from, to time.Time) ([]byte, error)
	ExportDailyCSV(ctx context.Context, from, to time.Time) ([]byte, error)
}
