package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/mrodal/stockpos/internal/adapter/httphandler"
	"github.com/mrodal/stockpos/internal/core/domain"
)

func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	const op = "Client.ListProducts"

	var body []httphandler.Product
	if err := c.getJSON(ctx, "/v1/products", &body); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	products := make([]domain.Product, len(body))
	for i, p := range body {
		products[i] = fromProductJSON(p)
	}
	return products, nil
}

func (c *Client) CreateProduct(
	ctx context.Context, d domain.ProductDraft,
) (domain.Product, error) {
	const op = "Client.CreateProduct"

	in := httphandler.ProductCreate{
		Name:     d.Name,
		SKU:      d.SKU,
		Price:    d.Price,
		Cost:     d.Cost,
		Stock:    d.Stock,
		StockMin: d.StockMin,
	}

	var body httphandler.Product
	if err := c.do(ctx, http.MethodPost, "/v1/products", in, &body); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return fromProductJSON(body), nil
}

func (c *Client) UpdateProduct(
	ctx context.Context, id int64, patch domain.ProductPatch,
) (domain.Product, error) {
	const op = "Client.UpdateProduct"

	in := httphandler.ProductUpdate{
		Name:     patch.Name,
		SKU:      patch.SKU,
		Price:    patch.Price,
		Cost:     patch.Cost,
		Stock:    patch.Stock,
		StockMin: patch.StockMin,
		IsActive: patch.Active,
	}

	var body httphandler.Product
	path := "/v1/products/" + strconv.FormatInt(id, 10)
	if err := c.do(ctx, http.MethodPatch, path, in, &body); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return fromProductJSON(body), nil
}

func (c *Client) CreateSale(
	ctx context.Context, d domain.SaleDraft,
) (domain.Sale, error) {
	const op = "Client.CreateSale"

	in := httphandler.SaleCreate{
		PaymentMethod: string(d.PaymentMethod),
	}
	for _, it := range d.Items {
		in.Items = append(in.Items, httphandler.SaleItem{
			ProductID: it.ProductID,
			Qty:       it.Qty,
			UnitPrice: it.UnitPrice,
		})
	}

	var body httphandler.Sale
	if err := c.do(ctx, http.MethodPost, "/v1/sales", in, &body); err != nil {
		return domain.Sale{}, fmt.Errorf("%s: %w", op, err)
	}
	return fromSaleJSON(body), nil
}

func (c *Client) ListSales(ctx context.Context) ([]domain.Sale, error) {
	const op = "Client.ListSales"

	var body []httphandler.Sale
	if err := c.getJSON(ctx, "/v1/sales", &body); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sales := make([]domain.Sale, len(body))
	for i, s := range body {
		sales[i] = fromSaleJSON(s)
	}
	return sales, nil
}

func (c *Client) SalesSummary(
	ctx context.Context, from, to time.Time,
) (domain.SalesSummary, error) {
	const op = "Client.SalesSummary"

	var body httphandler.SalesSummary
	path := "/v1/reports/sales/summary?" + dateQuery(from, to)
	if err := c.getJSON(ctx, path, &body); err != nil {
		return domain.SalesSummary{}, fmt.Errorf("%s: %w", op, err)
	}

	return domain.SalesSummary{
		From:            from,
		To:              to,
		Count:           body.CountSales,
		Total:           body.Total,
		ByPaymentMethod: toMethodMap(body.ByPaymentMethod),
	}, nil
}

func (c *Client) SalesDaily(
	ctx context.Context, from, to time.Time,
) ([]domain.DailySales, error) {
	const op = "Client.SalesDaily"

	var body httphandler.SalesDaily
	path := "/v1/reports/sales/daily?" + dateQuery(from, to)
	if err := c.getJSON(ctx, path, &body); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	days := make([]domain.DailySales, len(body.Days))
	for i, d := range body.Days {
		days[i] = domain.DailySales{
			Date:            d.Date,
			Count:           d.CountSales,
			Total:           d.Total,
			ByPaymentMethod: toMethodMap(d.ByPaymentMethod),
		}
	}
	return days, nil
}

func (c *Client) ExportSalesCSV(
	ctx context.Context, from, to time.Time,
) ([]byte, error) {
	const op = "Client.ExportSalesCSV"

	path := "/v1/reports/sales/export.csv?" + dateQuery(from, to)
	b, err := c.getBytes(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return b, nil
}

func (c *Client) ExportDailyCSV(
	ctx context.Context, from, to time.Time,
) ([]byte, error) {
	const op = "Client.ExportDailyCSV"

	path := "/v1/reports/sales/daily/export.csv?" + dateQuery(from, to)
	b, err := c.getBytes(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return b, nil
}

func fromProductJSON(p httphandler.Product) domain.Product {
	return domain.Product{
		ID:        p.ID,
		Name:      p.Name,
		SKU:       p.SKU,
		Price:     p.Price,
		Cost:      p.Cost,
		Stock:     p.Stock,
		StockMin:  p.StockMin,
		Active:    p.IsActive,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func fromSaleJSON(s httphandler.Sale) domain.Sale {
	out := domain.Sale{
		ID:            s.ID,
		Total:         s.Total,
		PaymentMethod: domain.PaymentMethod(s.PaymentMethod),
		CreatedAt:     s.CreatedAt,
	}
	for _, it := range s.Items {
		out.Items = append(out.Items, domain.SaleItem{
			ProductID: it.ProductID,
			Qty:       it.Qty,
			UnitPrice: it.UnitPrice,
		})
	}
	return out
}

func toMethodMap(m map[string]float64) map[domain.PaymentMethod]float64 {
	out := make(map[domain.PaymentMethod]float64, len(m))
	for k, v := range m {
		out[domain.PaymentMethod(k)] = v
	}
	return out
}
