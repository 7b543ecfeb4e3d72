package httphandler

import (
	"time"

	"github.com/mrodal/stockpos/internal/core/domain"
)

type (
	Product struct {
		ID        int64     `json:"id"`
		Name      string    `json:"name"`
		SKU       string    `json:"sku,omitempty"`
		Price     float64   `json:"price"`
		Cost      float64   `json:"cost"`
		Stock     int       `json:"stock"`
		StockMin  int       `json:"stock_min"`
		IsActive  bool      `json:"is_active"`
		CreatedAt time.Time `json:"created_at"`
		UpdatedAt time.Time `json:"updated_at"`
	}

	ProductCreate struct {
		Name     string  `json:"name"`
		SKU      string  `json:"sku"`
		Price    float64 `json:"price"`
		Cost     float64 `json:"cost"`
		Stock    int     `json:"stock"`
		StockMin int     `json:"stock_min"`
	}

	ProductUpdate struct {
		Name     *string  `json:"name"`
		SKU      *string  `json:"sku"`
		Price    *float64 `json:"price"`
		Cost     *float64 `json:"cost"`
		Stock    *int     `json:"stock"`
		StockMin *int     `json:"stock_min"`
		IsActive *bool    `json:"is_active"`
	}

	SaleItem struct {
		ProductID int64   `json:"product_id"`
		Qty       int     `json:"qty"`
		UnitPrice float64 `json:"unit_price"`
	}

	SaleCreate struct {
		PaymentMethod string     `json:"payment_method"`
		Items         []SaleItem `json:"items"`
	}

	Sale struct {
		ID            int64      `json:"id"`
		Total         float64    `json:"total"`
		PaymentMethod string     `json:"payment_method"`
		CreatedAt     time.Time  `json:"created_at"`
		Items         []SaleItem `json:"items"`
	}

	SalesSummary struct {
		From            string             `json:"from"`
		To              string             `json:"to"`
		CountSales      int                `json:"count_sales"`
		Total           float64            `json:"total"`
		ByPaymentMethod map[string]float64 `json:"by_payment_method"`
	}

	DailySales struct {
		Date            string             `json:"date"`
		CountSales      int                `json:"count_sales"`
		Total           float64            `json:"total"`
		ByPaymentMethod map[string]float64 `json:"by_payment_method"`
	}

	SalesDaily struct {
		From string       `json:"from"`
		To   string       `json:"to"`
		Days []DailySales `json:"days"`
	}

	StockAdjust struct {
		Change int    `json:"change"`
		Reason string `json:"reason"`
		Note   string `json:"note"`
	}

	StockMovement struct {
		ID        int64     `json:"id"`
		ProductID int64     `json:"product_id"`
		Change    int       `json:"change"`
		Reason    string    `json:"reason"`
		Reference string    `json:"reference,omitempty"`
		Note      string    `json:"note,omitempty"`
		CreatedAt time.Time `json:"created_at"`
	}

	// ErrorResponse carries the failure detail verbatim, so clients can
	// surface the server-side message without rewording it.
	ErrorResponse struct {
		Detail string `json:"detail"`
	}
)

func toProductJSON(p domain.Product) Product {
	return Product{
		ID:        p.ID,
		Name:      p.Name,
		SKU:       p.SKU,
		Price:     p.Price,
		Cost:      p.Cost,
		Stock:     p.Stock,
		StockMin:  p.StockMin,
		IsActive:  p.Active,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toSaleJSON(s domain.Sale) Sale {
	out := Sale{
		ID:            s.ID,
		Total:         s.Total,
		PaymentMethod: string(s.PaymentMethod),
		CreatedAt:     s.CreatedAt,
	}
	for _, it := range s.Items {
		out.Items = append(out.Items, SaleItem{
			ProductID: it.ProductID,
			Qty:       it.Qty,
			UnitPrice: it.UnitPrice,
		})
	}
	return out
}

func toMethodMapJSON(m map[domain.PaymentMethod]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for pm, v := range m {
		out[string(pm)] = v
	}
	return out
}
