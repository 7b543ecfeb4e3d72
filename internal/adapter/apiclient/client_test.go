package apiclient_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mrodal/stockpos/internal/adapter/apiclient"
	"github.com/mrodal/stockpos/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, h http.Handler) *apiclient.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := apiclient.New(srv.URL)
	require.NoError(t, err)
	return c
}

func TestListProducts(t *testing.T) {
	t.Run("OK", func(t *testing.T) {
		h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/products", r.URL.Path)
			json.NewEncoder(w).Encode([]map[string]any{
				{"id": 1, "name": "Yerba", "sku": "Y-1", "price": 10.5, "stock": 3, "is_active": true},
				{"id": 2, "name": "Azucar", "price": 5.0, "stock": 0, "is_active": true},
			})
		})

		products, err := newClient(t, h).ListProducts(t.Context())
		require.NoError(t, err)

		require.Len(t, products, 2)
		assert.Equal(t, int64(1), products[0].ID)
		assert.Equal(t, "Y-1", products[0].SKU)
		assert.Equal(t, 3, products[0].Stock)
		assert.Empty(t, products[1].SKU)
	})

	t.Run("RetriesServerErrors", func(t *testing.T) {
		var calls atomic.Int32
		h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(map[string]string{"detail": "internal error"})
				return
			}
			json.NewEncoder(w).Encode([]map[string]any{})
		})

		_, err := newClient(t, h).ListProducts(t.Context())
		require.NoError(t, err)
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("NoRetryOnClientError", func(t *testing.T) {
		var calls atomic.Int32
		h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"detail": "bad request"})
		})

		_, err := newClient(t, h).ListProducts(t.Context())
		require.Error(t, err)
		assert.Equal(t, int32(1), calls.Load())
	})
}

func TestCreateSale(t *testing.T) {
	t.Run("OK", func(t *testing.T) {
		h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/v1/sales", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var in struct {
				PaymentMethod string `json:"payment_method"`
				Items         []struct {
					ProductID int64   `json:"product_id"`
					Qty       int     `json:"qty"`
					UnitPrice float64 `json:"unit_price"`
				} `json:"items"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			assert.Equal(t, "CASH", in.PaymentMethod)
			require.Len(t, in.Items, 1)

			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]any{
				"id": 7, "total": 20.0, "payment_method": "CASH",
				"created_at": "2026-08-30T12:00:00Z",
				"items": []map[string]any{
					{"product_id": 1, "qty": 2, "unit_price": 10.0},
				},
			})
		})

		draft := domain.SaleDraft{
			PaymentMethod: domain.PaymentCash,
			Items:         []domain.SaleItem{{ProductID: 1, Qty: 2, UnitPrice: 10}},
		}
		sale, err := newClient(t, h).CreateSale(t.Context(), draft)
		require.NoError(t, err)

		assert.Equal(t, int64(7), sale.ID)
		assert.InDelta(t, 20, sale.Total, 1e-9)
		require.Len(t, sale.Items, 1)
	})

	t.Run("RejectionDetailVerbatim", func(t *testing.T) {
		const detail = "insufficient stock for 'Yerba': available 1, requested 2"
		var calls atomic.Int32
		h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"detail": detail})
		})

		_, err := newClient(t, h).CreateSale(t.Context(), domain.SaleDraft{
			PaymentMethod: domain.PaymentCash,
			Items:         []domain.SaleItem{{ProductID: 1, Qty: 2, UnitPrice: 10}},
		})
		require.Error(t, err)

		var remote *domain.RemoteError
		require.ErrorAs(t, err, &remote)
		assert.Equal(t, http.StatusBadRequest, remote.Status)
		assert.Equal(t, detail, remote.Detail)

		// Writes never retry.
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("NonJSONErrorBody", func(t *testing.T) {
		h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "Unsupported Media Type", http.StatusUnsupportedMediaType)
		})

		_, err := newClient(t, h).CreateSale(t.Context(), domain.SaleDraft{})
		require.Error(t, err)

		var remote *domain.RemoteError
		require.ErrorAs(t, err, &remote)
		assert.Equal(t, "Unsupported Media Type", remote.Detail)
	})
}

func TestSalesSummary(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/reports/sales/summary", r.URL.Path)
		assert.Equal(t, "2026-08-01", r.URL.Query().Get("from"))
		assert.Equal(t, "2026-08-03", r.URL.Query().Get("to"))
		json.NewEncoder(w).Encode(map[string]any{
			"from": "2026-08-01", "to": "2026-08-03",
			"count_sales": 2, "total": 30.5,
			"by_payment_method": map[string]float64{"CASH": 30.5},
		})
	})

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	sum, err := newClient(t, h).SalesSummary(t.Context(), from, to)
	require.NoError(t, err)

	assert.Equal(t, 2, sum.Count)
	assert.InDelta(t, 30.5, sum.ByPaymentMethod[domain.PaymentCash], 1e-9)
}

func TestExportSalesCSV(t *testing.T) {
	const csvBody = "sale_id,sale_datetime\n1,2026-08-01T09:00:00Z\n"
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/reports/sales/export.csv", r.URL.Path)
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Write([]byte(csvBody))
	})

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	b, err := newClient(t, h).ExportSalesCSV(t.Context(), from, to)
	require.NoError(t, err)
	assert.Equal(t, csvBody, string(b))
	assert.True(t, strings.HasPrefix(string(b), "sale_id"))
}
