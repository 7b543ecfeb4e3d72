package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mrodal/stockpos/internal/core/domain"
	"github.com/mrodal/stockpos/internal/core/port"
)

type ProductsHandler struct {
	catalog port.CatalogService
	stock   port.StockService
}

func RegisterProducts(
	mux *http.ServeMux,
	catalog port.CatalogService,
	stock port.StockService,
) {
	h := ProductsHandler{catalog, stock}
	mux.HandleFunc("POST /v1/products", h.CreateProduct)
	mux.HandleFunc("GET /v1/products", h.ListProducts)
	mux.HandleFunc("GET /v1/products/{id}", h.GetProduct)
	mux.HandleFunc("PATCH /v1/products/{id}", h.UpdateProduct)
	mux.HandleFunc("DELETE /v1/products/{id}", h.DeleteProduct)
	mux.HandleFunc("POST /v1/products/{id}/stock", h.AdjustStock)
	mux.HandleFunc("GET /v1/products/{id}/stock-movements", h.ListStockMovements)
}

func (h ProductsHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.CreateProduct"
	log := slog.With("op", op)

	var in ProductCreate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid JSON data")
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	p, err := h.catalog.CreateProduct(r.Context(), domain.ProductDraft{
		Name:     in.Name,
		SKU:      in.SKU,
		Price:    in.Price,
		Cost:     in.Cost,
		Stock:    in.Stock,
		StockMin: in.StockMin,
	})
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeJSON(w, log, http.StatusCreated, toProductJSON(p))
	log.Info("product created", "productID", p.ID)
}

func (h ProductsHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.ListProducts"
	log := slog.With("op", op)

	includeInactive := r.URL.Query().Get("include_inactive") == "true"

	ps, err := h.catalog.ListProducts(r.Context(), includeInactive)
	if err != nil {
		writeError(w, log, err)
		return
	}

	out := make([]Product, 0, len(ps))
	for _, p := range ps {
		out = append(out, toProductJSON(p))
	}
	writeJSON(w, log, http.StatusOK, out)
}

func (h ProductsHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.GetProduct"
	log := slog.With("op", op)

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	p, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, toProductJSON(p))
}

func (h ProductsHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.UpdateProduct"
	log := slog.With("op", op)

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var in ProductUpdate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid JSON data")
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	p, err := h.catalog.UpdateProduct(r.Context(), id, domain.ProductPatch{
		Name:     in.Name,
		SKU:      in.SKU,
		Price:    in.Price,
		Cost:     in.Cost,
		Stock:    in.Stock,
		StockMin: in.StockMin,
		Active:   in.IsActive,
	})
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, toProductJSON(p))
}

func (h ProductsHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.DeleteProduct"
	log := slog.With("op", op)

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.catalog.DeleteProduct(r.Context(), id); err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, map[string]bool{"deleted": true})
	log.Info("product deleted", "productID", id)
}

func (h ProductsHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.AdjustStock"
	log := slog.With("op", op)

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var in StockAdjust
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid JSON data")
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	p, err := h.stock.AdjustStock(r.Context(), id, in.Change,
		domain.StockMovementReason(in.Reason), in.Note)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, toProductJSON(p))
	log.Info("stock adjusted", "productID", id, "change", in.Change)
}

func (h ProductsHandler) ListStockMovements(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.ListStockMovements"
	log := slog.With("op", op)

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	ms, err := h.stock.ListStockMovements(r.Context(), id)
	if err != nil {
		writeError(w, log, err)
		return
	}

	out := make([]StockMovement, 0, len(ms))
	for _, m := range ms {
		out = append(out, StockMovement{
			ID:        m.ID,
			ProductID: m.ProductID,
			Change:    m.Change,
			Reason:    string(m.Reason),
			Reference: m.Reference,
			Note:      m.Note,
			CreatedAt: m.CreatedAt,
		})
	}
	writeJSON(w, log, http.StatusOK, out)
}

type SalesHandler struct {
	sales port.SalesService
}

func RegisterSales(mux *http.ServeMux, sales port.SalesService) {
	h := SalesHandler{sales}
	mux.HandleFunc("POST /v1/sales", h.CreateSale)
	mux.HandleFunc("GET /v1/sales", h.ListSales)
}

func (h SalesHandler) CreateSale(w http.ResponseWriter, r *http.Request) {
	const op = "SalesHandler.CreateSale"
	log := slog.With("op", op)

	var in SaleCreate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid JSON data")
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	draft := domain.SaleDraft{
		PaymentMethod: domain.PaymentMethod(in.PaymentMethod),
	}
	for _, it := range in.Items {
		draft.Items = append(draft.Items, domain.SaleItem{
			ProductID: it.ProductID,
			Qty:       it.Qty,
			UnitPrice: it.UnitPrice,
		})
	}

	sale, err := h.sales.CreateSale(r.Context(), draft)
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeJSON(w, log, http.StatusCreated, toSaleJSON(sale))
	log.Info("sale created", "saleID", sale.ID, "total", sale.Total)
}

func (h SalesHandler) ListSales(w http.ResponseWriter, r *http.Request) {
	const op = "SalesHandler.ListSales"
	log := slog.With("op", op)

	ss, err := h.sales.ListSales(r.Context())
	if err != nil {
		writeError(w, log, err)
		return
	}

	out := make([]Sale, 0, len(ss))
	for _, s := range ss {
		out = append(out, toSaleJSON(s))
	}
	writeJSON(w, log, http.StatusOK, out)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, log *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to write response body", "err", err)
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Detail: detail})
}

// writeError maps domain failures onto HTTP statuses, passing the
// message through verbatim so the point of sale can show it.
func writeError(w http.ResponseWriter, log *slog.Logger, err error) {
	var insufficient *domain.InsufficientStockError

	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		writeDetail(w, http.StatusNotFound, domain.ErrProductNotFound.Error())
		return
	case errors.Is(err, domain.ErrSKUTaken):
		writeDetail(w, http.StatusConflict, domain.ErrSKUTaken.Error())
		return
	case errors.As(err, &insufficient):
		writeDetail(w, http.StatusBadRequest, insufficient.Error())
		return
	}

	badRequest := []error{
		domain.ErrNameRequired,
		domain.ErrNegativeValue,
		domain.ErrInvalidPaymentMethod,
		domain.ErrInvalidQuantity,
		domain.ErrCartEmpty,
		domain.ErrInvalidReason,
		domain.ErrNegativeStock,
	}
	for _, bad := range badRequest {
		if errors.Is(err, bad) {
			writeDetail(w, http.StatusBadRequest, bad.Error())
			return
		}
	}

	writeDetail(w, http.StatusInternalServerError, "internal error")
	log.Error("unexpected failure", "err", err)
}
