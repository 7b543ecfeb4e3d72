package httphandler

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/mrodal/stockpos/internal/core/domain"
	"github.com/mrodal/stockpos/internal/core/port"
)

type ReportsHandler struct {
	reports port.ReportsService
}

func RegisterReports(mux *http.ServeMux, reports port.ReportsService) {
	h := ReportsHandler{reports}
	mux.HandleFunc("GET /v1/reports/sales/summary", h.Summary)
	mux.HandleFunc("GET /v1/reports/sales/daily", h.Daily)
	mux.HandleFunc("GET /v1/reports/sales/export.csv", h.ExportCSV)
	mux.HandleFunc("GET /v1/reports/sales/daily/export.csv", h.ExportDailyCSV)
}

func (h ReportsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	const op = "ReportsHandler.Summary"
	log := slog.With("op", op)

	from, to, ok := dateRange(w, r)
	if !ok {
		return
	}

	summary, err := h.reports.SalesSummary(r.Context(), from, to)
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeJSON(w, log, http.StatusOK, SalesSummary{
		From:            from.Format(time.DateOnly),
		To:              to.Format(time.DateOnly),
		CountSales:      summary.Count,
		Total:           summary.Total,
		ByPaymentMethod: toMethodMapJSON(summary.ByPaymentMethod),
	})
}

func (h ReportsHandler) Daily(w http.ResponseWriter, r *http.Request) {
	const op = "ReportsHandler.Daily"
	log := slog.With("op", op)

	from, to, ok := dateRange(w, r)
	if !ok {
		return
	}

	days, err := h.reports.SalesDaily(r.Context(), from, to)
	if err != nil {
		writeError(w, log, err)
		return
	}

	out := SalesDaily{
		From: from.Format(time.DateOnly),
		To:   to.Format(time.DateOnly),
		Days: make([]DailySales, 0, len(days)),
	}
	for _, d := range days {
		out.Days = append(out.Days, DailySales{
			Date:            d.Date,
			CountSales:      d.Count,
			Total:           d.Total,
			ByPaymentMethod: toMethodMapJSON(d.ByPaymentMethod),
		})
	}
	writeJSON(w, log, http.StatusOK, out)
}

// ExportCSV streams one row per sold item in the range.
func (h ReportsHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	const op = "ReportsHandler.ExportCSV"
	log := slog.With("op", op)

	from, to, ok := dateRange(w, r)
	if !ok {
		return
	}

	rows, err := h.reports.SalesCSVRows(r.Context(), from, to)
	if err != nil {
		writeError(w, log, err)
		return
	}

	setCSVHeaders(w, fmt.Sprintf("sales_%s_to_%s.csv",
		from.Format(time.DateOnly), to.Format(time.DateOnly)))

	cw := csv.NewWriter(w)
	writeRecord(cw, log,
		"sale_id", "sale_datetime", "payment_method",
		"product_id", "product_name", "qty",
		"unit_price", "line_total", "sale_total",
	)
	for _, row := range rows {
		writeRecord(cw, log,
			strconv.FormatInt(row.SaleID, 10),
			row.SaleDatetime.Format(time.RFC3339),
			string(row.PaymentMethod),
			strconv.FormatInt(row.ProductID, 10),
			row.ProductName,
			strconv.Itoa(row.Qty),
			formatAmount(row.UnitPrice),
			formatAmount(row.LineTotal),
			formatAmount(row.SaleTotal),
		)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		log.Error("failed to write csv", "err", err)
	}
}

// ExportDailyCSV streams one row per day, with a pm_<METHOD> column for
// every payment method seen in the range, sorted by name.
func (h ReportsHandler) ExportDailyCSV(w http.ResponseWriter, r *http.Request) {
	const op = "ReportsHandler.ExportDailyCSV"
	log := slog.With("op", op)

	from, to, ok := dateRange(w, r)
	if !ok {
		return
	}

	days, err := h.reports.SalesDaily(r.Context(), from, to)
	if err != nil {
		writeError(w, log, err)
		return
	}

	methods := collectMethods(days)

	setCSVHeaders(w, fmt.Sprintf("sales_daily_%s_to_%s.csv",
		from.Format(time.DateOnly), to.Format(time.DateOnly)))

	header := []string{"date", "count_sales", "total"}
	for _, m := range methods {
		header = append(header, "pm_"+string(m))
	}

	cw := csv.NewWriter(w)
	writeRecord(cw, log, header...)
	for _, d := range days {
		record := []string{
			d.Date,
			strconv.Itoa(d.Count),
			formatAmount(d.Total),
		}
		for _, m := range methods {
			record = append(record, formatAmount(d.ByPaymentMethod[m]))
		}
		writeRecord(cw, log, record...)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		log.Error("failed to write csv", "err", err)
	}
}

func dateRange(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, bool) {
	q := r.URL.Query()

	from, err := time.Parse(time.DateOnly, q.Get("from"))
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid 'from' date")
		return time.Time{}, time.Time{}, false
	}
	to, err := time.Parse(time.DateOnly, q.Get("to"))
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid 'to' date")
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

func collectMethods(days []domain.DailySales) []domain.PaymentMethod {
	seen := make(map[domain.PaymentMethod]struct{})
	for _, d := range days {
		for m := range d.ByPaymentMethod {
			seen[m] = struct{}{}
		}
	}

	out := make([]domain.PaymentMethod, 0, len(seen))
	for m := range seen {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func setCSVHeaders(w http.ResponseWriter, filename string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", filename))
}

func writeRecord(cw *csv.Writer, log *slog.Logger, fields ...string) {
	if err := cw.Write(fields); err != nil {
		log.Error("failed to write csv record", "err", err)
	}
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
