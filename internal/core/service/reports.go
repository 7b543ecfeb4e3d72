package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/mrodal/stockpos/internal/core/domain"
)

// SalesSummary aggregates the sales of [from, to], both dates
// inclusive.
func (s Service) SalesSummary(
	ctx context.Context, from, to time.Time,
) (domain.SalesSummary, error) {
	const op = "Service.SalesSummary"

	start, end := dayRange(from, to)
	sales, err := s.sales.SalesInRange(ctx, start, end)
	if err != nil {
		return domain.SalesSummary{}, fmt.Errorf("%s: %w", op, err)
	}

	summary := domain.SalesSummary{
		From:            from,
		To:              to,
		ByPaymentMethod: make(map[domain.PaymentMethod]float64),
	}
	for _, sale := range sales {
		summary.Count++
		summary.Total += sale.Total
		pm := paymentOrUnspecified(sale.PaymentMethod)
		summary.ByPaymentMethod[pm] += sale.Total
	}

	summary.Total = round2(summary.Total)
	for pm, v := range summary.ByPaymentMethod {
		summary.ByPaymentMethod[pm] = round2(v)
	}
	return summary, nil
}

// SalesDaily groups the sales of [from, to] by calendar day, ascending.
func (s Service) SalesDaily(
	ctx context.Context, from, to time.Time,
) ([]domain.DailySales, error) {
	const op = "Service.SalesDaily"

	start, end := dayRange(from, to)
	sales, err := s.sales.SalesInRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	byDay := make(map[string]*domain.DailySales)
	for _, sale := range sales {
		day := sale.CreatedAt.Format(time.DateOnly)
		d, ok := byDay[day]
		if !ok {
			d = &domain.DailySales{
				Date:            day,
				ByPaymentMethod: make(map[domain.PaymentMethod]float64),
			}
			byDay[day] = d
		}
		d.Count++
		d.Total += sale.Total
		pm := paymentOrUnspecified(sale.PaymentMethod)
		d.ByPaymentMethod[pm] += sale.Total
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	out := make([]domain.DailySales, 0, len(days))
	for _, day := range days {
		d := byDay[day]
		d.Total = round2(d.Total)
		for pm, v := range d.ByPaymentMethod {
			d.ByPaymentMethod[pm] = round2(v)
		}
		out = append(out, *d)
	}
	return out, nil
}

// SalesCSVRows expands the sales of [from, to] into one row per sold
// item for the CSV export.
func (s Service) SalesCSVRows(
	ctx context.Context, from, to time.Time,
) ([]domain.SaleCSVRow, error) {
	const op = "Service.SalesCSVRows"

	start, end := dayRange(from, to)
	rows, err := s.sales.SaleRowsInRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for i := range rows {
		rows[i].LineTotal = round2(rows[i].LineTotal)
	}
	return rows, nil
}

// dayRange converts an inclusive date pair into a half-open timestamp
// range [start of from, start of the day after to).
func dayRange(from, to time.Time) (time.Time, time.Time) {
	start := truncateDay(from)
	end := truncateDay(to).AddDate(0, 0, 1)
	return start, end
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func paymentOrUnspecified(pm domain.PaymentMethod) domain.PaymentMethod {
	if pm == "" {
		return domain.PaymentUnspecified
	}
	return pm
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
