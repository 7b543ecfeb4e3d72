package domain

import "time"

// SalesSummary aggregates the sales of a closed date range.
type SalesSummary struct {
	From            time.Time
	To              time.Time
	Count           int
	Total           float64
	ByPaymentMethod map[PaymentMethod]float64
}

// DailySales aggregates one calendar day inside a report range.
type DailySales struct {
	Date            string
	Count           int
	Total           float64
	ByPaymentMethod map[PaymentMethod]float64
}

// SaleCSVRow is one exported line of the per-item sales report.
type SaleCSVRow struct {
	SaleID        int64
	SaleDatetime  time.Time
	PaymentMethod PaymentMethod
	ProductID     int64
	ProductName   string
	Qty           int
	UnitPrice     float64
	LineTotal     float64
	SaleTotal     float64
}
