package domain

import "time"

type PaymentMethod string

const (
	PaymentCash        PaymentMethod = "CASH"
	PaymentTransfer    PaymentMethod = "TRANSFER"
	PaymentMercadoPago PaymentMethod = "MERCADO_PAGO"
	PaymentDebitCard   PaymentMethod = "DEBIT_CARD"
	PaymentCreditCard  PaymentMethod = "CREDIT_CARD"
	PaymentUnspecified PaymentMethod = "UNSPECIFIED"
)

// PaymentMethods lists the closed set of accepted payment methods.
func PaymentMethods() []PaymentMethod {
	return []PaymentMethod{
		PaymentCash,
		PaymentTransfer,
		PaymentMercadoPago,
		PaymentDebitCard,
		PaymentCreditCard,
		PaymentUnspecified,
	}
}

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentTransfer, PaymentMercadoPago,
		PaymentDebitCard, PaymentCreditCard, PaymentUnspecified:
		return true
	}
	return false
}

type SaleItem struct {
	ProductID int64
	Qty       int
	UnitPrice float64
}

func (it SaleItem) LineTotal() float64 {
	return float64(it.Qty) * it.UnitPrice
}

// Sale is immutable once created; the total is server-computed.
type Sale struct {
	ID            int64
	Total         float64
	PaymentMethod PaymentMethod
	CreatedAt     time.Time
	Items         []SaleItem
}

// SaleDraft is the create-sale payload submitted by the point of sale.
type SaleDraft struct {
	PaymentMethod PaymentMethod
	Items         []SaleItem
}

type StockMovementReason string

const (
	StockReasonSale       StockMovementReason = "SALE"
	StockReasonRestock    StockMovementReason = "RESTOCK"
	StockReasonAdjustment StockMovementReason = "ADJUSTMENT"
)

func (r StockMovementReason) Valid() bool {
	switch r {
	case StockReasonSale, StockReasonRestock, StockReasonAdjustment:
		return true
	}
	return false
}

// StockMovement records a single stock change, positive for inbound
// and negative for outbound.
type StockMovement struct {
	ID        int64
	ProductID int64
	Change    int
	Reason    StockMovementReason
	Reference string
	Note      string
	CreatedAt time.Time
}
