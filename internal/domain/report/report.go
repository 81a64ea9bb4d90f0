package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PeriodSummary aggregates sales over a date range. Gross and VAT totals
// exclude fully returned invoices; partially returned invoices count at
// their original amounts with the refunds reported separately.
type PeriodSummary struct {
	From         time.Time       `json:"from"`
	To           time.Time       `json:"to"`
	InvoiceCount int64           `json:"invoice_count"`
	GrossTotal   decimal.Decimal `json:"gross_total"`
	VATTotal     decimal.Decimal `json:"vat_total"`
	ReturnCount  int64           `json:"return_count"`
	RefundTotal  decimal.Decimal `json:"refund_total"`
}

// DailySummary is one day of the period breakdown
type DailySummary struct {
	Date         string          `json:"date"`
	InvoiceCount int64           `json:"invoice_count"`
	GrossTotal   decimal.Decimal `json:"gross_total"`
	VATTotal     decimal.Decimal `json:"vat_total"`
}

// ProductSales aggregates sold quantities per product. Returned lines are
// excluded.
type ProductSales struct {
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	QuantitySold int64           `json:"quantity_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// Repository computes sales aggregates from the ledger
type Repository interface {
	Summary(ctx context.Context, from, to time.Time) (*PeriodSummary, error)
	DailyBreakdown(ctx context.Context, from, to time.Time) ([]DailySummary, error)
	TopProducts(ctx context.Context, from, to time.Time, limit int) ([]ProductSales, error)
}
