package persistence

import (
	"context"
	"time"

	"github.com/openinvoice/backend/internal/domain/report"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormSalesReportRepository implements report.Repository using GORM.
// Gross and VAT totals exclude fully returned invoices; partially returned
// invoices count at their original amounts and the refunds are reported
// separately.
type GormSalesReportRepository struct {
	db *gorm.DB
}

// NewGormSalesReportRepository creates a new GormSalesReportRepository
func NewGormSalesReportRepository(db *gorm.DB) *GormSalesReportRepository {
	return &GormSalesReportRepository{db: db}
}

// Summary returns aggregated sales figures for [from, to)
func (r *GormSalesReportRepository) Summary(ctx context.Context, from, to time.Time) (*report.PeriodSummary, error) {
	type summaryResult struct {
		InvoiceCount int64
		GrossTotal   decimal.Decimal
		VATTotal     decimal.Decimal
	}

	var sales summaryResult
	err := r.db.WithContext(ctx).Table("invoices").
		Select(`
			COUNT(id) as invoice_count,
			COALESCE(SUM(total), 0) as gross_total,
			COALESCE(SUM(vat_amount), 0) as vat_total
		`).
		Where("created_at >= ? AND created_at < ?", from, to).
		Where("status != ?", "returned").
		Scan(&sales).Error
	if err != nil {
		return nil, err
	}

	type returnResult struct {
		ReturnCount int64
		RefundTotal decimal.Decimal
	}

	var returns returnResult
	err = r.db.WithContext(ctx).Table("invoices i").
		Select(`
			COUNT(DISTINCT i.id) as return_count,
			COALESCE(SUM(ii.line_total), 0) as refund_total
		`).
		Joins("JOIN invoice_items ii ON ii.invoice_id = i.id").
		Where("i.created_at >= ? AND i.created_at < ?", from, to).
		Where("ii.return_status = ?", "returned").
		Scan(&returns).Error
	if err != nil {
		return nil, err
	}

	return &report.PeriodSummary{
		From:         from,
		To:           to,
		InvoiceCount: sales.InvoiceCount,
		GrossTotal:   sales.GrossTotal,
		VATTotal:     sales.VATTotal,
		ReturnCount:  returns.ReturnCount,
		RefundTotal:  returns.RefundTotal,
	}, nil
}

// DailyBreakdown returns per-day sales figures for [from, to)
func (r *GormSalesReportRepository) DailyBreakdown(ctx context.Context, from, to time.Time) ([]report.DailySummary, error) {
	type dailyResult struct {
		Date         time.Time
		InvoiceCount int64
		GrossTotal   decimal.Decimal
		VATTotal     decimal.Decimal
	}

	var results []dailyResult
	err := r.db.WithContext(ctx).Table("invoices").
		Select(`
			DATE(created_at) as date,
			COUNT(id) as invoice_count,
			COALESCE(SUM(total), 0) as gross_total,
			COALESCE(SUM(vat_amount), 0) as vat_total
		`).
		Where("created_at >= ? AND created_at < ?", from, to).
		Where("status != ?", "returned").
		Group("DATE(created_at)").
		Order("date ASC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	days := make([]report.DailySummary, len(results))
	for i, row := range results {
		days[i] = report.DailySummary{
			Date:         row.Date.Format("2006-01-02"),
			InvoiceCount: row.InvoiceCount,
			GrossTotal:   row.GrossTotal,
			VATTotal:     row.VATTotal,
		}
	}
	return days, nil
}

// TopProducts returns the best-selling products in [from, to), excluding
// returned lines
func (r *GormSalesReportRepository) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]report.ProductSales, error) {
	type productResult struct {
		ProductID    string
		ProductName  string
		QuantitySold int64
		Revenue      decimal.Decimal
	}

	var results []productResult
	err := r.db.WithContext(ctx).Table("invoice_items ii").
		Select(`
			ii.product_id as product_id,
			ii.product_name as product_name,
			COALESCE(SUM(ii.quantity), 0) as quantity_sold,
			COALESCE(SUM(ii.line_total), 0) as revenue
		`).
		Joins("JOIN invoices i ON i.id = ii.invoice_id").
		Where("i.created_at >= ? AND i.created_at < ?", from, to).
		Where("ii.return_status = ?", "none").
		Group("ii.product_id, ii.product_name").
		Order("revenue DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	products := make([]report.ProductSales, len(results))
	for i, row := range results {
		products[i] = report.ProductSales{
			ProductID:    row.ProductID,
			ProductName:  row.ProductName,
			QuantitySold: row.QuantitySold,
			Revenue:      row.Revenue,
		}
	}
	return products, nil
}
