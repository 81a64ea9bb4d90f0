package report

import (
	"context"
	"time"

	"github.com/openinvoice/backend/internal/domain/report"
	"github.com/openinvoice/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// maxTopProducts caps the per-product breakdown size
const maxTopProducts = 100

// SalesReportRequest selects the reporting window. Dates are inclusive
// calendar days in the store's clock.
type SalesReportRequest struct {
	From string `form:"from" binding:"required"`
	To   string `form:"to" binding:"required"`
	Top  int    `form:"top" binding:"omitempty,min=1"`
}

// SalesReport is the full report for a period
type SalesReport struct {
	Summary  *report.PeriodSummary `json:"summary"`
	Days     []report.DailySummary `json:"days"`
	Products []report.ProductSales `json:"products"`
}

// Service produces sales reports from ledger aggregates
type Service struct {
	reports report.Repository
	logger  *zap.Logger
}

// NewService creates a report service
func NewService(reports report.Repository, logger *zap.Logger) *Service {
	return &Service{reports: reports, logger: logger}
}

// Sales builds a sales report for the requested period
func (s *Service) Sales(ctx context.Context, req SalesReportRequest) (*SalesReport, error) {
	from, to, err := parsePeriod(req.From, req.To)
	if err != nil {
		return nil, err
	}

	top := req.Top
	if top <= 0 || top > maxTopProducts {
		top = 10
	}

	summary, err := s.reports.Summary(ctx, from, to)
	if err != nil {
		return nil, err
	}
	days, err := s.reports.DailyBreakdown(ctx, from, to)
	if err != nil {
		return nil, err
	}
	products, err := s.reports.TopProducts(ctx, from, to, top)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("sales report built",
		zap.Time("from", from),
		zap.Time("to", to),
		zap.Int64("invoices", summary.InvoiceCount))

	return &SalesReport{Summary: summary, Days: days, Products: products}, nil
}

// Daily is a convenience for a single-day report
func (s *Service) Daily(ctx context.Context, date string) (*SalesReport, error) {
	return s.Sales(ctx, SalesReportRequest{From: date, To: date})
}

// parsePeriod turns inclusive calendar dates into a [from, to) UTC range
func parsePeriod(fromRaw, toRaw string) (time.Time, time.Time, error) {
	from, err := time.ParseInLocation(dateLayout, fromRaw, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, shared.NewDomainError("INVALID_DATE", "Dates must use the YYYY-MM-DD format")
	}
	to, err := time.ParseInLocation(dateLayout, toRaw, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, shared.NewDomainError("INVALID_DATE", "Dates must use the YYYY-MM-DD format")
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, shared.NewDomainError("INVALID_DATE_RANGE", "End date is before start date")
	}
	return from, to.AddDate(0, 0, 1), nil
}
