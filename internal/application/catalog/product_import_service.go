package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/openinvoice/backend/internal/domain/audit"
	"github.com/openinvoice/backend/internal/domain/catalog"
	"github.com/openinvoice/backend/internal/domain/shared"
	"github.com/openinvoice/backend/internal/infrastructure/csvimport"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Columns recognized in a product CSV. Only name and price are required;
// barcode, vat_rate, and stock are optional.
var (
	requiredImportColumns = []string{"name", "price"}
)

// ImportResult summarizes one CSV import run
type ImportResult struct {
	Created int                  `json:"created"`
	Updated int                  `json:"updated"`
	Skipped int                  `json:"skipped"`
	Errors  []csvimport.RowError `json:"errors,omitempty"`
}

// ProductImportService loads catalog products from CSV files. Rows with a
// barcode matching an existing product update it in place; all other rows
// create new products. Bad rows are reported and skipped, they never abort
// the run.
type ProductImportService struct {
	products       catalog.ProductRepository
	auditLog       audit.Repository
	logger         *zap.Logger
	defaultVATRate decimal.Decimal
}

// NewProductImportService creates a new import service. defaultVATRate is
// applied to rows that omit the vat_rate column.
func NewProductImportService(products catalog.ProductRepository, auditLog audit.Repository, defaultVATRate decimal.Decimal, logger *zap.Logger) *ProductImportService {
	return &ProductImportService{
		products:       products,
		auditLog:       auditLog,
		defaultVATRate: defaultVATRate,
		logger:         logger,
	}
}

// Import reads the CSV stream and upserts catalog products
func (s *ProductImportService) Import(ctx context.Context, r io.Reader) (*ImportResult, error) {
	parser, err := csvimport.NewParser(r)
	if err != nil {
		return nil, err
	}
	if err := parser.ParseHeader(requiredImportColumns); err != nil {
		return nil, err
	}

	result := &ImportResult{}
	for {
		row, rowNum, err := parser.ReadRow()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, csvimport.RowError{
				Row: rowNum, Message: err.Error(),
			})
			continue
		}

		if rowErr := s.importRow(ctx, row, rowNum, result); rowErr != nil {
			result.Skipped++
			result.Errors = append(result.Errors, *rowErr)
		}
	}

	s.logger.Info("product import completed",
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped))
	s.writeAudit(ctx, result)

	return result, nil
}

func (s *ProductImportService) importRow(ctx context.Context, row map[string]string, rowNum int, result *ImportResult) *csvimport.RowError {
	name := row["name"]
	if name == "" {
		return &csvimport.RowError{Row: rowNum, Field: "name", Message: "name is required"}
	}

	price, err := parseAmount(row["price"])
	if err != nil || price.IsNegative() {
		return &csvimport.RowError{Row: rowNum, Field: "price", Message: "invalid price"}
	}

	vatRate := s.defaultVATRate
	if raw := row["vat_rate"]; raw != "" {
		vatRate, err = parseAmount(raw)
		if err != nil || vatRate.IsNegative() {
			return &csvimport.RowError{Row: rowNum, Field: "vat_rate", Message: "invalid VAT rate"}
		}
	}

	stock := 0
	if raw := row["stock"]; raw != "" {
		stock, err = strconv.Atoi(raw)
		if err != nil || stock < 0 {
			return &csvimport.RowError{Row: rowNum, Field: "stock", Message: "invalid stock quantity"}
		}
	}

	barcode := row["barcode"]
	if barcode != "" {
		existing, err := s.products.FindByBarcode(ctx, barcode)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return &csvimport.RowError{Row: rowNum, Message: err.Error()}
		}
		if existing != nil {
			if err := existing.Update(barcode, name, price, vatRate, stock); err != nil {
				return &csvimport.RowError{Row: rowNum, Message: err.Error()}
			}
			if err := s.products.Save(ctx, existing); err != nil {
				return &csvimport.RowError{Row: rowNum, Message: err.Error()}
			}
			result.Updated++
			return nil
		}
	}

	product, err := catalog.NewProduct(barcode, name, price, vatRate, stock)
	if err != nil {
		return &csvimport.RowError{Row: rowNum, Message: err.Error()}
	}
	if err := s.products.Save(ctx, product); err != nil {
		return &csvimport.RowError{Row: rowNum, Message: err.Error()}
	}
	result.Created++
	return nil
}

// parseAmount accepts both dot and comma decimal separators, since register
// exports differ by locale
func parseAmount(raw string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.Replace(raw, ",", ".", 1))
}

func (s *ProductImportService) writeAudit(ctx context.Context, result *ImportResult) {
	if s.auditLog == nil {
		return
	}
	details := fmt.Sprintf("created=%d updated=%d skipped=%d", result.Created, result.Updated, result.Skipped)
	if err := s.auditLog.Append(ctx, audit.NewEntry(audit.ActionImportCompleted, "", details)); err != nil {
		s.logger.Warn("Failed to write audit entry", zap.Error(err))
	}
}
