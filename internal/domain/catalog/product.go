package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/openinvoice/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product is a sellable catalog entry. Price and VAT rate are copied into
// invoice lines at sale time, so later catalog edits never affect
// already-issued receipts.
type Product struct {
	ID        uuid.UUID
	Barcode   string
	Name      string
	Price     decimal.Decimal
	VATRate   decimal.Decimal
	Stock     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewProduct creates a new product with validation
func NewProduct(barcode, name string, price, vatRate decimal.Decimal, stock int) (*Product, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if vatRate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_VAT_RATE", "VAT rate cannot be negative")
	}
	if stock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Initial stock cannot be negative")
	}

	now := time.Now()
	return &Product{
		ID:        uuid.New(),
		Barcode:   barcode,
		Name:      name,
		Price:     price,
		VATRate:   vatRate,
		Stock:     stock,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Update changes the editable fields
func (p *Product) Update(barcode, name string, price, vatRate decimal.Decimal, stock int) error {
	if name == "" {
		return shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if vatRate.IsNegative() {
		return shared.NewDomainError("INVALID_VAT_RATE", "VAT rate cannot be negative")
	}
	if stock < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}

	p.Barcode = barcode
	p.Name = name
	p.Price = price
	p.VATRate = vatRate
	p.Stock = stock
	p.UpdatedAt = time.Now()
	return nil
}

// AdjustStock applies a relative stock change: negative on sale, positive
// on return. Sales are allowed to drive stock negative because the ledger
// records what physically left the register, not what the count said.
func (p *Product) AdjustStock(delta int) {
	p.Stock += delta
	p.UpdatedAt = time.Now()
}
