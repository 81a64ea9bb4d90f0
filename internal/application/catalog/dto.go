package catalog

import (
	"time"

	"github.com/openinvoice/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a request to add a catalog product
type CreateProductRequest struct {
	Barcode string          `json:"barcode" binding:"omitempty,max=64"`
	Name    string          `json:"name" binding:"required,min=1,max=200"`
	Price   decimal.Decimal `json:"price" binding:"required"`
	VATRate decimal.Decimal `json:"vat_rate"`
	Stock   int             `json:"stock" binding:"min=0"`
}

// UpdateProductRequest represents a request to update a catalog product
type UpdateProductRequest struct {
	Barcode string          `json:"barcode" binding:"omitempty,max=64"`
	Name    string          `json:"name" binding:"required,min=1,max=200"`
	Price   decimal.Decimal `json:"price" binding:"required"`
	VATRate decimal.Decimal `json:"vat_rate"`
	Stock   int             `json:"stock" binding:"min=0"`
}

// ProductResponse represents a product in responses
type ProductResponse struct {
	ID        string          `json:"id"`
	Barcode   string          `json:"barcode,omitempty"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	VATRate   decimal.Decimal `json:"vat_rate"`
	Stock     int             `json:"stock"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ToProductResponse converts a domain product to its response form
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:        p.ID.String(),
		Barcode:   p.Barcode,
		Name:      p.Name,
		Price:     p.Price,
		VATRate:   p.VATRate,
		Stock:     p.Stock,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
