package models

import (
	"github.com/openinvoice/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ProductModel maps a catalog product to the products table
type ProductModel struct {
	BaseModel
	Barcode string          `gorm:"size:64;index"`
	Name    string          `gorm:"size:200;not null;index"`
	Price   decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	VATRate decimal.Decimal `gorm:"type:decimal(8,2);not null"`
	Stock   int             `gorm:"not null;default:0"`
}

// TableName returns the table name for ProductModel
func (ProductModel) TableName() string {
	return "products"
}

// FromDomainProduct converts a domain product to its persistence model
func FromDomainProduct(p *catalog.Product) *ProductModel {
	return &ProductModel{
		BaseModel: BaseModel{
			ID:        p.ID,
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
		},
		Barcode: p.Barcode,
		Name:    p.Name,
		Price:   p.Price,
		VATRate: p.VATRate,
		Stock:   p.Stock,
	}
}

// ToDomain converts the persistence model back to a domain product
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		ID:        m.ID,
		Barcode:   m.Barcode,
		Name:      m.Name,
		Price:     m.Price,
		VATRate:   m.VATRate,
		Stock:     m.Stock,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
