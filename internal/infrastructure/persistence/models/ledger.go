package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/openinvoice/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// InvoiceModel maps the Invoice aggregate to the invoices table. Year and
// Sequence are denormalized out of the invoice number so the per-year
// counter can be seeded with a single MAX query.
type InvoiceModel struct {
	ID            uuid.UUID          `gorm:"type:uuid;primary_key"`
	InvoiceNumber string             `gorm:"size:32;uniqueIndex;not null"`
	Year          int                `gorm:"not null;index:idx_invoices_year_seq"`
	Sequence      int                `gorm:"not null;index:idx_invoices_year_seq"`
	SellerID      string             `gorm:"size:100;not null"`
	StoreName     string             `gorm:"size:200;not null"`
	Subtotal      decimal.Decimal    `gorm:"type:decimal(20,2);not null"`
	VATAmount     decimal.Decimal    `gorm:"type:decimal(20,2);not null"`
	Total         decimal.Decimal    `gorm:"type:decimal(20,2);not null"`
	PaymentMethod string             `gorm:"size:16;not null"`
	CustomerEmail string             `gorm:"size:254"`
	PreviousHash  string             `gorm:"size:64;not null"`
	CurrentHash   string             `gorm:"size:64;not null;index"`
	QRData        string             `gorm:"size:255;not null"`
	Status        string             `gorm:"size:20;not null"`
	CreatedAt     time.Time          `gorm:"not null;index"`
	UpdatedAt     time.Time          `gorm:"not null"`
	Items         []InvoiceItemModel `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for InvoiceModel
func (InvoiceModel) TableName() string {
	return "invoices"
}

// InvoiceItemModel maps one invoice line. Position preserves the order the
// lines were rung up in, which the canonical hash depends on.
type InvoiceItemModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key"`
	InvoiceID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position     int             `gorm:"not null"`
	ProductID    string          `gorm:"size:64;not null"`
	ProductName  string          `gorm:"size:200;not null"`
	Quantity     int             `gorm:"not null"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	VATRate      decimal.Decimal `gorm:"type:decimal(8,2);not null"`
	LineTotal    decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	ReturnStatus string          `gorm:"size:16;not null;default:none"`
}

// TableName returns the table name for InvoiceItemModel
func (InvoiceItemModel) TableName() string {
	return "invoice_items"
}

// FromDomainInvoice converts a domain invoice to its persistence model
func FromDomainInvoice(inv *ledger.Invoice, year, sequence int) *InvoiceModel {
	items := make([]InvoiceItemModel, 0, len(inv.Items))
	for i, item := range inv.Items {
		items = append(items, InvoiceItemModel{
			ID:           item.ID,
			InvoiceID:    inv.ID,
			Position:     i,
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
			VATRate:      item.VATRate,
			LineTotal:    item.LineTotal,
			ReturnStatus: string(item.ReturnStatus),
		})
	}

	return &InvoiceModel{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		Year:          year,
		Sequence:      sequence,
		SellerID:      inv.SellerID,
		StoreName:     inv.StoreName,
		Subtotal:      inv.Subtotal,
		VATAmount:     inv.VATAmount,
		Total:         inv.Total,
		PaymentMethod: string(inv.PaymentMethod),
		CustomerEmail: inv.CustomerEmail,
		PreviousHash:  inv.PreviousHash,
		CurrentHash:   inv.CurrentHash,
		QRData:        inv.QRData,
		Status:        string(inv.Status),
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     time.Now(),
		Items:         items,
	}
}

// ToDomain converts the persistence model back to a domain invoice
func (m *InvoiceModel) ToDomain() *ledger.Invoice {
	items := make([]ledger.InvoiceItem, 0, len(m.Items))
	for _, item := range m.Items {
		items = append(items, ledger.InvoiceItem{
			ID:           item.ID,
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
			VATRate:      item.VATRate,
			LineTotal:    item.LineTotal,
			ReturnStatus: ledger.LineReturnStatus(item.ReturnStatus),
		})
	}

	return &ledger.Invoice{
		ID:            m.ID,
		InvoiceNumber: m.InvoiceNumber,
		SellerID:      m.SellerID,
		StoreName:     m.StoreName,
		Items:         items,
		Subtotal:      m.Subtotal,
		VATAmount:     m.VATAmount,
		Total:         m.Total,
		PaymentMethod: ledger.PaymentMethod(m.PaymentMethod),
		CustomerEmail: m.CustomerEmail,
		PreviousHash:  m.PreviousHash,
		CurrentHash:   m.CurrentHash,
		QRData:        m.QRData,
		Status:        ledger.InvoiceStatus(m.Status),
		CreatedAt:     m.CreatedAt.UTC(),
	}
}
