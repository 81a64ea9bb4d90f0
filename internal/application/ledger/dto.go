package ledger

import (
	"time"

	"github.com/openinvoice/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// CreateInvoiceLineInput is one cart line in a create request. Prices and
// VAT rates come from the catalog, never from the client.
type CreateInvoiceLineInput struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

// CreateInvoiceRequest represents a request to record a sale
type CreateInvoiceRequest struct {
	Lines         []CreateInvoiceLineInput `json:"lines" binding:"required,min=1,dive"`
	PaymentMethod string                   `json:"payment_method" binding:"required,oneof=cash card other"`
	CustomerEmail string                   `json:"customer_email" binding:"omitempty,email"`
}

// InvoiceItemResponse represents one invoice line in responses
type InvoiceItemResponse struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	VATRate      decimal.Decimal `json:"vat_rate"`
	LineTotal    decimal.Decimal `json:"line_total"`
	ReturnStatus string          `json:"return_status"`
}

// InvoiceResponse represents a full invoice in responses
type InvoiceResponse struct {
	ID             string                `json:"id"`
	InvoiceNumber  string                `json:"invoice_number"`
	SellerID       string                `json:"seller_id"`
	StoreName      string                `json:"store_name"`
	Items          []InvoiceItemResponse `json:"items"`
	Subtotal       decimal.Decimal       `json:"subtotal"`
	VATAmount      decimal.Decimal       `json:"vat_amount"`
	Total          decimal.Decimal       `json:"total"`
	PaymentMethod  string                `json:"payment_method"`
	CustomerEmail  string                `json:"customer_email,omitempty"`
	PreviousHash   string                `json:"previous_hash"`
	CurrentHash    string                `json:"current_hash"`
	QRData         string                `json:"qr_data"`
	Status         string                `json:"status"`
	CurrencySymbol string                `json:"currency_symbol,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
}

// ToInvoiceResponse converts a domain invoice to its response form
func ToInvoiceResponse(inv *ledger.Invoice, currencySymbol string) InvoiceResponse {
	items := make([]InvoiceItemResponse, 0, len(inv.Items))
	for _, it := range inv.Items {
		items = append(items, InvoiceItemResponse{
			ID:           it.ID.String(),
			ProductID:    it.ProductID,
			ProductName:  it.ProductName,
			Quantity:     it.Quantity,
			UnitPrice:    it.UnitPrice,
			VATRate:      it.VATRate,
			LineTotal:    it.LineTotal,
			ReturnStatus: string(it.ReturnStatus),
		})
	}
	return InvoiceResponse{
		ID:             inv.ID.String(),
		InvoiceNumber:  inv.InvoiceNumber,
		SellerID:       inv.SellerID,
		StoreName:      inv.StoreName,
		Items:          items,
		Subtotal:       inv.Subtotal,
		VATAmount:      inv.VATAmount,
		Total:          inv.Total,
		PaymentMethod:  inv.PaymentMethod.String(),
		CustomerEmail:  inv.CustomerEmail,
		PreviousHash:   inv.PreviousHash,
		CurrentHash:    inv.CurrentHash,
		QRData:         inv.QRData,
		Status:         inv.Status.String(),
		CurrencySymbol: currencySymbol,
		CreatedAt:      inv.CreatedAt,
	}
}

// ProcessReturnRequest represents a request to return invoice lines
type ProcessReturnRequest struct {
	LineIDs []string `json:"line_ids" binding:"required,min=1,dive,uuid"`
}

// ReturnResponse is the outcome of a processed return
type ReturnResponse struct {
	InvoiceNumber string          `json:"invoice_number"`
	RefundAmount  decimal.Decimal `json:"refund_amount"`
	NewStatus     string          `json:"new_status"`
}

// VerifyPayloadRequest represents a request to verify a scanned QR payload
type VerifyPayloadRequest struct {
	Payload string `json:"payload" binding:"required"`
}
