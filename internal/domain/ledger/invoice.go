package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/openinvoice/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the lifecycle status of an invoice
type InvoiceStatus string

const (
	StatusCompleted     InvoiceStatus = "completed"
	StatusPartialReturn InvoiceStatus = "partial_return"
	StatusReturned      InvoiceStatus = "returned"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case StatusCompleted, StatusPartialReturn, StatusReturned:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// PaymentMethod represents how an invoice was paid
type PaymentMethod string

const (
	PaymentCash  PaymentMethod = "cash"
	PaymentCard  PaymentMethod = "card"
	PaymentOther PaymentMethod = "other"
)

// IsValid checks if the payment method is supported
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentOther:
		return true
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// LineReturnStatus represents the return state of a single invoice line
type LineReturnStatus string

const (
	LineNotReturned LineReturnStatus = "none"
	LineReturned    LineReturnStatus = "returned"
)

// InvoiceItem is one line of an invoice. Everything except ReturnStatus is
// frozen at creation time because the line participates in the chain hash.
type InvoiceItem struct {
	ID           uuid.UUID
	ProductID    string
	ProductName  string
	Quantity     int
	UnitPrice    decimal.Decimal
	VATRate      decimal.Decimal
	LineTotal    decimal.Decimal
	ReturnStatus LineReturnStatus
}

// NewInvoiceItem creates a new invoice line and computes its rounded total
func NewInvoiceItem(productID, productName string, quantity int, unitPrice, vatRate decimal.Decimal) (*InvoiceItem, error) {
	if productID == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if vatRate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_VAT_RATE", "VAT rate cannot be negative")
	}

	return &InvoiceItem{
		ID:           uuid.New(),
		ProductID:    productID,
		ProductName:  productName,
		Quantity:     quantity,
		UnitPrice:    unitPrice,
		VATRate:      vatRate,
		LineTotal:    unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2),
		ReturnStatus: LineNotReturned,
	}, nil
}

// vatAmount returns the unrounded VAT carried by this line
func (i *InvoiceItem) vatAmount() decimal.Decimal {
	return i.LineTotal.Mul(i.VATRate).Div(decimal.NewFromInt(100))
}

// Invoice is the aggregate root for one ledger entry. Once appended, only
// Status and the per-line ReturnStatus flags may change; the hash fields
// and monetary content are immutable.
type Invoice struct {
	ID            uuid.UUID
	InvoiceNumber string
	SellerID      string
	StoreName     string
	Items         []InvoiceItem
	Subtotal      decimal.Decimal
	VATAmount     decimal.Decimal
	Total         decimal.Decimal
	PaymentMethod PaymentMethod
	CustomerEmail string
	PreviousHash  string
	CurrentHash   string
	QRData        string
	Status        InvoiceStatus
	CreatedAt     time.Time
}

// NewInvoice assembles an invoice from its lines, computes the rounded
// totals, and seals it with the chain hash. previousHash must be the
// current hash of the latest stored invoice, or GenesisHash for the first
// entry. createdAt is truncated to second precision, matching the wire
// and canonical formats.
func NewInvoice(
	invoiceNumber, sellerID, storeName string,
	items []*InvoiceItem,
	payment PaymentMethod,
	customerEmail string,
	previousHash string,
	createdAt time.Time,
) (*Invoice, error) {
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if sellerID == "" {
		return nil, shared.NewDomainError("INVALID_SELLER", "Seller ID cannot be empty")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("EMPTY_INVOICE", "Invoice must contain at least one line")
	}
	if !payment.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unsupported payment method: "+payment.String())
	}
	if previousHash == "" {
		return nil, shared.NewDomainError("INVALID_PREVIOUS_HASH", "Previous hash cannot be empty")
	}

	subtotal := decimal.Zero
	vat := decimal.Zero
	lines := make([]InvoiceItem, 0, len(items))
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal)
		vat = vat.Add(item.vatAmount())
		lines = append(lines, *item)
	}
	subtotal = subtotal.Round(2)
	vat = vat.Round(2)
	total := subtotal.Add(vat)

	inv := &Invoice{
		ID:            uuid.New(),
		InvoiceNumber: invoiceNumber,
		SellerID:      sellerID,
		StoreName:     storeName,
		Items:         lines,
		Subtotal:      subtotal,
		VATAmount:     vat,
		Total:         total,
		PaymentMethod: payment,
		CustomerEmail: customerEmail,
		PreviousHash:  previousHash,
		Status:        StatusCompleted,
		CreatedAt:     createdAt.UTC().Truncate(time.Second),
	}
	inv.CurrentHash = ComputeHash(inv.CanonicalContent(), previousHash)
	return inv, nil
}

// CanonicalContent extracts the hash-relevant subset of the invoice
func (inv *Invoice) CanonicalContent() CanonicalContent {
	items := make([]CanonicalItem, 0, len(inv.Items))
	for _, it := range inv.Items {
		items = append(items, CanonicalItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			LineTotal: it.LineTotal,
		})
	}
	return CanonicalContent{
		InvoiceNumber: inv.InvoiceNumber,
		SellerID:      inv.SellerID,
		Total:         inv.Total,
		Items:         items,
		Timestamp:     CanonicalTimestamp(inv.CreatedAt),
	}
}

// RecomputeHash recalculates the chain hash from the stored fields. For an
// untampered invoice it reproduces CurrentHash exactly.
func (inv *Invoice) RecomputeHash() string {
	return ComputeHash(inv.CanonicalContent(), inv.PreviousHash)
}

// Line returns the invoice line with the given ID, or nil
func (inv *Invoice) Line(id uuid.UUID) *InvoiceItem {
	for i := range inv.Items {
		if inv.Items[i].ID == id {
			return &inv.Items[i]
		}
	}
	return nil
}

// ReturnLines marks the requested lines as returned and returns the refund
// amount. The request is atomic: if any ID is unknown or any requested line
// was already returned, nothing changes. Hash fields are never touched, so
// returns do not affect chain validity. Returned lines cannot be un-returned.
func (inv *Invoice) ReturnLines(lineIDs []uuid.UUID) (decimal.Decimal, error) {
	if len(lineIDs) == 0 {
		return decimal.Zero, shared.NewDomainError("INVALID_INPUT", "No lines requested for return")
	}

	seen := make(map[uuid.UUID]bool, len(lineIDs))
	lines := make([]*InvoiceItem, 0, len(lineIDs))
	for _, id := range lineIDs {
		if seen[id] {
			continue
		}
		seen[id] = true

		line := inv.Line(id)
		if line == nil {
			return decimal.Zero, shared.NewDomainError("NOT_FOUND", fmt.Sprintf("Invoice line %s not found", id))
		}
		if line.ReturnStatus == LineReturned {
			return decimal.Zero, shared.NewDomainError("ALREADY_RETURNED", fmt.Sprintf("Invoice line %s has already been returned", id))
		}
		lines = append(lines, line)
	}

	refund := decimal.Zero
	for _, line := range lines {
		line.ReturnStatus = LineReturned
		refund = refund.Add(line.LineTotal)
	}
	inv.recomputeStatus()

	return refund, nil
}

// recomputeStatus derives Status from the line return flags: returned when
// every line is returned, partial_return when at least one is, completed
// otherwise.
func (inv *Invoice) recomputeStatus() {
	returned := 0
	for i := range inv.Items {
		if inv.Items[i].ReturnStatus == LineReturned {
			returned++
		}
	}
	switch {
	case returned == len(inv.Items):
		inv.Status = StatusReturned
	case returned > 0:
		inv.Status = StatusPartialReturn
	default:
		inv.Status = StatusCompleted
	}
}

// FormatInvoiceNumber renders an invoice number as INV-{year}-{seq},
// zero-padding the sequence to at least 4 digits.
func FormatInvoiceNumber(year, sequence int) string {
	return fmt.Sprintf("INV-%d-%04d", year, sequence)
}
