package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/openinvoice/backend/internal/domain/audit"
	"github.com/openinvoice/backend/internal/domain/catalog"
	"github.com/openinvoice/backend/internal/domain/ledger"
	"github.com/openinvoice/backend/internal/domain/settings"
	"github.com/openinvoice/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// StoreProfileProvider supplies the seller identity frozen into each
// invoice at creation time
type StoreProfileProvider interface {
	StoreProfile(ctx context.Context) (settings.StoreProfile, error)
}

// InvoiceService assembles invoices and appends them to the ledger. The
// read-latest-hash, assign-number, append sequence runs under a single
// mutex: two concurrent sales must never observe the same predecessor, or
// the chain forks invisibly.
type InvoiceService struct {
	invoices ledger.InvoiceRepository
	products catalog.ProductRepository
	profile  StoreProfileProvider
	auditLog audit.Repository
	logger   *zap.Logger
	now      func() time.Time

	mu      sync.Mutex
	seq     int
	seqYear int
	seeded  bool
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoices ledger.InvoiceRepository,
	products catalog.ProductRepository,
	profile StoreProfileProvider,
	auditLog audit.Repository,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		invoices: invoices,
		products: products,
		profile:  profile,
		auditLog: auditLog,
		logger:   logger,
		now:      time.Now,
	}
}

// Create records a sale: it resolves every cart line against the catalog,
// computes the totals, links the invoice to the latest ledger entry, and
// appends it. Nothing is persisted when any line fails to resolve. Stock
// adjustment and audit logging happen only after the append is durable and
// never roll it back.
func (s *InvoiceService) Create(ctx context.Context, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	profile, err := s.profile.StoreProfile(ctx)
	if err != nil {
		return nil, err
	}

	payment := ledger.PaymentMethod(req.PaymentMethod)
	if !payment.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unsupported payment method: "+req.PaymentMethod)
	}

	items := make([]*ledger.InvoiceItem, 0, len(req.Lines))
	lineProducts := make([]*catalog.Product, 0, len(req.Lines))
	for _, line := range req.Lines {
		productID, err := uuid.Parse(line.ProductID)
		if err != nil {
			return nil, shared.NewDomainError("UNKNOWN_PRODUCT", "Invalid product ID: "+line.ProductID)
		}
		product, err := s.products.FindByID(ctx, productID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("UNKNOWN_PRODUCT", "Product "+line.ProductID+" not found")
			}
			return nil, err
		}

		item, err := ledger.NewInvoiceItem(product.ID.String(), product.Name, line.Quantity, product.Price, product.VATRate)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		lineProducts = append(lineProducts, product)
	}

	inv, err := s.appendLocked(ctx, profile, items, payment, req.CustomerEmail)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Invoice created",
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.String("total", inv.Total.StringFixed(2)),
		zap.Int("lines", len(inv.Items)),
	)

	// Post-commit side effects: a stock or audit failure must not unwind an
	// already-appended ledger entry
	for i, product := range lineProducts {
		product.AdjustStock(-items[i].Quantity)
		if err := s.products.Save(ctx, product); err != nil {
			s.logger.Warn("Failed to adjust stock after sale",
				zap.String("invoice_number", inv.InvoiceNumber),
				zap.String("product_id", product.ID.String()),
				zap.Error(err),
			)
		}
	}
	s.writeAudit(ctx, audit.ActionInvoiceCreated, inv.InvoiceNumber,
		fmt.Sprintf("total=%s payment=%s", inv.Total.StringFixed(2), payment))

	response := ToInvoiceResponse(inv, profile.CurrencySymbol)
	return &response, nil
}

// appendLocked runs the serialized section of invoice creation: observe
// the latest hash, assign the next number, seal, and append.
func (s *InvoiceService) appendLocked(
	ctx context.Context,
	profile settings.StoreProfile,
	items []*ledger.InvoiceItem,
	payment ledger.PaymentMethod,
	customerEmail string,
) (*ledger.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	createdAt := s.now()
	year := createdAt.UTC().Year()
	if err := s.seedSequence(ctx, year); err != nil {
		return nil, err
	}

	previousHash := ledger.GenesisHash
	latest, err := s.invoices.FindLatest(ctx)
	switch {
	case err == nil:
		previousHash = latest.CurrentHash
	case errors.Is(err, shared.ErrNotFound):
		// first entry in the ledger
	default:
		return nil, err
	}

	number := ledger.FormatInvoiceNumber(year, s.seq+1)
	inv, err := ledger.NewInvoice(number, profile.SellerID, profile.StoreName,
		items, payment, customerEmail, previousHash, createdAt)
	if err != nil {
		return nil, err
	}
	inv.QRData = ledger.EncodeQR(inv)

	if err := s.invoices.Append(ctx, inv); err != nil {
		return nil, err
	}
	s.seq++
	return inv, nil
}

// seedSequence initializes the invoice counter from the highest sequence
// already stored for the year, and reseeds on year rollover
func (s *InvoiceService) seedSequence(ctx context.Context, year int) error {
	if s.seeded && s.seqYear == year {
		return nil
	}
	max, err := s.invoices.MaxSequence(ctx, year)
	if err != nil {
		return err
	}
	s.seq = max
	s.seqYear = year
	s.seeded = true
	return nil
}

// GetByNumber returns a single invoice
func (s *InvoiceService) GetByNumber(ctx context.Context, invoiceNumber string) (*InvoiceResponse, error) {
	inv, err := s.invoices.FindByNumber(ctx, invoiceNumber)
	if err != nil {
		return nil, err
	}

	currency := ""
	if profile, err := s.profile.StoreProfile(ctx); err == nil {
		currency = profile.CurrencySymbol
	}
	response := ToInvoiceResponse(inv, currency)
	return &response, nil
}

// List returns a page of invoices, newest first
func (s *InvoiceService) List(ctx context.Context, filter shared.Filter) ([]InvoiceResponse, int64, error) {
	invoices, total, err := s.invoices.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		responses = append(responses, ToInvoiceResponse(inv, ""))
	}
	return responses, total, nil
}

func (s *InvoiceService) writeAudit(ctx context.Context, action audit.Action, invoiceNumber, details string) {
	if s.auditLog == nil {
		return
	}
	if err := s.auditLog.Append(ctx, audit.NewEntry(action, invoiceNumber, details)); err != nil {
		s.logger.Warn("Failed to write audit entry",
			zap.String("action", string(action)),
			zap.String("invoice_number", invoiceNumber),
			zap.Error(err),
		)
	}
}

// SetClock overrides the time source. Tests use this to make invoice
// timestamps deterministic.
func (s *InvoiceService) SetClock(now func() time.Time) {
	s.now = now
}
