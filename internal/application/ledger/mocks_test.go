package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/openinvoice/backend/internal/domain/audit"
	"github.com/openinvoice/backend/internal/domain/catalog"
	"github.com/openinvoice/backend/internal/domain/ledger"
	"github.com/openinvoice/backend/internal/domain/settings"
	"github.com/openinvoice/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// memInvoiceRepo is an in-memory InvoiceRepository. Tests need real
// append-order state to exercise chain linkage, so this is a stateful fake
// rather than an expectation mock.
type memInvoiceRepo struct {
	mu       sync.Mutex
	invoices []*ledger.Invoice
}

func newMemInvoiceRepo() *memInvoiceRepo {
	return &memInvoiceRepo{}
}

func (r *memInvoiceRepo) Append(_ context.Context, inv *ledger.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.invoices {
		if existing.InvoiceNumber == inv.InvoiceNumber {
			return shared.ErrAlreadyExists
		}
	}
	r.invoices = append(r.invoices, inv)
	return nil
}

func (r *memInvoiceRepo) FindByNumber(_ context.Context, invoiceNumber string) (*ledger.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inv := range r.invoices {
		if inv.InvoiceNumber == invoiceNumber {
			return inv, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memInvoiceRepo) FindLatest(_ context.Context) (*ledger.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.invoices) == 0 {
		return nil, shared.ErrNotFound
	}
	return r.invoices[len(r.invoices)-1], nil
}

func (r *memInvoiceRepo) FindAllAscending(_ context.Context) ([]*ledger.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*ledger.Invoice, len(r.invoices))
	copy(out, r.invoices)
	return out, nil
}

func (r *memInvoiceRepo) List(_ context.Context, filter shared.Filter) ([]*ledger.Invoice, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*ledger.Invoice, 0, len(r.invoices))
	for i := len(r.invoices) - 1; i >= 0; i-- {
		out = append(out, r.invoices[i])
	}
	return out, int64(len(out)), nil
}

func (r *memInvoiceRepo) MaxSequence(_ context.Context, year int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	max := 0
	for _, inv := range r.invoices {
		var y, seq int
		if _, err := fmt.Sscanf(inv.InvoiceNumber, "INV-%d-%d", &y, &seq); err == nil {
			if y == year && seq > max {
				max = seq
			}
		}
	}
	return max, nil
}

func (r *memInvoiceRepo) SaveReturnState(_ context.Context, inv *ledger.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.invoices {
		if existing.InvoiceNumber == inv.InvoiceNumber {
			return nil
		}
	}
	return shared.ErrNotFound
}

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByBarcode(ctx context.Context, barcode string) (*catalog.Product, error) {
	args := m.Called(ctx, barcode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*catalog.Product, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*catalog.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) Search(ctx context.Context, query string, filter shared.Filter) ([]*catalog.Product, int64, error) {
	args := m.Called(ctx, query, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*catalog.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockAuditRepository is a mock implementation of audit.Repository
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Append(ctx context.Context, entry *audit.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*audit.Entry, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*audit.Entry), args.Get(1).(int64), args.Error(2)
}

// fakeProfileProvider returns a fixed store profile
type fakeProfileProvider struct {
	profile settings.StoreProfile
}

func (f *fakeProfileProvider) StoreProfile(context.Context) (settings.StoreProfile, error) {
	return f.profile, nil
}

func testProfile() *fakeProfileProvider {
	return &fakeProfileProvider{profile: settings.StoreProfile{
		StoreName:      "Corner Shop",
		SellerID:       "SELLER-42",
		CurrencySymbol: "€",
		DefaultVATRate: decimal.RequireFromString("21"),
	}}
}

func testProduct(name, price, vat string, stock int) *catalog.Product {
	p, err := catalog.NewProduct("", name, decimal.RequireFromString(price), decimal.RequireFromString(vat), stock)
	if err != nil {
		panic(err)
	}
	return p
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func mustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
