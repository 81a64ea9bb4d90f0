package handler

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/openinvoice/backend/internal/domain/audit"
	"github.com/openinvoice/backend/internal/domain/catalog"
	"github.com/openinvoice/backend/internal/domain/ledger"
	"github.com/openinvoice/backend/internal/domain/report"
	"github.com/openinvoice/backend/internal/domain/settings"
	"github.com/openinvoice/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// memInvoiceRepo is an in-memory ledger store preserving append order
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

	matched := make([]*ledger.Invoice, 0, len(r.invoices))
	for i := len(r.invoices) - 1; i >= 0; i-- {
		inv := r.invoices[i]
		if filter.Search == "" || strings.Contains(inv.InvoiceNumber, filter.Search) {
			matched = append(matched, inv)
		}
	}

	total := int64(len(matched))
	offset := filter.Offset()
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + filter.Limit()
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
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

// memProductRepo is an in-memory catalog store
type memProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*catalog.Product
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: make(map[uuid.UUID]*catalog.Product)}
}

func (r *memProductRepo) Save(_ context.Context, product *catalog.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[product.ID] = product
	return nil
}

func (r *memProductRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if product, ok := r.products[id]; ok {
		return product, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memProductRepo) FindByBarcode(_ context.Context, barcode string) (*catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, product := range r.products {
		if product.Barcode == barcode {
			return product, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memProductRepo) FindAll(_ context.Context, filter shared.Filter) ([]*catalog.Product, int64, error) {
	return r.page(r.sorted(), filter)
}

func (r *memProductRepo) Search(_ context.Context, query string, filter shared.Filter) ([]*catalog.Product, int64, error) {
	matched := make([]*catalog.Product, 0)
	for _, product := range r.sorted() {
		if strings.Contains(strings.ToLower(product.Name), strings.ToLower(query)) || product.Barcode == query {
			matched = append(matched, product)
		}
	}
	return r.page(matched, filter)
}

func (r *memProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *memProductRepo) sorted() []*catalog.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*catalog.Product, 0, len(r.products))
	for _, product := range r.products {
		out = append(out, product)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *memProductRepo) page(items []*catalog.Product, filter shared.Filter) ([]*catalog.Product, int64, error) {
	total := int64(len(items))
	offset := filter.Offset()
	if offset >= len(items) {
		return nil, total, nil
	}
	end := offset + filter.Limit()
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end], total, nil
}

// memSettingsRepo is an in-memory settings store
type memSettingsRepo struct {
	mu     sync.Mutex
	values map[string]string
}

func newMemSettingsRepo() *memSettingsRepo {
	return &memSettingsRepo{values: make(map[string]string)}
}

func (r *memSettingsRepo) Get(_ context.Context, key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if value, ok := r.values[key]; ok {
		return value, nil
	}
	return "", shared.ErrNotFound
}

func (r *memSettingsRepo) Set(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = value
	return nil
}

func (r *memSettingsRepo) All(_ context.Context) ([]settings.Setting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]settings.Setting, 0, len(r.values))
	for key, value := range r.values {
		out = append(out, settings.Setting{Key: key, Value: value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// memAuditRepo is an in-memory audit log
type memAuditRepo struct {
	mu      sync.Mutex
	entries []*audit.Entry
}

func newMemAuditRepo() *memAuditRepo {
	return &memAuditRepo{}
}

func (r *memAuditRepo) Append(_ context.Context, entry *audit.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

func (r *memAuditRepo) FindAll(_ context.Context, filter shared.Filter) ([]*audit.Entry, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	matched := make([]*audit.Entry, 0, len(r.entries))
	for i := len(r.entries) - 1; i >= 0; i-- {
		entry := r.entries[i]
		if filter.Search == "" ||
			strings.Contains(entry.InvoiceNumber, filter.Search) ||
			strings.Contains(string(entry.Action), filter.Search) {
			matched = append(matched, entry)
		}
	}
	total := int64(len(matched))
	offset := filter.Offset()
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + filter.Limit()
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

// stubReportRepo serves canned aggregates
type stubReportRepo struct {
	summary report.PeriodSummary
}

func (r *stubReportRepo) Summary(_ context.Context, from, to time.Time) (*report.PeriodSummary, error) {
	summary := r.summary
	summary.From = from
	summary.To = to
	return &summary, nil
}

func (r *stubReportRepo) DailyBreakdown(_ context.Context, from, _ time.Time) ([]report.DailySummary, error) {
	return []report.DailySummary{{
		Date:         from.Format("2006-01-02"),
		InvoiceCount: r.summary.InvoiceCount,
		GrossTotal:   r.summary.GrossTotal,
		VATTotal:     r.summary.VATTotal,
	}}, nil
}

func (r *stubReportRepo) TopProducts(_ context.Context, _, _ time.Time, _ int) ([]report.ProductSales, error) {
	return []report.ProductSales{{
		ProductID:    "prod-1",
		ProductName:  "Espresso Beans",
		QuantitySold: 4,
		Revenue:      decimal.RequireFromString("25.00"),
	}}, nil
}
