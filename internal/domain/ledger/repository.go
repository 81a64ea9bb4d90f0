package ledger

import (
	"context"

	"github.com/openinvoice/backend/internal/domain/shared"
)

// InvoiceRepository is the abstract ordered, append-only store the ledger
// is built on. Append must be atomic: a concurrent chain scan sees either
// the whole invoice or nothing. FindAllAscending iterates in append order,
// which is the chain order; the chain is never traversed by hash lookup.
type InvoiceRepository interface {
	// Append persists a newly assembled invoice together with its lines
	Append(ctx context.Context, inv *Invoice) error

	// FindByNumber returns the invoice with the given number, or
	// shared.ErrNotFound
	FindByNumber(ctx context.Context, invoiceNumber string) (*Invoice, error)

	// FindLatest returns the most recently appended invoice, or
	// shared.ErrNotFound when the ledger is empty
	FindLatest(ctx context.Context) (*Invoice, error)

	// FindAllAscending returns every invoice in append order
	FindAllAscending(ctx context.Context) ([]*Invoice, error)

	// List returns a page of invoices, newest first, with the total count
	List(ctx context.Context, filter shared.Filter) ([]*Invoice, int64, error)

	// MaxSequence returns the highest invoice sequence number assigned for
	// the given year, or 0 when none exist
	MaxSequence(ctx context.Context, year int) (int, error)

	// SaveReturnState persists the mutable return state (invoice status and
	// line return flags) of an existing invoice. Hash fields, totals, and
	// timestamps are never written by this call.
	SaveReturnState(ctx context.Context, inv *Invoice) error
}
