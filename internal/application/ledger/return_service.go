package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/openinvoice/backend/internal/domain/audit"
	"github.com/openinvoice/backend/internal/domain/catalog"
	"github.com/openinvoice/backend/internal/domain/ledger"
	"github.com/openinvoice/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ReturnService processes line returns against issued invoices. Returns
// mutate only the status side of a ledger entry; chain hashes are never
// rewritten. Requests for the same invoice serialize on a per-number lock
// so eligibility is decided against current line state.
type ReturnService struct {
	invoices ledger.InvoiceRepository
	products catalog.ProductRepository
	auditLog audit.Repository
	logger   *zap.Logger
	locks    *keyedMutex
}

// NewReturnService creates a new ReturnService
func NewReturnService(
	invoices ledger.InvoiceRepository,
	products catalog.ProductRepository,
	auditLog audit.Repository,
	logger *zap.Logger,
) *ReturnService {
	return &ReturnService{
		invoices: invoices,
		products: products,
		auditLog: auditLog,
		logger:   logger,
		locks:    newKeyedMutex(),
	}
}

// ProcessReturn marks the requested lines of an invoice as returned and
// reports the refund. The request is all-or-nothing: an unknown or
// already-returned line rejects the whole call and leaves the invoice
// unchanged. Restocking happens after the state is persisted and never
// rolls it back.
func (s *ReturnService) ProcessReturn(ctx context.Context, invoiceNumber string, req ProcessReturnRequest) (*ReturnResponse, error) {
	lineIDs := make([]uuid.UUID, 0, len(req.LineIDs))
	for _, raw := range req.LineIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "Invalid line ID: "+raw)
		}
		lineIDs = append(lineIDs, id)
	}

	s.locks.Lock(invoiceNumber)
	defer s.locks.Unlock(invoiceNumber)

	inv, err := s.invoices.FindByNumber(ctx, invoiceNumber)
	if err != nil {
		return nil, err
	}

	refund, err := inv.ReturnLines(lineIDs)
	if err != nil {
		return nil, err
	}

	if err := s.invoices.SaveReturnState(ctx, inv); err != nil {
		return nil, err
	}

	s.logger.Info("Return processed",
		zap.String("invoice_number", invoiceNumber),
		zap.String("refund_amount", refund.StringFixed(2)),
		zap.String("new_status", inv.Status.String()),
	)

	s.restock(ctx, inv, lineIDs)
	s.writeAudit(ctx, invoiceNumber, fmt.Sprintf("lines=%d refund=%s", len(lineIDs), refund.StringFixed(2)))

	return &ReturnResponse{
		InvoiceNumber: invoiceNumber,
		RefundAmount:  refund,
		NewStatus:     inv.Status.String(),
	}, nil
}

// restock puts returned quantities back into the catalog
func (s *ReturnService) restock(ctx context.Context, inv *ledger.Invoice, lineIDs []uuid.UUID) {
	for _, id := range lineIDs {
		line := inv.Line(id)
		if line == nil {
			continue
		}
		productID, err := uuid.Parse(line.ProductID)
		if err != nil {
			continue
		}
		product, err := s.products.FindByID(ctx, productID)
		if err != nil {
			if !errors.Is(err, shared.ErrNotFound) {
				s.logger.Warn("Failed to restock returned line",
					zap.String("product_id", line.ProductID), zap.Error(err))
			}
			continue
		}
		product.AdjustStock(line.Quantity)
		if err := s.products.Save(ctx, product); err != nil {
			s.logger.Warn("Failed to restock returned line",
				zap.String("product_id", line.ProductID), zap.Error(err))
		}
	}
}

func (s *ReturnService) writeAudit(ctx context.Context, invoiceNumber, details string) {
	if s.auditLog == nil {
		return
	}
	entry := audit.NewEntry(audit.ActionInvoiceReturned, invoiceNumber, details)
	if err := s.auditLog.Append(ctx, entry); err != nil {
		s.logger.Warn("Failed to write audit entry",
			zap.String("invoice_number", invoiceNumber), zap.Error(err))
	}
}
