package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/openinvoice/backend/internal/domain/audit"
	"github.com/openinvoice/backend/internal/domain/ledger"
	"github.com/openinvoice/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// VerificationService answers whether a scanned receipt or a stored
// invoice still matches the ledger. All operations are read-only and may
// run concurrently with sales; a chain scan racing an append sees the
// store either with or without the newest invoice, never a half-written
// one.
type VerificationService struct {
	invoices ledger.InvoiceRepository
	auditLog audit.Repository
	logger   *zap.Logger
}

// NewVerificationService creates a new VerificationService
func NewVerificationService(invoices ledger.InvoiceRepository, auditLog audit.Repository, logger *zap.Logger) *VerificationService {
	return &VerificationService{
		invoices: invoices,
		auditLog: auditLog,
		logger:   logger,
	}
}

// VerifyPayload verifies a scanned QR payload against the ledger. Checks
// run in order and short-circuit on the first failure; every executed
// check is reported so callers can tell "not found" from "tampered".
func (s *VerificationService) VerifyPayload(ctx context.Context, payload string) ledger.VerificationResult {
	result := ledger.VerificationResult{}

	parsed, err := ledger.DecodeQR(payload)
	if err != nil {
		result.Checks.FormatValid = boolPtr(false)
		var versionErr *ledger.UnsupportedVersionError
		if errors.As(err, &versionErr) {
			result.ErrorMessage = fmt.Sprintf("Unsupported QR payload version %q", versionErr.Version)
		} else {
			result.ErrorMessage = "Invalid QR payload format"
		}
		return result
	}
	result.Checks.FormatValid = boolPtr(true)
	result.InvoiceNumber = parsed.InvoiceNumber

	inv, err := s.invoices.FindByNumber(ctx, parsed.InvoiceNumber)
	if err != nil {
		result.Checks.InvoiceExists = boolPtr(false)
		if errors.Is(err, shared.ErrNotFound) {
			result.ErrorMessage = fmt.Sprintf("Invoice %s not found", parsed.InvoiceNumber)
		} else {
			result.ErrorMessage = "Failed to look up invoice"
			s.logger.Error("Invoice lookup failed during verification",
				zap.String("invoice_number", parsed.InvoiceNumber), zap.Error(err))
		}
		return result
	}
	result.Checks.InvoiceExists = boolPtr(true)

	// Prefix comparison is the cheap pre-check; the full recomputation is
	// what actually proves integrity
	prefixOK := parsed.HashPrefix == ledger.HashPrefix(inv.CurrentHash, ledger.HashPrefixLength)
	hashOK := prefixOK && inv.RecomputeHash() == inv.CurrentHash
	result.Checks.HashMatches = boolPtr(hashOK)
	if !hashOK {
		result.ErrorMessage = "Hash verification failed - receipt may be tampered"
		return result
	}

	totalOK := parsed.Total.Equal(inv.Total)
	result.Checks.TotalMatches = boolPtr(totalOK)
	if !totalOK {
		result.ErrorMessage = "Total amount mismatch - receipt may be tampered"
		return result
	}

	result.Valid = true
	return result
}

// VerifyByNumber verifies a stored invoice without a scanned payload,
// for manual verification at the counter
func (s *VerificationService) VerifyByNumber(ctx context.Context, invoiceNumber string) ledger.VerificationResult {
	result := ledger.VerificationResult{InvoiceNumber: invoiceNumber}

	inv, err := s.invoices.FindByNumber(ctx, invoiceNumber)
	if err != nil {
		result.Checks.InvoiceExists = boolPtr(false)
		if errors.Is(err, shared.ErrNotFound) {
			result.ErrorMessage = fmt.Sprintf("Invoice %s not found", invoiceNumber)
		} else {
			result.ErrorMessage = "Failed to look up invoice"
			s.logger.Error("Invoice lookup failed during verification",
				zap.String("invoice_number", invoiceNumber), zap.Error(err))
		}
		return result
	}
	result.Checks.InvoiceExists = boolPtr(true)

	hashOK := inv.RecomputeHash() == inv.CurrentHash
	result.Checks.HashMatches = boolPtr(hashOK)
	if !hashOK {
		result.ErrorMessage = "Invoice data integrity check failed"
		return result
	}

	result.Valid = true
	return result
}

// VerifyChain replays the hash chain over the whole ledger in append
// order. A broken record degrades to an invalid verdict, never a fault.
func (s *VerificationService) VerifyChain(ctx context.Context) (ledger.ChainResult, error) {
	invoices, err := s.invoices.FindAllAscending(ctx)
	if err != nil {
		return ledger.ChainResult{}, err
	}

	result := ledger.VerifyChain(invoices)
	if result.Valid {
		s.logger.Info("Chain verification passed", zap.Int("checked_count", result.CheckedCount))
	} else {
		s.logger.Warn("Chain verification failed",
			zap.Int("checked_count", result.CheckedCount),
			zap.String("failed_invoice_number", result.FailedInvoiceNumber),
		)
	}

	if s.auditLog != nil {
		details := fmt.Sprintf("valid=%t checked=%d", result.Valid, result.CheckedCount)
		entry := audit.NewEntry(audit.ActionChainVerified, result.FailedInvoiceNumber, details)
		if err := s.auditLog.Append(ctx, entry); err != nil {
			s.logger.Warn("Failed to write audit entry", zap.Error(err))
		}
	}

	return result, nil
}

func boolPtr(b bool) *bool {
	return &b
}
