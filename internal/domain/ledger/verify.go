package ledger

import "fmt"

// Checks records the outcome of each verification step that was executed.
// Unexecuted checks stay nil, so a caller can distinguish "not found" from
// "tampered" from "stale payload version".
type Checks struct {
	FormatValid   *bool `json:"format_valid,omitempty"`
	InvoiceExists *bool `json:"invoice_exists,omitempty"`
	HashMatches   *bool `json:"hash_matches,omitempty"`
	TotalMatches  *bool `json:"total_matches,omitempty"`
}

// VerificationResult is the structured verdict for a single invoice
type VerificationResult struct {
	Valid         bool   `json:"valid"`
	InvoiceNumber string `json:"invoice_number,omitempty"`
	ErrorMessage  string `json:"error_message,omitempty"`
	Checks        Checks `json:"checks"`
}

// ChainResult is the verdict of a full chain scan
type ChainResult struct {
	Valid               bool   `json:"valid"`
	CheckedCount        int    `json:"checked_count"`
	FailedInvoiceNumber string `json:"failed_invoice_number,omitempty"`
	ErrorMessage        string `json:"error_message,omitempty"`
}

// VerifyChain replays the chain hash over every invoice in store append
// order and verifies both the link to the running predecessor hash and the
// recomputed content hash of each entry. It stops at the first break:
// every entry after a broken link is unverifiable against a trusted
// anchor, so scanning past it proves nothing. An empty chain is trivially
// valid.
func VerifyChain(invoices []*Invoice) ChainResult {
	expected := GenesisHash

	for i, inv := range invoices {
		if inv.PreviousHash != expected {
			return ChainResult{
				CheckedCount:        i,
				FailedInvoiceNumber: inv.InvoiceNumber,
				ErrorMessage:        fmt.Sprintf("Chain break at invoice %s", inv.InvoiceNumber),
			}
		}
		if inv.RecomputeHash() != inv.CurrentHash {
			return ChainResult{
				CheckedCount:        i,
				FailedInvoiceNumber: inv.InvoiceNumber,
				ErrorMessage:        fmt.Sprintf("Hash mismatch at invoice %s", inv.InvoiceNumber),
			}
		}
		expected = inv.CurrentHash
	}

	return ChainResult{Valid: true, CheckedCount: len(invoices)}
}
