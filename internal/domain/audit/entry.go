package audit

import (
	"time"

	"github.com/google/uuid"
)

// Action identifies the kind of event an audit entry records
type Action string

const (
	ActionInvoiceCreated  Action = "invoice_created"
	ActionInvoiceReturned Action = "invoice_returned"
	ActionChainVerified   Action = "chain_verified"
	ActionImportCompleted Action = "import_completed"
	ActionSettingsUpdated Action = "settings_updated"
)

// Entry is one append-only audit log record. The audit log is a side
// journal for operators; it is not part of the hash chain and carries no
// integrity guarantee of its own.
type Entry struct {
	ID            uuid.UUID
	Action        Action
	InvoiceNumber string
	Details       string
	CreatedAt     time.Time
}

// NewEntry creates an audit entry stamped with the current time
func NewEntry(action Action, invoiceNumber, details string) *Entry {
	return &Entry{
		ID:            uuid.New(),
		Action:        action,
		InvoiceNumber: invoiceNumber,
		Details:       details,
		CreatedAt:     time.Now(),
	}
}
