package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/openinvoice/backend/internal/domain/audit"
)

// AuditEntryModel maps one audit log record
type AuditEntryModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key"`
	Action        string    `gorm:"size:32;not null;index"`
	InvoiceNumber string    `gorm:"size:32;index"`
	Details       string    `gorm:"size:500"`
	CreatedAt     time.Time `gorm:"not null;index"`
}

// TableName returns the table name for AuditEntryModel
func (AuditEntryModel) TableName() string {
	return "audit_entries"
}

// FromDomainAuditEntry converts a domain audit entry to its persistence model
func FromDomainAuditEntry(e *audit.Entry) *AuditEntryModel {
	return &AuditEntryModel{
		ID:            e.ID,
		Action:        string(e.Action),
		InvoiceNumber: e.InvoiceNumber,
		Details:       e.Details,
		CreatedAt:     e.CreatedAt,
	}
}

// ToDomain converts the persistence model back to a domain audit entry
func (m *AuditEntryModel) ToDomain() *audit.Entry {
	return &audit.Entry{
		ID:            m.ID,
		Action:        audit.Action(m.Action),
		InvoiceNumber: m.InvoiceNumber,
		Details:       m.Details,
		CreatedAt:     m.CreatedAt,
	}
}
