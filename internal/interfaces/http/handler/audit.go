package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/openinvoice/backend/internal/domain/audit"
	"github.com/openinvoice/backend/internal/interfaces/http/dto"
)

// AuditHandler exposes the read side of the audit log
type AuditHandler struct {
	BaseHandler
	auditLog audit.Repository
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(auditLog audit.Repository) *AuditHandler {
	return &AuditHandler{auditLog: auditLog}
}

// AuditEntryResponse represents one audit entry in responses
type AuditEntryResponse struct {
	ID            string    `json:"id"`
	Action        string    `json:"action"`
	InvoiceNumber string    `json:"invoice_number,omitempty"`
	Details       string    `json:"details,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// List returns a page of audit entries, newest first. The search filter
// matches invoice numbers and action names.
func (h *AuditHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := req.ToFilter()
	entries, total, err := h.auditLog.FindAll(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]AuditEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, AuditEntryResponse{
			ID:            entry.ID.String(),
			Action:        string(entry.Action),
			InvoiceNumber: entry.InvoiceNumber,
			Details:       entry.Details,
			CreatedAt:     entry.CreatedAt,
		})
	}

	h.SuccessWithMeta(c, responses, total, filter.Page, filter.Limit())
}

// RegisterRoutes registers all audit routes
func (h *AuditHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/audit", h.List)
}
