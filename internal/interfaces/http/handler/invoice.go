package handler

import (
	"github.com/gin-gonic/gin"
	ledgerapp "github.com/openinvoice/backend/internal/application/ledger"
	"github.com/openinvoice/backend/internal/interfaces/http/dto"
)

// InvoiceHandler handles invoice creation, lookup, and returns
type InvoiceHandler struct {
	BaseHandler
	invoices *ledgerapp.InvoiceService
	returns  *ledgerapp.ReturnService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoices *ledgerapp.InvoiceService, returns *ledgerapp.ReturnService) *InvoiceHandler {
	return &InvoiceHandler{
		invoices: invoices,
		returns:  returns,
	}
}

// Create records a sale and appends the invoice to the ledger
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req ledgerapp.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	invoice, err := h.invoices.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, invoice)
}

// Get returns a single invoice by its number
func (h *InvoiceHandler) Get(c *gin.Context) {
	invoice, err := h.invoices.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// List returns a page of invoices, newest first
func (h *InvoiceHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := req.ToFilter()
	invoices, total, err := h.invoices.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, invoices, total, filter.Page, filter.Limit())
}

// Return marks invoice lines as returned and reports the refund
func (h *InvoiceHandler) Return(c *gin.Context) {
	var req ledgerapp.ProcessReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.returns.ProcessReturn(c.Request.Context(), c.Param("number"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// RegisterRoutes registers all invoice routes
func (h *InvoiceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	invoices := rg.Group("/invoices")
	{
		invoices.POST("", h.Create)
		invoices.GET("", h.List)
		invoices.GET("/:number", h.Get)
		invoices.POST("/:number/return", h.Return)
	}
}
