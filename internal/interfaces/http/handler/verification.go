package handler

import (
	"github.com/gin-gonic/gin"
	ledgerapp "github.com/openinvoice/backend/internal/application/ledger"
)

// VerificationHandler answers receipt and ledger verification requests.
// Verification never errors out on a bad receipt: the verdict is data,
// so every completed check returns 200 with the result inside.
type VerificationHandler struct {
	BaseHandler
	verifier *ledgerapp.VerificationService
}

// NewVerificationHandler creates a new VerificationHandler
func NewVerificationHandler(verifier *ledgerapp.VerificationService) *VerificationHandler {
	return &VerificationHandler{verifier: verifier}
}

// VerifyPayload verifies a scanned QR payload against the ledger
func (h *VerificationHandler) VerifyPayload(c *gin.Context) {
	var req ledgerapp.VerifyPayloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result := h.verifier.VerifyPayload(c.Request.Context(), req.Payload)
	h.Success(c, result)
}

// VerifyInvoice re-verifies a stored invoice without a scanned payload
func (h *VerificationHandler) VerifyInvoice(c *gin.Context) {
	result := h.verifier.VerifyByNumber(c.Request.Context(), c.Param("number"))
	h.Success(c, result)
}

// VerifyChain replays the hash chain over the whole ledger
func (h *VerificationHandler) VerifyChain(c *gin.Context) {
	result, err := h.verifier.VerifyChain(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// RegisterRoutes registers all verification routes
func (h *VerificationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	verify := rg.Group("/verify")
	{
		verify.POST("", h.VerifyPayload)
		verify.GET("/invoices/:number", h.VerifyInvoice)
		verify.POST("/chain", h.VerifyChain)
	}
}
