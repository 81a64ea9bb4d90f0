package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/openinvoice/backend/internal/application/catalog"
	"github.com/openinvoice/backend/internal/infrastructure/csvimport"
	"github.com/openinvoice/backend/internal/interfaces/http/dto"
)

// maxImportFileSize caps product CSV uploads at 10MB
const maxImportFileSize = 10 << 20

// ProductHandler handles catalog product endpoints
type ProductHandler struct {
	BaseHandler
	products      *catalogapp.ProductService
	importService *catalogapp.ProductImportService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(products *catalogapp.ProductService, importService *catalogapp.ProductImportService) *ProductHandler {
	return &ProductHandler{
		products:      products,
		importService: importService,
	}
}

// Create adds a product to the catalog
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	product, err := h.products.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, product)
}

// Get returns a single product by ID
func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.products.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// GetByBarcode looks a product up by its barcode, the scanner fast path
func (h *ProductHandler) GetByBarcode(c *gin.Context) {
	product, err := h.products.GetByBarcode(c.Request.Context(), c.Param("barcode"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// List returns a page of products, optionally filtered by a search query
func (h *ProductHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.products.List(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Update replaces a product's catalog data
func (h *ProductHandler) Update(c *gin.Context) {
	var req catalogapp.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	product, err := h.products.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// Delete removes a product from the catalog
func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.products.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Import loads products from an uploaded CSV file. Bad rows are reported
// in the result, they never abort the import.
func (h *ProductHandler) Import(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.BadRequest(c, "file is required")
		return
	}
	defer file.Close()

	if header.Size > maxImportFileSize {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge, "file exceeds maximum size of 10MB")
		return
	}

	result, err := h.importService.Import(c.Request.Context(), file)
	if err != nil {
		// Structural CSV problems (empty file, missing header columns) are
		// client errors, not server faults
		var columnErr *csvimport.MissingColumnError
		switch {
		case errors.Is(err, csvimport.ErrEmptyFile),
			errors.Is(err, csvimport.ErrMissingHeader),
			errors.Is(err, csvimport.ErrInvalidEncoding),
			errors.As(err, &columnErr):
			h.BadRequest(c, err.Error())
		default:
			h.HandleError(c, err)
		}
		return
	}

	h.Success(c, result)
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	{
		products.POST("", h.Create)
		products.GET("", h.List)
		products.POST("/import", h.Import)
		products.GET("/barcode/:barcode", h.GetByBarcode)
		products.GET("/:id", h.Get)
		products.PUT("/:id", h.Update)
		products.DELETE("/:id", h.Delete)
	}
}
