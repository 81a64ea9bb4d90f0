package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/openinvoice/backend/internal/domain/catalog"
	"github.com/openinvoice/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ProductService manages the sellable catalog
type ProductService struct {
	products catalog.ProductRepository
	logger   *zap.Logger
}

// NewProductService creates a new product service
func NewProductService(products catalog.ProductRepository, logger *zap.Logger) *ProductService {
	return &ProductService{products: products, logger: logger}
}

// Create adds a product to the catalog. Barcodes are unique when present.
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	if req.Barcode != "" {
		existing, err := s.products.FindByBarcode(ctx, req.Barcode)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		if existing != nil {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "A product with this barcode already exists")
		}
	}

	product, err := catalog.NewProduct(req.Barcode, req.Name, req.Price, req.VATRate, req.Stock)
	if err != nil {
		return nil, err
	}
	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.String("name", product.Name))

	resp := ToProductResponse(product)
	return &resp, nil
}

// Update replaces the editable fields of a product
func (s *ProductService) Update(ctx context.Context, id string, req UpdateProductRequest) (*ProductResponse, error) {
	productID, err := uuid.Parse(id)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid product id")
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if req.Barcode != "" && req.Barcode != product.Barcode {
		existing, err := s.products.FindByBarcode(ctx, req.Barcode)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		if existing != nil {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "A product with this barcode already exists")
		}
	}

	if err := product.Update(req.Barcode, req.Name, req.Price, req.VATRate, req.Stock); err != nil {
		return nil, err
	}
	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}

	resp := ToProductResponse(product)
	return &resp, nil
}

// Get returns a product by id
func (s *ProductService) Get(ctx context.Context, id string) (*ProductResponse, error) {
	productID, err := uuid.Parse(id)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid product id")
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// GetByBarcode returns a product by its barcode, used by the register to
// resolve scans
func (s *ProductService) GetByBarcode(ctx context.Context, barcode string) (*ProductResponse, error) {
	if barcode == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Barcode cannot be empty")
	}

	product, err := s.products.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// List returns a page of products, optionally filtered by a search term
// matching name or barcode
func (s *ProductService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[ProductResponse], error) {
	var (
		products []*catalog.Product
		total    int64
		err      error
	)
	if filter.Search != "" {
		products, total, err = s.products.Search(ctx, filter.Search, filter)
	} else {
		products, total, err = s.products.FindAll(ctx, filter)
	}
	if err != nil {
		return nil, err
	}

	items := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		items = append(items, ToProductResponse(p))
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	result := shared.NewPaginated(items, total, page, filter.Limit())
	return &result, nil
}

// Delete removes a product from the catalog. Invoice lines keep their own
// copy of the product data, so history is unaffected.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	productID, err := uuid.Parse(id)
	if err != nil {
		return shared.NewDomainError("INVALID_INPUT", "Invalid product id")
	}

	if err := s.products.Delete(ctx, productID); err != nil {
		return err
	}
	s.logger.Info("product deleted", zap.String("product_id", productID.String()))
	return nil
}
