package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/openinvoice/backend/internal/domain/shared"
)

// ProductRepository persists catalog products
type ProductRepository interface {
	Save(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindByBarcode(ctx context.Context, barcode string) (*Product, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Product, int64, error)
	Search(ctx context.Context, query string, filter shared.Filter) ([]*Product, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
