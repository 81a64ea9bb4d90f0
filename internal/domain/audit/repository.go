package audit

import (
	"context"

	"github.com/openinvoice/backend/internal/domain/shared"
)

// Repository persists audit entries
type Repository interface {
	Append(ctx context.Context, entry *Entry) error
	FindAll(ctx context.Context, filter shared.Filter) ([]*Entry, int64, error)
}
