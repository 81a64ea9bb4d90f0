package persistence

import (
	"context"
	"fmt"

	"github.com/openinvoice/backend/internal/domain/audit"
	"github.com/openinvoice/backend/internal/domain/shared"
	"github.com/openinvoice/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAuditRepository implements audit.Repository using GORM
type GormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates a new GormAuditRepository
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

// Append stores one audit entry
func (r *GormAuditRepository) Append(ctx context.Context, entry *audit.Entry) error {
	return r.db.WithContext(ctx).Create(models.FromDomainAuditEntry(entry)).Error
}

// FindAll returns a page of audit entries, newest first
func (r *GormAuditRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*audit.Entry, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.AuditEntryModel{})
	if filter.Search != "" {
		query = query.Where("invoice_number = ? OR action = ?", filter.Search, filter.Search)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := ValidateSortField(filter.OrderBy, AuditSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var entryModels []models.AuditEntryModel
	if err := query.
		Order(fmt.Sprintf("%s %s", orderBy, orderDir)).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&entryModels).Error; err != nil {
		return nil, 0, err
	}

	entries := make([]*audit.Entry, len(entryModels))
	for i := range entryModels {
		entries[i] = entryModels[i].ToDomain()
	}
	return entries, total, nil
}
