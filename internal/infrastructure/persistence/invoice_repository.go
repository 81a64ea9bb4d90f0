package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/openinvoice/backend/internal/domain/ledger"
	"github.com/openinvoice/backend/internal/domain/shared"
	"github.com/openinvoice/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements ledger.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// Append persists a newly assembled invoice with its lines in one
// transaction, so a concurrent chain scan sees either all of it or nothing
func (r *GormInvoiceRepository) Append(ctx context.Context, inv *ledger.Invoice) error {
	year, sequence, err := splitInvoiceNumber(inv.InvoiceNumber)
	if err != nil {
		return err
	}

	model := models.FromDomainInvoice(inv, year, sequence)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(model).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return shared.ErrAlreadyExists
			}
			return err
		}
		return nil
	})
}

// FindByNumber returns the invoice with the given number
func (r *GormInvoiceRepository) FindByNumber(ctx context.Context, invoiceNumber string) (*ledger.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Preload("Items", orderByPosition).
		First(&model, "invoice_number = ?", invoiceNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindLatest returns the most recently appended invoice
func (r *GormInvoiceRepository) FindLatest(ctx context.Context) (*ledger.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Preload("Items", orderByPosition).
		Order("year DESC, sequence DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllAscending returns every invoice in append order, which is the
// chain order
func (r *GormInvoiceRepository) FindAllAscending(ctx context.Context) ([]*ledger.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Preload("Items", orderByPosition).
		Order("year ASC, sequence ASC").
		Find(&invoiceModels).Error; err != nil {
		return nil, err
	}

	invoices := make([]*ledger.Invoice, len(invoiceModels))
	for i := range invoiceModels {
		invoices[i] = invoiceModels[i].ToDomain()
	}
	return invoices, nil
}

// List returns a page of invoices, newest first
func (r *GormInvoiceRepository) List(ctx context.Context, filter shared.Filter) ([]*ledger.Invoice, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.InvoiceModel{})
	if filter.Search != "" {
		query = query.Where("invoice_number LIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := ValidateSortField(filter.OrderBy, InvoiceSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var invoiceModels []models.InvoiceModel
	if err := query.
		Preload("Items", orderByPosition).
		Order(fmt.Sprintf("%s %s", orderBy, orderDir)).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&invoiceModels).Error; err != nil {
		return nil, 0, err
	}

	invoices := make([]*ledger.Invoice, len(invoiceModels))
	for i := range invoiceModels {
		invoices[i] = invoiceModels[i].ToDomain()
	}
	return invoices, total, nil
}

// MaxSequence returns the highest sequence number assigned for the year
func (r *GormInvoiceRepository) MaxSequence(ctx context.Context, year int) (int, error) {
	var max int
	err := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Where("year = ?", year).
		Select("COALESCE(MAX(sequence), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max, nil
}

// SaveReturnState persists the invoice status and the per-line return
// flags. Nothing else is written: the hash columns stay exactly as
// appended.
func (r *GormInvoiceRepository) SaveReturnState(ctx context.Context, inv *ledger.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.InvoiceModel{}).
			Where("id = ?", inv.ID).
			Update("status", string(inv.Status))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}

		for _, item := range inv.Items {
			if err := tx.Model(&models.InvoiceItemModel{}).
				Where("id = ? AND invoice_id = ?", item.ID, inv.ID).
				Update("return_status", string(item.ReturnStatus)).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// orderByPosition orders preloaded invoice lines the way they were rung up
func orderByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("invoice_items.position ASC")
}

// splitInvoiceNumber extracts the year and sequence from an INV-{year}-{seq}
// invoice number
func splitInvoiceNumber(invoiceNumber string) (int, int, error) {
	var year, sequence int
	if _, err := fmt.Sscanf(invoiceNumber, "INV-%d-%d", &year, &sequence); err != nil {
		return 0, 0, fmt.Errorf("malformed invoice number %q: %w", invoiceNumber, err)
	}
	return year, sequence, nil
}
