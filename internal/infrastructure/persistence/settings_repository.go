package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/openinvoice/backend/internal/domain/settings"
	"github.com/openinvoice/backend/internal/domain/shared"
	"github.com/openinvoice/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSettingsRepository implements settings.Repository using GORM
type GormSettingsRepository struct {
	db *gorm.DB
}

// NewGormSettingsRepository creates a new GormSettingsRepository
func NewGormSettingsRepository(db *gorm.DB) *GormSettingsRepository {
	return &GormSettingsRepository{db: db}
}

// Get returns the value stored under key
func (r *GormSettingsRepository) Get(ctx context.Context, key string) (string, error) {
	var model models.SettingModel
	if err := r.db.WithContext(ctx).First(&model, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", shared.ErrNotFound
		}
		return "", err
	}
	return model.Value, nil
}

// Set upserts the value stored under key
func (r *GormSettingsRepository) Set(ctx context.Context, key, value string) error {
	model := models.SettingModel{Key: key, Value: value, UpdatedAt: time.Now()}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&model).Error
}

// All returns every stored setting
func (r *GormSettingsRepository) All(ctx context.Context) ([]settings.Setting, error) {
	var settingModels []models.SettingModel
	if err := r.db.WithContext(ctx).Order("key ASC").Find(&settingModels).Error; err != nil {
		return nil, err
	}

	out := make([]settings.Setting, len(settingModels))
	for i, m := range settingModels {
		out[i] = settings.Setting{Key: m.Key, Value: m.Value}
	}
	return out, nil
}
