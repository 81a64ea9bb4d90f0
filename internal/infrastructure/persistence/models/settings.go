package models

import "time"

// SettingModel maps one key/value setting
type SettingModel struct {
	Key       string    `gorm:"size:64;primary_key"`
	Value     string    `gorm:"size:500;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for SettingModel
func (SettingModel) TableName() string {
	return "settings"
}
