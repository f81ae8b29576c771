package storage

import (
	"context"
	"errors"

	"souk-oman/pkg/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBackend keeps values in the storage_items table.
type GormBackend struct {
	db *gorm.DB
}

func NewGormBackend(db *gorm.DB) *GormBackend {
	return &GormBackend{db: db}
}

func (b *GormBackend) Read(ctx context.Context, key string) (string, bool, error) {
	var item models.StorageItem
	err := b.db.WithContext(ctx).Where("key = ?", key).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return item.Value, true, nil
}

func (b *GormBackend) Write(ctx context.Context, key, value string) error {
	item := &models.StorageItem{Key: key, Value: value}
	return b.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(item).Error
}

func (b *GormBackend) Delete(ctx context.Context, key string) error {
	return b.db.WithContext(ctx).Where("key = ?", key).Delete(&models.StorageItem{}).Error
}
