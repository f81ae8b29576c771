package models

import (
	"time"
)

// StorageItem is one row of the key-value table behind the postgres
// storage backend.
type StorageItem struct {
	Key       string    `gorm:"type:varchar(255);primary_key" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (StorageItem) TableName() string {
	return "storage_items"
}
