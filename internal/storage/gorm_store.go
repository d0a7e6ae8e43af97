package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KVItem is one row of the key-value table.
type KVItem struct {
	Key       string    `gorm:"primaryKey;size:255"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (KVItem) TableName() string { return "client_state_items" }

// GormStore keeps items in a relational table.
type GormStore struct {
	db     *gorm.DB
	prefix string
}

// NewGormStore migrates the item table and returns the store.
func NewGormStore(db *gorm.DB, prefix string) (*GormStore, error) {
	if err := db.AutoMigrate(&KVItem{}); err != nil {
		return nil, fmt.Errorf("migrate %s: %w", KVItem{}.TableName(), err)
	}
	return &GormStore{db: db, prefix: prefix}, nil
}

func (g *GormStore) GetItem(ctx context.Context, key string) (string, bool, error) {
	var item KVItem
	err := g.db.WithContext(ctx).Where("key = ?", g.prefix+key).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("load %s: %w", key, err)
	}
	return item.Value, true, nil
}

func (g *GormStore) SetItem(ctx context.Context, key, value string) error {
	item := KVItem{Key: g.prefix + key, Value: value}
	err := g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&item).Error
	if err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (g *GormStore) RemoveItem(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = g.prefix + k
	}
	if err := g.db.WithContext(ctx).Where("key IN ?", full).Delete(&KVItem{}).Error; err != nil {
		return fmt.Errorf("delete items: %w", err)
	}
	return nil
}

// Close closes the underlying connection pool.
func (g *GormStore) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
