// repository/menu_repository.go
package repository

import (
	"context"

	"restaurant/entity"

	"gorm.io/gorm"
)

type MenuRepository struct {
	DB *gorm.DB
}

func NewMenuRepository(db *gorm.DB) *MenuRepository {
	return &MenuRepository{DB: db}
}

// List returns the catalog in creation order, optionally narrowed to one category.
func (r *MenuRepository) List(ctx context.Context, category string) ([]entity.MenuItem, error) {
	q := r.DB.WithContext(ctx).Model(&entity.MenuItem{})
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var items []entity.MenuItem
	err := q.Order("id ASC").Find(&items).Error
	return items, err
}

func (r *MenuRepository) FindByID(ctx context.Context, id uint) (*entity.MenuItem, error) {
	var item entity.MenuItem
	if err := r.DB.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *MenuRepository) Create(ctx context.Context, item *entity.MenuItem) error {
	return r.DB.WithContext(ctx).Create(item).Error
}

// SeedIfEmpty inserts items only when the catalog has no rows. Count and insert
// share a transaction so two concurrent seeds cannot both see an empty table.
func (r *MenuRepository) SeedIfEmpty(ctx context.Context, items []entity.MenuItem) (int, error) {
	inserted := 0
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&entity.MenuItem{}).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 || len(items) == 0 {
			return nil
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}
		inserted = len(items)
		return nil
	})
	return inserted, err
}
