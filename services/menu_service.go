// services/menu_service.go
package services

import (
	"context"
	"errors"
	"strings"

	"restaurant/configs"
	"restaurant/entity"
	"restaurant/repository"

	"gorm.io/gorm"
)

type MenuService struct {
	Repo *repository.MenuRepository

	demo func() ([]entity.MenuItem, error)
}

func NewMenuService(repo *repository.MenuRepository) *MenuService {
	return &MenuService{Repo: repo, demo: configs.DemoMenu}
}

// List returns every item, or only those in category when it is non-empty.
func (s *MenuService) List(ctx context.Context, category string) ([]entity.MenuItem, error) {
	return s.Repo.List(ctx, strings.TrimSpace(category))
}

func (s *MenuService) Get(ctx context.Context, id uint) (*entity.MenuItem, error) {
	item, err := s.Repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("menu item")
	}
	return item, err
}

// Add inserts a catalog entry. Names are not unique.
func (s *MenuService) Add(ctx context.Context, item *entity.MenuItem) error {
	item.ID = 0
	item.Name = strings.TrimSpace(item.Name)
	item.Category = strings.TrimSpace(item.Category)
	if item.Name == "" {
		return invalid("name is required")
	}
	if item.Category == "" {
		return invalid("category is required")
	}
	if item.Price < 0 {
		return invalid("price must not be negative")
	}
	return s.Repo.Create(ctx, item)
}

// SeedDemoData loads the demo menu into an empty catalog and returns the
// number of items inserted; a catalog that already has items is left alone.
func (s *MenuService) SeedDemoData(ctx context.Context) (int, error) {
	items, err := s.demo()
	if err != nil {
		return 0, err
	}
	return s.Repo.SeedIfEmpty(ctx, items)
}
