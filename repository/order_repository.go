// repository/order_repository.go
package repository

import (
	"context"

	"restaurant/entity"

	"gorm.io/gorm"
)

type OrderRepository struct {
	DB *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

func (r *OrderRepository) CreateOrder(ctx context.Context, o *entity.Order) error {
	return r.DB.WithContext(ctx).Create(o).Error
}

// ListOrdersForUser returns the user's orders newest first.
func (r *OrderRepository) ListOrdersForUser(ctx context.Context, userID uint) ([]entity.Order, error) {
	var out []entity.Order
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Find(&out).Error
	return out, err
}

func (r *OrderRepository) GetOrderForUser(ctx context.Context, userID, orderID uint) (*entity.Order, error) {
	var o entity.Order
	if err := r.DB.WithContext(ctx).Where("id = ? AND user_id = ?", orderID, userID).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}
