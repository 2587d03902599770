// repository/review_repository.go
package repository

import (
	"context"
	"errors"
	"time"

	"restaurant/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReviewRepository struct {
	DB *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{DB: db}
}

// Upsert writes the review, overwriting rating and comment when the user
// already reviewed the item.
func (r *ReviewRepository) Upsert(ctx context.Context, rev *entity.Review) error {
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "menu_item_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rating", "comment", "updated_at"}),
		}).
		Create(rev).Error
}

// FindForUser returns nil without error when the user has not reviewed the item.
func (r *ReviewRepository) FindForUser(ctx context.Context, userID, menuItemID uint) (*entity.Review, error) {
	var rev entity.Review
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND menu_item_id = ?", userID, menuItemID).
		First(&rev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rev, nil
}

// ReviewRow is a review joined with its author's display name.
type ReviewRow struct {
	ID         uint      `json:"id"`
	MenuItemID uint      `json:"menuItemId"`
	UserID     uint      `json:"userId"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	UserName   *string   `json:"-"`
}

// ListForItem returns the item's reviews newest first.
func (r *ReviewRepository) ListForItem(ctx context.Context, menuItemID uint) ([]ReviewRow, error) {
	var rows []ReviewRow
	err := r.DB.WithContext(ctx).Table("reviews AS r").
		Select("r.id, r.menu_item_id, r.user_id, r.rating, r.comment, r.created_at, r.updated_at, u.name AS user_name").
		Joins("LEFT JOIN users u ON u.id = r.user_id AND u.deleted_at IS NULL").
		Where("r.menu_item_id = ? AND r.deleted_at IS NULL", menuItemID).
		Order("r.id DESC").
		Scan(&rows).Error
	return rows, err
}
