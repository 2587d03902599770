package repository

import (
	"context"

	"restaurant/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository keeps the local mirror of auth provider identities.
type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// Upsert creates the user or refreshes name and role.
func (r *UserRepository) Upsert(ctx context.Context, u *entity.User) error {
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "role", "updated_at"}),
		}).
		Create(u).Error
}
