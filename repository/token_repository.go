// repository/token_repository.go
package repository

import (
	"context"
	"errors"

	"restaurant/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TokenRepository stores per-user AI allowances. Every mutation is a single
// conditional row update so concurrent requests for one user stay consistent.
type TokenRepository struct {
	DB *gorm.DB
}

func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{DB: db}
}

// Find returns nil without error when the user has no balance yet.
func (r *TokenRepository) Find(ctx context.Context, userID uint) (*entity.UserToken, error) {
	var t entity.UserToken
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// InsertIfAbsent creates the balance unless one already exists for the user.
func (r *TokenRepository) InsertIfAbsent(ctx context.Context, t *entity.UserToken) error {
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(t).Error
}

// RefillIfDue resets tokens when the last refill is at or before cutoff.
// Reports whether the row was updated.
func (r *TokenRepository) RefillIfDue(ctx context.Context, userID uint, tokens int, nowMs, cutoffMs int64) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&entity.UserToken{}).
		Where("user_id = ? AND last_refill <= ?", userID, cutoffMs).
		Updates(map[string]any{"tokens": tokens, "last_refill": nowMs})
	return res.RowsAffected == 1, res.Error
}

// Decrement takes one token if any are left. Reports whether one was taken.
func (r *TokenRepository) Decrement(ctx context.Context, userID uint) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&entity.UserToken{}).
		Where("user_id = ? AND tokens > 0", userID).
		UpdateColumn("tokens", gorm.Expr("tokens - 1"))
	return res.RowsAffected == 1, res.Error
}
