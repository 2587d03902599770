// repository/chat_repository.go
package repository

import (
	"context"

	"restaurant/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ChatRepository struct {
	DB *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{DB: db}
}

// CreateMessage appends a message using tx, which may be a transaction.
func (r *ChatRepository) CreateMessage(tx *gorm.DB, msg *entity.ChatMessage) error {
	return tx.Create(msg).Error
}

// CreateReply appends a bot reply. It reports false when a reply to the same
// user message already exists.
func (r *ChatRepository) CreateReply(ctx context.Context, msg *entity.ChatMessage) (bool, error) {
	res := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "reply_to_id"}}, DoNothing: true}).
		Create(msg)
	return res.RowsAffected == 1, res.Error
}

func (r *ChatRepository) ReplyExists(ctx context.Context, userMessageID uint) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&entity.ChatMessage{}).
		Where("reply_to_id = ?", userMessageID).
		Count(&n).Error
	return n > 0, err
}

// ListRecent returns up to limit messages of one bot type, newest first.
func (r *ChatRepository) ListRecent(ctx context.Context, userID uint, botType string, limit int) ([]entity.ChatMessage, error) {
	var msgs []entity.ChatMessage
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND bot_type = ?", userID, botType).
		Order("id DESC").
		Limit(limit).
		Find(&msgs).Error
	return msgs, err
}
