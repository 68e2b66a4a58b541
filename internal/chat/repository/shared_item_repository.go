package repository

import (
	"context"

	"nexus_chat_service/internal/chat/domain"

	"gorm.io/gorm"
)

// SharedItemRepository definition shared item links (PostgreSQL)
type SharedItemRepository interface {
	AutoMigrate() error
	CreateSharedItems(ctx context.Context, items []domain.SharedItem) error
	FindByMessage(ctx context.Context, messageID string) ([]domain.SharedItem, error)
}

type sharedItemRepository struct {
	db *gorm.DB
}

// NewSharedItemRepository create SharedItemRepository
func NewSharedItemRepository(db *gorm.DB) SharedItemRepository {
	return &sharedItemRepository{db: db}
}

func (r *sharedItemRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.SharedItem{})
}

func (r *sharedItemRepository) CreateSharedItems(ctx context.Context, items []domain.SharedItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *sharedItemRepository) FindByMessage(ctx context.Context, messageID string) ([]domain.SharedItem, error) {
	var items []domain.SharedItem
	err := r.db.WithContext(ctx).Where("message_id = ?", messageID).Order("id").Find(&items).Error
	return items, err
}
