package repository

import (
	"context"

	"gorm.io/gorm"

	"socialnet/internal/model"
)

// BlacklistRepository answers blacklist membership questions.
type BlacklistRepository interface {
	// IsBlacklisted reports whether any of values is banned for nodeType.
	IsBlacklisted(ctx context.Context, nodeType model.BlacklistType, values ...string) (bool, error)
}

type blacklistRepository struct {
	db *gorm.DB
}

// NewBlacklistRepository creates a new blacklist repository.
func NewBlacklistRepository(db *gorm.DB) BlacklistRepository {
	return &blacklistRepository{db: db}
}

func (r *blacklistRepository) IsBlacklisted(ctx context.Context, nodeType model.BlacklistType, values ...string) (bool, error) {
	if len(values) == 0 {
		return false, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&model.BlacklistEntry{}).
		Where("node_type = ? AND node_value IN ?", nodeType, values).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
