package repository

import (
	"context"

	"gorm.io/gorm"

	"socialnet/internal/model"
)

// SessionRepository persists login sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *model.Session) error
}

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new session repository.
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

// Create inserts a new session row.
func (r *sessionRepository) Create(ctx context.Context, session *model.Session) error {
	return r.db.WithContext(ctx).Create(session).Error
}
