package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"socialnet/internal/model"
)

// EventRepository defines event and membership persistence operations.
type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	FindByID(ctx context.Context, id uint) (*model.Event, error)
	// FindByIDForUpdate locks the event row until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id uint) (*model.Event, error)
	UpsertRSVP(ctx context.Context, eventID, userID uint, interested, going bool) error
	UpsertInvite(ctx context.Context, eventID, userID uint) error
	CountMembers(ctx context.Context, eventID uint) (model.EventCounters, error)
	UpdateCounters(ctx context.Context, eventID uint, counters model.EventCounters) error
	// Transaction methods
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo EventRepository) error) error
}

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new event repository.
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

// Create creates a new event.
func (r *eventRepository) Create(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// FindByID finds an event by ID.
func (r *eventRepository) FindByID(ctx context.Context, id uint) (*model.Event, error) {
	var event model.Event
	if err := r.db.WithContext(ctx).Where("event_id = ?", id).First(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// FindByIDForUpdate finds an event by ID with row-level lock for update.
func (r *eventRepository) FindByIDForUpdate(ctx context.Context, id uint) (*model.Event, error) {
	var event model.Event
	if err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("event_id = ?", id).First(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

const upsertRSVPQuery = `INSERT INTO events_members (event_id, user_id, is_invited, is_interested, is_going)
VALUES (?, ?, 0, ?, ?)
ON DUPLICATE KEY UPDATE is_invited = 0, is_interested = VALUES(is_interested), is_going = VALUES(is_going)`

// UpsertRSVP clears the invited flag and sets interested/going exactly as given.
func (r *eventRepository) UpsertRSVP(ctx context.Context, eventID, userID uint, interested, going bool) error {
	return r.db.WithContext(ctx).Exec(upsertRSVPQuery, eventID, userID, interested, going).Error
}

const upsertInviteQuery = `INSERT INTO events_members (event_id, user_id, is_invited, is_interested, is_going)
VALUES (?, ?, 1, 0, 0)
ON DUPLICATE KEY UPDATE is_invited = 1`

// UpsertInvite sets the invited flag, leaving interested/going untouched on existing rows.
func (r *eventRepository) UpsertInvite(ctx context.Context, eventID, userID uint) error {
	return r.db.WithContext(ctx).Exec(upsertInviteQuery, eventID, userID).Error
}

const countMembersQuery = `SELECT
	COALESCE(SUM(is_invited), 0) AS invited,
	COALESCE(SUM(is_interested), 0) AS interested,
	COALESCE(SUM(is_going), 0) AS going
FROM events_members WHERE event_id = ?`

// CountMembers scans every membership row of the event.
func (r *eventRepository) CountMembers(ctx context.Context, eventID uint) (model.EventCounters, error) {
	var counters model.EventCounters
	err := r.db.WithContext(ctx).Raw(countMembersQuery, eventID).Scan(&counters).Error
	return counters, err
}

// UpdateCounters overwrites the aggregate counters of an event.
func (r *eventRepository) UpdateCounters(ctx context.Context, eventID uint, counters model.EventCounters) error {
	return r.db.WithContext(ctx).Model(&model.Event{}).
		Where("event_id = ?", eventID).
		Updates(map[string]interface{}{
			"event_invited":    counters.Invited,
			"event_interested": counters.Interested,
			"event_going":      counters.Going,
		}).Error
}

// WithTransaction executes a function within a database transaction.
func (r *eventRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo EventRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &eventRepository{db: tx}
		return fn(ctx, txRepo)
	})
}
