package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"socialnet/internal/model"
)

func TestEventRepository_UpsertRSVP(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEventRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(upsertRSVPQuery)).
		WithArgs(10, 20, false, true).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpsertRSVP(context.Background(), 10, 20, false, true)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_UpsertInvite(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEventRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(upsertInviteQuery)).
		WithArgs(10, 30).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpsertInvite(context.Background(), 10, 30))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_CountMembers(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEventRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(countMembersQuery)).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"invited", "interested", "going"}).AddRow(4, 2, 7))

	counters, err := repo.CountMembers(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, model.EventCounters{Invited: 4, Interested: 2, Going: 7}, counters)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_FindByIDForUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEventRepository(db)

	mock.ExpectQuery(`(?s)SELECT \* FROM .events. WHERE event_id = \?.*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"event_id", "event_admin", "event_title"}).AddRow(10, 1, "Launch"))

	event, err := repo.FindByIDForUpdate(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, uint(1), event.Admin)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_FindByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEventRepository(db)

	mock.ExpectQuery(`SELECT \* FROM .events. WHERE event_id = \?`).
		WillReturnRows(sqlmock.NewRows([]string{"event_id"}))

	_, err := repo.FindByID(context.Background(), 99)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestEventRepository_WithTransaction_CommitsRecompute(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEventRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(upsertRSVPQuery)).
		WithArgs(10, 20, true, false).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(countMembersQuery)).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"invited", "interested", "going"}).AddRow(0, 1, 0))
	mock.ExpectExec(`UPDATE .events. SET .event_going.=\?,.event_interested.=\?,.event_invited.=\? WHERE event_id = \?`).
		WithArgs(0, 1, 0, 10).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.WithTransaction(context.Background(), func(ctx context.Context, tx EventRepository) error {
		if err := tx.UpsertRSVP(ctx, 10, 20, true, false); err != nil {
			return err
		}
		counters, err := tx.CountMembers(ctx, 10)
		if err != nil {
			return err
		}
		return tx.UpdateCounters(ctx, 10, counters)
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_WithTransaction_RollsBackOnError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEventRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(upsertInviteQuery)).
		WithArgs(10, 30).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(countMembersQuery)).
		WithArgs(10).
		WillReturnError(errors.New("deadlock found"))
	mock.ExpectRollback()

	err := repo.WithTransaction(context.Background(), func(ctx context.Context, tx EventRepository) error {
		if err := tx.UpsertInvite(ctx, 10, 30); err != nil {
			return err
		}
		_, err := tx.CountMembers(ctx, 10)
		return err
	})
	assert.EqualError(t, err, "deadlock found")
	assert.NoError(t, mock.ExpectationsWereMet())
}
