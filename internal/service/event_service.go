package service

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"

	apperrors "socialnet/internal/errors"
	"socialnet/internal/model"
	"socialnet/internal/repository"
)

// EventService maintains event membership flags and their aggregate counters.
type EventService interface {
	Get(ctx context.Context, eventID uint) (*model.Event, error)
	RSVP(ctx context.Context, eventID, userID uint, status model.RSVPStatus) error
	Invite(ctx context.Context, eventID, fromUserID, toUserID uint) error
}

type eventService struct {
	events repository.EventRepository
	users  repository.UserRepository
	logger *slog.Logger
}

// NewEventService creates a new event service.
func NewEventService(events repository.EventRepository, users repository.UserRepository, logger *slog.Logger) EventService {
	if logger == nil {
		logger = slog.Default()
	}
	return &eventService{events: events, users: users, logger: logger}
}

func (s *eventService) Get(ctx context.Context, eventID uint) (*model.Event, error) {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("event not found")
		}
		return nil, apperrors.Internal("find event", err)
	}
	return event, nil
}

// RSVP clears the invited flag, sets exactly the flag matching status and
// recomputes the event counters in one transaction.
func (s *eventService) RSVP(ctx context.Context, eventID, userID uint, status model.RSVPStatus) error {
	if !status.Valid() {
		return apperrors.Validation("Invalid RSVP status")
	}

	err := s.events.WithTransaction(ctx, func(ctx context.Context, txRepo repository.EventRepository) error {
		if _, err := lockEvent(ctx, txRepo, eventID); err != nil {
			return err
		}
		interested := status == model.RSVPInterested
		going := status == model.RSVPGoing
		if err := txRepo.UpsertRSVP(ctx, eventID, userID, interested, going); err != nil {
			return apperrors.Internal("upsert rsvp", err)
		}
		return recomputeCounters(ctx, txRepo, eventID)
	})
	if err != nil {
		return s.fail(ctx, "rsvp", eventID, err)
	}

	s.logger.InfoContext(ctx, "event rsvp", "event_id", eventID, "user_id", userID, "status", status)
	return nil
}

// Invite marks toUserID as invited. Only the event admin may invite.
func (s *eventService) Invite(ctx context.Context, eventID, fromUserID, toUserID uint) error {
	err := s.events.WithTransaction(ctx, func(ctx context.Context, txRepo repository.EventRepository) error {
		event, err := lockEvent(ctx, txRepo, eventID)
		if err != nil {
			return err
		}
		if event.Admin != fromUserID {
			return apperrors.Authorization("Only the event admin can invite people")
		}
		if fromUserID == toUserID {
			return apperrors.Validation("You can't invite yourself")
		}
		if _, err := s.users.FindByID(ctx, toUserID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("user not found")
			}
			return apperrors.Internal("find invitee", err)
		}
		if err := txRepo.UpsertInvite(ctx, eventID, toUserID); err != nil {
			return apperrors.Internal("upsert invite", err)
		}
		return recomputeCounters(ctx, txRepo, eventID)
	})
	if err != nil {
		return s.fail(ctx, "invite", eventID, err)
	}

	s.logger.InfoContext(ctx, "event invite", "event_id", eventID, "from_user_id", fromUserID, "to_user_id", toUserID)
	return nil
}

func (s *eventService) fail(ctx context.Context, op string, eventID uint, err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Kind != apperrors.KindInternal {
		return err
	}
	s.logger.ErrorContext(ctx, "event membership update rolled back", "op", op, "event_id", eventID, "error", err)
	if appErr != nil {
		return err
	}
	return apperrors.Internal(op+" failed", err)
}

func lockEvent(ctx context.Context, repo repository.EventRepository, eventID uint) (*model.Event, error) {
	event, err := repo.FindByIDForUpdate(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("event not found")
		}
		return nil, apperrors.Internal("lock event", err)
	}
	return event, nil
}

// recomputeCounters overwrites the counters from a full scan of membership rows.
func recomputeCounters(ctx context.Context, repo repository.EventRepository, eventID uint) error {
	counters, err := repo.CountMembers(ctx, eventID)
	if err != nil {
		return apperrors.Internal("count members", err)
	}
	if err := repo.UpdateCounters(ctx, eventID, counters); err != nil {
		return apperrors.Internal("update counters", err)
	}
	return nil
}
