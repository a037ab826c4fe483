package application

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/google/uuid"

	"eventcore/internal/domain"
	"eventcore/internal/domain/entities"
	"eventcore/internal/infrastructure/metrics"
	"eventcore/internal/ports/input"
	"eventcore/internal/ports/output"
)

var _ input.ParticipantUseCase = (*ParticipantService)(nil)

type ParticipantService struct {
	Deps
}

func NewParticipantService(deps Deps) *ParticipantService {
	return &ParticipantService{Deps: deps.withDefaults()}
}

// JoinEvent adds userID to the event. Preconditions are evaluated against the
// locked state inside the store's choke-point, in this order: the event exists and
// is not deleted, it has not ended, the user is not already a member (idempotent
// no-op), a slot is open.
func (s *ParticipantService) JoinEvent(ctx context.Context, eventID uuid.UUID, userID string) (entities.EventView, error) {
	now := s.Clock.Now()
	joined := false
	event, err := s.Store.MutateParticipants(ctx, eventID, func(current *entities.Event) (*output.Mutation, error) {
		if current.IsDeleted {
			return nil, domain.ErrEventNotFound
		}
		if current.Ended(now) {
			return nil, domain.ErrEventEnded
		}
		if current.HasParticipant(userID) {
			return nil, nil
		}
		if current.Full() {
			return nil, domain.ErrCapacityExceeded
		}
		joined = true
		return &output.Mutation{
			Participants: append(slices.Clone(current.Participants), userID),
			Entries: []entities.ParticipationLogEntry{{
				EventID:   current.ID,
				UserID:    userID,
				Action:    entities.ActionJoin,
				Timestamp: now,
			}},
		}, nil
	})
	if err != nil {
		s.recordFailure(entities.ActionJoin, err)
		return entities.EventView{}, err
	}
	if !joined {
		s.Metrics.ParticipationChange(string(entities.ActionJoin), metrics.ResultNoop)
		return event.View(), nil
	}
	s.Metrics.ParticipationChange(string(entities.ActionJoin), metrics.ResultOK)
	view := event.View()
	s.notifyChange(entities.ActionJoin, userID, view)
	return view, nil
}

// LeaveEvent removes userID from the event. There is no time-window restriction;
// leaving an event one is not part of is a no-op without a ledger entry.
func (s *ParticipantService) LeaveEvent(ctx context.Context, eventID uuid.UUID, userID string) (entities.EventView, error) {
	now := s.Clock.Now()
	left := false
	event, err := s.Store.MutateParticipants(ctx, eventID, func(current *entities.Event) (*output.Mutation, error) {
		if current.IsDeleted {
			return nil, domain.ErrEventNotFound
		}
		if !current.HasParticipant(userID) {
			return nil, nil
		}
		left = true
		next := slices.DeleteFunc(slices.Clone(current.Participants), func(id string) bool { return id == userID })
		return &output.Mutation{
			Participants: next,
			Entries: []entities.ParticipationLogEntry{{
				EventID:   current.ID,
				UserID:    userID,
				Action:    entities.ActionLeave,
				Timestamp: now,
			}},
		}, nil
	})
	if err != nil {
		s.recordFailure(entities.ActionLeave, err)
		return entities.EventView{}, err
	}
	if !left {
		s.Metrics.ParticipationChange(string(entities.ActionLeave), metrics.ResultNoop)
		return event.View(), nil
	}
	s.Metrics.ParticipationChange(string(entities.ActionLeave), metrics.ResultOK)
	view := event.View()
	s.notifyChange(entities.ActionLeave, userID, view)
	return view, nil
}

// ParticipationLog buckets users by their latest ledger action. It also serves
// soft-deleted events so their history stays reachable.
func (s *ParticipantService) ParticipationLog(ctx context.Context, eventID uuid.UUID) (entities.ParticipationLog, error) {
	if _, err := s.Store.Get(ctx, eventID); err != nil {
		return entities.ParticipationLog{}, err
	}
	standings, err := s.Ledger.StandingsFor(ctx, eventID)
	if err != nil {
		return entities.ParticipationLog{}, fmt.Errorf("standings: %w", err)
	}

	ids := make([]string, 0, len(standings))
	for id := range standings {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	log := entities.ParticipationLog{
		Active:   []entities.UserSummary{},
		Declined: []entities.UserSummary{},
	}
	if len(ids) == 0 {
		return log, nil
	}
	users, err := s.Users.Resolve(ctx, ids)
	if err != nil {
		return entities.ParticipationLog{}, fmt.Errorf("resolve users: %w", err)
	}
	for _, u := range users {
		switch standings[u.ID] {
		case entities.StandingActive:
			log.Active = append(log.Active, u)
		case entities.StandingDeclined:
			log.Declined = append(log.Declined, u)
		}
	}
	return log, nil
}

func (s *ParticipantService) notifyChange(action entities.Action, userID string, view entities.EventView) {
	msg := entities.NewNotification(entities.KindParticipantChange, view)
	msg.Action = action
	msg.UserID = userID
	s.Notifier.Publish(msg)
}

func (s *ParticipantService) recordFailure(action entities.Action, err error) {
	s.Metrics.ParticipationChange(string(action), domain.Code(err))
	if errors.Is(err, domain.ErrStorageUnavailable) {
		s.Metrics.StorageFailure(string(action))
		s.Logger.Error("participation change failed", "action", action, "error", err)
	}
}
