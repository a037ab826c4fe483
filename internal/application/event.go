package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"eventcore/internal/domain"
	"eventcore/internal/domain/entities"
	"eventcore/internal/infrastructure/metrics"
	"eventcore/internal/ports/input"
	"eventcore/internal/ports/output"
)

var _ input.EventUseCase = (*EventService)(nil)

// Deps groups the collaborators shared by EventService and ParticipantService.
type Deps struct {
	Store    output.EventStore
	Ledger   output.ParticipationLedger
	Users    output.UserDirectory
	Notifier output.Notifier
	Clock    output.Clock
	Location *time.Location
	Metrics  *metrics.Metrics
	Logger   *slog.Logger
}

func (d Deps) withDefaults() Deps {
	if d.Location == nil {
		d.Location = time.UTC
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Notifier == nil {
		d.Notifier = discard{}
	}
	if d.Users == nil {
		d.Users = unresolved{}
	}
	return d
}

type discard struct{}

func (discard) Publish(entities.Notification) {}

// unresolved stands in for a missing directory: every id resolves to a bare summary.
type unresolved struct{}

func (unresolved) Resolve(_ context.Context, ids []string) ([]entities.UserSummary, error) {
	out := make([]entities.UserSummary, 0, len(ids))
	for _, id := range ids {
		out = append(out, entities.UserSummary{ID: id})
	}
	return out, nil
}

type EventService struct {
	Deps
}

func NewEventService(deps Deps) *EventService {
	return &EventService{Deps: deps.withDefaults()}
}

func (s *EventService) status(e *entities.Event, now time.Time) domain.Status {
	return domain.DeriveStatus(e.Start, e.End, now, s.Location)
}

// reconcile re-derives the status of every non-deleted event and persists the ones
// that moved. Writes are conditional in the store, so concurrent readers running
// the same sweep converge without conflict.
func (s *EventService) reconcile(ctx context.Context) ([]entities.Event, error) {
	events, err := s.Store.List(ctx, output.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	now := s.Clock.Now()
	for i := range events {
		want := s.status(&events[i], now)
		if events[i].Status == want {
			continue
		}
		changed, err := s.Store.SetStatus(ctx, events[i].ID, want)
		if err != nil {
			return nil, fmt.Errorf("set status: %w", err)
		}
		if changed {
			s.Metrics.StatusTransition(string(want))
			s.Logger.Debug("event status refreshed", "event_id", events[i].ID, "from", events[i].Status, "to", want)
		}
		events[i].Status = want
	}
	return events, nil
}

func (s *EventService) ListEvents(ctx context.Context, status domain.Status) ([]entities.EventView, error) {
	events, err := s.reconcile(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]entities.EventView, 0, len(events))
	for i := range events {
		if status != "" && events[i].Status != status {
			continue
		}
		out = append(out, events[i].View())
	}
	return out, nil
}

// GetEvent returns soft-deleted events as well; they carry is_deleted and the
// "deleted" status.
func (s *EventService) GetEvent(ctx context.Context, id uuid.UUID) (entities.EventView, error) {
	if _, err := s.reconcile(ctx); err != nil {
		return entities.EventView{}, err
	}
	event, err := s.Store.Get(ctx, id)
	if err != nil {
		return entities.EventView{}, err
	}
	return event.View(), nil
}

func (s *EventService) CreateEvent(ctx context.Context, spec entities.EventSpec) (entities.EventView, error) {
	if err := spec.Validate(); err != nil {
		return entities.EventView{}, err
	}
	participants, err := s.resolveParticipants(ctx, spec.ParticipantIDs)
	if err != nil {
		return entities.EventView{}, err
	}
	if spec.MaxParticipants != nil && len(participants) > *spec.MaxParticipants {
		return entities.EventView{}, domain.ErrCapacityExceeded
	}

	now := s.Clock.Now()
	event := &entities.Event{
		ID:               uuid.New(),
		Title:            spec.Title,
		ShortDescription: spec.ShortDescription,
		Description:      spec.Description,
		ImageURL:         spec.ImageURL,
		City:             spec.City,
		PaymentInfo:      spec.PaymentInfo,
		Start:            spec.Start,
		End:              spec.End,
		MaxParticipants:  spec.MaxParticipants,
		Participants:     participants,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	event.Status = s.status(event, now)

	entries := make([]entities.ParticipationLogEntry, 0, len(participants))
	for _, userID := range participants {
		entries = append(entries, entities.ParticipationLogEntry{
			EventID:   event.ID,
			UserID:    userID,
			Action:    entities.ActionJoin,
			Timestamp: now,
		})
	}
	if err := s.Store.Create(ctx, event, entries); err != nil {
		s.Metrics.StorageFailure("create")
		return entities.EventView{}, fmt.Errorf("create event: %w", err)
	}

	view := event.View()
	s.Notifier.Publish(entities.NewNotification(entities.KindEventCreated, view))
	return view, nil
}

// UpdateEvent applies a partial update. The patch is applied to the locked
// current state inside the store's choke-point, so scalar fields, a participant
// replacement and its ledger entries commit together or not at all, and a new
// max_participants already bounds a replacement in the same patch.
func (s *EventService) UpdateEvent(ctx context.Context, id uuid.UUID, patch entities.EventPatch) (entities.EventView, error) {
	var next []string
	if patch.ParticipantIDs != nil {
		resolved, err := s.resolveParticipants(ctx, *patch.ParticipantIDs)
		if err != nil {
			return entities.EventView{}, err
		}
		next = resolved
	}

	now := s.Clock.Now()
	event, err := s.Store.MutateParticipants(ctx, id, func(current *entities.Event) (*output.Mutation, error) {
		if current.IsDeleted {
			return nil, domain.ErrEventNotFound
		}
		edited := current.Clone()
		windowChanged, err := patch.Apply(&edited)
		if err != nil {
			return nil, err
		}
		switch {
		case patch.Status != nil:
			edited.Status = *patch.Status
		case windowChanged:
			edited.Status = s.status(&edited, now)
		}
		edited.UpdatedAt = now

		mut := &output.Mutation{Event: &edited, Participants: current.Participants}
		if patch.ParticipantIDs != nil {
			mut.Participants = next
			mut.Entries = diffEntries(current.ID, current.Participants, next, now)
		}
		return mut, nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrStorageUnavailable) {
			s.Metrics.StorageFailure("update")
		}
		return entities.EventView{}, err
	}

	view := event.View()
	s.Notifier.Publish(entities.NewNotification(entities.KindEventUpdated, view))
	return view, nil
}

func (s *EventService) SoftDeleteEvent(ctx context.Context, id uuid.UUID) (entities.EventView, error) {
	event, err := s.Store.SoftDelete(ctx, id)
	if err != nil {
		return entities.EventView{}, err
	}
	view := event.View()
	s.Notifier.Publish(entities.NewNotification(entities.KindEventDeleted, view))
	return view, nil
}

// resolveParticipants keeps only ids the directory knows, deduplicated.
func (s *EventService) resolveParticipants(ctx context.Context, ids []string) ([]string, error) {
	ids = entities.UniqueIDs(ids)
	if len(ids) == 0 {
		return ids, nil
	}
	users, err := s.Users.Resolve(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve participants: %w", err)
	}
	out := make([]string, 0, len(users))
	for _, u := range users {
		out = append(out, u.ID)
	}
	return out, nil
}

// diffEntries yields one leave per removed user and one join per added user.
func diffEntries(eventID uuid.UUID, current, next []string, now time.Time) []entities.ParticipationLogEntry {
	var entries []entities.ParticipationLogEntry
	for _, id := range current {
		if !slices.Contains(next, id) {
			entries = append(entries, entities.ParticipationLogEntry{EventID: eventID, UserID: id, Action: entities.ActionLeave, Timestamp: now})
		}
	}
	for _, id := range next {
		if !slices.Contains(current, id) {
			entries = append(entries, entities.ParticipationLogEntry{EventID: eventID, UserID: id, Action: entities.ActionJoin, Timestamp: now})
		}
	}
	return entries
}
