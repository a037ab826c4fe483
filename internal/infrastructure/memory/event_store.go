// Package memory holds in-process implementations of the output ports. They back
// STORE=memory deployments and the application tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"eventcore/internal/domain"
	"eventcore/internal/domain/entities"
	"eventcore/internal/ports/output"
)

var _ output.EventStore = (*EventStore)(nil)

// EventStore keeps events in a map. Each event has its own mutex, which is the
// choke-point for membership changes; the map mutex only guards the index.
type EventStore struct {
	mu     sync.RWMutex
	events map[uuid.UUID]*record
	ledger output.ParticipationLedger
}

type record struct {
	mu    sync.Mutex
	event entities.Event
}

// NewEventStore creates a store that appends ledger entries to ledger inside the
// same critical section as the membership change.
func NewEventStore(ledger output.ParticipationLedger) *EventStore {
	return &EventStore{
		events: make(map[uuid.UUID]*record),
		ledger: ledger,
	}
}

func (s *EventStore) lookup(id uuid.UUID) (*record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.events[id]
	return rec, ok
}

func (s *EventStore) Create(ctx context.Context, event *entities.Event, entries []entities.ParticipationLogEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	event.Participants = entities.UniqueIDs(event.Participants)
	rec := &record{event: event.Clone()}

	// The record is locked before it becomes visible so no mutation can slip in
	// between publication and the initial ledger append.
	rec.mu.Lock()
	defer rec.mu.Unlock()

	s.mu.Lock()
	if _, exists := s.events[event.ID]; exists {
		s.mu.Unlock()
		return fmt.Errorf("create event: duplicate id %s", event.ID)
	}
	s.events[event.ID] = rec
	s.mu.Unlock()

	if len(entries) == 0 {
		return nil
	}
	if _, err := s.ledger.Append(ctx, entries...); err != nil {
		s.mu.Lock()
		delete(s.events, event.ID)
		s.mu.Unlock()
		return fmt.Errorf("%w: append ledger: %w", domain.ErrStorageUnavailable, err)
	}
	return nil
}

func (s *EventStore) Get(ctx context.Context, id uuid.UUID) (*entities.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rec, ok := s.lookup(id)
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	rec.mu.Lock()
	e := rec.event.Clone()
	rec.mu.Unlock()
	return &e, nil
}

func (s *EventStore) List(ctx context.Context, filter output.ListFilter) ([]entities.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	recs := make([]*record, 0, len(s.events))
	for _, rec := range s.events {
		recs = append(recs, rec)
	}
	s.mu.RUnlock()

	out := make([]entities.Event, 0, len(recs))
	for _, rec := range recs {
		rec.mu.Lock()
		e := rec.event.Clone()
		rec.mu.Unlock()
		if e.IsDeleted && !filter.IncludeDeleted {
			continue
		}
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.Before(out[j].Start)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (s *EventStore) SetStatus(ctx context.Context, id uuid.UUID, status domain.Status) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	rec, ok := s.lookup(id)
	if !ok {
		return false, domain.ErrEventNotFound
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.event.IsDeleted || rec.event.Status == status {
		return false, nil
	}
	rec.event.Status = status
	return true, nil
}

func (s *EventStore) SoftDelete(ctx context.Context, id uuid.UUID) (*entities.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rec, ok := s.lookup(id)
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.event.IsDeleted = true
	rec.event.Status = domain.StatusDeleted
	e := rec.event.Clone()
	return &e, nil
}

func (s *EventStore) MutateParticipants(ctx context.Context, id uuid.UUID, fn output.MutateFunc) (*entities.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rec, ok := s.lookup(id)
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.event.IsDeleted {
		return nil, domain.ErrEventNotFound
	}

	current := rec.event.Clone()
	mut, err := fn(&current)
	if err != nil {
		return nil, err
	}
	if mut == nil {
		return &current, nil
	}
	next := entities.UniqueIDs(mut.Participants)
	updated := rec.event.Clone()
	if mut.Event != nil {
		updated = mut.Event.Clone()
		updated.ID = rec.event.ID
		updated.IsDeleted = rec.event.IsDeleted
		updated.CreatedAt = rec.event.CreatedAt
		updated.Participants = rec.event.Participants
	}
	if err := updated.CheckCapacity(next); err != nil {
		return nil, err
	}
	if len(mut.Entries) > 0 {
		if _, err := s.ledger.Append(ctx, mut.Entries...); err != nil {
			return nil, fmt.Errorf("%w: append ledger: %w", domain.ErrStorageUnavailable, err)
		}
	}
	updated.Participants = next
	rec.event = updated
	e := rec.event.Clone()
	return &e, nil
}
