package output

import (
	"context"

	"github.com/google/uuid"

	"eventcore/internal/domain"
	"eventcore/internal/domain/entities"
)

// ListFilter narrows EventStore.List. The zero value lists every non-deleted event.
type ListFilter struct {
	Status         domain.Status
	IncludeDeleted bool
}

// Mutation is a proposed participant set plus the ledger entries that must be
// committed with it. Participants is always the complete new set.
//
// Event, when set, carries edited scalar fields and status that commit together
// with the membership change; its Participants, IsDeleted and CreatedAt are ignored.
// Capacity is then checked against Event's max_participants.
type Mutation struct {
	Event        *entities.Event
	Participants []string
	Entries      []entities.ParticipationLogEntry
}

// MutateFunc inspects the locked current event and proposes a mutation.
// Returning a nil mutation leaves the event untouched; returning an error aborts
// and the error is handed back to the caller unchanged.
type MutateFunc func(current *entities.Event) (*Mutation, error)

// EventStore owns events and their participant sets.
//
// MutateParticipants is the only way to change an event once it exists, other than
// the status sweep and soft delete.
// Implementations hold an exclusive lock on the event from reading the current set
// until commit, re-check capacity against that locked state, and persist the
// participant diff and the ledger entries atomically.
type EventStore interface {
	Create(ctx context.Context, event *entities.Event, entries []entities.ParticipationLogEntry) error
	Get(ctx context.Context, id uuid.UUID) (*entities.Event, error)
	List(ctx context.Context, filter ListFilter) ([]entities.Event, error)
	// SetStatus writes status only when it differs and the event is not deleted.
	// It reports whether a row changed, so concurrent sweeps are idempotent.
	SetStatus(ctx context.Context, id uuid.UUID, status domain.Status) (bool, error)
	SoftDelete(ctx context.Context, id uuid.UUID) (*entities.Event, error)
	MutateParticipants(ctx context.Context, id uuid.UUID, fn MutateFunc) (*entities.Event, error)
}
