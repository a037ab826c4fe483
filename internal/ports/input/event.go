package input

import (
	"context"

	"github.com/google/uuid"

	"eventcore/internal/domain"
	"eventcore/internal/domain/entities"
)

type EventUseCase interface {
	// ListEvents returns non-deleted events, optionally narrowed to one status.
	ListEvents(ctx context.Context, status domain.Status) ([]entities.EventView, error)
	GetEvent(ctx context.Context, id uuid.UUID) (entities.EventView, error)
	CreateEvent(ctx context.Context, spec entities.EventSpec) (entities.EventView, error)
	UpdateEvent(ctx context.Context, id uuid.UUID, patch entities.EventPatch) (entities.EventView, error)
	SoftDeleteEvent(ctx context.Context, id uuid.UUID) (entities.EventView, error)
}
