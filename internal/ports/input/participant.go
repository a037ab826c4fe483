package input

import (
	"context"

	"github.com/google/uuid"

	"eventcore/internal/domain/entities"
)

type ParticipantUseCase interface {
	JoinEvent(ctx context.Context, eventID uuid.UUID, userID string) (entities.EventView, error)
	LeaveEvent(ctx context.Context, eventID uuid.UUID, userID string) (entities.EventView, error)
	ParticipationLog(ctx context.Context, eventID uuid.UUID) (entities.ParticipationLog, error)
}
