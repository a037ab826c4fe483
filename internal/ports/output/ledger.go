package output

import (
	"context"

	"github.com/google/uuid"

	"eventcore/internal/domain/entities"
)

// ParticipationLedger is the append-only audit trail of joins and leaves.
type ParticipationLedger interface {
	// Append stores entries as one batch and returns them with Seq assigned.
	Append(ctx context.Context, entries ...entities.ParticipationLogEntry) ([]entities.ParticipationLogEntry, error)
	Entries(ctx context.Context, eventID uuid.UUID) ([]entities.ParticipationLogEntry, error)
	StandingsFor(ctx context.Context, eventID uuid.UUID) (map[string]entities.Standing, error)
}
