package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"eventcore/internal/domain/entities"
	"eventcore/internal/ports/output"
)

var _ output.ParticipationLedger = (*Ledger)(nil)

// Ledger is an append-only in-memory participation log.
type Ledger struct {
	mu      sync.Mutex
	seq     int64
	entries map[uuid.UUID][]entities.ParticipationLogEntry
}

func NewLedger() *Ledger {
	return &Ledger{entries: make(map[uuid.UUID][]entities.ParticipationLogEntry)}
}

// Append validates the whole batch before storing any of it. Timestamps are
// clamped so that they never run backwards within one event.
func (l *Ledger) Append(ctx context.Context, entries ...entities.ParticipationLogEntry) ([]entities.ParticipationLogEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.Action != entities.ActionJoin && e.Action != entities.ActionLeave {
			return nil, fmt.Errorf("append ledger: unknown action %q", e.Action)
		}
		if e.UserID == "" {
			return nil, fmt.Errorf("append ledger: user id is required")
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]entities.ParticipationLogEntry, 0, len(entries))
	for _, e := range entries {
		l.seq++
		e.Seq = l.seq
		if prev := l.entries[e.EventID]; len(prev) > 0 {
			if last := prev[len(prev)-1].Timestamp; e.Timestamp.Before(last) {
				e.Timestamp = last
			}
		}
		l.entries[e.EventID] = append(l.entries[e.EventID], e)
		out = append(out, e)
	}
	return out, nil
}

func (l *Ledger) Entries(ctx context.Context, eventID uuid.UUID) ([]entities.ParticipationLogEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]entities.ParticipationLogEntry, len(l.entries[eventID]))
	copy(out, l.entries[eventID])
	return out, nil
}

func (l *Ledger) StandingsFor(ctx context.Context, eventID uuid.UUID) (map[string]entities.Standing, error) {
	entries, err := l.Entries(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return entities.Standings(entries), nil
}
