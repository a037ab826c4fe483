package database

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"eventcore/internal/domain"
	"eventcore/internal/domain/entities"
	"eventcore/internal/ports/output"
)

var _ output.EventStore = (*EventRepository)(nil)

// EventRepository implements output.EventStore with pgx.
type EventRepository struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

func (r *EventRepository) Create(ctx context.Context, event *entities.Event, entries []entities.ParticipationLogEntry) error {
	event.Participants = entities.UniqueIDs(event.Participants)
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO events (`+eventColumns+`)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
			event.ID, event.Title, event.ShortDescription, event.Description, event.ImageURL, event.City, event.PaymentInfo,
			timeToPgtype(event.Start), timeToPgtype(event.End), maxToPgtype(event.MaxParticipants),
			string(event.Status), event.IsDeleted, timeToPgtype(event.CreatedAt), timeToPgtype(event.UpdatedAt),
		)
		if err != nil {
			return fmt.Errorf("insert event: %w", err)
		}
		if err := insertParticipants(ctx, tx, event.ID, event.Participants, event.CreatedAt); err != nil {
			return err
		}
		_, err = appendEntries(ctx, tx, entries)
		return err
	})
	if err != nil {
		return storageErr("create event", err)
	}
	return nil
}

func (r *EventRepository) Get(ctx context.Context, id uuid.UUID) (*entities.Event, error) {
	e, err := scanEvent(r.pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
	if err != nil {
		return nil, storageErr("get event", err)
	}
	if err := attachParticipants(ctx, r.pool, []*entities.Event{&e}); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EventRepository) List(ctx context.Context, filter output.ListFilter) ([]entities.Event, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+eventColumns+`
		   FROM events
		  WHERE ($1 OR NOT is_deleted)
		    AND ($2 = '' OR status = $2)
		  ORDER BY start_at, id`,
		filter.IncludeDeleted, string(filter.Status))
	if err != nil {
		return nil, storageErr("list events", err)
	}
	defer rows.Close()

	var out []entities.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, storageErr("scan event", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list events", err)
	}

	ptrs := make([]*entities.Event, len(out))
	for i := range out {
		ptrs[i] = &out[i]
	}
	if err := attachParticipants(ctx, r.pool, ptrs); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *EventRepository) SetStatus(ctx context.Context, id uuid.UUID, status domain.Status) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE events SET status = $2 WHERE id = $1 AND status <> $2 AND NOT is_deleted`,
		id, string(status))
	if err != nil {
		return false, storageErr("set status", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *EventRepository) SoftDelete(ctx context.Context, id uuid.UUID) (*entities.Event, error) {
	e, err := scanEvent(r.pool.QueryRow(ctx,
		`UPDATE events SET is_deleted = TRUE, status = $2, updated_at = now()
		  WHERE id = $1
		  RETURNING `+eventColumns,
		id, string(domain.StatusDeleted)))
	if err != nil {
		return nil, storageErr("soft delete event", err)
	}
	if err := attachParticipants(ctx, r.pool, []*entities.Event{&e}); err != nil {
		return nil, err
	}
	return &e, nil
}

// MutateParticipants locks the event row for the whole transaction, so concurrent
// joins on the same event are serialized on the capacity check. The participant
// diff and the ledger rows commit together or not at all.
func (r *EventRepository) MutateParticipants(ctx context.Context, id uuid.UUID, fn output.MutateFunc) (*entities.Event, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, storageErr("begin tx", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	current, err := scanEvent(tx.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, storageErr("lock event", err)
	}
	if current.IsDeleted {
		return nil, domain.ErrEventNotFound
	}
	if err := attachParticipants(ctx, tx, []*entities.Event{&current}); err != nil {
		return nil, err
	}

	proposal := current.Clone()
	mut, err := fn(&proposal)
	if err != nil {
		return nil, err
	}
	if mut == nil {
		return &current, nil
	}
	next := entities.UniqueIDs(mut.Participants)
	updated := current
	if mut.Event != nil {
		updated = mut.Event.Clone()
		updated.ID, updated.IsDeleted, updated.CreatedAt = current.ID, current.IsDeleted, current.CreatedAt
		updated.Participants = current.Participants
	}
	if err := updated.CheckCapacity(next); err != nil {
		return nil, err
	}

	var added, removed []string
	for _, u := range next {
		if !slices.Contains(current.Participants, u) {
			added = append(added, u)
		}
	}
	for _, u := range current.Participants {
		if !slices.Contains(next, u) {
			removed = append(removed, u)
		}
	}
	if len(removed) > 0 {
		if _, err := tx.Exec(ctx,
			`DELETE FROM event_participants WHERE event_id = $1 AND user_id = ANY($2)`, id, removed); err != nil {
			return nil, storageErr("delete participants", err)
		}
	}
	if err := insertParticipants(ctx, tx, id, added, timeOfFirst(mut.Entries)); err != nil {
		return nil, storageErr("insert participants", err)
	}
	if _, err := appendEntries(ctx, tx, mut.Entries); err != nil {
		return nil, storageErr("append ledger", err)
	}
	if mut.Event != nil {
		if err := updateScalars(ctx, tx, &updated); err != nil {
			return nil, storageErr("update event", err)
		}
	} else if _, err := tx.Exec(ctx, `UPDATE events SET updated_at = now() WHERE id = $1`, id); err != nil {
		return nil, storageErr("touch event", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, storageErr("commit", err)
	}

	updated.Participants = next
	return &updated, nil
}

func updateScalars(ctx context.Context, q querier, event *entities.Event) error {
	_, err := q.Exec(ctx,
		`UPDATE events
		    SET title = $2, short_description = $3, description = $4, image_url = $5, city = $6,
		        payment_info = $7, start_at = $8, end_at = $9, max_participants = $10,
		        status = $11, updated_at = $12
		  WHERE id = $1`,
		event.ID, event.Title, event.ShortDescription, event.Description, event.ImageURL, event.City,
		event.PaymentInfo, timeToPgtype(event.Start), timeToPgtype(event.End), maxToPgtype(event.MaxParticipants),
		string(event.Status), timeToPgtype(event.UpdatedAt),
	)
	return err
}

func insertParticipants(ctx context.Context, q querier, eventID uuid.UUID, userIDs []string, at time.Time) error {
	for _, u := range userIDs {
		if _, err := q.Exec(ctx,
			`INSERT INTO event_participants (event_id, user_id, joined_at)
			 VALUES ($1, $2, COALESCE($3, now()))
			 ON CONFLICT DO NOTHING`,
			eventID, u, timeToPgtype(at)); err != nil {
			return fmt.Errorf("insert participant: %w", err)
		}
	}
	return nil
}

// attachParticipants loads member sets for events in one round trip.
func attachParticipants(ctx context.Context, q querier, events []*entities.Event) error {
	if len(events) == 0 {
		return nil
	}
	byID := make(map[uuid.UUID]*entities.Event, len(events))
	ids := make([]uuid.UUID, 0, len(events))
	for _, e := range events {
		e.Participants = []string{}
		byID[e.ID] = e
		ids = append(ids, e.ID)
	}
	rows, err := q.Query(ctx,
		`SELECT event_id, user_id FROM event_participants
		  WHERE event_id = ANY($1::uuid[])
		  ORDER BY joined_at, user_id`, ids)
	if err != nil {
		return storageErr("get participants", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			eventID uuid.UUID
			userID  string
		)
		if err := rows.Scan(&eventID, &userID); err != nil {
			return storageErr("scan participant", err)
		}
		if e, ok := byID[eventID]; ok {
			e.Participants = append(e.Participants, userID)
		}
	}
	if err := rows.Err(); err != nil {
		return storageErr("get participants", err)
	}
	return nil
}

func timeOfFirst(entries []entities.ParticipationLogEntry) time.Time {
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Timestamp
}
