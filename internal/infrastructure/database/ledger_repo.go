package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"eventcore/internal/domain/entities"
	"eventcore/internal/ports/output"
)

var _ output.ParticipationLedger = (*LedgerRepository)(nil)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// LedgerRepository implements output.ParticipationLedger on the participation_log table.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

// The inserted timestamp never precedes the latest one already logged for the
// event; seq is assigned by the bigserial at the same point.
const insertLogEntry = `
INSERT INTO participation_log (event_id, user_id, action, created_at)
VALUES ($1, $2, $3, GREATEST($4::timestamptz,
    COALESCE((SELECT max(created_at) FROM participation_log WHERE event_id = $1), $4::timestamptz)))
RETURNING seq, event_id, user_id, action, created_at`

// Append writes the batch in its own transaction.
func (r *LedgerRepository) Append(ctx context.Context, entries ...entities.ParticipationLogEntry) ([]entities.ParticipationLogEntry, error) {
	var out []entities.ParticipationLogEntry
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var err error
		out, err = appendEntries(ctx, tx, entries)
		return err
	})
	if err != nil {
		return nil, storageErr("append ledger", err)
	}
	return out, nil
}

// appendEntries inserts entries through q, which is the caller's transaction when
// the append must commit together with a membership change.
func appendEntries(ctx context.Context, q querier, entries []entities.ParticipationLogEntry) ([]entities.ParticipationLogEntry, error) {
	out := make([]entities.ParticipationLogEntry, 0, len(entries))
	for _, e := range entries {
		row := q.QueryRow(ctx, insertLogEntry, e.EventID, e.UserID, string(e.Action), timeToPgtype(e.Timestamp))
		stored, err := scanLogEntry(row)
		if err != nil {
			return nil, fmt.Errorf("insert log entry: %w", err)
		}
		out = append(out, stored)
	}
	return out, nil
}

func (r *LedgerRepository) Entries(ctx context.Context, eventID uuid.UUID) ([]entities.ParticipationLogEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT seq, event_id, user_id, action, created_at
		   FROM participation_log
		  WHERE event_id = $1
		  ORDER BY created_at, seq`, eventID)
	if err != nil {
		return nil, storageErr("query ledger", err)
	}
	defer rows.Close()

	var out []entities.ParticipationLogEntry
	for rows.Next() {
		e, err := scanLogEntry(rows)
		if err != nil {
			return nil, storageErr("scan ledger", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("read ledger", err)
	}
	return out, nil
}

func (r *LedgerRepository) StandingsFor(ctx context.Context, eventID uuid.UUID) (map[string]entities.Standing, error) {
	entries, err := r.Entries(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return entities.Standings(entries), nil
}
