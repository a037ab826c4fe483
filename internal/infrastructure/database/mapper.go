package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"eventcore/internal/domain"
	"eventcore/internal/domain/entities"
)

const eventColumns = `id, title, short_description, description, image_url, city, payment_info,
	start_at, end_at, max_participants, status, is_deleted, created_at, updated_at`

// pgtypeTimestamptzToTime returns t.Time when Valid, else zero time.
func pgtypeTimestamptzToTime(t pgtype.Timestamptz) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time
}

func timeToPgtype(t time.Time) pgtype.Timestamptz {
	if t.IsZero() {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func maxToPgtype(m *int) pgtype.Int4 {
	if m == nil {
		return pgtype.Int4{}
	}
	return pgtype.Int4{Int32: int32(*m), Valid: true}
}

func pgtypeToMax(v pgtype.Int4) *int {
	if !v.Valid {
		return nil
	}
	m := int(v.Int32)
	return &m
}

// scanEvent reads one row selected with eventColumns.
func scanEvent(row pgx.Row) (entities.Event, error) {
	var (
		e                  entities.Event
		status             string
		maxP               pgtype.Int4
		start, end         pgtype.Timestamptz
		createdAt, updated pgtype.Timestamptz
	)
	err := row.Scan(
		&e.ID, &e.Title, &e.ShortDescription, &e.Description, &e.ImageURL, &e.City, &e.PaymentInfo,
		&start, &end, &maxP, &status, &e.IsDeleted, &createdAt, &updated,
	)
	if err != nil {
		return entities.Event{}, err
	}
	e.Start = pgtypeTimestamptzToTime(start)
	e.End = pgtypeTimestamptzToTime(end)
	e.MaxParticipants = pgtypeToMax(maxP)
	e.Status = domain.Status(status)
	e.CreatedAt = pgtypeTimestamptzToTime(createdAt)
	e.UpdatedAt = pgtypeTimestamptzToTime(updated)
	return e, nil
}

func scanLogEntry(row pgx.Row) (entities.ParticipationLogEntry, error) {
	var (
		e      entities.ParticipationLogEntry
		action string
		ts     pgtype.Timestamptz
	)
	if err := row.Scan(&e.Seq, &e.EventID, &e.UserID, &action, &ts); err != nil {
		return entities.ParticipationLogEntry{}, err
	}
	e.Action = entities.Action(action)
	e.Timestamp = pgtypeTimestamptzToTime(ts)
	return e, nil
}

// storageErr classifies a driver error: missing rows become ErrEventNotFound,
// everything else is wrapped as ErrStorageUnavailable.
func storageErr(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrEventNotFound
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrStorageUnavailable, op, err)
}
