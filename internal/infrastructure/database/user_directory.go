package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"eventcore/internal/domain/entities"
	"eventcore/internal/ports/output"
)

var _ output.UserDirectory = (*UserDirectory)(nil)

// UserDirectory reads display summaries from the account service's users table.
type UserDirectory struct {
	pool *pgxpool.Pool
}

func NewUserDirectory(pool *pgxpool.Pool) *UserDirectory {
	return &UserDirectory{pool: pool}
}

func (d *UserDirectory) Resolve(ctx context.Context, ids []string) ([]entities.UserSummary, error) {
	if len(ids) == 0 {
		return []entities.UserSummary{}, nil
	}
	rows, err := d.pool.Query(ctx,
		`SELECT id, full_name, email FROM users WHERE id = ANY($1) AND NOT is_deleted`, ids)
	if err != nil {
		return nil, storageErr("resolve users", err)
	}
	defer rows.Close()

	found := make(map[string]entities.UserSummary, len(ids))
	for rows.Next() {
		var u entities.UserSummary
		if err := rows.Scan(&u.ID, &u.FullName, &u.Email); err != nil {
			return nil, storageErr("scan user", err)
		}
		found[u.ID] = u
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("resolve users", err)
	}

	out := make([]entities.UserSummary, 0, len(found))
	for _, id := range ids {
		if u, ok := found[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}
