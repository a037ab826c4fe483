package output

import (
	"context"

	"eventcore/internal/domain/entities"
)

// UserDirectory resolves user ids to display summaries. Unknown or deleted
// users are omitted; the result keeps the order of ids.
type UserDirectory interface {
	Resolve(ctx context.Context, ids []string) ([]entities.UserSummary, error)
}
