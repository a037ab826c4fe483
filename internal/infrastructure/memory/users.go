package memory

import (
	"context"
	"sync"

	"eventcore/internal/domain/entities"
	"eventcore/internal/ports/output"
)

var _ output.UserDirectory = (*UserDirectory)(nil)

type UserDirectory struct {
	mu         sync.RWMutex
	users      map[string]entities.UserSummary
	permissive bool
}

func NewUserDirectory(users ...entities.UserSummary) *UserDirectory {
	d := &UserDirectory{users: make(map[string]entities.UserSummary, len(users))}
	for _, u := range users {
		d.users[u.ID] = u
	}
	return d
}

// NewPermissiveUserDirectory resolves every id, known or not; unknown ids get a
// summary carrying only the id. Used when no account service is attached.
func NewPermissiveUserDirectory() *UserDirectory {
	d := NewUserDirectory()
	d.permissive = true
	return d
}

func (d *UserDirectory) Put(u entities.UserSummary) {
	d.mu.Lock()
	d.users[u.ID] = u
	d.mu.Unlock()
}

// Remove simulates a hard-deleted account.
func (d *UserDirectory) Remove(id string) {
	d.mu.Lock()
	delete(d.users, id)
	d.mu.Unlock()
}

func (d *UserDirectory) Resolve(ctx context.Context, ids []string) ([]entities.UserSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]entities.UserSummary, 0, len(ids))
	for _, id := range ids {
		if u, ok := d.users[id]; ok {
			out = append(out, u)
		} else if d.permissive {
			out = append(out, entities.UserSummary{ID: id})
		}
	}
	return out, nil
}
