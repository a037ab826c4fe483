package entities

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Action is a participation change recorded in the ledger.
type Action string

const (
	ActionJoin  Action = "join"
	ActionLeave Action = "leave"
)

// Standing is a user's latest recorded action for an event.
type Standing string

const (
	StandingActive   Standing = "active"
	StandingDeclined Standing = "declined"
)

// ParticipationLogEntry is one immutable ledger row. Seq is assigned by the ledger
// at append time and breaks ties between identical timestamps.
type ParticipationLogEntry struct {
	Seq       int64
	EventID   uuid.UUID
	UserID    string
	Action    Action
	Timestamp time.Time
}

// Standings folds entries into last-action-wins standings per user.
// Entries are ordered by timestamp, then by append sequence.
func Standings(entries []ParticipationLogEntry) map[string]Standing {
	ordered := make([]ParticipationLogEntry, len(entries))
	copy(ordered, entries)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].Timestamp.Equal(ordered[j].Timestamp) {
			return ordered[i].Timestamp.Before(ordered[j].Timestamp)
		}
		return ordered[i].Seq < ordered[j].Seq
	})

	out := make(map[string]Standing, len(ordered))
	for _, e := range ordered {
		switch e.Action {
		case ActionJoin:
			out[e.UserID] = StandingActive
		case ActionLeave:
			out[e.UserID] = StandingDeclined
		}
	}
	return out
}

// UserSummary is the display identity resolved by the user directory.
type UserSummary struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// ParticipationLog groups resolved users by standing.
type ParticipationLog struct {
	Active   []UserSummary `json:"active"`
	Declined []UserSummary `json:"declined"`
}
