package entities

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestStandings_LastActionWins(t *testing.T) {
	ev := uuid.New()
	t0 := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	entries := []ParticipationLogEntry{
		{Seq: 3, EventID: ev, UserID: "alice", Action: ActionLeave, Timestamp: t0.Add(2 * time.Minute)},
		{Seq: 1, EventID: ev, UserID: "alice", Action: ActionJoin, Timestamp: t0},
		{Seq: 2, EventID: ev, UserID: "bob", Action: ActionJoin, Timestamp: t0.Add(time.Minute)},
		{Seq: 4, EventID: ev, UserID: "carol", Action: ActionLeave, Timestamp: t0},
	}

	got := Standings(entries)
	assert.Equal(t, map[string]Standing{
		"alice": StandingDeclined,
		"bob":   StandingActive,
		"carol": StandingDeclined,
	}, got)
}

func TestStandings_SequenceBreaksTimestampTies(t *testing.T) {
	ev := uuid.New()
	ts := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	joinLast := []ParticipationLogEntry{
		{Seq: 8, EventID: ev, UserID: "u", Action: ActionJoin, Timestamp: ts},
		{Seq: 7, EventID: ev, UserID: "u", Action: ActionLeave, Timestamp: ts},
	}
	assert.Equal(t, StandingActive, Standings(joinLast)["u"])

	leaveLast := []ParticipationLogEntry{
		{Seq: 7, EventID: ev, UserID: "u", Action: ActionJoin, Timestamp: ts},
		{Seq: 8, EventID: ev, UserID: "u", Action: ActionLeave, Timestamp: ts},
	}
	assert.Equal(t, StandingDeclined, Standings(leaveLast)["u"])
}

func TestStandings_DoesNotReorderInput(t *testing.T) {
	entries := []ParticipationLogEntry{
		{Seq: 2, UserID: "a", Action: ActionJoin, Timestamp: time.Unix(20, 0)},
		{Seq: 1, UserID: "b", Action: ActionJoin, Timestamp: time.Unix(10, 0)},
	}
	Standings(entries)
	assert.Equal(t, int64(2), entries[0].Seq)
	assert.Empty(t, Standings(nil))
}
