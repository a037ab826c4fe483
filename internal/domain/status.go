package domain

import (
	"fmt"
	"time"
)

// Status is the lifecycle state of an event.
type Status string

const (
	StatusUpcoming Status = "upcoming"
	StatusActive   Status = "active"
	StatusPast     Status = "past"
	// StatusDeleted is the terminal marker written by a soft delete. It is never derived.
	StatusDeleted Status = "deleted"
)

// ParseStatus accepts the three time-derived statuses. "deleted" is rejected because
// it can only be reached through a soft delete.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusUpcoming, StatusActive, StatusPast:
		return Status(s), nil
	default:
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidSpec, s)
	}
}

// Rank orders derived statuses along upcoming < active < past.
func (s Status) Rank() int {
	switch s {
	case StatusUpcoming:
		return 0
	case StatusActive:
		return 1
	case StatusPast:
		return 2
	default:
		return -1
	}
}

// DeriveStatus computes the status of the window [start, end] at now.
// Comparison is by calendar date in loc: an event is active for the whole day
// it starts and the whole day it ends.
func DeriveStatus(start, end, now time.Time, loc *time.Location) Status {
	if loc == nil {
		loc = time.UTC
	}
	today := dateOf(now, loc)
	switch {
	case today.After(dateOf(end, loc)):
		return StatusPast
	case today.Before(dateOf(start, loc)):
		return StatusUpcoming
	default:
		return StatusActive
	}
}

func dateOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
