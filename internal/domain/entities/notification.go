package entities

import (
	"time"

	"github.com/google/uuid"
)

// NotificationKind identifies what a fan-out message describes.
type NotificationKind string

const (
	KindParticipantChange NotificationKind = "participant-change"
	KindEventCreated      NotificationKind = "event-created"
	KindEventUpdated      NotificationKind = "event-updated"
	KindEventDeleted      NotificationKind = "event-deleted"
)

// Notification is the payload pushed to observers.
type Notification struct {
	Kind             NotificationKind `json:"kind"`
	Action           Action           `json:"action,omitempty"`
	EventID          uuid.UUID        `json:"event_id"`
	UserID           string           `json:"user_id,omitempty"`
	Title            string           `json:"title,omitempty"`
	ParticipantCount int              `json:"participant_count"`
	MaxParticipants  *int             `json:"max_participants,omitempty"`
	Origin           string           `json:"origin,omitempty"`
	SentAt           time.Time        `json:"sent_at"`
}

// NewNotification fills the event-derived fields of a notification.
func NewNotification(kind NotificationKind, e EventView) Notification {
	return Notification{
		Kind:             kind,
		EventID:          e.ID,
		Title:            e.Title,
		ParticipantCount: len(e.Participants),
		MaxParticipants:  e.MaxParticipants,
	}
}
