package entities

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"eventcore/internal/domain"
)

// Event is a time-bounded activity with an optionally capacity-limited participant set.
type Event struct {
	ID               uuid.UUID
	Title            string
	ShortDescription string
	Description      string
	ImageURL         string
	City             string
	PaymentInfo      string
	Start            time.Time
	End              time.Time
	MaxParticipants  *int // nil = unbounded
	Status           domain.Status
	IsDeleted        bool
	Participants     []string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (e *Event) HasParticipant(userID string) bool {
	return slices.Contains(e.Participants, userID)
}

// Full reports whether no open slot remains.
func (e *Event) Full() bool {
	return e.MaxParticipants != nil && len(e.Participants) >= *e.MaxParticipants
}

// CheckCapacity validates a proposed participant set against the event's bound.
// A set over the bound is accepted only when it admits nobody new, so leaves still
// succeed after max_participants was lowered below the current count.
func (e *Event) CheckCapacity(next []string) error {
	if e.MaxParticipants == nil || len(next) <= *e.MaxParticipants {
		return nil
	}
	for _, id := range next {
		if !e.HasParticipant(id) {
			return domain.ErrCapacityExceeded
		}
	}
	return nil
}

// Ended reports whether now is past the end instant.
func (e *Event) Ended(now time.Time) bool {
	return now.After(e.End)
}

// Clone returns a deep copy safe to hand out across goroutines.
func (e *Event) Clone() Event {
	c := *e
	c.Participants = slices.Clone(e.Participants)
	if e.MaxParticipants != nil {
		m := *e.MaxParticipants
		c.MaxParticipants = &m
	}
	return c
}

// View builds the read model exposed to adapters.
func (e *Event) View() EventView {
	participants := slices.Clone(e.Participants)
	if participants == nil {
		participants = []string{}
	}
	var maxP *int
	if e.MaxParticipants != nil {
		m := *e.MaxParticipants
		maxP = &m
	}
	return EventView{
		ID:               e.ID,
		Title:            e.Title,
		ShortDescription: e.ShortDescription,
		Description:      e.Description,
		ImageURL:         e.ImageURL,
		City:             e.City,
		PaymentInfo:      e.PaymentInfo,
		Start:            e.Start,
		End:              e.End,
		MaxParticipants:  maxP,
		Status:           e.Status,
		IsDeleted:        e.IsDeleted,
		Participants:     participants,
	}
}

// EventView is the snapshot returned by use cases.
type EventView struct {
	ID               uuid.UUID     `json:"id"`
	Title            string        `json:"title"`
	ShortDescription string        `json:"short_description,omitempty"`
	Description      string        `json:"description"`
	ImageURL         string        `json:"image_url"`
	City             string        `json:"city"`
	PaymentInfo      string        `json:"payment_info,omitempty"`
	Start            time.Time     `json:"start_date"`
	End              time.Time     `json:"end_date"`
	MaxParticipants  *int          `json:"max_participants"`
	Status           domain.Status `json:"status"`
	IsDeleted        bool          `json:"is_deleted"`
	Participants     []string      `json:"participants"`
}

// EventSpec is the input of event creation.
type EventSpec struct {
	Title            string
	ShortDescription string
	Description      string
	ImageURL         string
	City             string
	PaymentInfo      string
	Start            time.Time
	End              time.Time
	MaxParticipants  *int
	ParticipantIDs   []string
}

func (s EventSpec) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidSpec)
	}
	if s.Start.IsZero() || s.End.IsZero() {
		return fmt.Errorf("%w: start and end are required", domain.ErrInvalidSpec)
	}
	if s.End.Before(s.Start) {
		return fmt.Errorf("%w: end must not be before start", domain.ErrInvalidSpec)
	}
	return validateMax(s.MaxParticipants)
}

// EventPatch carries a partial update; nil fields are left unchanged.
type EventPatch struct {
	Title            *string
	ShortDescription *string
	Description      *string
	ImageURL         *string
	City             *string
	PaymentInfo      *string
	Start            *time.Time
	End              *time.Time
	MaxParticipants  *int
	ParticipantIDs   *[]string
	Status           *domain.Status

	// ClearMaxParticipants lifts the bound. It conflicts with MaxParticipants.
	ClearMaxParticipants bool
}

// Apply merges the patch into e and reports whether the time window changed.
// The merged window is validated before anything is written to e.
func (p EventPatch) Apply(e *Event) (windowChanged bool, err error) {
	start, end := e.Start, e.End
	if p.Start != nil {
		start = *p.Start
	}
	if p.End != nil {
		end = *p.End
	}
	if end.Before(start) {
		return false, fmt.Errorf("%w: end must not be before start", domain.ErrInvalidSpec)
	}
	if err := validateMax(p.MaxParticipants); err != nil {
		return false, err
	}
	if p.ClearMaxParticipants && p.MaxParticipants != nil {
		return false, fmt.Errorf("%w: max_participants cannot be both set and cleared", domain.ErrInvalidSpec)
	}
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return false, fmt.Errorf("%w: title must not be empty", domain.ErrInvalidSpec)
	}
	if p.Status != nil {
		if _, err := domain.ParseStatus(string(*p.Status)); err != nil {
			return false, err
		}
	}

	windowChanged = !start.Equal(e.Start) || !end.Equal(e.End)
	e.Start, e.End = start, end
	setIf(&e.Title, p.Title)
	setIf(&e.ShortDescription, p.ShortDescription)
	setIf(&e.Description, p.Description)
	setIf(&e.ImageURL, p.ImageURL)
	setIf(&e.City, p.City)
	setIf(&e.PaymentInfo, p.PaymentInfo)
	if p.MaxParticipants != nil {
		m := *p.MaxParticipants
		e.MaxParticipants = &m
	}
	if p.ClearMaxParticipants {
		e.MaxParticipants = nil
	}
	return windowChanged, nil
}

func setIf(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func validateMax(m *int) error {
	if m != nil && *m < 1 {
		return fmt.Errorf("%w: max_participants must be at least 1", domain.ErrInvalidSpec)
	}
	return nil
}

// UniqueIDs drops blanks and duplicates while keeping first-seen order.
func UniqueIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
