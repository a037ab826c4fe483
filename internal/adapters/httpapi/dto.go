package httpapi

import (
	"time"

	"eventcore/internal/domain"
	"eventcore/internal/domain/entities"
)

type createEventRequest struct {
	Title            string    `json:"title"`
	ShortDescription string    `json:"short_description"`
	Description      string    `json:"description"`
	ImageURL         string    `json:"image_url"`
	City             string    `json:"city"`
	PaymentInfo      string    `json:"payment_info"`
	StartDate        time.Time `json:"start_date"`
	EndDate          time.Time `json:"end_date"`
	MaxParticipants  *int      `json:"max_participants"`
	ParticipantIDs   []string  `json:"participant_ids"`
}

func (r createEventRequest) spec() entities.EventSpec {
	return entities.EventSpec{
		Title:            r.Title,
		ShortDescription: r.ShortDescription,
		Description:      r.Description,
		ImageURL:         r.ImageURL,
		City:             r.City,
		PaymentInfo:      r.PaymentInfo,
		Start:            r.StartDate,
		End:              r.EndDate,
		MaxParticipants:  r.MaxParticipants,
		ParticipantIDs:   r.ParticipantIDs,
	}
}

// updateEventRequest carries only the fields present in the PATCH body. A null
// max_participants reads as absent; clear_max_participants lifts the bound.
type updateEventRequest struct {
	Title            *string    `json:"title"`
	ShortDescription *string    `json:"short_description"`
	Description      *string    `json:"description"`
	ImageURL         *string    `json:"image_url"`
	City             *string    `json:"city"`
	PaymentInfo      *string    `json:"payment_info"`
	StartDate        *time.Time `json:"start_date"`
	EndDate          *time.Time `json:"end_date"`
	MaxParticipants  *int       `json:"max_participants"`
	ParticipantIDs   *[]string  `json:"participant_ids"`
	Status           *string    `json:"status"`

	ClearMaxParticipants bool `json:"clear_max_participants"`
}

func (r updateEventRequest) patch() (entities.EventPatch, error) {
	p := entities.EventPatch{
		Title:            r.Title,
		ShortDescription: r.ShortDescription,
		Description:      r.Description,
		ImageURL:         r.ImageURL,
		City:             r.City,
		PaymentInfo:      r.PaymentInfo,
		Start:            r.StartDate,
		End:              r.EndDate,
		MaxParticipants:  r.MaxParticipants,
		ParticipantIDs:   r.ParticipantIDs,

		ClearMaxParticipants: r.ClearMaxParticipants,
	}
	if r.Status != nil {
		st, err := domain.ParseStatus(*r.Status)
		if err != nil {
			return entities.EventPatch{}, err
		}
		p.Status = &st
	}
	return p, nil
}
