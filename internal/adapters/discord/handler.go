package discord

import (
	"time"

	"eventcore/internal/ports/input"
	"eventcore/internal/ports/output"
)

// Handler serves Discord interactions from the event use cases.
type Handler struct {
	eventUseCase input.EventUseCase
	translator   output.T
	location     *time.Location
}

func NewHandler(eventUseCase input.EventUseCase, translator output.T, location *time.Location) *Handler {
	return &Handler{
		eventUseCase: eventUseCase,
		translator:   translator,
		location:     location,
	}
}
