package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"eventcore/internal/domain"
)

func eventID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		// A malformed id cannot name an existing event.
		return uuid.Nil, domain.ErrEventNotFound
	}
	return id, nil
}

func (s *Server) listEvents(c *gin.Context) {
	var status domain.Status
	if q := c.Query("status"); q != "" {
		st, err := domain.ParseStatus(q)
		if err != nil {
			s.respondError(c, err)
			return
		}
		status = st
	}
	views, err := s.events.ListEvents(c.Request.Context(), status)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (s *Server) getEvent(c *gin.Context) {
	id, err := eventID(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	view, err := s.events.GetEvent(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) createEvent(c *gin.Context) {
	var req createEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, fmt.Errorf("%w: %w", domain.ErrInvalidSpec, err))
		return
	}
	view, err := s.events.CreateEvent(c.Request.Context(), req.spec())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (s *Server) updateEvent(c *gin.Context) {
	id, err := eventID(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	var req updateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, fmt.Errorf("%w: %w", domain.ErrInvalidSpec, err))
		return
	}
	patch, err := req.patch()
	if err != nil {
		s.respondError(c, err)
		return
	}
	view, err := s.events.UpdateEvent(c.Request.Context(), id, patch)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) deleteEvent(c *gin.Context) {
	id, err := eventID(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	view, err := s.events.SoftDeleteEvent(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) joinEvent(c *gin.Context) {
	id, err := eventID(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	view, err := s.participants.JoinEvent(c.Request.Context(), id, identity(c).UserID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) leaveEvent(c *gin.Context) {
	id, err := eventID(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	view, err := s.participants.LeaveEvent(c.Request.Context(), id, identity(c).UserID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) participationLog(c *gin.Context) {
	id, err := eventID(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	log, err := s.participants.ParticipationLog(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, log)
}

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
