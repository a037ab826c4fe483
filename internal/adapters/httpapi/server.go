// Package httpapi exposes the event use cases over HTTP with gin, and live
// participation updates over websocket.
package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"eventcore/internal/ports/input"
	"eventcore/internal/ports/output"
)

type Deps struct {
	Events       input.EventUseCase
	Participants input.ParticipantUseCase
	Hub          Registry
	Translator   output.T
	JWTSecret    []byte
	Gatherer     prometheus.Gatherer
	Logger       *slog.Logger
}

type Server struct {
	events       input.EventUseCase
	participants input.ParticipantUseCase
	hub          Registry
	translator   output.T
	jwtSecret    []byte
	gatherer     prometheus.Gatherer
	logger       *slog.Logger
	engine       *gin.Engine
}

func NewServer(deps Deps) *Server {
	s := &Server{
		events:       deps.Events,
		participants: deps.Participants,
		hub:          deps.Hub,
		translator:   deps.Translator,
		jwtSecret:    deps.JWTSecret,
		gatherer:     deps.Gatherer,
		logger:       deps.Logger,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.gatherer == nil {
		s.gatherer = prometheus.DefaultGatherer
	}
	s.engine = gin.New()
	s.engine.Use(gin.Recovery(), s.requestLogger())
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/healthz", s.healthz)
	s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))

	authed := s.engine.Group("/", s.authenticate())
	authed.GET("/events", s.listEvents)
	authed.GET("/events/:id", s.getEvent)
	authed.POST("/events/:id/join", s.joinEvent)
	authed.POST("/events/:id/leave", s.leaveEvent)
	authed.GET("/ws/events", s.observeEvents)

	admin := authed.Group("/", s.requireAdmin())
	admin.POST("/events", s.createEvent)
	admin.PATCH("/events/:id", s.updateEvent)
	admin.DELETE("/events/:id", s.deleteEvent)
	admin.GET("/events/:id/participation-log", s.participationLog)
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down within
// shutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("http server shutting down")
	return srv.Shutdown(shutdownCtx)
}
