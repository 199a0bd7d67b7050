// Package web serves the checklist engine as a local JSON API.
package web

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/colonyops/jobcheck/internal/core/checklist"
	"github.com/colonyops/jobcheck/internal/jobcheck"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	maxBodySize     = 64 << 10 // 64KB
	shutdownTimeout = 5 * time.Second
)

// Server is the jobcheck API server. It owns exactly one current session;
// every request touching it holds mu for its whole duration.
type Server struct {
	app    *jobcheck.App
	log    zerolog.Logger
	router *gin.Engine

	mu      sync.Mutex
	current *checklist.Session
}

// NewServer creates a new API server
func NewServer(app *jobcheck.App, log zerolog.Logger) *Server {
	router := gin.New()

	s := &Server{
		app:    app,
		log:    log.With().Str("component", "web").Logger(),
		router: router,
	}

	router.Use(gin.Recovery(), s.requestLogger(), limitBody(maxBodySize))

	api := router.Group("/api")
	{
		api.GET("/jobs", s.handleJobs)

		api.POST("/session", s.handleOpen)
		api.GET("/session", s.withSession(s.handleGetSession))
		api.PATCH("/session", s.withSession(s.handlePatchSession))
		api.GET("/session/report", s.withSession(s.handleReport))

		api.POST("/session/points", s.withSession(s.handleAddPoint))
		api.PUT("/session/points/:index", s.withSession(s.handleUpdatePoint))
		api.DELETE("/session/points/:index", s.withSession(s.handleDeletePoint))
		api.POST("/session/points/:index/toggle", s.withSession(s.handleTogglePoint))

		api.PUT("/session/delegate", s.withSession(s.handleDelegate))
		api.PUT("/session/reviewer", s.withSession(s.handleSetReviewer))
		api.DELETE("/session/reviewer", s.withSession(s.handleClearReviewer))

		api.POST("/session/save", s.withSession(s.handleSave))
		api.POST("/session/clear", s.withSession(s.handleClear))
		api.POST("/session/complete", s.withSession(s.handleComplete))
	}

	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.log.Info().Msg("api shutting down")
	return srv.Shutdown(shutdownCtx)
}

// withSession serialises h against the current session and rejects the
// request when no session is open.
func (s *Server) withSession(h func(*gin.Context, *checklist.Session)) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		defer s.mu.Unlock()

		if s.current == nil {
			s.fail(c, errNoSession)
			return
		}
		h(c, s.current)
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	}
}

func limitBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		}
		c.Next()
	}
}
