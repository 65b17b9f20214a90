// Package health serves a small HTTP status endpoint for process supervisors.
package health

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fadedpez/hatbot/internal/logging"
	"github.com/fadedpez/hatbot/pkg/entities"
	"github.com/gin-gonic/gin"
)

const loadTimeout = 5 * time.Second

// Snapshotter loads the current document
type Snapshotter interface {
	Snapshot(ctx context.Context) (*entities.Document, error)
}

// Server holds the dependencies for the health handlers
type Server struct {
	source     Snapshotter
	logger     *logging.Logger
	router     *gin.Engine
	httpServer *http.Server
}

// NewServer creates a health server listening on addr
func NewServer(addr string, source Snapshotter, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.Default
	}

	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		source: source,
		logger: logger,
		router: router,
	}
	s.RegisterRoutes(router)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// RegisterRoutes registers the health routes
func (s *Server) RegisterRoutes(router *gin.Engine) {
	router.GET("/healthz", s.Healthz)
}

// Handler returns the HTTP handler, for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Healthz reports whether the store can be loaded and how many guilds it holds
func (s *Server) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), loadTimeout)
	defer cancel()

	doc, err := s.source.Snapshot(ctx)
	if err != nil {
		s.logger.Warn("Health check failed: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "error",
			"error":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"guilds": len(doc.Guilds),
	})
}

// Start serves in the background until Shutdown is called
func (s *Server) Start() {
	go func() {
		s.logger.Info("Health endpoint listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Health server stopped: %v", err)
		}
	}()
}

// Shutdown stops the server, waiting for in-flight requests until ctx is done
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
