// Package httpapi implements the ancillary, read-only HTTP surface:
// health, a debug-vars style introspection endpoint, request status,
// and a transcript poll endpoint. It never participates in the answer
// path - that is the Unix-socket RPC server's job exclusively - and
// exists only for operator observability.
package httpapi

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/annassistant/annad/internal/probe"
	"github.com/annassistant/annad/internal/transcript"
	"github.com/annassistant/annad/pkg/config"
	"github.com/annassistant/annad/pkg/version"
)

// TranscriptLookup resolves a request id to its Transcript, when the
// daemon still has one retained. Supplied by the daemon, which owns
// the lifetime of in-flight and recently-completed transcripts.
type TranscriptLookup func(requestID string) (*transcript.Transcript, bool)

// StatusSnapshot is a point-in-time summary of the daemon for /status.
type StatusSnapshot func() Status

// Status is the /status response body.
type Status struct {
	Version          string `json:"version"`
	UptimeSeconds    int64  `json:"uptime_seconds"`
	ActiveRequests   int    `json:"active_requests"`
	CompletedTotal   int64  `json:"completed_total"`
	VerifiedTotal    int64  `json:"verified_total"`
	FailedTotal      int64  `json:"failed_total"`
	EscalatedTotal   int64  `json:"escalated_total"`
}

// Server is the gin-backed ancillary HTTP server.
type Server struct {
	engine     *gin.Engine
	httpServer *http.Server
	startedAt  time.Time
	cfg        *config.Config
	registry   *probe.Registry
	lookup     TranscriptLookup
	status     StatusSnapshot
}

// NewServer builds the server and registers its routes. Gin runs in
// release mode regardless of the environment - this surface is
// read-only and has no request-bound logging requirement beyond what
// slog already provides at the daemon layer.
func NewServer(cfg *config.Config, registry *probe.Registry, lookup TranscriptLookup, status StatusSnapshot) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		engine:    engine,
		startedAt: time.Now(),
		cfg:       cfg,
		registry:  registry,
		lookup:    lookup,
		status:    status,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.engine.GET("/healthz", s.healthHandler)
	s.engine.GET("/debug/vars", s.debugVarsHandler)
	s.engine.GET("/status", s.statusHandler)
	s.engine.GET("/debug/transcript/:request_id", s.transcriptHandler)
}

func (s *Server) healthHandler(c *gin.Context) {
	if err := s.registry.ValidateBinaries(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "degraded",
			"error":  err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":          "healthy",
		"version":         version.Full(),
		"uptime_seconds":  int64(time.Since(s.startedAt).Seconds()),
		"probe_catalog_n": s.registry.Len(),
	})
}

func (s *Server) debugVarsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version":                 version.Full(),
		"worker_pool":             s.cfg.WorkerPool,
		"junior_rounds_max":       s.cfg.JuniorRoundsMax,
		"senior_rounds_max":       s.cfg.SeniorRoundsMax,
		"verification_threshold":  s.cfg.VerificationThreshold,
		"query_deadline_ms":       s.cfg.QueryDeadlineMs,
		"probe_catalog_n":         s.registry.Len(),
		"llm_specialist_enabled":  s.cfg.LLMGRPCAddr != "",
		"audit_persistence_enabled": s.cfg.AuditDSN != "",
	})
}

func (s *Server) statusHandler(c *gin.Context) {
	if s.status == nil {
		c.JSON(http.StatusOK, Status{Version: version.Full(), UptimeSeconds: int64(time.Since(s.startedAt).Seconds())})
		return
	}
	snap := s.status()
	snap.Version = version.Full()
	snap.UptimeSeconds = int64(time.Since(s.startedAt).Seconds())
	c.JSON(http.StatusOK, snap)
}

func (s *Server) transcriptHandler(c *gin.Context) {
	requestID := c.Param("request_id")
	if s.lookup == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "transcript lookup not wired"})
		return
	}
	tr, ok := s.lookup(requestID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown request_id"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"request_id": requestID,
		"summary":    tr.Summary(),
		"events":     tr.Events(),
	})
}

// Start serves on addr, blocking until Shutdown is called or the
// listener fails. Callers run it in its own goroutine.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.httpServer = &http.Server{Handler: s.engine}
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
