// Package server exposes the optimizer over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/piwi3910/BoardFit/internal/config"
	"github.com/piwi3910/BoardFit/internal/engine"
	"github.com/piwi3910/BoardFit/internal/export"
	"github.com/piwi3910/BoardFit/internal/model"
)

// DefaultMaxSearchLimit caps how many parts one board search of a request
// considers. The exhaustive search is exponential in this number and a
// running round does not observe the request context.
const DefaultMaxSearchLimit = 10

// Server serves the packing API.
type Server struct {
	defaults       model.CutSettings
	maxSearchLimit int
	log            *slog.Logger
	router         *gin.Engine
}

// Option configures a Server.
type Option func(*Server)

// WithMaxSearchLimit sets the cap applied to every request's SearchLimit.
// Zero disables the cap.
func WithMaxSearchLimit(n int) Option {
	return func(s *Server) {
		s.maxSearchLimit = n
	}
}

// packRequest is the body of /v1/pack and /v1/compare. Settings default to
// the server's configured settings when omitted.
type packRequest struct {
	Parts    []model.Part       `json:"parts"`
	Boards   []model.StockBoard `json:"boards"`
	Settings *model.CutSettings `json:"settings"`
}

// errorResponse is returned for every failed request.
type errorResponse struct {
	Error  string        `json:"error"`
	Issues []model.Issue `json:"issues,omitempty"`
}

// compareEntry is one scenario of a /v1/compare response.
type compareEntry struct {
	Name     string            `json:"name"`
	Settings model.CutSettings `json:"settings"`
	Stats    model.Stats       `json:"stats"`
	Error    string            `json:"error,omitempty"`
	Best     bool              `json:"best"`
}

// New creates a server packing with defaults unless a request carries its
// own settings.
func New(defaults model.CutSettings, log *slog.Logger, opts ...Option) *Server {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	s := &Server{defaults: defaults, maxSearchLimit: DefaultMaxSearchLimit, log: log}
	for _, opt := range opts {
		opt(s)
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))

	r.GET("/healthz", s.handleHealth)
	v1 := r.Group("/v1")
	v1.GET("/strategies", s.handleStrategies)
	v1.POST("/pack", s.handlePack)
	v1.POST("/compare", s.handleCompare)

	s.router = r
	return s
}

// Handler returns the HTTP handler of the API.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, cfg config.ServerConfig) error {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: cfg.ReadTimeout,
		ReadTimeout:       cfg.ReadTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server listening", "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		s.log.Info("server shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		return nil
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleStrategies(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"strategies": engine.StrategyNames(),
		"default":    s.defaults.Strategy,
	})
}

func (s *Server) handlePack(c *gin.Context) {
	req, ok := s.bind(c)
	if !ok {
		return
	}

	opt := engine.New(s.settings(req), engine.WithLogger(s.log))
	result, err := opt.Optimize(c.Request.Context(), req.Parts, req.Boards)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, export.NewReport(result))
}

func (s *Server) handleCompare(c *gin.Context) {
	req, ok := s.bind(c)
	if !ok {
		return
	}

	// Reject bad input once instead of once per scenario
	settings := s.settings(req)
	if err := settings.Validate(); err != nil {
		s.fail(c, err)
		return
	}
	if err := model.ValidateInput(req.Parts, req.Boards); err != nil {
		s.fail(c, err)
		return
	}

	scenarios := engine.BuildDefaultScenarios(settings)
	results, err := engine.CompareScenarios(c.Request.Context(), scenarios, req.Parts, req.Boards, engine.WithLogger(s.log))
	if err != nil {
		s.fail(c, err)
		return
	}

	best := engine.BestScenario(results)
	entries := make([]compareEntry, len(results))
	for i, r := range results {
		entries[i] = compareEntry{
			Name:     r.Scenario.Name,
			Settings: r.Scenario.Settings,
			Stats:    r.Stats,
			Error:    r.Error(),
			Best:     i == best,
		}
	}
	c.JSON(http.StatusOK, gin.H{"scenarios": entries})
}

func (s *Server) bind(c *gin.Context) (packRequest, bool) {
	var req packRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
		return req, false
	}
	return req, true
}

// settings returns the request's settings, or the defaults, with SearchLimit
// clamped to the server cap.
func (s *Server) settings(req packRequest) model.CutSettings {
	settings := s.defaults
	if req.Settings != nil {
		settings = *req.Settings
	}
	if limit := s.maxSearchLimit; limit > 0 && (settings.SearchLimit == 0 || settings.SearchLimit > limit) {
		s.log.Debug("search limit clamped", "requested", settings.SearchLimit, "limit", limit)
		settings.SearchLimit = limit
	}
	return settings
}

// fail maps an optimizer error to its HTTP status. Invariant failures and
// anything unexpected are a 500.
func (s *Server) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, model.ErrInvalidInput), errors.Is(err, model.ErrUnknownStrategy):
		status = http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, errorResponse{Error: err.Error(), Issues: model.Issues(err)})
}

// requestLogger logs each request through slog after it completes.
func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
