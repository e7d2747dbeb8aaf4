package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/outils-citoyens/outils-api/internal/chat"
	"github.com/outils-citoyens/outils-api/internal/config"
	"github.com/outils-citoyens/outils-api/internal/legal"
	"github.com/outils-citoyens/outils-api/internal/logging"
	"github.com/outils-citoyens/outils-api/internal/pipeline"
	"github.com/outils-citoyens/outils-api/internal/server/middleware"
	"github.com/outils-citoyens/outils-api/internal/server/ratelimit"
)

// maxBodyBytes caps every request body.
const maxBodyBytes = 1 << 20

// Deps holds the collaborators the handlers call. Legal may be nil, in which
// case the legal endpoints answer 503.
type Deps struct {
	Pipeline    *pipeline.Pipeline
	Chat        *chat.Assistant
	Legal       *legal.Service
	RateLimiter *ratelimit.Limiter
	Logger      *logging.Logger
}

// Server represents the HTTP server
type Server struct {
	httpServer      *http.Server
	pipeline        *pipeline.Pipeline
	chat            *chat.Assistant
	legal           *legal.Service
	rateLimiter     *ratelimit.Limiter
	log             *logging.Logger
	corsOrigins     []string
	shutdownTimeout time.Duration
}

// New creates a new server instance
func New(cfg config.ServerConfig, deps Deps) *Server {
	s := &Server{
		pipeline:        deps.Pipeline,
		chat:            deps.Chat,
		legal:           deps.Legal,
		rateLimiter:     deps.RateLimiter,
		log:             deps.Logger,
		corsOrigins:     cfg.CORSOrigins,
		shutdownTimeout: cfg.ShutdownTimeout(),
	}
	if s.log == nil {
		s.log = logging.NewNop()
	}
	if s.pipeline == nil {
		s.pipeline = pipeline.New(pipeline.Options{Logger: s.log})
	}
	if s.chat == nil {
		s.chat = chat.New(nil, s.log)
	}
	if s.rateLimiter == nil {
		s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())
	}
	if s.shutdownTimeout <= 0 {
		s.shutdownTimeout = 10 * time.Second
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /tools", s.handleTools)
	mux.HandleFunc("POST /generate", s.handleGenerate)
	mux.HandleFunc("POST /generate/stream", s.handleGenerateStream)
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("POST /legal/search", s.handleLegalSearch)
	mux.HandleFunc("GET /legal/health", s.handleLegalHealth)

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.withRateLimit(middleware.RequestID(s.withLogging(s.withCORS(mux)))),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      300 * time.Second, // two refinement passes with retries
		IdleTimeout:       60 * time.Second,
	}

	return s
}

// Handler returns the full middleware-wrapped handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start listens on the configured port and serves until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then shuts down
// gracefully within the configured timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info("server starting", "addr", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.log.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		err := s.httpServer.Shutdown(shutdownCtx)
		s.rateLimiter.Stop()
		if err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		s.log.Info("server stopped")
		return nil
	})

	return g.Wait()
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("error encoding JSON response", "error", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// decodeJSON reads a size-capped JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return &ErrValidation{Message: "request body too large"}
		}
		return &ErrValidation{Message: "invalid JSON body"}
	}
	return nil
}
