// Package api - thin HTTP layer over the quote engine and the contact relay.
// The API parses input, delegates to core packages and serializes output.
// It never computes prices itself.
package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"audit-quote/internal/config"
	"audit-quote/internal/logging"
)

// Notifier delivers contact-form notifications.
type Notifier interface {
	SendMessage(ctx context.Context, text string) error
}

// Server is the API server
type Server struct {
	mux      *http.ServeMux
	handler  http.Handler
	version  string
	config   config.ServerConfig
	notifier Notifier
	limiter  *clientLimiter
	proxies  trustedProxies
	metrics  *metrics
	logger   *zap.Logger
	now      func() time.Time
}

// Option customizes a Server
type Option func(*Server)

// WithNotifier sets the contact relay. Without one /contact reports a
// configuration error.
func WithNotifier(n Notifier) Option {
	return func(s *Server) { s.notifier = n }
}

// WithLogger replaces the request logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// NewServer creates a new API server
func NewServer(version string, cfg config.ServerConfig, opts ...Option) *Server {
	s := &Server{
		mux:     http.NewServeMux(),
		version: version,
		config:  cfg,
		limiter: newClientLimiter(cfg.ContactRatePerMinute, cfg.ContactBurst),
		metrics: &metrics{},
		logger:  logging.Named("api"),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	proxies, invalid := parseTrustedProxies(cfg.TrustedProxies)
	if len(invalid) > 0 {
		s.logger.Warn("ignoring invalid trusted proxies", zap.Strings("entries", invalid))
	}
	s.proxies = proxies

	s.registerRoutes()

	var h http.Handler = s.mux
	h = s.corsMiddleware(h)
	h = s.loggingMiddleware(h)
	h = s.requestIDMiddleware(h)
	h = s.recoveryMiddleware(h)
	s.handler = h

	return s
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	// Core endpoints
	s.mux.HandleFunc("POST /estimate", s.handleEstimate)
	s.mux.HandleFunc("POST /estimate/batch", s.handleBatch)
	s.mux.HandleFunc("GET /catalog", s.handleCatalog)
	s.mux.HandleFunc("POST /contact", s.handleContact)

	// Supporting endpoints
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /version", s.handleVersion)
	s.mux.HandleFunc("GET /metrics", s.handleMetrics)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// ListenAndServe serves on the configured address until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadTimeout:       s.config.ReadTimeout(),
		ReadHeaderTimeout: s.config.ReadTimeout(),
		WriteTimeout:      s.config.WriteTimeout(),
		ErrorLog:          zap.NewStdLog(s.logger),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", zap.String("address", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout())
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("failed to encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, code, message string, status int) {
	s.writeJSON(w, ErrorResponse{
		Error: ErrorDetail{
			Code:      code,
			Message:   message,
			RequestID: RequestIDFrom(r.Context()),
		},
	}, status)
}

// decodeJSON reads a bounded JSON body into v.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	limit := s.config.MaxBodyBytes
	if limit <= 0 {
		limit = 1 << 20
	}
	defer r.Body.Close()
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, limit)).Decode(v)
}
