// Package web serves the AJAX endpoint: it dispatches incoming requests to
// the action engine and answers each with a JSON command batch. Batches are
// also mirrored on the bus and re-served to live observers over SSE.
package web

import (
	"context"
	"crypto/subtle"
	"net"
	"net/http"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/zahedbri/e107/internal/action"
	"github.com/zahedbri/e107/internal/bus"
	"github.com/zahedbri/e107/pkg/ajax"
)

// Config holds web front settings passed to New.
type Config struct {
	Listen   string
	Username string // HTTP Basic Auth username (empty = no auth).
	Password string // HTTP Basic Auth password (empty = no auth).
}

// Server serves the AJAX endpoint on a TCP port.
type Server struct {
	listen     string
	engine     *action.Engine
	publisher  *bus.Publisher
	nc         *nats.Conn
	httpServer *http.Server
	logger     zerolog.Logger
	batchBus   *BatchBus
	username   string
	password   string
}

// New creates a web server. The publisher parameter may be nil if the bus
// mirror is disabled; nc may be nil to disable the live stream.
func New(cfg Config, engine *action.Engine, publisher *bus.Publisher,
	nc *nats.Conn, logger zerolog.Logger) *Server {

	s := &Server{
		listen:    cfg.Listen,
		engine:    engine,
		publisher: publisher,
		nc:        nc,
		logger:    logger.With().Str("component", "web").Logger(),
		batchBus:  NewBatchBus(50),
		username:  cfg.Username,
		password:  cfg.Password,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /ajax/{action}", s.handleAction)
	mux.HandleFunc("GET /ajax/recent", s.handleRecent)
	mux.HandleFunc("GET /ajax/stream", s.handleStream)

	s.httpServer = &http.Server{Handler: s.securityMiddleware(mux)}
	return s
}

// securityMiddleware adds security headers and optional HTTP Basic Auth to all responses.
func (s *Server) securityMiddleware(next http.Handler) http.Handler {
	authEnabled := s.username != "" && s.password != ""
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")

		if authEnabled {
			user, pass, ok := r.BasicAuth()
			if !ok ||
				subtle.ConstantTimeCompare([]byte(user), []byte(s.username)) != 1 ||
				subtle.ConstantTimeCompare([]byte(pass), []byte(s.password)) != 1 {
				w.Header().Set("WWW-Authenticate", `Basic realm="e107"`)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

// Start begins listening on TCP. Blocks until Shutdown or error.
func (s *Server) Start() error {
	if s.nc != nil {
		if _, err := s.nc.Subscribe(ajax.SubjectBatches, func(msg *nats.Msg) {
			s.batchBus.Publish(msg.Data)
		}); err != nil {
			return err
		}
	}

	ln, err := net.Listen("tcp", s.listen)
	if err != nil {
		return err
	}
	s.logger.Info().Str("listen", s.listen).Msg("AJAX endpoint listening")
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully stops the web server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
