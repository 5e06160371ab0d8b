package api

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/zahedbri/e107/internal/action"
	"github.com/zahedbri/e107/pkg/ajax"
)

// Server serves the e107d control API over a Unix socket.
type Server struct {
	socketPath string
	engine     *action.Engine
	startedAt  time.Time
	httpServer *http.Server
	logger     zerolog.Logger
}

// New creates an API server.
func New(socketPath string, engine *action.Engine, startedAt time.Time, logger zerolog.Logger) *Server {
	s := &Server{
		socketPath: socketPath,
		engine:     engine,
		startedAt:  startedAt,
		logger:     logger.With().Str("component", "api").Logger(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/status", s.handleStatus)
	mux.HandleFunc("GET /api/v1/actions", s.handleActions)
	mux.HandleFunc("POST /api/v1/actions/reload", s.handleReload)

	s.httpServer = &http.Server{Handler: mux}
	return s
}

// Start begins listening on the Unix socket. Blocks until Shutdown.
func (s *Server) Start() error {
	os.Remove(s.socketPath)

	ln, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return err
	}
	os.Chmod(s.socketPath, 0600)

	s.logger.Info().Str("socket", s.socketPath).Msg("API server listening")
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully stops the API server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := ajax.StatusResponse{
		Status:      "ok",
		Uptime:      time.Since(s.startedAt).Truncate(time.Second).String(),
		BusRunning:  true,
		StartedAt:   s.startedAt,
		ScriptCount: s.engine.Count(),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (s *Server) handleActions(w http.ResponseWriter, r *http.Request) {
	scripts := make([]ajax.ScriptInfo, 0, s.engine.Count())
	for _, info := range s.engine.Scripts() {
		scripts = append(scripts, ajax.ScriptInfo{
			Name:       info.Name,
			FilePath:   info.FilePath,
			Actions:    info.Actions,
			LoadedAt:   info.LoadedAt,
			Dispatches: info.Dispatches,
			Errors:     info.Errors,
		})
	}
	resp := ajax.ScriptsResponse{Scripts: scripts}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.ReloadAll(); err != nil {
		s.logger.Error().Err(err).Msg("script reload failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "reloaded"})
}
