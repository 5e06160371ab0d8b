package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/zahedbri/e107/internal/action"
	"github.com/zahedbri/e107/pkg/ajax"
)

// handleAction dispatches POST /ajax/{action} to the action engine and
// responds with the rendered command batch.
func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("action")

	var params map[string]any
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
	}

	commands, err := s.engine.Dispatch(name, params)
	if err != nil {
		if errors.Is(err, action.ErrUnknownAction) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		s.logger.Error().Err(err).Str("action", name).Msg("dispatch failed")
		http.Error(w, "action failed", http.StatusInternalServerError)
		return
	}

	// Mirror the batch on the bus before answering; stream observers see
	// the same commands the requesting client receives.
	if s.publisher != nil {
		if _, err := s.publisher.Publish(name, "web", commands); err != nil {
			s.logger.Error().Err(err).Str("action", name).Msg("mirror batch")
		}
	}

	if err := ajax.Respond(w, commands); err != nil {
		s.logger.Error().Err(err).Str("action", name).Msg("write response")
	}
}

// handleRecent returns the ring buffer of recently mirrored batches.
func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	raw := s.batchBus.Recent()
	batches := make([]json.RawMessage, 0, len(raw))
	for _, data := range raw {
		batches = append(batches, json.RawMessage(data))
	}
	ajax.SetContentType(w)
	json.NewEncoder(w).Encode(batches)
}
