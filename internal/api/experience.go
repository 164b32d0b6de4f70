package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/amrit740/riti-s-cinematic-wish/internal/effect"
)

// handleGetExperience returns the current snapshot.
func (s *Server) handleGetExperience(w http.ResponseWriter, r *http.Request) {
	s.writeSnapshot(w, r, http.StatusOK)
}

// handleStart begins a fresh run. A run already in progress is restarted.
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	if err := s.exp.Start(r.Context()); err != nil {
		if writeExperienceError(w, err, "start experience") {
			s.logger.Error("start failed", "error", err)
		}
		return
	}
	s.logger.Info("experience started via API")
	s.writeSnapshot(w, r, http.StatusAccepted)
}

// handleReplay resets to Idle and restarts after the settle delay.
func (s *Server) handleReplay(w http.ResponseWriter, r *http.Request) {
	if err := s.exp.Replay(r.Context()); err != nil {
		if writeExperienceError(w, err, "replay experience") {
			s.logger.Error("replay failed", "error", err)
		}
		return
	}
	s.logger.Info("experience replayed via API")
	s.writeSnapshot(w, r, http.StatusAccepted)
}

func (s *Server) writeSnapshot(w http.ResponseWriter, r *http.Request, status int) {
	snap, err := s.exp.Snapshot(r.Context())
	if err != nil {
		if writeExperienceError(w, err, "read experience") {
			s.logger.Error("snapshot failed", "error", err)
		}
		return
	}
	writeJSON(w, status, snap)
}

// handleGetEffect returns one effect including its particles.
func (s *Server) handleGetEffect(w http.ResponseWriter, r *http.Request) {
	name, err := effect.ParseName(chi.URLParam(r, "name"))
	if err != nil {
		writeNotFound(w, err.Error())
		return
	}

	snap, err := s.exp.Effect(r.Context(), name)
	if err != nil {
		if writeExperienceError(w, err, "read effect") {
			s.logger.Error("effect lookup failed", "effect", name, "error", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, snap)
}
