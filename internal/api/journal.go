package api

import (
	"net/http"
	"strconv"

	"github.com/amrit740/riti-s-cinematic-wish/internal/journal"
)

// journalResponse is the body of GET /journal.
type journalResponse struct {
	Transitions []journal.Transition  `json:"transitions"`
	Effects     []journal.EffectEvent `json:"effects"`
}

// handleJournal lists journaled transitions and effect events, oldest
// first. Query parameters: run_id, limit.
func (s *Server) handleJournal(w http.ResponseWriter, r *http.Request) {
	if s.journal == nil {
		writeUnavailable(w, "journal is not enabled")
		return
	}

	q := r.URL.Query()
	f := journal.Filter{RunID: q.Get("run_id")}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeBadRequest(w, "limit must be a positive integer")
			return
		}
		f.Limit = n
	}

	transitions, err := s.journal.Transitions(r.Context(), f)
	if err != nil {
		s.logger.Error("listing transitions failed", "error", err)
		writeInternalError(w, "failed to read journal")
		return
	}
	effects, err := s.journal.EffectEvents(r.Context(), f)
	if err != nil {
		s.logger.Error("listing effect events failed", "error", err)
		writeInternalError(w, "failed to read journal")
		return
	}

	if transitions == nil {
		transitions = []journal.Transition{}
	}
	if effects == nil {
		effects = []journal.EffectEvent{}
	}
	writeJSON(w, http.StatusOK, journalResponse{Transitions: transitions, Effects: effects})
}
