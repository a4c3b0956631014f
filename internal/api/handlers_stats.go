package api

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleIndexStats(w http.ResponseWriter, r *http.Request) {
	if s.store == nil || s.store.Stats == nil {
		jsonError(w, "index stats unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"collection":  s.cfg.IndexCollection,
		"chunks":      s.store.Count(),
		"queue_depth": s.orchestrator.QueueDepth(),
		"stats":       s.store.Stats.Snapshot(),
	})
}
