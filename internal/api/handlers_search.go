package api

import (
	"encoding/json"
	"net/http"
)

const (
	defaultSearchLimit = 5
	maxSearchLimit     = 100
)

type searchRequest struct {
	Query  string `json:"query"`
	Limit  int    `json:"limit"`
	Source string `json:"source,omitempty"`
}

// handleSearch returns the chunks nearest to the query text.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Query == "" {
		jsonError(w, "query is required", http.StatusBadRequest)
		return
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	limit = min(limit, maxSearchLimit)

	hits, err := s.store.Query(r.Context(), req.Query, limit, req.Source)
	if err != nil {
		s.log.Error("search failed", "error", err)
		jsonError(w, "search failed: "+err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"hits": hits})
}

// handleDeleteDocuments removes every chunk of one source.
func (s *Server) handleDeleteDocuments(w http.ResponseWriter, r *http.Request) {
	source := r.URL.Query().Get("source")
	if source == "" {
		jsonError(w, "source query parameter is required", http.StatusBadRequest)
		return
	}

	before := s.store.Count()
	if err := s.store.DeleteSource(r.Context(), source); err != nil {
		jsonError(w, "failed to delete: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"source":         source,
		"chunks_deleted": before - s.store.Count(),
	})
}
