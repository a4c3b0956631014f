package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dgallion1/docchunk/internal/chunker"
	"github.com/dgallion1/docchunk/internal/document"
	"github.com/dgallion1/docchunk/internal/parser"
)

type chunkRequest struct {
	Text     string             `json:"text"`
	Source   string             `json:"source"`
	Kind     document.Kind      `json:"kind,omitempty"`
	Sections []document.Section `json:"sections,omitempty"`
	Config   *chunker.Config    `json:"config,omitempty"`
}

// handleChunk chunks a document synchronously. Text in the request is used
// as-is; without it the source is loaded and extracted first.
func (s *Server) handleChunk(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	var req chunkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Source == "" {
		jsonError(w, "source is required", http.StatusBadRequest)
		return
	}

	cfg := s.cfg.Chunk()
	if req.Config != nil {
		if err := req.Config.Validate(); err != nil {
			jsonError(w, "invalid config: "+err.Error(), http.StatusBadRequest)
			return
		}
		cfg = mergeChunkConfig(cfg, *req.Config)
		if err := cfg.Validate(); err != nil {
			jsonError(w, "invalid config: "+err.Error(), http.StatusBadRequest)
			return
		}
	}

	doc := document.Document{Source: req.Source, Kind: req.Kind, Sections: req.Sections}
	text := req.Text
	if text == "" {
		if !parser.IsSupported(doc.ResolvedKind()) {
			jsonError(w, "unsupported document kind for "+doc.Source, http.StatusBadRequest)
			return
		}
		if err := s.loader.CheckSource(doc); err != nil {
			s.log.Warn("chunk: source refused", "source", doc.Source, "error", err)
			jsonError(w, err.Error(), http.StatusForbidden)
			return
		}
		var err error
		text, err = s.loader.Load(r.Context(), doc)
		if err != nil {
			s.log.Warn("chunk: load failed", "source", doc.Source, "error", err)
			status := http.StatusUnprocessableEntity
			if errors.Is(err, parser.ErrSourceNotAllowed) {
				status = http.StatusForbidden
			}
			jsonError(w, "load document: "+err.Error(), status)
			return
		}
	}

	res := chunker.ChunkDocumentReport(text, doc, cfg)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

// mergeChunkConfig overlays the positive fields of override onto base.
func mergeChunkConfig(base, override chunker.Config) chunker.Config {
	if override.TargetWords > 0 {
		base.TargetWords = override.TargetWords
	}
	if override.MinWords > 0 {
		base.MinWords = override.MinWords
	}
	if override.MinOverlapWords > 0 {
		base.MinOverlapWords = override.MinOverlapWords
	}
	if override.MaxOverlapWords > 0 {
		base.MaxOverlapWords = override.MaxOverlapWords
	}
	return base
}
