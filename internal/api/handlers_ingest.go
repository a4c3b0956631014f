package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docchunk/internal/document"
	"github.com/dgallion1/docchunk/internal/parser"
	"github.com/dgallion1/docchunk/internal/pipeline"
	"github.com/go-chi/chi/v5"
)

type ingestRequest struct {
	Source   string             `json:"source"`
	Kind     document.Kind      `json:"kind,omitempty"`
	Sections []document.Section `json:"sections,omitempty"`
}

func (r ingestRequest) document() document.Document {
	return document.Document{Source: r.Source, Kind: r.Kind, Sections: r.Sections}
}

// handleIngest queues one document. A multipart upload carries the bytes in
// "file"; a JSON body names a path or URL for the worker to load.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var (
		doc  document.Document
		data []byte
	)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		var status int
		var err error
		doc, data, status, err = s.readUpload(w, r)
		if err != nil {
			jsonError(w, err.Error(), status)
			return
		}
	} else {
		r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
		var req ingestRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonError(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
			return
		}
		if req.Source == "" {
			jsonError(w, "source is required", http.StatusBadRequest)
			return
		}
		doc = req.document()
		if err := s.loader.CheckSource(doc); err != nil {
			s.log.Warn("ingest: source refused", "source", doc.Source, "error", err)
			jsonError(w, err.Error(), http.StatusForbidden)
			return
		}
	}

	if !parser.IsSupported(doc.ResolvedKind()) {
		jsonError(w, fmt.Sprintf("unsupported document kind for %s", doc.Source), http.StatusBadRequest)
		return
	}

	job := pipeline.NewJob(doc)
	if data != nil {
		job.SetFileData(data)
	}
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(jobAccepted(job))
}

// readUpload parses a multipart ingest request.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (document.Document, []byte, int, error) {
	// Limit total request size; extra 1MB for form overhead.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return document.Document{}, nil, http.StatusBadRequest, fmt.Errorf("invalid multipart form: %w", err)
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		return document.Document{}, nil, http.StatusBadRequest, fmt.Errorf("file is required: %w", err)
	}
	defer file.Close()

	doc := document.Document{
		Source: r.FormValue("source"),
		Kind:   document.Kind(r.FormValue("kind")),
	}
	if doc.Source == "" {
		doc.Source = sanitizeFilename(header.Filename)
	}
	if doc.Kind == "" {
		doc.Kind = document.KindFor(sanitizeFilename(header.Filename))
	}
	if raw := r.FormValue("sections"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &doc.Sections); err != nil {
			return document.Document{}, nil, http.StatusBadRequest, fmt.Errorf("invalid sections: %w", err)
		}
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return document.Document{}, nil, http.StatusInternalServerError, fmt.Errorf("failed to read file")
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return document.Document{}, nil, http.StatusRequestEntityTooLarge, fmt.Errorf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes)
	}
	return doc, data, 0, nil
}

func (s *Server) handleIngestStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job.Snapshot())
}

type batchIngestRequest struct {
	Documents []ingestRequest `json:"documents"`
}

func (s *Server) handleBatchIngest(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)

	var req batchIngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.Documents) == 0 {
		jsonError(w, "at least one document is required", http.StatusBadRequest)
		return
	}

	results := make([]map[string]any, 0, len(req.Documents))
	for _, d := range req.Documents {
		doc := d.document()
		if doc.Source == "" {
			results = append(results, map[string]any{"error": "source is required"})
			continue
		}
		if !parser.IsSupported(doc.ResolvedKind()) {
			results = append(results, map[string]any{
				"source": doc.Source,
				"error":  fmt.Sprintf("unsupported document kind for %s", doc.Source),
			})
			continue
		}
		if err := s.loader.CheckSource(doc); err != nil {
			results = append(results, map[string]any{
				"source": doc.Source,
				"error":  err.Error(),
			})
			continue
		}

		job := pipeline.NewJob(doc)
		if err := s.orchestrator.Submit(job); err != nil {
			results = append(results, map[string]any{
				"source": doc.Source,
				"error":  err.Error(),
			})
			continue
		}
		results = append(results, jobAccepted(job))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{"jobs": results})
}

func jobAccepted(job *pipeline.Job) map[string]any {
	snap := job.Snapshot()
	return map[string]any{
		"job_id":   snap.ID,
		"source":   snap.Source,
		"status":   snap.Status,
		"poll_url": fmt.Sprintf("/api/ingest/%s/status", snap.ID),
	}
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
