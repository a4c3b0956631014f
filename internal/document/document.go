package document

import (
	"net/url"
	"path/filepath"
	"strings"
)

// Kind tags the format of a document for extraction.
type Kind string

const (
	KindText     Kind = "txt"
	KindMarkdown Kind = "md"
	KindCSV      Kind = "csv"
	KindHTML     Kind = "html"
	KindPDF      Kind = "pdf"
	KindDOCX     Kind = "docx"
)

// Document is a unit of ingestion.
type Document struct {
	Source   string    `json:"source"`             // File path or URL
	Kind     Kind      `json:"kind,omitempty"`     // Empty means infer from Source
	Sections []Section `json:"sections,omitempty"` // Ordered; empty means whole text
}

// Section is an anchor-delimited region of a document's text.
// An empty From starts at the previous section's end; an empty To runs to end of text.
type Section struct {
	From   string `json:"from,omitempty"`
	To     string `json:"to,omitempty"`
	Lookup string `json:"lookup,omitempty"` // Citation label, e.g. "pp. 3-5"
}

// ChunkRecord is a single output chunk with provenance.
type ChunkRecord struct {
	Text      string `json:"text"`
	Source    string `json:"source"`
	Lookup    string `json:"lookup"`
	Timestamp string `json:"timestamp"`
	ChunkIdx  int    `json:"chunkIdx"`
}

// IsURL reports whether source is an http(s) URL rather than a file path.
func IsURL(source string) bool {
	u, err := url.Parse(source)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// KindFor infers a Kind from a source's extension. URLs without a known
// extension are treated as web pages.
func KindFor(source string) Kind {
	name := source
	if IsURL(source) {
		u, _ := url.Parse(source)
		name = u.Path
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".text":
		return KindText
	case ".md", ".markdown":
		return KindMarkdown
	case ".csv":
		return KindCSV
	case ".html", ".htm":
		return KindHTML
	case ".pdf":
		return KindPDF
	case ".docx":
		return KindDOCX
	}
	if IsURL(source) {
		return KindHTML
	}
	return ""
}

// ResolvedKind returns the document's Kind, inferring it when unset.
func (d Document) ResolvedKind() Kind {
	if d.Kind != "" {
		return Kind(strings.ToLower(string(d.Kind)))
	}
	return KindFor(d.Source)
}
