package parser

import (
	"fmt"
	"io"

	"github.com/dgallion1/docchunk/internal/document"
)

// Parser extracts the raw text of a document.
type Parser interface {
	Parse(r io.Reader, filename string) (string, error)
}

// Options tunes parser construction.
type Options struct {
	PDFFallbackPdftotext bool
}

// SupportedKinds lists the document kinds this service can extract.
var SupportedKinds = map[document.Kind]bool{
	document.KindText:     true,
	document.KindMarkdown: true,
	document.KindCSV:      true,
	document.KindHTML:     true,
	document.KindPDF:      true,
	document.KindDOCX:     true,
}

// ForKind returns the appropriate parser for a document kind.
func ForKind(kind document.Kind, opts Options) (Parser, error) {
	switch kind {
	case document.KindText:
		return &TextParser{}, nil
	case document.KindMarkdown:
		return &MarkdownParser{}, nil
	case document.KindCSV:
		return &CSVParser{}, nil
	case document.KindHTML:
		return &HTMLParser{}, nil
	case document.KindPDF:
		return &PDFParser{FallbackPdftotext: opts.PDFFallbackPdftotext}, nil
	case document.KindDOCX:
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported document kind: %q", kind)
	}
}

// IsSupported checks if a document kind is supported.
func IsSupported(kind document.Kind) bool {
	return SupportedKinds[kind]
}
