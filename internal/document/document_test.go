package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindFor(t *testing.T) {
	tests := []struct {
		source string
		want   Kind
	}{
		{"docs/thoughts.txt", KindText},
		{"README.md", KindMarkdown},
		{"notes.markdown", KindMarkdown},
		{"table.CSV", KindCSV},
		{"page.htm", KindHTML},
		{"/abs/report.pdf", KindPDF},
		{"letter.docx", KindDOCX},
		{"https://example.com/guide", KindHTML},
		{"https://example.com/files/report.pdf", KindPDF},
		{"archive.zip", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, KindFor(tt.source), "source=%q", tt.source)
	}
}

func TestIsURL(t *testing.T) {
	assert.True(t, IsURL("http://example.com"))
	assert.True(t, IsURL("https://example.com/a?b=c"))
	assert.False(t, IsURL("ftp://example.com/file"))
	assert.False(t, IsURL("docs/file.txt"))
	assert.False(t, IsURL("https://"))
}

func TestResolvedKind(t *testing.T) {
	assert.Equal(t, KindPDF, Document{Source: "a.txt", Kind: "PDF"}.ResolvedKind())
	assert.Equal(t, KindText, Document{Source: "a.txt"}.ResolvedKind())
}
