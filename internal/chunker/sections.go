package chunker

import (
	"strings"

	"github.com/dgallion1/docchunk/internal/document"
)

// Span is a section's resolved [Start, End) byte range in the normalized text.
// Resolved is false when an anchor was not found.
type Span struct {
	Section  document.Section
	Start    int
	End      int
	Resolved bool
}

// Empty reports whether the span can yield no chunks.
func (s Span) Empty() bool {
	return !s.Resolved || s.Start < 0 || s.Start >= s.End
}

// ResolveSections locates each section in document order. The end of one
// section is the search cursor for the next section's start anchor.
func ResolveSections(text string, sections []document.Section) []Span {
	spans := make([]Span, 0, len(sections))
	cursor := 0
	for _, sec := range sections {
		var span Span
		span, cursor = resolveSpan(text, sec, cursor)
		spans = append(spans, span)
	}
	return spans
}

// resolveSpan resolves one section from cursor and returns the next cursor.
// The next cursor is the section's end offset even when its start anchor is
// missing: an absent "to" ends at the text's end, and a present one is still
// searched for. Only a missing "to" anchor leaves the cursor where it was.
func resolveSpan(text string, sec document.Section, cursor int) (Span, int) {
	start := cursor
	if sec.From != "" {
		start = indexFrom(text, sec.From, cursor)
	}

	end := len(text)
	if sec.To != "" {
		end = indexFrom(text, sec.To, start+1)
	}

	span := Span{
		Section:  sec,
		Start:    start,
		End:      end,
		Resolved: start >= 0 && end >= 0,
	}
	if end < 0 {
		return span, cursor
	}
	return span, end
}

// indexFrom is strings.Index starting at byte offset from.
func indexFrom(s, substr string, from int) int {
	if from < 0 {
		from = 0
	}
	if from > len(s) {
		return -1
	}
	i := strings.Index(s[from:], substr)
	if i < 0 {
		return -1
	}
	return from + i
}
