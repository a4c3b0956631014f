package chunker

import (
	"fmt"
	"strings"

	"github.com/dgallion1/docchunk/internal/document"
)

// Config controls chunking behavior. Sizes are in whitespace-delimited words.
// A zero field means "use the DefaultConfig value", so a partial Config only
// overrides what it sets. Overlap and small-chunk absorption therefore cannot
// be switched off; the smallest effective value for every field is 1.
type Config struct {
	TargetWords     int `json:"targetWordsPerChunk,omitempty"` // Nominal chunk size.
	MinWords        int `json:"minWordsPerChunk,omitempty"`    // Smaller trailing chunks merge into their predecessor.
	MinOverlapWords int `json:"minOverlapWords,omitempty"`
	MaxOverlapWords int `json:"maxOverlapWords,omitempty"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		TargetWords:     100,
		MinWords:        50,
		MinOverlapWords: 10,
		MaxOverlapWords: 20,
	}
}

// Validate rejects configurations the window builder cannot honor.
func (c Config) Validate() error {
	if c.TargetWords < 0 || c.MinWords < 0 || c.MinOverlapWords < 0 || c.MaxOverlapWords < 0 {
		return fmt.Errorf("chunk sizes must not be negative")
	}
	if c.MinOverlapWords > 0 && c.MaxOverlapWords > 0 && c.MinOverlapWords > c.MaxOverlapWords {
		return fmt.Errorf("min overlap (%d) exceeds max overlap (%d)", c.MinOverlapWords, c.MaxOverlapWords)
	}
	return nil
}

// withDefaults replaces unset fields with DefaultConfig values.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.TargetWords <= 0 {
		c.TargetWords = def.TargetWords
	}
	if c.MinWords <= 0 {
		c.MinWords = def.MinWords
	}
	if c.MinOverlapWords <= 0 {
		c.MinOverlapWords = def.MinOverlapWords
	}
	if c.MaxOverlapWords <= 0 {
		c.MaxOverlapWords = def.MaxOverlapWords
	}
	if c.MaxOverlapWords < c.MinOverlapWords {
		c.MaxOverlapWords = c.MinOverlapWords
	}
	return c
}

// SectionReport describes what one section contributed to the output.
type SectionReport struct {
	Lookup    string `json:"lookup"`
	Start     int    `json:"start"`
	End       int    `json:"end"`
	Resolved  bool   `json:"resolved"`
	Chunks    int    `json:"chunks"`
	Truncated bool   `json:"truncated,omitempty"`
}

// Result is the chunk sequence for one document plus per-section reports.
type Result struct {
	Records  []document.ChunkRecord `json:"chunks"`
	Sections []SectionReport        `json:"sections"`
}

// ChunkDocument converts raw extracted text into ordered chunk records.
func ChunkDocument(rawText string, doc document.Document, cfg Config) []document.ChunkRecord {
	return ChunkDocumentReport(rawText, doc, cfg).Records
}

// ChunkDocumentReport is ChunkDocument with per-section visibility. Sections
// whose anchors are missing or whose span is empty yield no chunks.
func ChunkDocumentReport(rawText string, doc document.Document, cfg Config) Result {
	norm := Normalize(rawText)

	sections := doc.Sections
	if len(sections) == 0 {
		sections = []document.Section{{}}
	}

	res := Result{
		Records:  []document.ChunkRecord{},
		Sections: make([]SectionReport, 0, len(sections)),
	}
	idx := 0

	for _, span := range ResolveSections(norm.Text, sections) {
		report := SectionReport{
			Lookup:   span.Section.Lookup,
			Start:    span.Start,
			End:      span.End,
			Resolved: span.Resolved,
		}
		if !span.Empty() {
			words := strings.Fields(norm.Text[span.Start:span.End])
			windows, truncated := BuildWindows(words, cfg)
			report.Truncated = truncated
			for _, w := range windows {
				text := strings.TrimSpace(strings.Join(words[w.Start:w.End], " "))
				if text == "" {
					continue
				}
				res.Records = append(res.Records, document.ChunkRecord{
					Text:      text,
					Source:    doc.Source,
					Lookup:    span.Section.Lookup,
					Timestamp: norm.Timestamp,
					ChunkIdx:  idx,
				})
				idx++
				report.Chunks++
			}
		}
		res.Sections = append(res.Sections, report)
	}

	return res
}
