package chunker

import "strings"

// Window is a chunk's [Start, End) range over a section's words.
type Window struct {
	Start int
	End   int
}

// BuildWindows splits words into sentence-aligned windows of roughly
// cfg.TargetWords with a bounded overlap between neighbours. truncated is set
// when the next start would not advance, in which case the remaining words
// are dropped instead of looping.
func BuildWindows(words []string, cfg Config) (windows []Window, truncated bool) {
	cfg = cfg.withDefaults()
	n := len(words)
	start := 0
	for start < n {
		end := sentenceEndAfter(words, start+cfg.TargetWords)

		// Absorb a trailing remainder too small to stand alone.
		if n-end <= cfg.MinWords {
			end = min(end+cfg.MinWords, n)
		}

		windows = append(windows, Window{Start: start, End: end})
		if end >= n {
			break
		}

		next := overlapStart(words, end, cfg.MinOverlapWords, cfg.MaxOverlapWords)
		if next <= start {
			return windows, true
		}
		start = next
	}
	return windows, false
}

// sentenceEndAfter walks forward from e to the first word ending a sentence
// and returns the index just past it, or len(words)+1 if none is found.
func sentenceEndAfter(words []string, e int) int {
	for e < len(words) && !isSentenceEnd(words[e]) {
		e++
	}
	return e + 1
}

// overlapStart picks the next window's start inside [end-maxOverlap, end-minOverlap],
// preferring the word just after a sentence end. The floor never drops below 0.
func overlapStart(words []string, end, minOverlap, maxOverlap int) int {
	floor := max(end-maxOverlap, 0)
	s := end - minOverlap
	for s >= floor && !isSentenceEnd(words[s]) {
		s--
	}
	return max(s+1, 0)
}

func isSentenceEnd(word string) bool {
	return strings.HasSuffix(word, ".") || strings.HasSuffix(word, "!") || strings.HasSuffix(word, "?")
}
