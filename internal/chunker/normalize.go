package chunker

import (
	"strings"
	"time"
)

// TimestampLayout is the ISO-8601 UTC form stamped on every chunk.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// now is the capture clock; tests replace it.
var now = time.Now

// Normalized is whitespace-canonical text plus the time it was captured.
type Normalized struct {
	Text      string
	Timestamp string
}

// Normalize collapses every whitespace run to a single space and trims the ends.
func Normalize(raw string) Normalized {
	return Normalized{
		Text:      strings.Join(strings.Fields(raw), " "),
		Timestamp: now().UTC().Format(TimestampLayout),
	}
}
