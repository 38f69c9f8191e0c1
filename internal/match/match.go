// Package match locates dictionary terms in text.
//
// The Matcher interface keeps the matching technology swappable: the
// engine only needs non-overlapping, left-to-right matches for a
// compiled dictionary under a given Mode.
package match

import (
	"unicode/utf8"

	"github.com/bimmerbailey/bleep/internal/dictionary"
)

// Mode holds the per-call flags layered onto a compiled dictionary.
type Mode struct {
	// WholeWords anchors every match to word boundaries on both sides.
	WholeWords bool

	// CaseSensitive disables case folding.
	CaseSensitive bool
}

// Match is one located occurrence. Start and End are byte offsets into
// the scanned text, so text[Start:End] == Text.
type Match struct {
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Len returns the length of the match in runes.
func (m Match) Len() int {
	return utf8.RuneCountInString(m.Text)
}

// Matcher scans text for the terms of a compiled dictionary.
// Implementations must be safe for concurrent use.
type Matcher interface {
	// Scan returns matches in order of position. Matches never overlap.
	// An empty pattern yields no matches.
	Scan(p dictionary.Pattern, text string, mode Mode) []Match
}
