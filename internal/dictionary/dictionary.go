// Package dictionary turns lists of disallowed terms into a single
// matching program and provides the built-in term list.
//
// A term is matched literally except for the wildcard marker "*", which
// stands for one or more word characters (letters, digits, underscore):
//
//	pattern := dictionary.Compile(dictionary.Builtin(), []string{"evil", "darn*"})
//
// The compiled Pattern carries no mode flags. Case sensitivity and word
// boundaries are applied by the matcher at scan time.
package dictionary

import (
	"regexp"
	"strings"
)

// Wildcard marks "one or more word characters" inside a term.
const Wildcard = "*"

// wordRun is what a Wildcard expands to.
const wordRun = `\w+`

// Pattern is a compiled dictionary: an alternation of every term in
// dictionary order.
type Pattern struct {
	source string
	terms  int
}

// Source returns the alternation in regular expression syntax, without
// grouping or flags.
func (p Pattern) Source() string {
	return p.source
}

// Terms returns how many terms the pattern was compiled from.
func (p Pattern) Terms() int {
	return p.terms
}

// Empty reports whether the pattern can never match.
func (p Pattern) Empty() bool {
	return p.terms == 0
}

// String implements fmt.Stringer.
func (p Pattern) String() string {
	return p.source
}

// Compile concatenates base and custom (base first) and compiles every
// term into one alternation. Everything but the wildcard is escaped, so
// terms like "a.s.s" or "c++" match literally. Empty terms are skipped
// because an empty alternative would match everywhere.
func Compile(base, custom []string) Pattern {
	alts := make([]string, 0, len(base)+len(custom))
	for _, list := range [][]string{base, custom} {
		for _, term := range list {
			if term == "" {
				continue
			}
			alts = append(alts, compileTerm(term))
		}
	}

	return Pattern{
		source: strings.Join(alts, "|"),
		terms:  len(alts),
	}
}

// compileTerm escapes the literal pieces of a term and joins them with
// the wildcard expansion.
func compileTerm(term string) string {
	parts := strings.Split(term, Wildcard)
	for i, part := range parts {
		parts[i] = regexp.QuoteMeta(part)
	}
	return strings.Join(parts, wordRun)
}
