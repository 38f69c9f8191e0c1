// Package filter is the profanity redaction engine.
//
// A Filter holds a read-only base dictionary. Every call resolves its own
// Options, compiles the dictionary together with the call's custom words,
// scans the text and assembles the redacted copy. Nothing is retained
// between calls, so one Filter may be shared by any number of goroutines.
//
// Basic usage:
//
//	f := filter.New(dictionary.Builtin())
//	clean := f.Redact("This is a fucking example")
//	// clean == "This is a ******* example"
//
//	f.Redact(text,
//	    filter.WithPlaceholder("#"),
//	    filter.WithExceptions("hell"),
//	    filter.WithMinimumWordLength(5),
//	)
package filter

import (
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bimmerbailey/bleep/internal/dictionary"
	"github.com/bimmerbailey/bleep/internal/match"
)

// Reasons a match was left untouched.
const (
	ReasonLength      = "length"
	ReasonCustomMatch = "custom_match"
	ReasonException   = "exception"
)

// Finding is one scanned match together with the engine's decision.
type Finding struct {
	match.Match

	// Redacted is false when a filter rejected the match.
	Redacted bool `json:"redacted"`

	// Reason names the filter that rejected the match, if any.
	Reason string `json:"reason,omitempty"`

	// Replacement is the text written in place of the match. For
	// rejected matches it equals the match itself.
	Replacement string `json:"replacement"`
}

// Result is the outcome of inspecting one text.
type Result struct {
	Input    string    `json:"input"`
	Output   string    `json:"output"`
	Findings []Finding `json:"findings,omitempty"`
}

// Profane reports whether redaction changed the text.
func (r Result) Profane() bool {
	return r.Output != r.Input
}

// Redacted returns the findings that were replaced.
func (r Result) Redacted() []Finding {
	out := make([]Finding, 0, len(r.Findings))
	for _, f := range r.Findings {
		if f.Redacted {
			out = append(out, f)
		}
	}
	return out
}

// Filter redacts text against a fixed base dictionary.
type Filter struct {
	base    []string
	matcher match.Matcher
	logger  *slog.Logger
}

// FilterOption configures a Filter.
type FilterOption func(*Filter)

// WithMatcher replaces the default regexp matcher.
func WithMatcher(m match.Matcher) FilterOption {
	return func(f *Filter) {
		if m != nil {
			f.matcher = m
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) FilterOption {
	return func(f *Filter) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// New creates a Filter over base. The slice is copied; later changes by
// the caller do not affect the Filter.
func New(base []string, opts ...FilterOption) *Filter {
	f := &Filter{
		base:    append([]string(nil), base...),
		matcher: match.NewRegexp(),
		logger:  slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Words returns a copy of the base dictionary.
func (f *Filter) Words() []string {
	return append([]string(nil), f.base...)
}

// Pattern compiles the base dictionary with the custom words of opts.
func (f *Filter) Pattern(opts ...Option) dictionary.Pattern {
	o := Resolve(opts...)
	return dictionary.Compile(f.base, o.CustomBadWords)
}

// Redact returns text with every accepted match replaced.
func (f *Filter) Redact(text string, opts ...Option) string {
	return f.Inspect(text, opts...).Output
}

// Detect reports whether Redact would change text.
func (f *Filter) Detect(text string, opts ...Option) bool {
	return f.Inspect(text, opts...).Profane()
}

// Inspect redacts text and reports every match it considered.
//
// Callback panics from CustomMatch or CustomReplacement are not
// recovered.
func (f *Filter) Inspect(text string, opts ...Option) Result {
	o := Resolve(opts...)
	pattern := dictionary.Compile(f.base, o.CustomBadWords)
	matches := f.matcher.Scan(pattern, text, ScanMode(o))

	result := Result{Input: text, Output: text}
	if len(matches) == 0 {
		return result
	}

	exceptions := foldSet(o.Exceptions)

	var b strings.Builder
	b.Grow(len(text))
	last := 0
	redacted := 0

	result.Findings = make([]Finding, 0, len(matches))
	for _, m := range matches {
		finding := Finding{Match: m, Replacement: m.Text}

		if reason := reject(m, o, exceptions); reason != "" {
			finding.Reason = reason
		} else {
			finding.Redacted = true
			finding.Replacement = replace(m.Text, o)
			redacted++
		}

		b.WriteString(text[last:m.Start])
		b.WriteString(finding.Replacement)
		last = m.End

		result.Findings = append(result.Findings, finding)
	}
	b.WriteString(text[last:])
	result.Output = b.String()

	f.logger.Debug("inspected text",
		"terms", pattern.Terms(),
		"matches", len(matches),
		"redacted", redacted)

	return result
}

// ScanMode picks boundary and case handling. Partial-word replacement
// wins over whole-word matching; with both off the scan is unanchored.
func ScanMode(o Options) match.Mode {
	return match.Mode{
		WholeWords:    o.WholeWordsOnly && !o.ReplacePartialWords,
		CaseSensitive: o.CaseSensitive,
	}
}

// reject returns the name of the first filter that turns m down, or ""
// when the match should be redacted.
func reject(m match.Match, o Options, exceptions map[string]struct{}) string {
	if m.Len() < o.MinimumWordLength {
		return ReasonLength
	}
	if o.CustomMatch != nil && !o.CustomMatch(m.Text) {
		return ReasonCustomMatch
	}
	if _, ok := exceptions[strings.ToLower(m.Text)]; ok {
		return ReasonException
	}
	return ""
}

// replace computes the replacement for an accepted match.
func replace(word string, o Options) string {
	if o.CustomReplacement != nil {
		return o.CustomReplacement(word)
	}

	runes := []rune(word)
	if o.KeepFirstAndLastChar {
		return keepEnds(runes, o.Placeholder)
	}

	masked := strings.Repeat(o.Placeholder, len(runes))
	if !o.IncludePunctuation || o.Placeholder == "" {
		return masked
	}

	// Overwrite one rune at each end of the mask with the original
	// punctuation mark.
	out := []rune(masked)
	first, last := runes[0], runes[len(runes)-1]
	if isPunct(first) {
		out[0] = first
	}
	if isPunct(last) && len(runes) > 1 {
		out[len(out)-1] = last
	}
	return string(out)
}

// keepEnds masks the interior of word. A match of one rune has no
// interior and no second end, so it is masked fully.
func keepEnds(runes []rune, placeholder string) string {
	if len(runes) < 2 {
		return strings.Repeat(placeholder, len(runes))
	}
	return string(runes[0]) +
		strings.Repeat(placeholder, len(runes)-2) +
		string(runes[len(runes)-1])
}

// isPunct reports whether r is neither a word character nor whitespace.
// Word characters follow the matcher's ASCII definition.
func isPunct(r rune) bool {
	return !isWordChar(r) && !unicode.IsSpace(r) && r != utf8.RuneError
}

func isWordChar(r rune) bool {
	return r == '_' ||
		('0' <= r && r <= '9') ||
		('a' <= r && r <= 'z') ||
		('A' <= r && r <= 'Z')
}

// foldSet lowercases words into a lookup set.
func foldSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = struct{}{}
	}
	return set
}
