package bleep

import (
	"sync"

	"github.com/bimmerbailey/bleep/internal/dictionary"
	"github.com/bimmerbailey/bleep/internal/filter"
)

// Re-export selected internal types as a stable public API surface.
type (
	Option  = filter.Option
	Options = filter.Options
	Result  = filter.Result
	Finding = filter.Finding
	Filter  = filter.Filter
)

// Option constructors.
var (
	WithOptions              = filter.WithOptions
	WithPlaceholder          = filter.WithPlaceholder
	WithCaseSensitive        = filter.WithCaseSensitive
	WithWholeWordsOnly       = filter.WithWholeWordsOnly
	WithExceptions           = filter.WithExceptions
	WithKeepFirstAndLastChar = filter.WithKeepFirstAndLastChar
	WithCustomReplacement    = filter.WithCustomReplacement
	WithReplacePartialWords  = filter.WithReplacePartialWords
	WithIncludePunctuation   = filter.WithIncludePunctuation
	WithMinimumWordLength    = filter.WithMinimumWordLength
	WithCustomMatch          = filter.WithCustomMatch
	WithCustomBadWords       = filter.WithCustomBadWords
)

var shared = sync.OnceValue(func() *filter.Filter {
	return filter.New(dictionary.Builtin())
})

// Redact masks profanity in text using the built-in dictionary.
func Redact(text string, opts ...Option) string {
	return shared().Redact(text, opts...)
}

// Detect reports whether Redact would change text.
func Detect(text string, opts ...Option) bool {
	return shared().Detect(text, opts...)
}

// Inspect redacts text and reports every match considered.
func Inspect(text string, opts ...Option) Result {
	return shared().Inspect(text, opts...)
}

// New returns a Filter over a caller-supplied dictionary.
func New(words []string) *Filter {
	return filter.New(words)
}

// Words returns a copy of the built-in dictionary.
func Words() []string {
	return dictionary.Builtin()
}

// DefaultOptions returns the engine defaults.
func DefaultOptions() Options {
	return filter.DefaultOptions()
}

// DecodeOptions builds Options from a loosely typed map such as decoded
// JSON. Keys may be camelCase or snake_case.
func DecodeOptions(raw map[string]interface{}) (Options, error) {
	return filter.Decode(raw)
}
