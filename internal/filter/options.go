package filter

// Options is the configuration record for one Redact or Detect call.
// Start from DefaultOptions; the zero value is not the default.
type Options struct {
	// Placeholder is repeated to build masks.
	Placeholder string `mapstructure:"placeholder" json:"placeholder"`

	// CaseSensitive disables case folding while matching.
	CaseSensitive bool `mapstructure:"case_sensitive" json:"case_sensitive"`

	// WholeWordsOnly anchors matches to word boundaries. Ignored when
	// ReplacePartialWords is set.
	WholeWordsOnly bool `mapstructure:"whole_words_only" json:"whole_words_only"`

	// Exceptions are never redacted. Compared case-insensitively.
	Exceptions []string `mapstructure:"exceptions" json:"exceptions,omitempty"`

	// KeepFirstAndLastChar masks only the interior of a match.
	KeepFirstAndLastChar bool `mapstructure:"keep_first_and_last_char" json:"keep_first_and_last_char"`

	// CustomReplacement, when set, computes the replacement for every
	// accepted match and takes precedence over all masking options.
	CustomReplacement func(match string) string `mapstructure:"-" json:"-"`

	// ReplacePartialWords matches terms anywhere inside words.
	ReplacePartialWords bool `mapstructure:"replace_partial_words" json:"replace_partial_words"`

	// IncludePunctuation keeps a leading or trailing punctuation
	// character of a match visible in the mask.
	IncludePunctuation bool `mapstructure:"include_punctuation" json:"include_punctuation"`

	// MinimumWordLength leaves shorter matches untouched. Measured in runes.
	MinimumWordLength int `mapstructure:"minimum_word_length" json:"minimum_word_length"`

	// CustomMatch, when set, must return true for a match to be redacted.
	CustomMatch func(match string) bool `mapstructure:"-" json:"-"`

	// CustomBadWords are appended to the dictionary for this call only.
	CustomBadWords []string `mapstructure:"custom_bad_words" json:"custom_bad_words,omitempty"`
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		Placeholder:       "*",
		WholeWordsOnly:    true,
		MinimumWordLength: 1,
	}
}

// Option overlays one setting onto the defaults.
type Option func(*Options)

// Resolve applies opts, in order, to DefaultOptions.
func Resolve(opts ...Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// WithOptions replaces the whole record. Later options still apply on top.
func WithOptions(o Options) Option {
	return func(dst *Options) {
		*dst = o
	}
}

// WithPlaceholder sets the mask string.
func WithPlaceholder(placeholder string) Option {
	return func(o *Options) {
		o.Placeholder = placeholder
	}
}

// WithCaseSensitive toggles exact-case matching.
func WithCaseSensitive(enabled bool) Option {
	return func(o *Options) {
		o.CaseSensitive = enabled
	}
}

// WithWholeWordsOnly toggles word-boundary anchoring.
func WithWholeWordsOnly(enabled bool) Option {
	return func(o *Options) {
		o.WholeWordsOnly = enabled
	}
}

// WithExceptions adds words that are never redacted.
func WithExceptions(words ...string) Option {
	return func(o *Options) {
		o.Exceptions = append(o.Exceptions[:len(o.Exceptions):len(o.Exceptions)], words...)
	}
}

// WithKeepFirstAndLastChar toggles boundary-preserving masks.
func WithKeepFirstAndLastChar(enabled bool) Option {
	return func(o *Options) {
		o.KeepFirstAndLastChar = enabled
	}
}

// WithCustomReplacement sets the replacement callback.
func WithCustomReplacement(fn func(match string) string) Option {
	return func(o *Options) {
		o.CustomReplacement = fn
	}
}

// WithReplacePartialWords toggles matching inside words.
func WithReplacePartialWords(enabled bool) Option {
	return func(o *Options) {
		o.ReplacePartialWords = enabled
	}
}

// WithIncludePunctuation toggles punctuation-preserving masks.
func WithIncludePunctuation(enabled bool) Option {
	return func(o *Options) {
		o.IncludePunctuation = enabled
	}
}

// WithMinimumWordLength sets the shortest match that is redacted.
func WithMinimumWordLength(n int) Option {
	return func(o *Options) {
		o.MinimumWordLength = n
	}
}

// WithCustomMatch sets the inclusion predicate.
func WithCustomMatch(fn func(match string) bool) Option {
	return func(o *Options) {
		o.CustomMatch = fn
	}
}

// WithCustomBadWords appends terms to the dictionary for this call.
func WithCustomBadWords(words ...string) Option {
	return func(o *Options) {
		o.CustomBadWords = append(o.CustomBadWords[:len(o.CustomBadWords):len(o.CustomBadWords)], words...)
	}
}
