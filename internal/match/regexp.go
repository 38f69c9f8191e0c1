package match

import (
	"regexp"
	"sync"

	"github.com/bimmerbailey/bleep/internal/dictionary"
)

// maxCached bounds the compiled expressions a Regexp keeps. Per-call
// custom words produce new patterns, so the cache is reset when full.
const maxCached = 64

type cacheKey struct {
	source string
	mode   Mode
}

// Regexp is a Matcher backed by the standard library's RE2 engine, which
// scans in linear time. Alternation is leftmost-first: when several terms
// match at the same position, the one listed first in the dictionary wins.
//
// Compiled expressions are memoised per pattern and mode. The zero value
// is ready to use; a Regexp must not be copied after first use.
type Regexp struct {
	mu    sync.RWMutex
	cache map[cacheKey]*regexp.Regexp
}

// NewRegexp returns an empty Regexp matcher.
func NewRegexp() *Regexp {
	return &Regexp{}
}

// Scan implements Matcher.
func (r *Regexp) Scan(p dictionary.Pattern, text string, mode Mode) []Match {
	if p.Empty() || text == "" {
		return nil
	}

	re := r.compiled(p, mode)
	locs := re.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}

	matches := make([]Match, 0, len(locs))
	for _, loc := range locs {
		if loc[0] == loc[1] {
			continue
		}
		matches = append(matches, Match{
			Text:  text[loc[0]:loc[1]],
			Start: loc[0],
			End:   loc[1],
		})
	}
	return matches
}

// compiled returns the cached expression for p and mode, building it on
// first use.
func (r *Regexp) compiled(p dictionary.Pattern, mode Mode) *regexp.Regexp {
	key := cacheKey{source: p.Source(), mode: mode}

	r.mu.RLock()
	re, ok := r.cache[key]
	r.mu.RUnlock()
	if ok {
		return re
	}

	re = Build(p, mode)

	r.mu.Lock()
	if r.cache == nil || len(r.cache) >= maxCached {
		r.cache = make(map[cacheKey]*regexp.Regexp)
	}
	r.cache[key] = re
	r.mu.Unlock()

	return re
}

// cached reports how many expressions are held.
func (r *Regexp) cached() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cache)
}

// Build turns a compiled dictionary into a regular expression for mode.
// Dictionary terms are escaped at compile time, so the result is always
// a valid expression.
func Build(p dictionary.Pattern, mode Mode) *regexp.Regexp {
	expr := "(?:" + p.Source() + ")"
	if mode.WholeWords {
		expr = `\b` + expr + `\b`
	}
	if !mode.CaseSensitive {
		expr = "(?i)" + expr
	}
	return regexp.MustCompile(expr)
}
