// Package stats aggregates redaction results into per-term counts.
package stats

import (
	"sort"
	"strings"

	"github.com/bimmerbailey/bleep/internal/filter"
)

// Summary holds aggregate statistics for a set of inspected texts.
type Summary struct {
	Texts       int            `json:"texts"`
	ProfaneText int            `json:"profane_texts"`
	Redacted    int            `json:"redacted"`
	Skipped     map[string]int `json:"skipped,omitempty"`
	ProfaneRate float64        `json:"profane_rate"`
	TopTerms    []TermCount    `json:"top_terms,omitempty"`
}

// TermCount tracks a matched word and how often it was redacted.
type TermCount struct {
	Term    string  `json:"term"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Collector accumulates results one at a time, so large inputs never
// need to be held in memory.
type Collector struct {
	texts    int
	profane  int
	redacted int
	skipped  map[string]int
	terms    map[string]int
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{
		skipped: make(map[string]int),
		terms:   make(map[string]int),
	}
}

// Add records one result. Terms are grouped case-insensitively.
func (c *Collector) Add(r filter.Result) {
	c.texts++
	if r.Profane() {
		c.profane++
	}

	for _, f := range r.Findings {
		if !f.Redacted {
			c.skipped[f.Reason]++
			continue
		}
		c.redacted++
		c.terms[strings.ToLower(f.Text)]++
	}
}

// Summary returns the statistics so far with the topN most frequent
// terms. A topN of zero or less returns every term.
func (c *Collector) Summary(topN int) Summary {
	s := Summary{
		Texts:       c.texts,
		ProfaneText: c.profane,
		Redacted:    c.redacted,
	}

	if len(c.skipped) > 0 {
		s.Skipped = make(map[string]int, len(c.skipped))
		for reason, n := range c.skipped {
			s.Skipped[reason] = n
		}
	}

	if c.texts > 0 {
		s.ProfaneRate = float64(c.profane) / float64(c.texts)
	}

	s.TopTerms = topTerms(c.terms, c.redacted, topN)
	return s
}

// Collect is a convenience for summarising a slice of results.
func Collect(results []filter.Result, topN int) Summary {
	c := NewCollector()
	for _, r := range results {
		c.Add(r)
	}
	return c.Summary(topN)
}

// topTerms extracts the N most frequent terms, ties broken alphabetically.
func topTerms(counts map[string]int, total, n int) []TermCount {
	terms := make([]TermCount, 0, len(counts))
	for term, count := range counts {
		tc := TermCount{Term: term, Count: count}
		if total > 0 {
			tc.Percent = float64(count) / float64(total) * 100
		}
		terms = append(terms, tc)
	}

	sort.Slice(terms, func(i, j int) bool {
		if terms[i].Count != terms[j].Count {
			return terms[i].Count > terms[j].Count
		}
		return terms[i].Term < terms[j].Term
	})

	if n > 0 && len(terms) > n {
		terms = terms[:n]
	}

	return terms
}
