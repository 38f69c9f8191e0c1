// Package output provides formatted output rendering for redaction
// results and statistics. It supports text, JSON, and table formats.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/bimmerbailey/bleep/internal/filter"
	"github.com/bimmerbailey/bleep/internal/stats"
)

// Format represents an output format type.
type Format string

const (
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatTable Format = "table"
)

// ParseFormat converts a string to a Format, defaulting to text.
func ParseFormat(s string) Format {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON
	case "table":
		return FormatTable
	default:
		return FormatText
	}
}

// Record is one inspected line and where it came from.
type Record struct {
	Source string        `json:"source,omitempty"`
	Line   int           `json:"line"`
	Result filter.Result `json:"result"`
}

// Writer handles writing formatted output.
type Writer struct {
	w      io.Writer
	format Format
}

// New creates a new output Writer.
func New(w io.Writer, format Format) *Writer {
	return &Writer{w: w, format: format}
}

// Format returns the configured format.
func (wr *Writer) Format() Format {
	return wr.format
}

// WriteRecords outputs inspected lines in the configured format. Text
// output is "source:line: redacted" per record.
func (wr *Writer) WriteRecords(records []Record) error {
	switch wr.format {
	case FormatJSON:
		if records == nil {
			records = []Record{}
		}
		return wr.WriteJSON(records)
	case FormatTable:
		return wr.writeRecordTable(records)
	default:
		for _, r := range records {
			if _, err := fmt.Fprintf(wr.w, "%s:%d: %s\n", r.Source, r.Line, r.Result.Output); err != nil {
				return err
			}
		}
		return nil
	}
}

// WriteSummary outputs statistics in the configured format.
func (wr *Writer) WriteSummary(s stats.Summary) error {
	switch wr.format {
	case FormatJSON:
		return wr.WriteJSON(s)
	case FormatTable:
		return wr.writeSummaryTable(s)
	default:
		return wr.writeSummaryText(s)
	}
}

// WriteJSON outputs any value as indented JSON.
func (wr *Writer) WriteJSON(v interface{}) error {
	enc := json.NewEncoder(wr.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (wr *Writer) writeRecordTable(records []Record) error {
	tw := tabwriter.NewWriter(wr.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SOURCE\tLINE\tTERMS\tOUTPUT")
	fmt.Fprintln(tw, "------\t----\t-----\t------")

	for _, r := range records {
		terms := make([]string, 0, len(r.Result.Findings))
		for _, f := range r.Result.Redacted() {
			terms = append(terms, f.Text)
		}

		out := r.Result.Output
		if len(out) > 80 {
			out = out[:77] + "..."
		}

		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", r.Source, r.Line, strings.Join(terms, ","), out)
	}

	return tw.Flush()
}

func (wr *Writer) writeSummaryText(s stats.Summary) error {
	fmt.Fprintf(wr.w, "Texts scanned:  %d\n", s.Texts)
	fmt.Fprintf(wr.w, "Profane texts:  %d (%.1f%%)\n", s.ProfaneText, s.ProfaneRate*100)
	fmt.Fprintf(wr.w, "Words redacted: %d\n", s.Redacted)
	for _, reason := range []string{filter.ReasonLength, filter.ReasonCustomMatch, filter.ReasonException} {
		if n := s.Skipped[reason]; n > 0 {
			fmt.Fprintf(wr.w, "Skipped (%s): %d\n", reason, n)
		}
	}

	if len(s.TopTerms) == 0 {
		return nil
	}

	fmt.Fprintln(wr.w)
	fmt.Fprintln(wr.w, "Top terms:")
	for _, tc := range s.TopTerms {
		if _, err := fmt.Fprintf(wr.w, "  %6d  %5.1f%%  %s\n", tc.Count, tc.Percent, tc.Term); err != nil {
			return err
		}
	}
	return nil
}

func (wr *Writer) writeSummaryTable(s stats.Summary) error {
	tw := tabwriter.NewWriter(wr.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TERM\tCOUNT\tPERCENT")
	fmt.Fprintln(tw, "----\t-----\t-------")
	for _, tc := range s.TopTerms {
		fmt.Fprintf(tw, "%s\t%d\t%.1f%%\n", tc.Term, tc.Count, tc.Percent)
	}
	return tw.Flush()
}
