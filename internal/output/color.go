package output

import (
	"io"
	"os"
	"strings"

	"github.com/bimmerbailey/bleep/internal/filter"
	"golang.org/x/term"
)

// ANSI color codes
const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGray  = "\033[90m"
	colorBold  = "\033[1m"
)

// ColorMode determines when to use colored output.
type ColorMode int

const (
	ColorAuto   ColorMode = iota // Auto-detect based on TTY
	ColorAlways                  // Always use colors
	ColorNever                   // Never use colors
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// ShouldColorize determines if output should be colorized based on mode and TTY detection.
func ShouldColorize(mode ColorMode, w io.Writer) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	case ColorAuto:
		if f, ok := w.(*os.File); ok {
			return isTerminal(f)
		}
		return false
	}
	return false
}

// Highlight rebuilds the redacted text with every replacement in bold
// red. Matches left untouched by a filter are shown in gray so skipped
// hits stay visible.
func Highlight(r filter.Result) string {
	if len(r.Findings) == 0 {
		return r.Output
	}

	var b strings.Builder
	last := 0
	for _, f := range r.Findings {
		b.WriteString(r.Input[last:f.Start])
		if f.Redacted {
			b.WriteString(colorBold + colorRed + f.Replacement + colorReset)
		} else {
			b.WriteString(colorGray + f.Replacement + colorReset)
		}
		last = f.End
	}
	b.WriteString(r.Input[last:])
	return b.String()
}

// FormatResult returns the redacted line, highlighted when colorize is set.
func FormatResult(r filter.Result, colorize bool) string {
	if colorize {
		return Highlight(r)
	}
	return r.Output
}
