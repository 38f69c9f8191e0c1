package cmd

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/bimmerbailey/bleep/internal/config"
	"github.com/bimmerbailey/bleep/internal/filter"
	"github.com/bimmerbailey/bleep/internal/llm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// stdinSource names standard input in output records.
const stdinSource = "stdin"

// engine bundles a filter with the per-call options resolved from
// flags, config and environment.
type engine struct {
	cfg    *config.Config
	filter *filter.Filter
	opts   []filter.Option
	logger *slog.Logger
}

func newLogger(cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.Level(),
	}))
}

// newEngine loads the configuration and builds the filter. When the LLM
// judge is enabled it is checked for reachability and installed as the
// custom match predicate.
func newEngine(ctx context.Context) (*engine, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg)

	words, err := cfg.Words()
	if err != nil {
		return nil, err
	}
	logger.Debug("dictionary loaded", "words", len(words), "file", cfg.Dictionary)

	e := &engine{
		cfg:    cfg,
		filter: filter.New(words, filter.WithLogger(logger)),
		opts:   []filter.Option{filter.WithOptions(cfg.Filter)},
		logger: logger,
	}

	if cfg.LLM.Enabled {
		judge, err := newJudge(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		e.opts = append(e.opts, filter.WithCustomMatch(judge.Predicate(ctx)))
	}

	return e, nil
}

func newJudge(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*llm.Judge, error) {
	provider, err := llm.NewProvider(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create llm provider: %w", err)
	}

	if err := provider.Heartbeat(ctx); err != nil {
		return nil, fmt.Errorf("llm judge unavailable: %w", err)
	}

	model := provider.DefaultModel()
	ok, err := provider.ModelAvailable(ctx, model)
	if err != nil {
		return nil, fmt.Errorf("failed to list llm models: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("model %q is not available; pull it with 'ollama pull %s'", model, model)
	}

	return llm.NewJudge(provider, llm.JudgeOptions{
		Model:       model,
		Temperature: cfg.LLM.Temperature,
	}, logger), nil
}

// commandContext returns the command's context, or Background when the
// command was not started through Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func (e *engine) inspect(text string) filter.Result {
	return e.filter.Inspect(text, e.opts...)
}

// lineFunc receives one input line without its terminator; eol holds the
// terminator ("\n", "\r\n", or "" for an unterminated last line).
// Numbers start at 1 for each source.
type lineFunc func(source string, n int, line, eol string) error

// forEachLine feeds every line of every input to fn. No arguments, or
// "-", reads from in.
func forEachLine(in io.Reader, args []string, fn lineFunc) error {
	if len(args) == 0 {
		args = []string{config.Stdin}
	}

	files, err := config.ExpandGlobs(args)
	if err != nil {
		return err
	}

	for _, path := range files {
		if path == config.Stdin {
			if err := scanLines(stdinSource, in, fn); err != nil {
				return err
			}
			continue
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		err = scanLines(path, f, fn)
		f.Close()
		if err != nil {
			return err
		}
	}

	return nil
}

func scanLines(source string, r io.Reader, fn lineFunc) error {
	scanner := bufio.NewScanner(r)
	const maxScanTokenSize = 1024 * 1024 // 1MB
	scanner.Buffer(make([]byte, 0, 64*1024), maxScanTokenSize)
	scanner.Split(scanLinesKeepEOL)

	n := 0
	for scanner.Scan() {
		n++
		line, eol := splitEOL(scanner.Text())
		if err := fn(source, n, line, eol); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %w", source, err)
	}
	return nil
}

// scanLinesKeepEOL is bufio.ScanLines without dropping the terminator.
func scanLinesKeepEOL(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return i + 1, data[:i+1], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

func splitEOL(raw string) (line, eol string) {
	switch {
	case strings.HasSuffix(raw, "\r\n"):
		return raw[:len(raw)-2], "\r\n"
	case strings.HasSuffix(raw, "\n"):
		return raw[:len(raw)-1], "\n"
	default:
		return raw, ""
	}
}
