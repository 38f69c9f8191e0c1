// Package tail follows a text file and redacts each line as it arrives.
//
// It implements "tail -f" like functionality with profanity-only
// filtering and log rotation detection.
package tail

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/bimmerbailey/bleep/internal/filter"
	"github.com/fsnotify/fsnotify"
)

// ErrRotated is returned when the file is rotated and FollowRotate is off.
var ErrRotated = errors.New("file rotated")

const maxScanTokenSize = 1024 * 1024 // 1MB

// Line is one redacted line of the followed file.
type Line struct {
	Number int
	Result filter.Result
}

// Options configures the tailer behavior.
type Options struct {
	FilePath     string                     // Path to the followed file
	Lines        int                        // Number of initial lines to show
	Follow       bool                       // Whether to follow the file for new content
	FollowRotate bool                       // Whether to follow through log rotations
	OnlyProfane  bool                       // Emit only lines that were redacted
	Inspect      func(string) filter.Result // Redacts a single line
	OutputFunc   func(Line) error           // Called for each emitted line
	Logger       *slog.Logger               // Rotation notices; discarded when nil
	RotateWait   time.Duration              // How long to wait for a rotated file to reappear
}

// Tailer handles tailing a file with redaction.
type Tailer struct {
	opts    Options
	file    *os.File
	offset  int64
	line    int
	watcher *fsnotify.Watcher
}

// New creates a new Tailer with the given options. A nil Inspect passes
// lines through unchanged.
func New(opts Options) *Tailer {
	if opts.Inspect == nil {
		opts.Inspect = func(s string) filter.Result {
			return filter.Result{Input: s, Output: s}
		}
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.RotateWait <= 0 {
		opts.RotateWait = 10 * time.Second
	}
	return &Tailer{opts: opts}
}

// Run starts the tailing process. It blocks until context is cancelled or an error occurs.
func (t *Tailer) Run(ctx context.Context) error {
	if err := t.openFile(); err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer t.close()

	if err := t.readInitialLines(); err != nil {
		return fmt.Errorf("failed to read initial lines: %w", err)
	}

	if !t.opts.Follow {
		return nil
	}

	if err := t.setupWatcher(); err != nil {
		return fmt.Errorf("failed to setup watcher: %w", err)
	}

	return t.watch(ctx)
}

// openFile opens the file and records its current end.
func (t *Tailer) openFile() error {
	f, err := os.Open(t.opts.FilePath)
	if err != nil {
		return err
	}
	t.file = f

	stat, err := f.Stat()
	if err != nil {
		return err
	}
	t.offset = stat.Size()

	return nil
}

// readInitialLines emits the last N lines of the file. The whole file is
// scanned so that line numbers of followed content stay absolute.
func (t *Tailer) readInitialLines() error {
	stat, err := t.file.Stat()
	if err != nil {
		return err
	}
	if stat.Size() == 0 {
		return nil
	}

	if _, err := t.file.Seek(0, io.SeekStart); err != nil {
		return err
	}

	// Keep a ring of the last N non-empty lines along with their numbers.
	type numbered struct {
		n    int
		text string
	}
	ring := make([]numbered, 0, max(t.opts.Lines, 0))

	scanner := newScanner(t.file)
	n := 0
	for scanner.Scan() {
		n++
		text := scanner.Text()
		if t.opts.Lines <= 0 || strings.TrimSpace(text) == "" {
			continue
		}
		if len(ring) == t.opts.Lines {
			ring = ring[1:]
		}
		ring = append(ring, numbered{n: n, text: text})
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	t.line = n

	for _, l := range ring {
		if err := t.emit(l.n, l.text); err != nil {
			return err
		}
	}

	t.offset, err = t.file.Seek(0, io.SeekEnd)
	return err
}

func (t *Tailer) setupWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	t.watcher = watcher

	return watcher.Add(t.opts.FilePath)
}

// watch monitors the file for changes and outputs new lines.
func (t *Tailer) watch(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-t.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher closed unexpectedly")
			}

			if err := t.handleEvent(ctx, event); err != nil {
				return err
			}

		case err, ok := <-t.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

func (t *Tailer) handleEvent(ctx context.Context, event fsnotify.Event) error {
	switch {
	case event.Has(fsnotify.Write):
		return t.readNewContent()
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return t.handleRotation(ctx)
	}
	return nil
}

// readNewContent emits complete lines appended since the last read. A
// trailing line without a newline is left for the next write.
func (t *Tailer) readNewContent() error {
	stat, err := t.file.Stat()
	if err != nil {
		return err
	}
	if stat.Size() < t.offset {
		// Truncated in place.
		t.offset = 0
	}

	if _, err := t.file.Seek(t.offset, io.SeekStart); err != nil {
		return err
	}

	reader := bufio.NewReaderSize(t.file, 64*1024)
	for {
		chunk, err := reader.ReadString('\n')
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if len(chunk) > maxScanTokenSize {
			return bufio.ErrTooLong
		}

		t.offset += int64(len(chunk))
		t.line++

		text := strings.TrimRight(chunk, "\r\n")
		if strings.TrimSpace(text) == "" {
			continue
		}
		if err := t.emit(t.line, text); err != nil {
			return err
		}
	}
}

// handleRotation reopens the file after it was moved or removed.
func (t *Tailer) handleRotation(ctx context.Context) error {
	if !t.opts.FollowRotate {
		t.opts.Logger.Info("file rotated, exiting; use --follow-rotate to follow through rotations",
			"file", t.opts.FilePath)
		return ErrRotated
	}

	if t.file != nil {
		t.file.Close()
		t.file = nil
	}

	timeout := time.After(t.opts.RotateWait)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timeout:
			return fmt.Errorf("timeout waiting for rotated file to reappear")
		case <-ticker.C:
			f, err := os.Open(t.opts.FilePath)
			if err != nil {
				continue
			}
			t.file = f
			t.offset = 0
			t.line = 0

			if err := t.watcher.Add(t.opts.FilePath); err != nil {
				return fmt.Errorf("failed to watch rotated file: %w", err)
			}

			t.opts.Logger.Info("file rotated, following new file", "file", t.opts.FilePath)
			return t.readNewContent()
		}
	}
}

// emit redacts text and hands it to OutputFunc.
func (t *Tailer) emit(n int, text string) error {
	r := t.opts.Inspect(text)
	if t.opts.OnlyProfane && !r.Profane() {
		return nil
	}
	return t.opts.OutputFunc(Line{Number: n, Result: r})
}

func newScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxScanTokenSize)
	return scanner
}

func (t *Tailer) close() {
	if t.file != nil {
		t.file.Close()
	}
	if t.watcher != nil {
		t.watcher.Close()
	}
}
