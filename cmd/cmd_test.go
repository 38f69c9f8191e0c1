package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bimmerbailey/bleep/internal/config"
	"github.com/bimmerbailey/bleep/internal/output"
	"github.com/bimmerbailey/bleep/internal/stats"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func resetConfig(t *testing.T) {
	t.Helper()
	viper.Reset()
	config.SetDefaults(viper.GetViper())
	t.Cleanup(viper.Reset)
}

func newTestCmd(use string, in string, out *bytes.Buffer) *cobra.Command {
	cmd := &cobra.Command{Use: use}
	cmd.SetIn(strings.NewReader(in))
	cmd.SetOut(out)
	return cmd
}

func newRedactTestCmd(in string, out *bytes.Buffer) *cobra.Command {
	cmd := newTestCmd("redact", in, out)
	cmd.Flags().BoolP("in-place", "i", false, "rewrite files that contain profanity")
	cmd.Flags().Bool("highlight", false, "colour replacements when writing to a terminal")
	return cmd
}

func newCheckTestCmd(in string, out *bytes.Buffer) *cobra.Command {
	cmd := newTestCmd("check", in, out)
	cmd.Flags().BoolP("quiet", "q", false, "print nothing; only set the exit status")
	return cmd
}

func writeTempFile(t *testing.T, dir string, name string, lines []string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestRedactStdin(t *testing.T) {
	resetConfig(t)

	var out bytes.Buffer
	cmd := newRedactTestCmd("what the hell\nall good\nHELL no\n", &out)

	if err := runRedact(cmd, nil); err != nil {
		t.Fatalf("runRedact() error = %v", err)
	}

	want := "what the ****\nall good\n**** no\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestRedactKeepsLineEndings(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"crlf", "what the hell\r\nall good\r\n", "what the ****\r\nall good\r\n"},
		{"mixed", "damn\r\nok\nhell", "****\r\nok\n****"},
		{"blank lines", "hell\n\n\r\n", "****\n\n\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetConfig(t)

			var out bytes.Buffer
			if err := runRedact(newRedactTestCmd(tt.input, &out), nil); err != nil {
				t.Fatalf("runRedact() error = %v", err)
			}
			if out.String() != tt.want {
				t.Errorf("output = %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestRedactOptionsFromConfig(t *testing.T) {
	tests := []struct {
		name     string
		settings map[string]interface{}
		input    string
		want     string
	}{
		{
			name:     "placeholder and keep ends",
			settings: map[string]interface{}{"filter.placeholder": "#", "filter.keep_first_and_last_char": true},
			input:    "go to hell",
			want:     "go to h##l",
		},
		{
			name:     "exceptions",
			settings: map[string]interface{}{"filter.exceptions": []string{"hell"}},
			input:    "hell and damn",
			want:     "hell and ****",
		},
		{
			name:     "minimum length",
			settings: map[string]interface{}{"filter.minimum_word_length": 5},
			input:    "hell bitches",
			want:     "hell *******",
		},
		{
			name:     "custom words",
			settings: map[string]interface{}{"filter.custom_bad_words": []string{"frak*"}},
			input:    "frakking toasters",
			want:     "******** toasters",
		},
		{
			name:     "partial words",
			settings: map[string]interface{}{"filter.replace_partial_words": true},
			input:    "motherfucking",
			want:     "*************",
		},
		{
			name:     "case sensitive",
			settings: map[string]interface{}{"filter.case_sensitive": true},
			input:    "HELL hell",
			want:     "HELL ****",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetConfig(t)
			for k, v := range tt.settings {
				viper.Set(k, v)
			}

			var out bytes.Buffer
			if err := runRedact(newRedactTestCmd(tt.input, &out), nil); err != nil {
				t.Fatalf("runRedact() error = %v", err)
			}
			if got := strings.TrimSuffix(out.String(), "\n"); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRedactJSON(t *testing.T) {
	resetConfig(t)
	viper.Set("format", "json")

	dir := t.TempDir()
	file := writeTempFile(t, dir, "chat.txt", []string{"fine", "damn it"})

	var out bytes.Buffer
	if err := runRedact(newRedactTestCmd("", &out), []string{file}); err != nil {
		t.Fatalf("runRedact() error = %v", err)
	}

	var records []output.Record
	if err := json.Unmarshal(out.Bytes(), &records); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out.String())
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[1].Source != file || records[1].Line != 2 || records[1].Result.Output != "**** it" {
		t.Errorf("record = %+v", records[1])
	}
}

func TestRedactCustomDictionary(t *testing.T) {
	resetConfig(t)

	dir := t.TempDir()
	dict := writeTempFile(t, dir, "words.txt", []string{"# house list", "gosh", "heck"})
	viper.Set("dictionary", dict)

	var out bytes.Buffer
	if err := runRedact(newRedactTestCmd("oh gosh, what the hell the heck", &out), nil); err != nil {
		t.Fatalf("runRedact() error = %v", err)
	}

	want := "oh ****, what the hell the ****"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestRedactMissingDictionary(t *testing.T) {
	resetConfig(t)
	viper.Set("dictionary", filepath.Join(t.TempDir(), "missing.txt"))

	var out bytes.Buffer
	if err := runRedact(newRedactTestCmd("hell", &out), nil); err == nil {
		t.Error("runRedact() expected error for missing dictionary")
	}
}

func TestRedactInPlace(t *testing.T) {
	resetConfig(t)

	dir := t.TempDir()
	dirty := writeTempFile(t, dir, "dirty.txt", []string{"what the hell", "ok\r", "damn"})
	clean := writeTempFile(t, dir, "clean.txt", []string{"nothing to see"})

	var out bytes.Buffer
	cmd := newRedactTestCmd("", &out)
	if err := cmd.Flags().Set("in-place", "true"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if err := runRedact(cmd, []string{filepath.Join(dir, "*.txt")}); err != nil {
		t.Fatalf("runRedact() error = %v", err)
	}

	data, err := os.ReadFile(dirty)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "what the ****\nok\r\n****" {
		t.Errorf("rewritten file = %q", string(data))
	}

	data, err = os.ReadFile(clean)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "nothing to see" {
		t.Errorf("clean file changed: %q", string(data))
	}

	if out.String() != dirty+": 2 redacted\n" {
		t.Errorf("output = %q", out.String())
	}
}

func TestRedactInPlaceRejectsStdin(t *testing.T) {
	resetConfig(t)

	for _, args := range [][]string{nil, {"-"}} {
		var out bytes.Buffer
		cmd := newRedactTestCmd("hell", &out)
		_ = cmd.Flags().Set("in-place", "true")
		if err := runRedact(cmd, args); err == nil {
			t.Errorf("runRedact(%v) expected error", args)
		}
	}
}

func TestCheckFindsProfanity(t *testing.T) {
	resetConfig(t)

	dir := t.TempDir()
	file := writeTempFile(t, dir, "notes.txt", []string{"fine", "go to hell", "also fine"})

	var out bytes.Buffer
	err := runCheck(newCheckTestCmd("", &out), []string{file})
	if !errors.Is(err, ErrProfane) {
		t.Fatalf("runCheck() error = %v, want ErrProfane", err)
	}

	want := file + ":2: go to ****\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestCheckClean(t *testing.T) {
	resetConfig(t)
	viper.Set("filter.exceptions", []string{"hell"})

	var out bytes.Buffer
	if err := runCheck(newCheckTestCmd("go to hell\nhello\n", &out), nil); err != nil {
		t.Fatalf("runCheck() error = %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("output = %q, want empty", out.String())
	}
}

func TestCheckQuiet(t *testing.T) {
	resetConfig(t)

	var out bytes.Buffer
	cmd := newCheckTestCmd("damn\n", &out)
	_ = cmd.Flags().Set("quiet", "true")

	if err := runCheck(cmd, nil); !errors.Is(err, ErrProfane) {
		t.Fatalf("runCheck() error = %v, want ErrProfane", err)
	}
	if out.Len() != 0 {
		t.Errorf("quiet output = %q", out.String())
	}
}

func TestStats(t *testing.T) {
	resetConfig(t)
	viper.Set("format", "json")
	viper.Set("filter.exceptions", []string{"crap"})

	in := "hell\ndamn hell\nclean line\ncrap\n"
	var out bytes.Buffer
	cmd := newTestCmd("stats", in, &out)
	cmd.Flags().Int("top", 10, "number of top terms to show (0 for all)")

	if err := runStats(cmd, nil); err != nil {
		t.Fatalf("runStats() error = %v", err)
	}

	var s stats.Summary
	if err := json.Unmarshal(out.Bytes(), &s); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out.String())
	}
	if s.Texts != 4 || s.ProfaneText != 2 || s.Redacted != 3 {
		t.Errorf("summary = %+v", s)
	}
	if s.Skipped["exception"] != 1 {
		t.Errorf("skipped = %v", s.Skipped)
	}
	if len(s.TopTerms) != 2 || s.TopTerms[0].Term != "hell" || s.TopTerms[0].Count != 2 {
		t.Errorf("top terms = %+v", s.TopTerms)
	}
}

func TestWords(t *testing.T) {
	resetConfig(t)
	viper.Set("filter.custom_bad_words", []string{"frak*"})

	var out bytes.Buffer
	cmd := newTestCmd("words", "", &out)
	cmd.Flags().Bool("pattern", false, "print the compiled regular expression")

	if err := runWords(cmd, nil); err != nil {
		t.Fatalf("runWords() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if lines[len(lines)-1] != "frak*" {
		t.Errorf("last word = %q, want frak*", lines[len(lines)-1])
	}
	if !strings.Contains(out.String(), "hell\n") {
		t.Errorf("built-in words missing:\n%s", out.String())
	}
}

func TestWordsPattern(t *testing.T) {
	tests := []struct {
		name     string
		settings map[string]interface{}
		prefix   string
		suffix   string
	}{
		{
			name:   "defaults",
			prefix: `(?i)\b(?:`,
			suffix: `)\b`,
		},
		{
			name:     "partial and case sensitive",
			settings: map[string]interface{}{"filter.replace_partial_words": true, "filter.case_sensitive": true},
			prefix:   `(?:`,
			suffix:   `|frak\w+)`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetConfig(t)
			viper.Set("filter.custom_bad_words", []string{"frak*"})
			for k, v := range tt.settings {
				viper.Set(k, v)
			}

			var out bytes.Buffer
			cmd := newTestCmd("words", "", &out)
			cmd.Flags().Bool("pattern", false, "print the compiled regular expression")
			_ = cmd.Flags().Set("pattern", "true")

			if err := runWords(cmd, nil); err != nil {
				t.Fatalf("runWords() error = %v", err)
			}

			got := strings.TrimSpace(out.String())
			if !strings.HasPrefix(got, tt.prefix) || !strings.HasSuffix(got, tt.suffix) {
				t.Errorf("pattern = %q, want prefix %q and suffix %q", got, tt.prefix, tt.suffix)
			}
		})
	}
}

func TestTailNoFollow(t *testing.T) {
	resetConfig(t)

	dir := t.TempDir()
	file := writeTempFile(t, dir, "chat.log", []string{"one", "damn", "three", "hell"})

	var out bytes.Buffer
	cmd := newTestCmd("tail", "", &out)
	cmd.Flags().IntP("lines", "n", 10, "")
	cmd.Flags().Bool("no-follow", false, "")
	cmd.Flags().Bool("follow-rotate", false, "")
	cmd.Flags().Bool("only-profane", false, "")
	cmd.Flags().Bool("no-color", false, "")
	_ = cmd.Flags().Set("no-follow", "true")
	_ = cmd.Flags().Set("only-profane", "true")

	if err := runTail(cmd, []string{file}); err != nil {
		t.Fatalf("runTail() error = %v", err)
	}

	if out.String() != "****\n****\n" {
		t.Errorf("output = %q", out.String())
	}
}

func TestTailMissingFile(t *testing.T) {
	resetConfig(t)

	var out bytes.Buffer
	cmd := newTestCmd("tail", "", &out)
	cmd.Flags().IntP("lines", "n", 10, "")
	cmd.Flags().Bool("no-follow", true, "")
	cmd.Flags().Bool("follow-rotate", false, "")
	cmd.Flags().Bool("only-profane", false, "")
	cmd.Flags().Bool("no-color", false, "")

	if err := runTail(cmd, []string{filepath.Join(t.TempDir(), "nope.log")}); err == nil {
		t.Error("runTail() expected error for missing file")
	}
}

// newOllamaServer fakes an Ollama host that has pulled models and judges
// every word offensive except "hell".
func newOllamaServer(t *testing.T, models ...string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			w.Write([]byte("Ollama is running"))
		case "/api/tags":
			list := make([]map[string]interface{}, 0, len(models))
			for _, m := range models {
				list = append(list, map[string]interface{}{"name": m + ":latest", "model": m})
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]interface{}{"models": list})
		case "/api/chat":
			var req struct {
				Model    string `json:"model"`
				Messages []struct {
					Content string `json:"content"`
				} `json:"messages"`
			}
			json.NewDecoder(r.Body).Decode(&req)
			answer := "yes"
			if strings.EqualFold(req.Messages[len(req.Messages)-1].Content, "hell") {
				answer = "no"
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]interface{}{
				"model":   req.Model,
				"message": map[string]string{"role": "assistant", "content": answer},
				"done":    true,
			})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestRedactWithJudge(t *testing.T) {
	tests := []struct {
		name    string
		model   string
		pulled  []string
		want    string
		wantErr bool
	}{
		{"configured model", "mistral", []string{"mistral"}, "what the hell, ****", false},
		{"empty model uses provider default", "", []string{"llama3.2"}, "what the hell, ****", false},
		{"model not pulled", "mistral", []string{"llama3.2"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newOllamaServer(t, tt.pulled...)

			resetConfig(t)
			viper.Set("llm.enabled", true)
			viper.Set("llm.ollama.host", server.URL)
			viper.Set("llm.ollama.model", tt.model)

			var out bytes.Buffer
			err := runRedact(newRedactTestCmd("what the hell, damn", &out), nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("runRedact() error = %v, wantErr %v", err, tt.wantErr)
			}
			if out.String() != tt.want {
				t.Errorf("output = %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestJudgeUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	resetConfig(t)
	viper.Set("llm.enabled", true)
	viper.Set("llm.ollama.host", server.URL)

	var out bytes.Buffer
	if err := runRedact(newRedactTestCmd("hell", &out), nil); err == nil {
		t.Error("runRedact() expected error when the judge is unreachable")
	}
}

func TestForEachLine(t *testing.T) {
	dir := t.TempDir()
	a := writeTempFile(t, dir, "a.txt", []string{"a1", "a2"})
	b := writeTempFile(t, dir, "b.txt", []string{"b1"})

	type seen struct {
		source string
		n      int
		line   string
		eol    string
	}
	var got []seen
	err := forEachLine(strings.NewReader("s1\r\n"), []string{filepath.Join(dir, "*.txt"), "-"},
		func(source string, n int, line, eol string) error {
			got = append(got, seen{source, n, line, eol})
			return nil
		})
	if err != nil {
		t.Fatalf("forEachLine() error = %v", err)
	}

	want := []seen{
		{stdinSource, 1, "s1", "\r\n"},
		{a, 1, "a1", "\n"},
		{a, 2, "a2", ""},
		{b, 1, "b1", ""},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d lines, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestForEachLineStopsOnError(t *testing.T) {
	stop := errors.New("stop")
	calls := 0
	err := forEachLine(strings.NewReader("1\n2\n3\n"), nil, func(string, int, string, string) error {
		calls++
		return stop
	})
	if !errors.Is(err, stop) || calls != 1 {
		t.Errorf("forEachLine() = %v after %d calls", err, calls)
	}
}

func TestVersion(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	defer versionCmd.SetOut(nil)

	versionCmd.Run(versionCmd, nil)

	if !strings.HasPrefix(out.String(), "bleep dev") {
		t.Errorf("version output = %q", out.String())
	}
}
