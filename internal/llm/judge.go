package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"unicode"
)

const judgeSystemPrompt = `You are a content moderator. You will be given a single word or short phrase.
Decide whether it is profane, obscene, or offensive in ordinary English usage.
Answer with exactly one word: "yes" or "no".`

// JudgeOptions configures a Judge.
type JudgeOptions struct {
	Model       string
	Temperature float32
}

// Judge decides whether dictionary hits are really offensive.
// Verdicts are remembered per case-folded word for the life of the Judge.
type Judge struct {
	provider Provider
	opts     JudgeOptions
	logger   *slog.Logger

	mu       sync.Mutex
	verdicts map[string]bool
}

// NewJudge creates a Judge backed by provider.
func NewJudge(provider Provider, opts JudgeOptions, logger *slog.Logger) *Judge {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Judge{
		provider: provider,
		opts:     opts,
		logger:   logger,
		verdicts: make(map[string]bool),
	}
}

// Offensive asks the model about word.
func (j *Judge) Offensive(ctx context.Context, word string) (bool, error) {
	key := strings.ToLower(word)

	j.mu.Lock()
	verdict, ok := j.verdicts[key]
	j.mu.Unlock()
	if ok {
		return verdict, nil
	}

	resp, err := j.provider.Chat(ctx, []Message{
		{Role: "system", Content: judgeSystemPrompt},
		{Role: "user", Content: word},
	}, &ChatOptions{
		Model:       j.opts.Model,
		Temperature: j.opts.Temperature,
		MaxTokens:   3,
	})
	if err != nil {
		return false, err
	}

	verdict, err = parseVerdict(resp.Content)
	if err != nil {
		return false, err
	}

	j.mu.Lock()
	j.verdicts[key] = verdict
	j.mu.Unlock()

	j.logger.Debug("judged word", "word", word, "offensive", verdict)
	return verdict, nil
}

// Predicate adapts the judge to a custom match function. When the model
// cannot be asked or answers nonsense the word is treated as offensive,
// so an outage never lets profanity through.
func (j *Judge) Predicate(ctx context.Context) func(string) bool {
	return func(word string) bool {
		verdict, err := j.Offensive(ctx, word)
		if err != nil {
			j.logger.Warn("llm judge failed, keeping redaction", "word", word, "error", err)
			return true
		}
		return verdict
	}
}

// parseVerdict reads a yes/no answer from the first word of the reply,
// tolerating case, quotes and trailing explanation.
func parseVerdict(answer string) (bool, error) {
	words := strings.FieldsFunc(strings.ToLower(answer), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	if len(words) > 0 {
		switch words[0] {
		case "yes":
			return true, nil
		case "no":
			return false, nil
		}
	}
	return false, fmt.Errorf("%w: %q", ErrInvalidResponse, answer)
}
