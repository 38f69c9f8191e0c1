// Package llm provides the optional language-model judge.
//
// A dictionary hit is not always profanity ("Scunthorpe", "cocktail",
// "hell" in a quote). When enabled, the judge asks a model whether a
// matched word is actually offensive and is plugged into the engine as
// its custom match predicate:
//
//	provider, err := llm.NewProvider(cfg, logger)
//	if err != nil {
//	    return err
//	}
//	judge := llm.NewJudge(provider, llm.JudgeOptions{Model: "llama3.2"}, logger)
//	clean := f.Redact(text, filter.WithCustomMatch(judge.Predicate(ctx)))
package llm

import (
	"context"
	"errors"
	"log/slog"

	"github.com/bimmerbailey/bleep/internal/config"
	"github.com/bimmerbailey/bleep/internal/llm/ollama"
)

// Provider defines the interface for LLM interactions.
// Implementations must be safe for concurrent use.
type Provider interface {
	// Chat sends messages and returns a complete response.
	// The context can be used to cancel the request.
	Chat(ctx context.Context, messages []Message, opts *ChatOptions) (*Response, error)

	// Heartbeat checks if the provider is reachable and healthy.
	Heartbeat(ctx context.Context) error

	// ModelAvailable checks if a specific model is available for use.
	ModelAvailable(ctx context.Context, model string) (bool, error)

	// DefaultModel returns the model used when ChatOptions leave it empty.
	DefaultModel() string
}

// Message represents a single message in a conversation.
type Message struct {
	// Role identifies the message sender: "system", "user", or "assistant"
	Role string

	// Content is the message text
	Content string
}

// ChatOptions configures chat behavior.
// All fields are optional; nil opts uses provider defaults.
type ChatOptions struct {
	Model       string
	Temperature float32
	MaxTokens   int
}

// Response represents a complete LLM response.
type Response struct {
	Content      string
	Model        string
	TokensPrompt int
	TokensTotal  int
}

// Common errors returned by LLM providers.
var (
	// ErrProviderUnavailable indicates the LLM provider is not reachable
	ErrProviderUnavailable = ollama.ErrProviderUnavailable

	// ErrInvalidResponse indicates the provider returned an invalid response
	ErrInvalidResponse = errors.New("provider returned invalid response")
)

// NewProvider creates an LLM provider based on the configuration.
func NewProvider(cfg *config.Config, logger *slog.Logger) (Provider, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	logger.Debug("creating llm provider", "type", "ollama")

	p, err := ollama.New(ollama.Config{
		Host:      cfg.LLM.Ollama.Host,
		Model:     cfg.LLM.Ollama.Model,
		KeepAlive: cfg.LLM.Ollama.KeepAlive,
	}, logger)
	if err != nil {
		return nil, err
	}
	return &ollamaProviderAdapter{provider: p}, nil
}

// ollamaProviderAdapter adapts the ollama.Provider to the llm.Provider interface.
type ollamaProviderAdapter struct {
	provider *ollama.Provider
}

func (a *ollamaProviderAdapter) Chat(ctx context.Context, messages []Message, opts *ChatOptions) (*Response, error) {
	ollamaMessages := make([]ollama.Message, len(messages))
	for i, msg := range messages {
		ollamaMessages[i] = ollama.Message{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}

	var ollamaOpts *ollama.ChatOptions
	if opts != nil {
		ollamaOpts = &ollama.ChatOptions{
			Model:       opts.Model,
			Temperature: opts.Temperature,
			MaxTokens:   opts.MaxTokens,
		}
	}

	resp, err := a.provider.Chat(ctx, ollamaMessages, ollamaOpts)
	if err != nil {
		return nil, err
	}

	return &Response{
		Content:      resp.Content,
		Model:        resp.Model,
		TokensPrompt: resp.TokensPrompt,
		TokensTotal:  resp.TokensTotal,
	}, nil
}

func (a *ollamaProviderAdapter) Heartbeat(ctx context.Context) error {
	return a.provider.Heartbeat(ctx)
}

func (a *ollamaProviderAdapter) ModelAvailable(ctx context.Context, model string) (bool, error) {
	return a.provider.ModelAvailable(ctx, model)
}

func (a *ollamaProviderAdapter) DefaultModel() string {
	return a.provider.DefaultModel()
}
