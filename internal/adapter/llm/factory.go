// Package llm adapts generative model providers to domain.GenerativeClient.
package llm

import (
	"context"
	"fmt"
	"io"

	"docquiz/internal/config"
	"docquiz/internal/domain"
)

// NewClient builds the client selected by cfg.Provider. The returned closer releases the
// client's resources and is never nil.
func NewClient(ctx context.Context, cfg config.LLMConfig) (domain.GenerativeClient, io.Closer, error) {
	switch cfg.Provider {
	case "gemini":
		client, err := NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.Model)
		if err != nil {
			return nil, nil, err
		}
		return client, client, nil
	case "openai":
		client, err := NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.Model)
		if err != nil {
			return nil, nil, err
		}
		return client, nopCloser{}, nil
	case "ollama":
		client, err := NewOllamaClient(cfg.OllamaServerURL, cfg.Model, cfg.Timeout)
		if err != nil {
			return nil, nil, err
		}
		return client, nopCloser{}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported llm provider: %q", cfg.Provider)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
