package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"docquiz/internal/domain"
	"docquiz/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"go.uber.org/zap"
)

const defaultOllamaModel = "qwen3:0.6b"

// OllamaClient calls a local Ollama server in JSON mode. Ollama has no schema enforcement,
// so the schema is only described in the prompt.
type OllamaClient struct {
	llm   *ollama.LLM
	model string
}

// NewOllamaClient creates a client for serverURL. timeout bounds each HTTP call; zero means none.
func NewOllamaClient(serverURL, model string, timeout time.Duration) (*OllamaClient, error) {
	if model == "" {
		model = defaultOllamaModel
	}
	llm, err := ollama.New(
		ollama.WithServerURL(serverURL),
		ollama.WithModel(model),
		ollama.WithHTTPClient(&http.Client{Timeout: timeout}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama client: %w", err)
	}
	logger.Get().Info("Initialized Ollama client", zap.String("server_url", serverURL), zap.String("model", model))
	return &OllamaClient{llm: llm, model: model}, nil
}

func (c *OllamaClient) Name() string { return "ollama" }

// Generate implements domain.GenerativeClient.
func (c *OllamaClient) Generate(ctx context.Context, req domain.GenerationRequest) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, req.SystemInstruction),
		llms.TextParts(llms.ChatMessageTypeHuman, req.Prompt),
	}
	opts := []llms.CallOption{
		llms.WithJSONMode(),
		llms.WithTemperature(req.Temperature),
	}
	if req.MaxOutputTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(req.MaxOutputTokens))
	}

	resp, err := c.llm.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return "", fmt.Errorf("ollama generate content: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Content, nil
}

var _ domain.GenerativeClient = (*OllamaClient)(nil)
