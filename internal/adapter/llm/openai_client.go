package llm

import (
	"context"
	"errors"
	"fmt"

	"docquiz/internal/domain"
	"docquiz/internal/logger"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const defaultOpenAIModel = openai.GPT4oMini

// OpenAIClient calls an OpenAI-compatible chat completion endpoint with a strict json_schema
// response format.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient creates a client. An empty baseURL uses the public OpenAI endpoint.
func NewOpenAIClient(apiKey, baseURL, model string) (*OpenAIClient, error) {
	if apiKey == "" && baseURL == "" {
		return nil, errors.New("openai API key cannot be empty")
	}
	if model == "" {
		model = defaultOpenAIModel
	}

	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	logger.Get().Info("Initialized OpenAI client", zap.String("model", model), zap.String("base_url", config.BaseURL))
	return &OpenAIClient{client: openai.NewClientWithConfig(config), model: model}, nil
}

func (c *OpenAIClient) Name() string { return "openai" }

// Generate implements domain.GenerativeClient.
func (c *OpenAIClient) Generate(ctx context.Context, req domain.GenerationRequest) (string, error) {
	schema := req.Schema
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.SystemInstruction != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemInstruction,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: float32(req.Temperature),
		MaxTokens:   req.MaxOutputTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "quiz",
				Schema: &schema,
				Strict: true,
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

var _ domain.GenerativeClient = (*OpenAIClient)(nil)
