package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"docquiz/internal/domain"
	"docquiz/internal/logger"

	"github.com/google/generative-ai-go/genai"
	"github.com/sashabaranov/go-openai/jsonschema"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const defaultGeminiModel = "gemini-2.5-flash"

// GeminiClient calls Google Gemini with a native response schema.
type GeminiClient struct {
	client    *genai.Client
	modelName string
}

// NewGeminiClient creates a Gemini client. Close releases its connections.
func NewGeminiClient(ctx context.Context, apiKey, modelName string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("gemini API key cannot be empty")
	}
	if modelName == "" {
		modelName = defaultGeminiModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	logger.Get().Info("Initialized Gemini client", zap.String("model", modelName))
	return &GeminiClient{client: client, modelName: modelName}, nil
}

func (c *GeminiClient) Name() string { return "gemini" }

// Generate implements domain.GenerativeClient.
func (c *GeminiClient) Generate(ctx context.Context, req domain.GenerationRequest) (string, error) {
	model := c.client.GenerativeModel(c.modelName)
	if req.SystemInstruction != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.SystemInstruction)}}
	}
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = ToGenaiSchema(req.Schema)
	model.SetTemperature(float32(req.Temperature))
	if req.MaxOutputTokens > 0 {
		model.SetMaxOutputTokens(int32(req.MaxOutputTokens))
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				b.WriteString(string(text))
			}
		}
		// Only the first candidate with content is used.
		if b.Len() > 0 {
			break
		}
	}
	return b.String(), nil
}

func (c *GeminiClient) Close() error {
	return c.client.Close()
}

// ToGenaiSchema converts a JSON schema definition into Gemini's schema type.
// additionalProperties has no Gemini equivalent and is dropped.
func ToGenaiSchema(def jsonschema.Definition) *genai.Schema {
	schema := &genai.Schema{
		Type:        toGenaiType(def.Type),
		Description: def.Description,
		Enum:        def.Enum,
		Required:    def.Required,
	}
	if def.Items != nil {
		schema.Items = ToGenaiSchema(*def.Items)
	}
	if len(def.Properties) > 0 {
		schema.Properties = make(map[string]*genai.Schema, len(def.Properties))
		for name, prop := range def.Properties {
			schema.Properties[name] = ToGenaiSchema(prop)
		}
	}
	return schema
}

func toGenaiType(t jsonschema.DataType) genai.Type {
	switch t {
	case jsonschema.Object:
		return genai.TypeObject
	case jsonschema.Array:
		return genai.TypeArray
	case jsonschema.String:
		return genai.TypeString
	case jsonschema.Integer:
		return genai.TypeInteger
	case jsonschema.Number:
		return genai.TypeNumber
	case jsonschema.Boolean:
		return genai.TypeBoolean
	default:
		return genai.TypeUnspecified
	}
}

var _ domain.GenerativeClient = (*GeminiClient)(nil)
