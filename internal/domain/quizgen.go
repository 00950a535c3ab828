package domain

import (
	"context"

	"github.com/sashabaranov/go-openai/jsonschema"
)

// QuizGenerator turns extracted text into a fully validated quiz.
type QuizGenerator interface {
	// Generate requests count questions (DefaultQuestionCount when count <= 0).
	// It returns a Quiz only if every question passed validation.
	Generate(ctx context.Context, text string, count int) (*Quiz, error)
}

// GenerationRequest is everything a generative service needs for one call.
type GenerationRequest struct {
	SystemInstruction string
	Prompt            string
	// Schema is the exact JSON structure the service must return.
	Schema          jsonschema.Definition
	Temperature     float64
	MaxOutputTokens int
	QuestionCount   int
}

// GenerativeClient is the request/response boundary to a language model service.
// It returns the raw textual payload; it does not interpret it.
type GenerativeClient interface {
	Generate(ctx context.Context, req GenerationRequest) (string, error)
	// Name identifies the provider in logs and metrics.
	Name() string
}
