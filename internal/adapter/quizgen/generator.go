// Package quizgen builds generation requests, calls the generative service and
// validates its answer into a domain.Quiz.
package quizgen

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"docquiz/internal/config"
	"docquiz/internal/domain"
	"docquiz/internal/logger"

	"go.uber.org/zap"
)

// Generator implements domain.QuizGenerator with a single call to a GenerativeClient.
// No retry is attempted.
type Generator struct {
	client          domain.GenerativeClient
	temperature     float64
	maxOutputTokens int
	maxInputChars   int
}

// NewGenerator creates a Generator using the llm and quiz sections of cfg.
func NewGenerator(client domain.GenerativeClient, cfg *config.Config) (*Generator, error) {
	if client == nil {
		return nil, errors.New("generative client cannot be nil")
	}
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	return &Generator{
		client:          client,
		temperature:     cfg.LLM.Temperature,
		maxOutputTokens: cfg.LLM.MaxOutputTokens,
		maxInputChars:   cfg.Quiz.MaxInputChars,
	}, nil
}

// Generate implements domain.QuizGenerator.
func (g *Generator) Generate(ctx context.Context, text string, count int) (*domain.Quiz, error) {
	l := logger.Get()
	if count <= 0 {
		count = domain.DefaultQuestionCount
	}

	input, truncated := TruncateText(text, g.maxInputChars)
	if truncated {
		l.Info("Text truncated for generative service input",
			zap.Int("original_length", utf8.RuneCountInString(text)),
			zap.Int("max_chars", g.maxInputChars))
	}

	req := domain.GenerationRequest{
		SystemInstruction: systemInstruction,
		Prompt:            buildUserPrompt(input, count),
		Schema:            QuizSchema(),
		Temperature:       g.temperature,
		MaxOutputTokens:   g.maxOutputTokens,
		QuestionCount:     count,
	}

	l.Info("Sending quiz generation request",
		zap.String("provider", g.client.Name()),
		zap.Int("question_count", count),
		zap.Int("input_length", utf8.RuneCountInString(input)))

	start := time.Now()
	raw, err := g.client.Generate(ctx, req)
	if err != nil {
		l.Error("Generative service call failed",
			zap.String("provider", g.client.Name()),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return nil, domain.NewLLMServiceError(err)
	}
	l.Debug("Raw generative service response received", zap.String("raw_response", raw))

	quiz, err := ParseQuiz(raw)
	if err != nil {
		fields := []zap.Field{zap.String("code", string(domain.CodeOf(err))), zap.Error(err)}
		if rawResponse, ok := domain.RawResponse(err); ok {
			fields = append(fields, zap.String("raw_response", rawResponse))
		}
		l.Error("Generative service response rejected", fields...)
		return nil, err
	}

	if quiz.TotalQuestions != count {
		l.Warn("Generated question count differs from the requested count",
			zap.Int("requested", count),
			zap.Int("generated", quiz.TotalQuestions))
	}
	l.Info("Successfully generated quiz",
		zap.Int("num_questions", quiz.TotalQuestions),
		zap.Duration("elapsed", time.Since(start)))
	return quiz, nil
}

var _ domain.QuizGenerator = (*Generator)(nil)
