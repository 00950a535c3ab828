package service

import (
	"context"

	"docquiz/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- MockTextExtractor ---
type MockTextExtractor struct {
	mock.Mock
}

func (m *MockTextExtractor) Extract(ctx context.Context, doc domain.Document) (string, error) {
	args := m.Called(ctx, doc)
	return args.String(0), args.Error(1)
}

// --- MockQuizGenerator ---
type MockQuizGenerator struct {
	mock.Mock
}

func (m *MockQuizGenerator) Generate(ctx context.Context, text string, count int) (*domain.Quiz, error) {
	args := m.Called(ctx, text, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quiz), args.Error(1)
}

// --- MockQuizRepository ---
type MockQuizRepository struct {
	mock.Mock
}

func (m *MockQuizRepository) Put(ctx context.Context, record *domain.QuizRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockQuizRepository) Get(ctx context.Context, id string) (*domain.QuizRecord, bool) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*domain.QuizRecord), args.Bool(1)
}

func (m *MockQuizRepository) List(ctx context.Context) []domain.QuizSummary {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.QuizSummary)
}

func (m *MockQuizRepository) Count(ctx context.Context) int {
	args := m.Called(ctx)
	return args.Int(0)
}

// --- MockEventPublisher ---
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event *domain.QuizEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// --- MockGenerativeClient ---
type MockGenerativeClient struct {
	mock.Mock
}

func (m *MockGenerativeClient) Generate(ctx context.Context, req domain.GenerationRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockGenerativeClient) Name() string {
	return "mock"
}
