package service

import (
	"context"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"docquiz/internal/config"
	"docquiz/internal/domain"
	"docquiz/internal/dto"
	"docquiz/internal/logger"
	"docquiz/internal/metrics"
	"docquiz/internal/util"

	"go.uber.org/zap"
)

// QuizService defines the document-to-quiz operations
type QuizService interface {
	// CreateQuizFromDocument runs extract, generate and store for one document.
	CreateQuizFromDocument(ctx context.Context, req *dto.CreateQuizRequest) (*domain.QuizRecord, error)
	GetQuiz(ctx context.Context, id string) (*domain.QuizRecord, error)
	ListQuizzes(ctx context.Context) ([]domain.QuizSummary, error)
}

// quizService implements QuizService
type quizService struct {
	extractor domain.TextExtractor
	generator domain.QuizGenerator
	repo      domain.QuizRepository
	publisher domain.EventPublisher
	metrics   *metrics.Metrics
	cfg       *config.Config
}

// NewQuizService creates a new instance of quizService.
// publisher and m may be nil.
func NewQuizService(
	extractor domain.TextExtractor,
	generator domain.QuizGenerator,
	repo domain.QuizRepository,
	publisher domain.EventPublisher,
	m *metrics.Metrics,
	cfg *config.Config,
) QuizService {
	return &quizService{
		extractor: extractor,
		generator: generator,
		repo:      repo,
		publisher: publisher,
		metrics:   m,
		cfg:       cfg,
	}
}

// pipelineRun tracks the status of one execution.
type pipelineRun struct {
	filename string
	status   domain.QuizStatus
}

func (r *pipelineRun) advance(next domain.QuizStatus) {
	if !r.status.CanTransitionTo(next) {
		logger.Get().Error("Invalid pipeline transition",
			zap.String("filename", r.filename),
			zap.String("from", string(r.status)),
			zap.String("to", string(next)))
		return
	}
	r.status = next
}

// CreateQuizFromDocument implements QuizService
func (s *quizService) CreateQuizFromDocument(ctx context.Context, req *dto.CreateQuizRequest) (*domain.QuizRecord, error) {
	if req == nil || req.Body == nil {
		return nil, domain.NewInvalidInputError("a document is required")
	}
	filename := strings.TrimSpace(req.Filename)
	if filename == "" {
		return nil, domain.NewInvalidInputError("filename is required")
	}
	count, err := s.questionCount(req.QuestionCount)
	if err != nil {
		return nil, err
	}

	run := &pipelineRun{filename: filename, status: domain.StatusPending}
	record, err := s.runPipeline(ctx, run, req.Body, count)
	if err != nil {
		failedAt := run.status
		run.advance(domain.StatusFailed)
		s.recordFailure(ctx, filename, failedAt, err)
		return nil, err
	}

	run.advance(domain.StatusPublished)
	s.metrics.ObservePipeline(metrics.OutcomePublished)
	s.metrics.SetQuizzesStored(s.repo.Count(ctx))
	s.publish(ctx, &domain.QuizEvent{
		Type:          domain.EventQuizPublished,
		QuizID:        record.ID,
		Filename:      record.SourceFilename,
		Status:        domain.StatusPublished,
		QuestionCount: record.Quiz.TotalQuestions,
		OccurredAt:    record.CreatedAt.UTC().Format(time.RFC3339),
	})

	logger.Get().Info("Quiz published",
		zap.String("quiz_id", record.ID),
		zap.String("filename", filename),
		zap.Int("question_count", record.Quiz.TotalQuestions))
	return record, nil
}

func (s *quizService) runPipeline(ctx context.Context, run *pipelineRun, body io.Reader, count int) (*domain.QuizRecord, error) {
	docType := domain.DocumentTypeFromFilename(run.filename)

	start := time.Now()
	text, err := s.extractor.Extract(ctx, domain.Document{Type: docType, Body: body})
	s.metrics.ObserveStage(metrics.StageExtract, time.Since(start))
	if err != nil {
		return nil, err
	}
	run.advance(domain.StatusExtracted)

	textLength := utf8.RuneCountInString(strings.TrimSpace(text))
	logger.Get().Debug("Text extracted",
		zap.String("filename", run.filename),
		zap.String("type", string(docType)),
		zap.Int("text_length", textLength))
	if minimum := s.minTextLength(); textLength < minimum {
		return nil, domain.NewInsufficientTextError(textLength, minimum)
	}

	genCtx := ctx
	if s.cfg.LLM.Timeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, s.cfg.LLM.Timeout)
		defer cancel()
	}
	start = time.Now()
	quiz, err := s.generator.Generate(genCtx, text, count)
	s.metrics.ObserveStage(metrics.StageGenerate, time.Since(start))
	if err != nil {
		return nil, err
	}
	run.advance(domain.StatusGenerated)

	record := &domain.QuizRecord{
		ID:               util.NewULID(),
		Quiz:             quiz,
		SourceFilename:   run.filename,
		CreatedAt:        time.Now().UTC(),
		SourceTextLength: utf8.RuneCountInString(text),
		TextPreview:      domain.PreviewText(text),
	}
	if err := s.repo.Put(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *quizService) recordFailure(ctx context.Context, filename string, stage domain.QuizStatus, err error) {
	code := domain.CodeOf(err)
	if code == "" {
		code = domain.CodeInternal
	}
	s.metrics.ObservePipeline(string(code))

	fields := []zap.Field{
		zap.String("filename", filename),
		zap.String("stage", string(stage)),
		zap.String("code", string(code)),
		zap.Error(err),
	}
	if raw, ok := domain.RawResponse(err); ok {
		fields = append(fields, zap.String("raw_response", raw))
	}
	logger.Get().Warn("Quiz pipeline failed", fields...)

	s.publish(ctx, &domain.QuizEvent{
		Type:     domain.EventQuizFailed,
		Filename: filename,
		Status:   domain.StatusFailed,
		Stage:    stage,
		Code:     code,
		Message:  err.Error(),
	})
}

// publish never fails the caller; delivery errors are logged.
func (s *quizService) publish(ctx context.Context, event *domain.QuizEvent) {
	if s.publisher == nil {
		return
	}
	start := time.Now()
	err := s.publisher.Publish(context.WithoutCancel(ctx), event)
	s.metrics.ObserveStage(metrics.StagePublish, time.Since(start))
	if err != nil {
		logger.Get().Warn("Failed to publish quiz event",
			zap.String("type", event.Type),
			zap.String("quiz_id", event.QuizID),
			zap.Error(err))
	}
}

func (s *quizService) questionCount(requested int) (int, error) {
	if requested <= 0 {
		if s.cfg.Quiz.QuestionCount > 0 {
			return s.cfg.Quiz.QuestionCount, nil
		}
		return domain.DefaultQuestionCount, nil
	}
	if max := s.cfg.Quiz.MaxQuestionCount; max > 0 && requested > max {
		return 0, domain.NewError(domain.CodeOutOfRange,
			domain.NewOutOfRangeError("count", requested, 1, max).Message, nil)
	}
	return requested, nil
}

func (s *quizService) minTextLength() int {
	if s.cfg.Quiz.MinTextLength > 0 {
		return s.cfg.Quiz.MinTextLength
	}
	return domain.MinTextLength
}

// GetQuiz implements QuizService
func (s *quizService) GetQuiz(ctx context.Context, id string) (*domain.QuizRecord, error) {
	record, ok := s.repo.Get(ctx, id)
	if !ok {
		return nil, domain.NewQuizNotFoundError(id)
	}
	return record, nil
}

// ListQuizzes implements QuizService
func (s *quizService) ListQuizzes(ctx context.Context) ([]domain.QuizSummary, error) {
	return s.repo.List(ctx), nil
}
