package repository

import (
	"context"
	"sort"
	"sync"

	"docquiz/internal/domain"
	"docquiz/internal/logger"

	"go.uber.org/zap"
)

type storedQuiz struct {
	record *domain.QuizRecord
	seq    uint64
}

// MemoryQuizRepository is a process-lifetime domain.QuizRepository. Nothing is written to
// stable storage; records live until the process exits.
type MemoryQuizRepository struct {
	mu      sync.RWMutex
	records map[string]storedQuiz
	nextSeq uint64
}

// NewMemoryQuizRepository creates an empty repository.
func NewMemoryQuizRepository() *MemoryQuizRepository {
	return &MemoryQuizRepository{records: make(map[string]storedQuiz)}
}

// Put stores a deep copy of record. The stored record never changes afterwards.
func (r *MemoryQuizRepository) Put(ctx context.Context, record *domain.QuizRecord) error {
	if record == nil || record.ID == "" {
		return domain.NewInvalidInputError("quiz record must have an ID")
	}
	if record.Quiz == nil {
		return domain.NewInvalidInputError("quiz record must carry a quiz")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[record.ID]; exists {
		logger.Get().Warn("Rejected duplicate quiz ID", zap.String("quiz_id", record.ID))
		return domain.NewDuplicateIDError(record.ID)
	}
	r.nextSeq++
	r.records[record.ID] = storedQuiz{record: record.Clone(), seq: r.nextSeq}
	return nil
}

// Get returns a copy of the record, or false when id is unknown.
func (r *MemoryQuizRepository) Get(ctx context.Context, id string) (*domain.QuizRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.records[id]
	if !ok {
		return nil, false
	}
	return stored.record.Clone(), true
}

// List returns summaries newest first by CreatedAt; equal timestamps put the later insertion first.
func (r *MemoryQuizRepository) List(ctx context.Context) []domain.QuizSummary {
	r.mu.RLock()
	entries := make([]storedQuiz, 0, len(r.records))
	for _, stored := range r.records {
		entries = append(entries, stored)
	}
	r.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i].record.CreatedAt, entries[j].record.CreatedAt
		if !a.Equal(b) {
			return a.After(b)
		}
		return entries[i].seq > entries[j].seq
	})

	summaries := make([]domain.QuizSummary, len(entries))
	for i, stored := range entries {
		summaries[i] = stored.record.Summary()
	}
	return summaries
}

func (r *MemoryQuizRepository) Count(ctx context.Context) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

var _ domain.QuizRepository = (*MemoryQuizRepository)(nil)
