package quizgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"docquiz/internal/cache"
	"docquiz/internal/config"
	"docquiz/internal/domain"
	"docquiz/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const defaultGenerationTTL = 24 * time.Hour

// CachedGenerator decorates a QuizGenerator with a cache keyed by text hash and question count.
// Concurrent identical requests share one underlying call. Cache failures never fail a request.
type CachedGenerator struct {
	next    domain.QuizGenerator
	cache   domain.Cache
	ttl     time.Duration
	timeout time.Duration
	sfGroup singleflight.Group
}

// NewCachedGenerator wraps next with cache, using cache_ttls.generation from cfg.
func NewCachedGenerator(next domain.QuizGenerator, c domain.Cache, cfg *config.Config) (*CachedGenerator, error) {
	if next == nil {
		return nil, errors.New("quiz generator cannot be nil")
	}
	if c == nil {
		return nil, errors.New("cache instance cannot be nil for CachedGenerator")
	}
	g := &CachedGenerator{next: next, cache: c, ttl: defaultGenerationTTL}
	if cfg != nil {
		g.ttl = cfg.ParseTTLStringOrDefault(cfg.CacheTTLs.Generation, defaultGenerationTTL)
		g.timeout = cfg.LLM.Timeout
	}
	return g, nil
}

// GenerationCacheKey returns the cache key for text and count.
func GenerationCacheKey(text string, count int) string {
	return cache.GenerateCacheKey("quizgen", "quiz", cache.HashText(text), strconv.Itoa(count))
}

// Generate implements domain.QuizGenerator.
func (g *CachedGenerator) Generate(ctx context.Context, text string, count int) (*domain.Quiz, error) {
	l := logger.Get()
	if count <= 0 {
		count = domain.DefaultQuestionCount
	}
	cacheKey := GenerationCacheKey(text, count)

	cached, err := g.cache.Get(ctx, cacheKey)
	switch {
	case err == nil:
		// Cached entries go through the same validation as fresh responses.
		quiz, parseErr := ParseQuiz(cached)
		if parseErr == nil {
			l.Debug("Quiz generation cache hit", zap.String("cache_key", cacheKey))
			return quiz, nil
		}
		l.Warn("Discarding invalid cached quiz", zap.String("cache_key", cacheKey), zap.Error(parseErr))
	case errors.Is(err, domain.ErrCacheMiss):
		l.Debug("Quiz generation cache miss", zap.String("cache_key", cacheKey))
	default:
		l.Error("Failed to read quiz generation cache", zap.String("cache_key", cacheKey), zap.Error(err))
	}

	// The shared call outlives any single caller; each caller only stops waiting on its own ctx.
	ch := g.sfGroup.DoChan(cacheKey, func() (interface{}, error) {
		callCtx, cancel := g.sharedContext(ctx)
		defer cancel()

		quiz, genErr := g.next.Generate(callCtx, text, count)
		if genErr != nil {
			return nil, genErr
		}

		payload, encErr := json.Marshal(quiz)
		if encErr != nil {
			l.Error("Failed to encode quiz for caching", zap.String("cache_key", cacheKey), zap.Error(encErr))
			return quiz, nil
		}
		if setErr := g.cache.Set(callCtx, cacheKey, string(payload), g.ttl); setErr != nil {
			l.Error("Failed to write quiz generation cache", zap.String("cache_key", cacheKey), zap.Error(setErr))
		} else {
			l.Debug("Quiz cached", zap.String("cache_key", cacheKey), zap.Duration("ttl", g.ttl))
		}
		return quiz, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		l.Warn("Caller stopped waiting for quiz generation", zap.String("cache_key", cacheKey), zap.Error(ctx.Err()))
		return nil, domain.NewLLMServiceError(ctx.Err())
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}

	quiz, ok := res.Val.(*domain.Quiz)
	if !ok {
		return nil, domain.NewInternalError("quiz generation failed",
			fmt.Errorf("unexpected type from singleflight.DoChan: %T", res.Val))
	}
	if res.Shared {
		return quiz.Clone(), nil
	}
	return quiz, nil
}

// sharedContext keeps the values of ctx but not its cancellation, bounded by llm.timeout when set.
func (g *CachedGenerator) sharedContext(ctx context.Context) (context.Context, context.CancelFunc) {
	detached := context.WithoutCancel(ctx)
	if g.timeout > 0 {
		return context.WithTimeout(detached, g.timeout)
	}
	return context.WithCancel(detached)
}

var _ domain.QuizGenerator = (*CachedGenerator)(nil)
