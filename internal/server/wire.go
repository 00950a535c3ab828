// Package server wires the pipeline components and serves them over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"

	"docquiz/internal/adapter"
	"docquiz/internal/adapter/event"
	"docquiz/internal/adapter/llm"
	"docquiz/internal/adapter/quizgen"
	"docquiz/internal/cache"
	"docquiz/internal/config"
	"docquiz/internal/domain"
	"docquiz/internal/extractor"
	"docquiz/internal/logger"
	"docquiz/internal/metrics"
	"docquiz/internal/repository"
	"docquiz/internal/service"

	"go.uber.org/zap"
)

// Components holds everything one process needs to run the pipeline.
type Components struct {
	Config     *config.Config
	Service    service.QuizService
	Repository domain.QuizRepository
	Metrics    *metrics.Metrics

	closers []io.Closer
}

// Build creates the generative client, the optional Redis cache and event publisher,
// the in-memory repository and the quiz service.
func Build(ctx context.Context, cfg *config.Config) (*Components, error) {
	appLogger := logger.Get()
	c := &Components{Config: cfg}

	client, clientCloser, err := llm.NewClient(ctx, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", cfg.LLM.Provider, err)
	}
	c.closers = append(c.closers, clientCloser)
	appLogger.Info("Generative client initialized", zap.String("provider", client.Name()))

	baseGenerator, err := quizgen.NewGenerator(client, cfg)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	var generator domain.QuizGenerator = baseGenerator

	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			appLogger.Warn("Redis unavailable, generation cache disabled", zap.Error(err))
		} else {
			c.closers = append(c.closers, redisClient)
			cached, err := quizgen.NewCachedGenerator(baseGenerator, adapter.NewRedisCacheAdapter(redisClient), cfg)
			if err != nil {
				_ = c.Close()
				return nil, err
			}
			generator = cached
			appLogger.Info("Generation cache enabled", zap.String("address", cfg.Redis.Address))
		}
	}

	publisher, err := event.NewAMQPPublisher(cfg.Events)
	if err != nil {
		appLogger.Warn("Event broker unavailable, event publishing disabled", zap.Error(err))
		publisher, _ = event.NewAMQPPublisher(config.EventsConfig{})
	}
	c.closers = append(c.closers, publisher)

	if cfg.Metrics.Enabled {
		c.Metrics = metrics.New()
	}

	repo := repository.NewMemoryQuizRepository()
	c.Repository = repo
	c.Service = service.NewQuizService(extractor.New(), generator, repo, publisher, c.Metrics, cfg)
	return c, nil
}

// Close releases the components in reverse creation order.
func (c *Components) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
