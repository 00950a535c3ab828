package server

import (
	"context"
	"strconv"
	"time"

	_ "docquiz/cmd/api/docs"
	"docquiz/internal/config"
	"docquiz/internal/handler"
	"docquiz/internal/logger"
	"docquiz/internal/metrics"
	"docquiz/internal/middleware"
	"docquiz/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// NewApp builds the fiber application. m may be nil, in which case /metrics is not served.
func NewApp(cfg *config.Config, quizService service.QuizService, m *metrics.Metrics) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      handler.ServiceName,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
		BodyLimit:    cfg.Server.BodyLimit,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept", MaxAge: 300}))
	app.Use(recover.New())

	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/health", handler.Health)
	if m != nil {
		app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))
	}

	quizHandler := handler.NewQuizHandler(quizService)
	validator := middleware.NewValidationMiddleware(cfg.Quiz.MaxQuestionCount)

	apiGroup := app.Group("/api")
	apiGroup.Post("/upload", validator.ValidateUpload(), quizHandler.Upload)
	apiGroup.Get("/quiz/:id", validator.ValidateQuizID(), quizHandler.GetQuiz)
	apiGroup.Get("/quizzes", quizHandler.ListQuizzes)

	return app
}

// Run serves the API until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, cfg *config.Config) error {
	appLogger := logger.Get()

	components, err := Build(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := components.Close(); err != nil {
			appLogger.Warn("Error releasing components", zap.Error(err))
		}
	}()

	app := NewApp(cfg, components.Service, components.Metrics)

	listenErr := make(chan error, 1)
	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		listenErr <- app.Listen(":" + strconv.Itoa(cfg.Server.Port))
	}()

	select {
	case err := <-listenErr:
		return err
	case <-ctx.Done():
	}

	appLogger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		return err
	}
	appLogger.Info("Server exited gracefully")
	return nil
}
