package handler

import (
	"mime/multipart"

	"docquiz/internal/domain"
	"docquiz/internal/dto"
	"docquiz/internal/logger"
	"docquiz/internal/middleware"
	"docquiz/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ServiceName and Version are reported by the health endpoint
const (
	ServiceName = "docquiz"
	Version     = "1.0.0"
)

// QuizHandler handles quiz-related HTTP requests
type QuizHandler struct {
	service service.QuizService
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service service.QuizService) *QuizHandler {
	return &QuizHandler{
		service: service,
	}
}

// Upload godoc
// @Summary Generate a quiz from a document
// @Description Extracts text from a PDF or DOCX upload and generates a multiple-choice quiz
// @Tags quiz
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "PDF or DOCX document (max 16MB)"
// @Param count formData int false "Number of questions (1-20, default 5)"
// @Success 200 {object} dto.UploadResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 413 {object} middleware.ErrorResponse
// @Failure 422 {object} middleware.ErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /upload [post]
func (h *QuizHandler) Upload(c *fiber.Ctx) error {
	file, ok := c.Locals(middleware.LocalUploadFile).(*multipart.FileHeader)
	if !ok || file == nil {
		var err error
		if file, err = c.FormFile("file"); err != nil {
			return domain.ValidationErrors{domain.NewMissingFieldError("file")}
		}
	}
	count, _ := c.Locals(middleware.LocalUploadCount).(int)

	body, err := file.Open()
	if err != nil {
		return domain.NewInternalError("failed to read uploaded file", err)
	}
	defer body.Close()

	record, err := h.service.CreateQuizFromDocument(c.UserContext(), &dto.CreateQuizRequest{
		Filename:      file.Filename,
		Body:          body,
		QuestionCount: count,
	})
	if err != nil {
		return err
	}

	logger.Get().Debug("Upload processed",
		zap.String("quiz_id", record.ID),
		zap.String("filename", record.SourceFilename),
		zap.Int64("size", file.Size))

	return c.JSON(dto.UploadResponse{
		Success:  true,
		QuizID:   record.ID,
		Message:  "Quiz generated successfully",
		Filename: record.SourceFilename,
	})
}

// GetQuiz godoc
// @Summary Get a generated quiz
// @Description Returns a stored quiz with its source metadata
// @Tags quiz
// @Produce json
// @Param id path string true "Quiz ID (ULID)"
// @Success 200 {object} dto.QuizDetailResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quiz/{id} [get]
func (h *QuizHandler) GetQuiz(c *fiber.Ctx) error {
	quizID, ok := c.Locals(middleware.LocalQuizID).(string)
	if !ok {
		quizID = c.Params("id")
	}

	record, err := h.service.GetQuiz(c.UserContext(), quizID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuizDetailResponse(record))
}

// ListQuizzes godoc
// @Summary List generated quizzes
// @Description Returns all stored quizzes, most recent first
// @Tags quiz
// @Produce json
// @Success 200 {object} dto.QuizListResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /quizzes [get]
func (h *QuizHandler) ListQuizzes(c *fiber.Ctx) error {
	summaries, err := h.service.ListQuizzes(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuizListResponse(summaries))
}

// Health godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func Health(c *fiber.Ctx) error {
	return c.JSON(dto.HealthResponse{
		Status:  "healthy",
		Service: ServiceName,
		Version: Version,
	})
}
