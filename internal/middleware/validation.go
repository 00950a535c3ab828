package middleware

import (
	"docquiz/internal/validation"

	"github.com/gofiber/fiber/v2"
)

const (
	LocalUploadFile  = "validated_file"
	LocalUploadCount = "validated_count"
	LocalQuizID      = "validated_quiz_id"
)

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware(maxQuestionCount int) *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: validation.NewValidator(maxQuestionCount),
	}
}

// ValidateUpload validates the multipart "file" part and the optional "count" field
func (vm *ValidationMiddleware) ValidateUpload() fiber.Handler {
	return func(c *fiber.Ctx) error {
		filename := ""
		file, err := c.FormFile("file")
		if err == nil && file != nil {
			filename = file.Filename
		}

		count, errors := vm.validator.ValidateUpload(filename, c.FormValue("count"))
		if len(errors) > 0 {
			return errors // This will be handled by ErrorHandler middleware
		}

		// Store validated values in context for handlers to use
		c.Locals(LocalUploadFile, file)
		c.Locals(LocalUploadCount, count)
		return c.Next()
	}
}

// ValidateQuizID validates the :id path parameter
func (vm *ValidationMiddleware) ValidateQuizID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		quizID := c.Params("id")
		if errors := vm.validator.ValidateQuizID(quizID); len(errors) > 0 {
			return errors
		}
		c.Locals(LocalQuizID, quizID)
		return c.Next()
	}
}
