package validation

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"docquiz/internal/domain"
)

var ulidPattern = regexp.MustCompile(`^[0-9A-HJKMNP-TV-Z]{26}$`)

// Validator provides request validation functionality
type Validator struct {
	maxQuestionCount int
}

// NewValidator creates a new validator instance.
// maxQuestionCount bounds the count form field.
func NewValidator(maxQuestionCount int) *Validator {
	if maxQuestionCount <= 0 {
		maxQuestionCount = 20
	}
	return &Validator{maxQuestionCount: maxQuestionCount}
}

// ValidateUpload checks the uploaded filename and the optional question count.
// An empty count means the server default and yields 0.
func (v *Validator) ValidateUpload(filename, count string) (int, domain.ValidationErrors) {
	var errors domain.ValidationErrors

	if strings.TrimSpace(filename) == "" {
		errors = append(errors, domain.NewMissingFieldError("file"))
	} else if !isAllowedFile(filename) {
		errors = append(errors, domain.NewInvalidFormatError("file", filepath.Ext(filename)))
	}

	parsed := 0
	if count = strings.TrimSpace(count); count != "" {
		n, err := strconv.Atoi(count)
		switch {
		case err != nil:
			errors = append(errors, domain.NewInvalidFormatError("count", count))
		case n < 1 || n > v.maxQuestionCount:
			errors = append(errors, domain.NewOutOfRangeError("count", n, 1, v.maxQuestionCount))
		default:
			parsed = n
		}
	}

	return parsed, errors
}

// ValidateQuizID validates the quiz ID path parameter
func (v *Validator) ValidateQuizID(quizID string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(quizID) == "" {
		errors = append(errors, domain.NewMissingFieldError("quiz_id"))
	} else if !isValidULID(quizID) {
		errors = append(errors, domain.NewInvalidFormatError("quiz_id", quizID))
	}

	return errors
}

// isAllowedFile checks the extension against the supported document types
func isAllowedFile(filename string) bool {
	return domain.DocumentTypeFromFilename(filename).IsSupported()
}

// isValidULID checks if the string is a valid ULID format
func isValidULID(s string) bool {
	return ulidPattern.MatchString(s)
}
