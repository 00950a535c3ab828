package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
	CodeNotFound     ErrorCode = "NOT_FOUND"

	// Validation errors
	CodeValidation    ErrorCode = "VALIDATION_ERROR"
	CodeMissingField  ErrorCode = "MISSING_FIELD"
	CodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	CodeOutOfRange    ErrorCode = "OUT_OF_RANGE"

	// Extraction errors
	CodeUnsupportedType  ErrorCode = "UNSUPPORTED_TYPE"
	CodeExtraction       ErrorCode = "EXTRACTION_FAILED"
	CodeInsufficientText ErrorCode = "INSUFFICIENT_TEXT"

	// Generation errors
	CodeLLMServiceError   ErrorCode = "LLM_SERVICE_ERROR"
	CodeEmptyResponse     ErrorCode = "EMPTY_RESPONSE"
	CodeMalformedResponse ErrorCode = "MALFORMED_RESPONSE"
	CodeSchemaViolation   ErrorCode = "SCHEMA_VIOLATION"

	// Repository errors
	CodeQuizNotFound ErrorCode = "QUIZ_NOT_FOUND"
	CodeDuplicateID  ErrorCode = "DUPLICATE_ID"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// WithContext attaches a diagnostic key/value and returns the same error.
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// CodeOf returns the code of the first DomainError in err's chain, or "" if there is none.
func CodeOf(err error) ErrorCode {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

// Helper functions for common errors
func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(CodeInternal, message, err)
}

func NewUnsupportedTypeError(docType string) *DomainError {
	return NewError(CodeUnsupportedType, fmt.Sprintf("unsupported document type: %q", docType), nil).
		WithContext("type", docType)
}

func NewExtractionError(message string, cause error) *DomainError {
	return NewError(CodeExtraction, message, cause)
}

func NewInsufficientTextError(length, minimum int) *DomainError {
	return NewError(CodeInsufficientText,
		"could not extract sufficient text from the file; ensure it contains readable text", nil).
		WithContext("text_length", length).
		WithContext("minimum", minimum)
}

func NewLLMServiceError(err error) *DomainError {
	return NewError(CodeLLMServiceError, "failed to process with LLM service", err)
}

func NewEmptyResponseError() *DomainError {
	return NewError(CodeEmptyResponse, "empty response from generative service", nil)
}

// NewMalformedResponseError keeps the raw model output for diagnosis.
func NewMalformedResponseError(raw string, cause error) *DomainError {
	return NewError(CodeMalformedResponse, "failed to parse quiz response JSON", cause).
		WithContext("raw_response", raw)
}

// NewSchemaError reports a schema violation. question is 1-based; 0 means the top-level object.
func NewSchemaError(message string, question int, field string) *DomainError {
	err := NewError(CodeSchemaViolation, message, nil)
	if question > 0 {
		err.WithContext("question", question)
	}
	if field != "" {
		err.WithContext("field", field)
	}
	return err
}

func NewQuizNotFoundError(quizID string) *DomainError {
	return NewError(CodeQuizNotFound, fmt.Sprintf("quiz not found with ID: %s", quizID), nil)
}

func NewDuplicateIDError(quizID string) *DomainError {
	return NewError(CodeDuplicateID, fmt.Sprintf("quiz already exists with ID: %s", quizID), nil)
}

// RawResponse returns the model output carried by a MALFORMED_RESPONSE error.
func RawResponse(err error) (string, bool) {
	var domainErr *DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != CodeMalformedResponse {
		return "", false
	}
	raw, ok := domainErr.Context["raw_response"].(string)
	return raw, ok
}
