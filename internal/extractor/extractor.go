// Package extractor converts uploaded PDF and DOCX documents into flat text.
package extractor

import (
	"context"
	"io"

	"docquiz/internal/domain"
	"docquiz/internal/logger"

	"go.uber.org/zap"
)

// Extractor implements domain.TextExtractor for PDF and DOCX documents.
// It is stateless and safe for concurrent use.
type Extractor struct{}

// New creates a new Extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedFormats returns the document types this extractor can handle.
func (e *Extractor) SupportedFormats() []domain.DocumentType {
	return append([]domain.DocumentType(nil), domain.SupportedDocumentTypes...)
}

// Extract reads the whole document and returns its trimmed text.
// Short text is not an error here; callers enforce their own minimum length.
func (e *Extractor) Extract(ctx context.Context, doc domain.Document) (string, error) {
	if !doc.Type.IsSupported() {
		return "", domain.NewUnsupportedTypeError(string(doc.Type))
	}
	if doc.Body == nil {
		return "", domain.NewExtractionError("document has no content", nil)
	}

	data, err := io.ReadAll(doc.Body)
	if err != nil {
		return "", domain.NewExtractionError("failed to read document", err)
	}
	if err := ctx.Err(); err != nil {
		return "", domain.NewExtractionError("extraction cancelled", err)
	}

	var text string
	switch doc.Type {
	case domain.DocumentTypePDF:
		text, err = extractPDF(data)
	case domain.DocumentTypeDOCX:
		text, err = extractDOCX(data)
	}
	if err != nil {
		logger.Get().Error("Document extraction failed",
			zap.String("type", string(doc.Type)),
			zap.Int("size_bytes", len(data)),
			zap.Error(err))
		return "", err
	}

	logger.Get().Info("Successfully extracted text",
		zap.String("type", string(doc.Type)),
		zap.Int("text_length", len(text)))
	return text, nil
}

var _ domain.TextExtractor = (*Extractor)(nil)
