package domain

import (
	"context"
	"io"
	"path/filepath"
	"strings"
)

// DocumentType is the declared type tag of an uploaded document.
type DocumentType string

const (
	DocumentTypePDF  DocumentType = "pdf"
	DocumentTypeDOCX DocumentType = "docx"
)

// SupportedDocumentTypes lists the type tags the extractor understands.
var SupportedDocumentTypes = []DocumentType{DocumentTypePDF, DocumentTypeDOCX}

// IsSupported reports whether t is a known document type.
func (t DocumentType) IsSupported() bool {
	for _, s := range SupportedDocumentTypes {
		if t == s {
			return true
		}
	}
	return false
}

// DocumentTypeFromFilename derives the type tag from a file extension.
// Unknown extensions are returned as-is so the extractor can name them.
func DocumentTypeFromFilename(filename string) DocumentType {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	return DocumentType(ext)
}

// Document is a transient byte stream with its declared type. It is owned by the caller.
type Document struct {
	Type DocumentType
	Body io.Reader
}

// TextExtractor converts a document into flat text.
type TextExtractor interface {
	Extract(ctx context.Context, doc Document) (string, error)
}
