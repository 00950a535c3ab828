package extractor

import (
	"bytes"
	"fmt"
	"strings"

	"docquiz/internal/domain"

	"github.com/ledongthuc/pdf"
)

// extractPDF joins the plain text of every page with "\n".
func extractPDF(data []byte) (text string, err error) {
	// The decoder panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = domain.NewExtractionError("failed to extract text from PDF", fmt.Errorf("pdf decoder panic: %v", r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", domain.NewExtractionError("failed to extract text from PDF", err)
	}

	numPages := reader.NumPage()
	if numPages == 0 {
		return "", domain.NewExtractionError("no pages found in PDF", nil)
	}

	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		// nil lets the decoder resolve the page's own font resources
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", domain.NewExtractionError(fmt.Sprintf("failed to extract text from PDF page %d", i), err)
		}
		pages = append(pages, pageText)
	}

	text = strings.TrimSpace(strings.Join(pages, "\n"))
	if text == "" {
		return "", domain.NewExtractionError("no text could be extracted from the PDF", nil)
	}
	return text, nil
}
