package extractor

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"docquiz/internal/domain"
)

const (
	wordNamespace    = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	documentPartName = "word/document.xml"
)

// docxTable is a table as rows of cell texts.
type docxTable [][]string

// extractDOCX returns body paragraphs (one per line) followed by body tables
// (one row per line, cells separated by a space).
func extractDOCX(data []byte) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", domain.NewExtractionError("failed to open DOCX archive", err)
	}

	var part *zip.File
	for _, f := range archive.File {
		if f.Name == documentPartName {
			part = f
			break
		}
	}
	if part == nil {
		return "", domain.NewExtractionError("DOCX archive has no "+documentPartName, nil)
	}

	rc, err := part.Open()
	if err != nil {
		return "", domain.NewExtractionError("failed to open "+documentPartName, err)
	}
	defer rc.Close()

	paragraphs, tables, err := parseDocumentXML(rc)
	if err != nil {
		return "", domain.NewExtractionError("failed to parse "+documentPartName, err)
	}

	var b strings.Builder
	for _, p := range paragraphs {
		b.WriteString(p)
		b.WriteString("\n")
	}
	for _, table := range tables {
		for _, row := range table {
			b.WriteString(strings.Join(row, " "))
			b.WriteString("\n")
		}
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", domain.NewExtractionError("no text could be extracted from the DOCX file", nil)
	}
	return text, nil
}

// parseDocumentXML collects the top-level paragraphs and tables of w:body in document order.
func parseDocumentXML(r io.Reader) ([]string, []docxTable, error) {
	dec := xml.NewDecoder(r)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil, nil, errors.New("missing w:body element")
		}
		if err != nil {
			return nil, nil, err
		}
		if start, ok := tok.(xml.StartElement); ok && isWord(start, "body") {
			break
		}
	}

	var paragraphs []string
	var tables []docxTable
	err := forEachChild(dec, func(start xml.StartElement) error {
		switch {
		case isWord(start, "p"):
			text, err := readParagraph(dec)
			if err != nil {
				return err
			}
			paragraphs = append(paragraphs, text)
			return nil
		case isWord(start, "tbl"):
			table, err := readTable(dec)
			if err != nil {
				return err
			}
			tables = append(tables, table)
			return nil
		default:
			return dec.Skip()
		}
	})
	if err != nil {
		return nil, nil, err
	}
	return paragraphs, tables, nil
}

func isWord(start xml.StartElement, local string) bool {
	return start.Name.Space == wordNamespace && start.Name.Local == local
}

// forEachChild calls fn for every direct child of the element whose start tag was just read.
// fn must consume the child completely. It returns after the parent's end tag.
func forEachChild(dec *xml.Decoder, fn func(start xml.StartElement) error) error {
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if err := fn(t); err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

func readParagraph(dec *xml.Decoder) (string, error) {
	var b strings.Builder
	if err := collectRunText(dec, &b); err != nil {
		return "", err
	}
	return b.String(), nil
}

// collectRunText walks runs, hyperlinks, insertions and content controls.
// Properties, deleted text, field codes and drawings do not contribute text.
func collectRunText(dec *xml.Decoder, b *strings.Builder) error {
	return forEachChild(dec, func(start xml.StartElement) error {
		if start.Name.Space != wordNamespace {
			return dec.Skip()
		}
		switch start.Name.Local {
		case "t":
			return readCharData(dec, b)
		case "tab":
			b.WriteString("\t")
			return dec.Skip()
		case "br", "cr":
			b.WriteString("\n")
			return dec.Skip()
		case "pPr", "rPr", "del", "delText", "instrText", "drawing", "pict", "object", "sdtPr":
			return dec.Skip()
		default:
			return collectRunText(dec, b)
		}
	})
}

func readCharData(dec *xml.Decoder, b *strings.Builder) error {
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.CharData:
			b.Write(t)
		case xml.StartElement:
			if err := dec.Skip(); err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

func readTable(dec *xml.Decoder) (docxTable, error) {
	var table docxTable
	err := forEachChild(dec, func(start xml.StartElement) error {
		if !isWord(start, "tr") {
			return dec.Skip()
		}
		row, err := readRow(dec)
		if err != nil {
			return err
		}
		table = append(table, row)
		return nil
	})
	return table, err
}

func readRow(dec *xml.Decoder) ([]string, error) {
	var cells []string
	err := forEachChild(dec, func(start xml.StartElement) error {
		if !isWord(start, "tc") {
			return dec.Skip()
		}
		cell, err := readCell(dec)
		if err != nil {
			return err
		}
		cells = append(cells, cell)
		return nil
	})
	return cells, err
}

// readCell joins the cell's own paragraphs with "\n". Nested tables are skipped.
func readCell(dec *xml.Decoder) (string, error) {
	var paragraphs []string
	err := forEachChild(dec, func(start xml.StartElement) error {
		if !isWord(start, "p") {
			return dec.Skip()
		}
		text, err := readParagraph(dec)
		if err != nil {
			return err
		}
		paragraphs = append(paragraphs, text)
		return nil
	})
	return strings.Join(paragraphs, "\n"), err
}
