package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

const maxDocumentBytes = 1024 * 1024

var pdfMagic = []byte("%PDF")

// ReadDocumentTool extracts the text of a local document for the agent to
// reason over. PDFs are extracted page by page; everything else is read as
// plain text.
type ReadDocumentTool struct{}

type readDocumentInput struct {
	Path string `json:"path"`
}

func (t *ReadDocumentTool) Definition() Definition {
	return Definition{
		Name:        "read_document",
		Description: "Reads the text content of a local document file, extracting text from PDFs.",
		Kind:        KindDocument,
	}
}

func (t *ReadDocumentTool) Execute(_ context.Context, input json.RawMessage) (string, error) {
	params, err := parseInput[readDocumentInput](input, "read_document")
	if err != nil {
		return "", err
	}
	if params.Path == "" {
		return "", fmt.Errorf("read_document: path is required")
	}

	path := params.Path
	if !filepath.IsAbs(path) {
		path = filepath.Clean(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read_document: %w", err)
	}

	if bytes.HasPrefix(data, pdfMagic) {
		return extractPDFText(path)
	}

	return truncateDocument(string(data)), nil
}

func extractPDFText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("read_document: opening pdf: %w", err)
	}
	defer f.Close()

	var sb strings.Builder
	total := r.NumPage()
	fmt.Fprintf(&sb, "Pages: %d\n\n", total)
	for i := 1; i <= total; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("read_document: extracting page %d: %w", i, err)
		}
		sb.WriteString(text)
		sb.WriteString("\n\n")
	}

	return truncateDocument(sb.String()), nil
}

func truncateDocument(content string) string {
	if len(content) > maxDocumentBytes {
		content = content[:maxDocumentBytes] + "\n... (document truncated)"
	}
	return content
}
