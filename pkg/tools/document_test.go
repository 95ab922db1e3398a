package tools

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execReadDocument(t *testing.T, path string) (string, error) {
	t.Helper()
	tool := &ReadDocumentTool{}
	input, err := json.Marshal(readDocumentInput{Path: path})
	if err != nil {
		t.Fatal(err)
	}
	return tool.Execute(context.Background(), input)
}

func TestReadDocumentPlainText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.txt")
	if err := os.WriteFile(path, []byte("hello document"), 0600); err != nil {
		t.Fatal(err)
	}

	out, err := execReadDocument(t, path)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out, "hello document") {
		t.Errorf("Execute = %q, want file content", out)
	}
}

func TestReadDocumentRequiresPath(t *testing.T) {
	if _, err := execReadDocument(t, ""); err == nil {
		t.Error("Execute with empty path succeeded, want error")
	}
}

func TestReadDocumentMissingFile(t *testing.T) {
	if _, err := execReadDocument(t, filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Error("Execute with missing file succeeded, want error")
	}
}

func TestReadDocumentRejectsUnparsablePDF(t *testing.T) {
	// A file carrying the PDF magic goes through text extraction; when the
	// document cannot be parsed the caller gets an error, never raw bytes.
	path := filepath.Join(t.TempDir(), "broken.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4\nnot a real pdf body"), 0600); err != nil {
		t.Fatal(err)
	}

	out, err := execReadDocument(t, path)
	if err == nil {
		t.Fatalf("Execute = %q for an unparsable pdf, want error", out)
	}
	if !strings.Contains(err.Error(), "pdf") {
		t.Errorf("err = %v, want pdf extraction failure", err)
	}
}
