package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/refcheck/refcheck/internal/pdf"
)

// readDocument loads the plain text of a document: PDFs are extracted
// page by page, anything else is read as text.
func readDocument(path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		text, err := pdf.ExtractText(path, 0)
		if err != nil {
			return "", fmt.Errorf("extracting PDF text: %w", err)
		}
		return text, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading document: %w", err)
	}
	return string(data), nil
}
