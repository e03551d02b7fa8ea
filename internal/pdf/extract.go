// Package pdf extracts plain text and identifiers from PDF documents.
// It is the document-side collaborator of the verification pipeline:
// the extracted text feeds the bibliography segmenter.
package pdf

import (
	"io"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// doiPattern matches 10.XXXX/... identifiers in page text.
var doiPattern = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+`)

// ExtractText extracts text from the first maxPages pages of a PDF
// file; maxPages <= 0 means every page. Pages whose text cannot be
// decoded are skipped rather than failing the whole document.
func ExtractText(filePath string, maxPages int) (string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	return readPages(r, maxPages), nil
}

// ExtractTextReader extracts text from an in-memory PDF.
func ExtractTextReader(r io.ReaderAt, size int64, maxPages int) (string, error) {
	pdfReader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", err
	}
	return readPages(pdfReader, maxPages), nil
}

func readPages(r *pdf.Reader, maxPages int) string {
	if maxPages <= 0 || maxPages > r.NumPage() {
		maxPages = r.NumPage()
	}

	var b strings.Builder
	for i := 1; i <= maxPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String()
}

// ExtractDOI returns the first valid DOI found in the first few pages
// of a PDF, or "" when none is present (not an error: many preprints
// carry no DOI).
func ExtractDOI(filePath string) (string, error) {
	text, err := ExtractText(filePath, 3)
	if err != nil {
		return "", err
	}
	return FindDOI(text), nil
}

// FindDOI returns the first valid DOI in text, or "".
func FindDOI(text string) string {
	for _, match := range doiPattern.FindAllString(text, -1) {
		match = strings.TrimRight(match, ".,;:)")
		if isValidDOI(match) {
			return match
		}
	}
	return ""
}

// isValidDOI performs basic shape validation on a DOI candidate.
func isValidDOI(doi string) bool {
	if len(doi) < 10 || !strings.HasPrefix(doi, "10.") {
		return false
	}
	slash := strings.Index(doi, "/")
	return slash > 0 && slash < len(doi)-1
}
