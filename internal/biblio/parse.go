package biblio

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/refcheck/refcheck/internal/reference"
)

var (
	bibtexEntryRe   = regexp.MustCompile(`@[a-zA-Z]+\s*\{`)
	bibitemRe       = regexp.MustCompile(`\\bibitem`)
	numberedLineRe  = regexp.MustCompile(`(?m)^\s*\[\d+\]`)
	yearRe          = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
	doiRe           = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `,;]+`)
	arxivIDRe       = regexp.MustCompile(`(?i)arxiv[:./\s]\s*(\d{4}\.\d{4,5})(?:v\d+)?`)
	bareArxivIDRe   = regexp.MustCompile(`^\d{4}\.\d{4,5}(?:v\d+)?$`)
	urlRe           = regexp.MustCompile(`https?://[^\s<>"{}\\]+`)
)

// DetectDialect determines which entry syntax a bibliography text uses.
// Detection order is a contract: BibTeX entry braces win, then \bibitem
// markers, then numbered "[n]" lines.
func DetectDialect(text string) (reference.SourceFormat, bool) {
	switch {
	case bibtexEntryRe.MatchString(text):
		return reference.FormatBibTeX, true
	case bibitemRe.MatchString(text):
		return reference.FormatBibItem, true
	case numberedLineRe.MatchString(text):
		return reference.FormatNumbered, true
	default:
		return "", false
	}
}

// Parse auto-detects the dialect of a bibliography text and parses its
// entries. Entries that cannot be segmented into at least a title are
// dropped; each drop is reported as a diagnostic error in the second
// return value, never as a failure.
func Parse(text string) ([]reference.Reference, []error) {
	dialect, ok := DetectDialect(text)
	if !ok {
		if strings.TrimSpace(text) == "" {
			return nil, nil
		}
		return nil, []error{fmt.Errorf("no recognizable bibliography entries")}
	}
	return ParseDialect(text, dialect)
}

// ParseDialect parses a bibliography text as a specific dialect.
func ParseDialect(text string, dialect reference.SourceFormat) ([]reference.Reference, []error) {
	switch dialect {
	case reference.FormatBibTeX:
		return ParseBibTeX(text)
	case reference.FormatBibItem:
		return ParseBibItems(text)
	case reference.FormatNumbered:
		return ParseNumbered(text)
	default:
		return nil, []error{fmt.Errorf("unknown dialect %q", dialect)}
	}
}

// extractYear returns the first plausible publication year in text, or 0.
func extractYear(text string) int {
	m := yearRe.FindString(text)
	if m == "" {
		return 0
	}
	y, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return y
}

// extractIdentifiers pulls DOI, URL, and arXiv ID out of free entry text.
func extractIdentifiers(text string, ref *reference.Reference) {
	if m := doiRe.FindString(text); m != "" {
		ref.DOI = strings.TrimRight(m, ".,;:)")
	}
	if m := arxivIDRe.FindStringSubmatch(text); m != nil {
		ref.ArXivID = m[1]
	}
	if m := urlRe.FindString(text); m != "" {
		ref.URL = strings.TrimRight(m, ".,;:)")
	}
}
