package s2

import (
	"strings"

	"github.com/refcheck/refcheck/internal/reference"
)

// ToMetadata converts a Graph API paper into an authoritative metadata
// record for the comparison engine.
func ToMetadata(paper Paper) reference.Metadata {
	authors := make([]string, 0, len(paper.Authors))
	for _, a := range paper.Authors {
		if name := strings.TrimSpace(a.Name); name != "" {
			authors = append(authors, name)
		}
	}

	return reference.Metadata{
		Title:   paper.Title,
		Authors: authors,
		Year:    paper.Year,
		Venue:   paper.Venue,
		DOI:     paper.ExternalIDs.DOI,
		URL:     paper.URL,
		ArXivID: paper.ExternalIDs.ArXiv,
		Source:  "s2",
	}
}

// NormalizeDOI normalizes a DOI to a consistent format for lookups and
// comparison: common URL and "DOI:" prefixes removed, lower-cased.
func NormalizeDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	doi = strings.TrimPrefix(doi, "https://doi.org/")
	doi = strings.TrimPrefix(doi, "http://doi.org/")
	doi = strings.TrimPrefix(doi, "doi.org/")
	doi = strings.TrimPrefix(doi, "DOI:")
	doi = strings.TrimPrefix(doi, "doi:")
	return strings.ToLower(doi)
}
