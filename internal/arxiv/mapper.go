package arxiv

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/refcheck/refcheck/internal/reference"
)

// versionRe strips the trailing version from an arXiv identifier.
var versionRe = regexp.MustCompile(`v\d+$`)

// ToMetadata converts an Atom entry into an authoritative metadata
// record. The venue stays empty for unpublished preprints; a journal
// reference, when arXiv carries one, becomes the venue.
func ToMetadata(e Entry) reference.Metadata {
	authors := make([]string, 0, len(e.Authors))
	for _, a := range e.Authors {
		if name := strings.TrimSpace(a.Name); name != "" {
			authors = append(authors, name)
		}
	}

	id := extractID(e.ID)

	md := reference.Metadata{
		Title:   strings.Join(strings.Fields(e.Title), " "),
		Authors: authors,
		Venue:   strings.TrimSpace(e.JournalRef),
		DOI:     strings.TrimSpace(e.DOI),
		ArXivID: id,
		Source:  "arxiv",
	}
	if id != "" {
		md.URL = "https://arxiv.org/abs/" + id
	}
	if len(e.Published) >= 4 {
		if y, err := strconv.Atoi(e.Published[:4]); err == nil {
			md.Year = y
		}
	}
	return md
}

// extractID returns the versionless arXiv ID from an Atom entry ID URL
// such as "http://arxiv.org/abs/2106.15928v2".
func extractID(absURL string) string {
	idx := strings.Index(absURL, "/abs/")
	if idx == -1 {
		return ""
	}
	id := strings.TrimSpace(absURL[idx+len("/abs/"):])
	return versionRe.ReplaceAllString(id, "")
}
