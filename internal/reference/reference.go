// Package reference defines the core domain types for cited references
// and the authoritative metadata they are verified against.
package reference

// EtAl is the canonical sentinel that stands in for elided trailing
// authors. It may appear only as the last element of an author list.
const EtAl = "et al"

// SourceFormat identifies which bibliography dialect an entry was parsed from.
type SourceFormat string

const (
	FormatBibTeX   SourceFormat = "bibtex"   // @type{key, field = value} entries
	FormatBibItem  SourceFormat = "bibitem"  // \bibitem keyed-list entries
	FormatNumbered SourceFormat = "numbered" // plain "[n] ..." entries
)

// Reference is one cited work as extracted from a paper's bibliography.
// It is a value type: parsers produce it and no later stage mutates it.
type Reference struct {
	RawText string `json:"raw_text"` // Original entry text as found in the source

	Title   string   `json:"title"`
	Authors []string `json:"authors"` // Display names in cited order; may end with EtAl
	Venue   string   `json:"venue"`
	Year    int      `json:"year,omitempty"` // 0 if unknown

	DOI     string `json:"doi,omitempty"`
	URL     string `json:"url,omitempty"`
	ArXivID string `json:"arxiv_id,omitempty"`

	SourceFormat SourceFormat `json:"source_format"`
}

// Metadata is the authoritative record for a work, retrieved from an
// external paper database. It is the baseline a Reference is compared to.
type Metadata struct {
	Title   string   `json:"title"`
	Authors []string `json:"authors"`
	Year    int      `json:"year,omitempty"`
	Venue   string   `json:"venue"`

	DOI     string `json:"doi,omitempty"`
	URL     string `json:"url,omitempty"`
	ArXivID string `json:"arxiv_id,omitempty"`

	Source string `json:"source"` // Providing service: "arxiv", "s2"
}

// HasEtAl reports whether the cited author list ends with the elision
// sentinel, meaning only a prefix of the true author list was cited.
func (r Reference) HasEtAl() bool {
	return len(r.Authors) > 0 && r.Authors[len(r.Authors)-1] == EtAl
}

// NamedAuthors returns the cited authors without a trailing EtAl sentinel.
func (r Reference) NamedAuthors() []string {
	if r.HasEtAl() {
		return r.Authors[:len(r.Authors)-1]
	}
	return r.Authors
}
