package s2

// Paper is one paper record from the Graph API.
type Paper struct {
	PaperID     string      `json:"paperId"`
	Title       string      `json:"title"`
	Venue       string      `json:"venue"`
	Year        int         `json:"year"`
	URL         string      `json:"url"`
	Authors     []Author    `json:"authors"`
	ExternalIDs ExternalIDs `json:"externalIds"`
}

// Author is one author entry on a paper record.
type Author struct {
	AuthorID string `json:"authorId"`
	Name     string `json:"name"`
}

// ExternalIDs holds the external identifiers attached to a paper.
type ExternalIDs struct {
	DOI   string `json:"DOI"`
	ArXiv string `json:"ArXiv"`
}

// searchResponse is the envelope of /paper/search.
type searchResponse struct {
	Total  int     `json:"total"`
	Offset int     `json:"offset"`
	Data   []Paper `json:"data"`
}
