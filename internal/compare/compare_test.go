package compare

import (
	"strings"
	"testing"

	"github.com/refcheck/refcheck/internal/reference"
)

func verdictsOfKind(vs []Verdict, kind Kind) []Verdict {
	var out []Verdict
	for _, v := range vs {
		if v.Kind == kind {
			out = append(out, v)
		}
	}
	return out
}

func TestFields_Match(t *testing.T) {
	cited := reference.Reference{
		Title:   "Attention Is All You Need",
		Authors: []string{"Ashish Vaswani", "Noam Shazeer"},
		Venue:   "Advances in Neural Information Processing Systems",
		Year:    2017,
	}
	actual := reference.Metadata{
		Title:   "Attention is all you need",
		Authors: []string{"Ashish Vaswani", "Noam Shazeer"},
		Venue:   "Advances in Neural Information Processing Systems",
		Year:    2017,
	}

	if got := Fields(cited, actual); len(got) != 0 {
		t.Errorf("Fields() = %v, want no verdicts", got)
	}
}

func TestFields_EtAlNamedPrefix(t *testing.T) {
	cited := reference.Reference{
		Title:   "A Paper",
		Authors: []string{"First Author", "et al"},
	}
	actual := reference.Metadata{
		Title:   "A Paper",
		Authors: []string{"First Author", "Second Person", "Third Person", "Fourth Person"},
	}

	for _, v := range Fields(cited, actual) {
		if v.Kind == KindAuthor && v.IsError() {
			t.Errorf("Fields() returned author error %+v for a valid et al citation", v)
		}
	}
}

func TestFields_EtAlMissingNamedAuthor(t *testing.T) {
	cited := reference.Reference{
		Title:   "A Paper",
		Authors: []string{"Nobody Here", "et al"},
	}
	actual := reference.Metadata{
		Title:   "A Paper",
		Authors: []string{"First Author", "Second Person"},
	}

	got := verdictsOfKind(Fields(cited, actual), KindAuthor)
	if len(got) != 1 {
		t.Fatalf("author verdicts = %v, want 1", got)
	}
	if !got[0].IsError() {
		t.Error("verdict level = warning, want error")
	}
	if !strings.Contains(got[0].Details, "not found in author list") {
		t.Errorf("Details = %q, want 'not found in author list' phrasing", got[0].Details)
	}
	if !strings.Contains(got[0].Details, "et al") {
		t.Errorf("Details = %q, want mention of et al citation", got[0].Details)
	}
}

func TestFields_AuthorNotFound(t *testing.T) {
	cited := reference.Reference{
		Title:   "A Paper",
		Authors: []string{"Jane Smith", "Zoe Unknown"},
	}
	actual := reference.Metadata{
		Title:   "A Paper",
		Authors: []string{"Jane Smith", "John Doe"},
	}

	got := verdictsOfKind(Fields(cited, actual), KindAuthor)
	if len(got) != 1 {
		t.Fatalf("author verdicts = %v, want 1", got)
	}
	if !strings.Contains(got[0].Details, `"Zoe Unknown" not found in author list`) {
		t.Errorf("Details = %q", got[0].Details)
	}
	if got[0].Corrected != "Jane Smith, John Doe" {
		t.Errorf("Corrected = %q", got[0].Corrected)
	}
}

func TestFields_AuthorCountMismatch(t *testing.T) {
	cited := reference.Reference{
		Title:   "A Paper",
		Authors: []string{"Jane Smith"},
	}
	actual := reference.Metadata{
		Title:   "A Paper",
		Authors: []string{"Jane Smith", "John Doe"},
	}

	got := verdictsOfKind(Fields(cited, actual), KindAuthor)
	if len(got) != 1 {
		t.Fatalf("author verdicts = %v, want 1", got)
	}
	if !strings.Contains(got[0].Details, "author list has 1 names, expected 2") {
		t.Errorf("Details = %q", got[0].Details)
	}
}

func TestFields_RepeatedAuthoritativeNamesDeduplicated(t *testing.T) {
	cited := reference.Reference{
		Title:   "A Paper",
		Authors: []string{"Jane Smith", "John Doe"},
	}
	actual := reference.Metadata{
		Title:   "A Paper",
		Authors: []string{"Jane Smith", "Jane Smith", "John Doe"},
	}

	if got := verdictsOfKind(Fields(cited, actual), KindAuthor); len(got) != 0 {
		t.Errorf("author verdicts = %v, want none after deduplication", got)
	}
}

func TestFields_TitleMismatch(t *testing.T) {
	cited := reference.Reference{Title: "A Completely Unrelated Name"}
	actual := reference.Metadata{Title: "Attention Is All You Need", Authors: []string{"A"}}

	got := verdictsOfKind(Fields(cited, actual), KindTitle)
	if len(got) != 1 {
		t.Fatalf("title verdicts = %v, want 1", got)
	}
	if !got[0].IsError() {
		t.Error("title mismatch level = warning, want error")
	}
	if got[0].Corrected != "Attention Is All You Need" {
		t.Errorf("Corrected = %q", got[0].Corrected)
	}
}

func TestFields_TitleNearMatchAccepted(t *testing.T) {
	cited := reference.Reference{Title: "Attention is all you need!"}
	actual := reference.Metadata{Title: "Attention Is All You Need", Authors: []string{"A"}}

	if got := verdictsOfKind(Fields(cited, actual), KindTitle); len(got) != 0 {
		t.Errorf("title verdicts = %v, want none for a near match", got)
	}
}

func TestFields_YearMismatchIsWarning(t *testing.T) {
	cited := reference.Reference{Title: "A Paper", Year: 2019}
	actual := reference.Metadata{Title: "A Paper", Authors: []string{"A"}, Year: 2020}

	got := verdictsOfKind(Fields(cited, actual), KindYear)
	if len(got) != 1 {
		t.Fatalf("year verdicts = %v, want 1", got)
	}
	if got[0].IsError() {
		t.Error("year mismatch level = error, want warning")
	}
	if got[0].Corrected != "2020" {
		t.Errorf("Corrected = %q", got[0].Corrected)
	}
}

func TestFields_MissingYearIgnored(t *testing.T) {
	cited := reference.Reference{Title: "A Paper"}
	actual := reference.Metadata{Title: "A Paper", Authors: []string{"A"}, Year: 2020}

	if got := verdictsOfKind(Fields(cited, actual), KindYear); len(got) != 0 {
		t.Errorf("year verdicts = %v, want none when cited year absent", got)
	}
}

func TestFields_MissingVenueMessage(t *testing.T) {
	cited := reference.Reference{Title: "A Paper"}
	actual := reference.Metadata{
		Title:   "A Paper",
		Authors: []string{"A"},
		Venue:   "Conference on Empirical Methods in Natural Language Processing",
	}

	got := verdictsOfKind(Fields(cited, actual), KindVenue)
	if len(got) != 1 {
		t.Fatalf("venue verdicts = %v, want 1", got)
	}
	want := "Missing venue:\nactual: Conference on Empirical Methods in Natural Language Processing"
	if got[0].Details != want {
		t.Errorf("Details = %q, want %q", got[0].Details, want)
	}
	if got[0].IsError() {
		t.Error("missing venue level = error, want warning")
	}
}

func TestFields_VenueNoiseTolerated(t *testing.T) {
	cited := reference.Reference{
		Title: "A Paper",
		Venue: `Nature, 529\penalty0 (7587):\penalty0 484--489`,
	}
	actual := reference.Metadata{Title: "A Paper", Authors: []string{"A"}, Venue: "Nature"}

	if got := verdictsOfKind(Fields(cited, actual), KindVenue); len(got) != 0 {
		t.Errorf("venue verdicts = %v, want none", got)
	}
}

func TestFields_DOIMismatch(t *testing.T) {
	cited := reference.Reference{Title: "A Paper", DOI: "10.1234/wrong"}
	actual := reference.Metadata{Title: "A Paper", Authors: []string{"A"}, DOI: "10.1234/right"}

	got := verdictsOfKind(Fields(cited, actual), KindDOI)
	if len(got) != 1 {
		t.Fatalf("doi verdicts = %v, want 1", got)
	}
	if !got[0].IsError() {
		t.Error("doi mismatch level = warning, want error")
	}
}

func TestFields_DOIPrefixInsensitive(t *testing.T) {
	cited := reference.Reference{Title: "A Paper", DOI: "https://doi.org/10.1234/Same"}
	actual := reference.Metadata{Title: "A Paper", Authors: []string{"A"}, DOI: "10.1234/same"}

	if got := verdictsOfKind(Fields(cited, actual), KindDOI); len(got) != 0 {
		t.Errorf("doi verdicts = %v, want none", got)
	}
}

func TestFields_ArXivURLAccepted(t *testing.T) {
	actual := reference.Metadata{
		Title:   "A Paper",
		Authors: []string{"A"},
		Source:  "arxiv",
		ArXivID: "2301.04567",
	}

	urls := []string{
		"https://arxiv.org/abs/2301.04567",
		"http://ARXIV.org/abs/2301.04567",
		"https://doi.org/10.48550/arXiv.2301.04567",
	}
	for _, u := range urls {
		cited := reference.Reference{Title: "A Paper", URL: u}
		for _, v := range Fields(cited, actual) {
			if strings.Contains(v.Details, "canonical URL") {
				t.Errorf("URL %q drew warning %+v, want accepted", u, v)
			}
		}
	}
}

func TestFields_ArXivURLWarning(t *testing.T) {
	cited := reference.Reference{Title: "A Paper", URL: "https://example.org/mirror/paper.pdf"}
	actual := reference.Metadata{
		Title:   "A Paper",
		Authors: []string{"A"},
		Source:  "arxiv",
		ArXivID: "2301.04567",
	}

	got := verdictsOfKind(Fields(cited, actual), KindVenue)
	if len(got) != 1 {
		t.Fatalf("venue-classified verdicts = %v, want 1", got)
	}
	if got[0].IsError() {
		t.Error("arXiv URL warning level = error, want warning")
	}
	if got[0].Corrected != "https://arxiv.org/abs/2301.04567" {
		t.Errorf("Corrected = %q", got[0].Corrected)
	}
}

func TestFields_EmptyAuthoritativeRecord(t *testing.T) {
	cited := reference.Reference{Title: "A Paper"}

	got := Fields(cited, reference.Metadata{})
	if len(got) != 1 || got[0].Kind != KindGeneric || got[0].IsError() {
		t.Errorf("Fields() = %v, want a single generic warning", got)
	}
}

func TestFields_NeverShortCircuits(t *testing.T) {
	cited := reference.Reference{
		Title:   "Wrong Title Entirely Different",
		Authors: []string{"Zoe Unknown"},
		Year:    1999,
		Venue:   "Wrong Venue",
	}
	actual := reference.Metadata{
		Title:   "The Actual Title of the Work",
		Authors: []string{"Jane Smith"},
		Year:    2020,
		Venue:   "Nature",
	}

	got := Fields(cited, actual)
	kinds := map[Kind]bool{}
	for _, v := range got {
		kinds[v.Kind] = true
	}
	for _, want := range []Kind{KindAuthor, KindTitle, KindYear, KindVenue} {
		if !kinds[want] {
			t.Errorf("Fields() missing %q verdict; got %v", want, got)
		}
	}
}
