package biblio

import (
	"reflect"
	"testing"

	"github.com/refcheck/refcheck/internal/reference"
)

func TestParseNumbered_BasicEntries(t *testing.T) {
	text := `[1] B. Smith, A. Jones, and C. Lee. Learning to parse references. Journal of Machine Learning Research, 2020.
[2] Jane Doe. A second paper. NeurIPS, 2019.`

	refs, errs := ParseNumbered(text)
	if len(errs) > 0 {
		t.Fatalf("ParseNumbered() returned errors: %v", errs)
	}
	if len(refs) != 2 {
		t.Fatalf("ParseNumbered() returned %d refs, want 2", len(refs))
	}

	wantAuthors := []string{"B. Smith", "A. Jones", "C. Lee"}
	if !reflect.DeepEqual(refs[0].Authors, wantAuthors) {
		t.Errorf("refs[0].Authors = %v, want %v", refs[0].Authors, wantAuthors)
	}
	if refs[0].Title != "Learning to parse references" {
		t.Errorf("refs[0].Title = %q", refs[0].Title)
	}
	if refs[0].Venue != "Journal of Machine Learning Research" {
		t.Errorf("refs[0].Venue = %q", refs[0].Venue)
	}
	if refs[0].Year != 2020 {
		t.Errorf("refs[0].Year = %d", refs[0].Year)
	}
	if refs[0].SourceFormat != reference.FormatNumbered {
		t.Errorf("refs[0].SourceFormat = %q", refs[0].SourceFormat)
	}

	if refs[1].Title != "A second paper" {
		t.Errorf("refs[1].Title = %q", refs[1].Title)
	}
	if refs[1].Venue != "NeurIPS" {
		t.Errorf("refs[1].Venue = %q", refs[1].Venue)
	}
}

func TestSplitAuthorSegment(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			"commas belong to names",
			"Brothers, John and Sisters, Jane",
			"Brothers, John and Sisters, Jane",
		},
		{
			"commas separate names",
			"B. Smith, A. Jones, and C. Lee",
			"B. Smith and A. Jones and C. Lee",
		},
		{
			"alternating last-initial pairs",
			"Smith, J., Jones, A., and Lee, C.",
			"Smith, J. and Jones, A. and Lee, C",
		},
		{"single author", "Jane Doe.", "Jane Doe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := splitAuthorSegment(tt.input); got != tt.want {
				t.Errorf("splitAuthorSegment(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseNumbered_NoAuthorSegment(t *testing.T) {
	text := `[1] The practitioner's handbook of applied statistics. Cambridge Press, 2018.`

	refs, errs := ParseNumbered(text)
	if len(errs) > 0 {
		t.Fatalf("ParseNumbered() returned errors: %v", errs)
	}
	if len(refs) != 1 {
		t.Fatalf("ParseNumbered() returned %d refs, want 1", len(refs))
	}
	if len(refs[0].Authors) != 0 {
		t.Errorf("Authors = %v, want none", refs[0].Authors)
	}
	if refs[0].Title != "The practitioner's handbook of applied statistics" {
		t.Errorf("Title = %q", refs[0].Title)
	}
}

func TestParseNumbered_IdentifierNotVenue(t *testing.T) {
	text := `[1] J. Doe. Archived preprint methods. arXiv:2301.04567, 2023.`

	refs, errs := ParseNumbered(text)
	if len(errs) > 0 {
		t.Fatalf("ParseNumbered() returned errors: %v", errs)
	}
	if len(refs) != 1 {
		t.Fatalf("ParseNumbered() returned %d refs, want 1", len(refs))
	}
	if refs[0].Venue != "" {
		t.Errorf("Venue = %q, want empty for an identifier segment", refs[0].Venue)
	}
	if refs[0].ArXivID != "2301.04567" {
		t.Errorf("ArXivID = %q", refs[0].ArXivID)
	}
	if refs[0].Year != 2023 {
		t.Errorf("Year = %d", refs[0].Year)
	}
}

func TestParseNumbered_DOIAndURL(t *testing.T) {
	text := `[1] J. Doe. Methods of citation. Nature, 2020. doi:10.1038/s41586-020-1234. https://example.org/doe2020`

	refs, errs := ParseNumbered(text)
	if len(errs) > 0 {
		t.Fatalf("ParseNumbered() returned errors: %v", errs)
	}
	if len(refs) != 1 {
		t.Fatalf("ParseNumbered() returned %d refs, want 1", len(refs))
	}
	if refs[0].DOI != "10.1038/s41586-020-1234" {
		t.Errorf("DOI = %q", refs[0].DOI)
	}
	if refs[0].URL != "https://example.org/doe2020" {
		t.Errorf("URL = %q", refs[0].URL)
	}
}

func TestParseNumbered_NoEntries(t *testing.T) {
	refs, errs := ParseNumbered("prose with no numbered markers")
	if refs != nil || errs != nil {
		t.Errorf("ParseNumbered() = %v, %v, want nil, nil", refs, errs)
	}
}
