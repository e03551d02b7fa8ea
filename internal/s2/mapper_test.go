package s2

import (
	"reflect"
	"testing"
)

func TestToMetadata(t *testing.T) {
	paper := Paper{
		PaperID: "abc123",
		Title:   "Attention Is All You Need",
		Year:    2017,
		Venue:   "NeurIPS",
		URL:     "https://www.semanticscholar.org/paper/abc123",
		Authors: []Author{
			{Name: "Ashish Vaswani"},
			{Name: "  "},
			{Name: "Noam Shazeer"},
		},
		ExternalIDs: ExternalIDs{
			DOI:   "10.1234/nips.2017",
			ArXiv: "1706.03762",
		},
	}

	md := ToMetadata(paper)
	if md.Title != "Attention Is All You Need" {
		t.Errorf("Title = %q", md.Title)
	}
	wantAuthors := []string{"Ashish Vaswani", "Noam Shazeer"}
	if !reflect.DeepEqual(md.Authors, wantAuthors) {
		t.Errorf("Authors = %v, want blank names dropped: %v", md.Authors, wantAuthors)
	}
	if md.Year != 2017 || md.Venue != "NeurIPS" {
		t.Errorf("Year/Venue = %d/%q", md.Year, md.Venue)
	}
	if md.DOI != "10.1234/nips.2017" || md.ArXivID != "1706.03762" {
		t.Errorf("DOI/ArXivID = %q/%q", md.DOI, md.ArXivID)
	}
	if md.Source != "s2" {
		t.Errorf("Source = %q, want s2", md.Source)
	}
}

func TestNormalizeDOI(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare doi", "10.1234/Test", "10.1234/test"},
		{"https url", "https://doi.org/10.1234/test", "10.1234/test"},
		{"http url", "http://doi.org/10.1234/test", "10.1234/test"},
		{"host only", "doi.org/10.1234/test", "10.1234/test"},
		{"doi prefix", "doi:10.1234/test", "10.1234/test"},
		{"upper doi prefix", "DOI:10.1234/test", "10.1234/test"},
		{"surrounding space", "  10.1234/test  ", "10.1234/test"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeDOI(tt.input); got != tt.want {
				t.Errorf("NormalizeDOI(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
