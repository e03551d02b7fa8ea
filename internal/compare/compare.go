package compare

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/refcheck/refcheck/internal/author"
	"github.com/refcheck/refcheck/internal/reference"
	"github.com/refcheck/refcheck/internal/textnorm"
)

// titleSimilarityFloor is the normalized similarity at or above which
// two folded titles count as the same despite small OCR or punctuation
// damage.
const titleSimilarityFloor = 0.9

// Fields compares a cited reference field by field against the
// authoritative metadata record and returns every discrepancy found.
// All fields are always evaluated; nothing short-circuits.
func Fields(cited reference.Reference, actual reference.Metadata) []Verdict {
	var verdicts []Verdict

	if actual.Title == "" && len(actual.Authors) == 0 {
		verdicts = append(verdicts, Verdict{
			Level:   LevelWarning,
			Kind:    KindGeneric,
			Details: "authoritative record has no usable fields",
		})
		return verdicts
	}

	verdicts = append(verdicts, compareAuthors(cited, actual)...)
	verdicts = append(verdicts, compareTitle(cited, actual)...)
	verdicts = append(verdicts, compareYear(cited, actual)...)
	verdicts = append(verdicts, compareVenue(cited, actual)...)
	verdicts = append(verdicts, compareDOI(cited, actual)...)
	verdicts = append(verdicts, compareURL(cited, actual)...)

	return verdicts
}

// compareAuthors checks the cited author list. A list ending in the
// "et al" sentinel only requires each named prefix author to appear
// somewhere in the authoritative list; a full list must match as a
// multiset after deduplicating repeated authoritative names.
func compareAuthors(cited reference.Reference, actual reference.Metadata) []Verdict {
	named := cited.NamedAuthors()
	if len(named) == 0 {
		return nil
	}
	correctedList := strings.Join(actual.Authors, ", ")

	if cited.HasEtAl() {
		var missing []string
		for _, name := range named {
			if !author.ContainsName(actual.Authors, name) {
				missing = append(missing, name)
			}
		}
		if len(missing) == 0 {
			return nil
		}
		return []Verdict{{
			Level: LevelError,
			Kind:  KindAuthor,
			Details: fmt.Sprintf("author %s not found in author list (cited with et al)",
				quoteNames(missing)),
			Corrected: correctedList,
		}}
	}

	authoritative := dedupeNames(actual.Authors)

	var verdicts []Verdict
	matched := make([]bool, len(authoritative))
	for _, name := range named {
		found := false
		for i, a := range authoritative {
			if !matched[i] && author.Match(name, a) {
				matched[i] = true
				found = true
				break
			}
		}
		if !found {
			verdicts = append(verdicts, Verdict{
				Level:     LevelError,
				Kind:      KindAuthor,
				Details:   fmt.Sprintf("author %q not found in author list", name),
				Corrected: correctedList,
			})
		}
	}

	if len(verdicts) == 0 && len(named) != len(authoritative) {
		verdicts = append(verdicts, Verdict{
			Level: LevelError,
			Kind:  KindAuthor,
			Details: fmt.Sprintf("author list has %d names, expected %d",
				len(named), len(authoritative)),
			Corrected: correctedList,
		})
	}

	return verdicts
}

func compareTitle(cited reference.Reference, actual reference.Metadata) []Verdict {
	if cited.Title == "" || actual.Title == "" {
		return nil
	}

	ct := foldTight(cited.Title)
	at := foldTight(actual.Title)
	if ct == at || titleSimilarity(ct, at) >= titleSimilarityFloor {
		return nil
	}

	return []Verdict{{
		Level:     LevelError,
		Kind:      KindTitle,
		Details:   fmt.Sprintf("title mismatch: cited %q", cited.Title),
		Corrected: actual.Title,
	}}
}

func compareYear(cited reference.Reference, actual reference.Metadata) []Verdict {
	if cited.Year == 0 || actual.Year == 0 || cited.Year == actual.Year {
		return nil
	}
	return []Verdict{{
		Level:     LevelWarning,
		Kind:      KindYear,
		Details:   fmt.Sprintf("year mismatch: cited %d, actual %d", cited.Year, actual.Year),
		Corrected: strconv.Itoa(actual.Year),
	}}
}

func compareVenue(cited reference.Reference, actual reference.Metadata) []Verdict {
	if actual.Venue == "" {
		return nil
	}

	if strings.TrimSpace(textnorm.StripMarkup(cited.Venue)) == "" {
		return []Verdict{{
			Level:     LevelWarning,
			Kind:      KindVenue,
			Details:   "Missing venue:\nactual: " + actual.Venue,
			Corrected: actual.Venue,
		}}
	}

	if !textnorm.VenuesDiffer(cited.Venue, actual.Venue) {
		return nil
	}
	return []Verdict{{
		Level:     LevelWarning,
		Kind:      KindVenue,
		Details:   fmt.Sprintf("venue mismatch: cited %q", cited.Venue),
		Corrected: actual.Venue,
	}}
}

func compareDOI(cited reference.Reference, actual reference.Metadata) []Verdict {
	if cited.DOI == "" || actual.DOI == "" {
		return nil
	}
	if normalizeDOI(cited.DOI) == normalizeDOI(actual.DOI) {
		return nil
	}
	return []Verdict{{
		Level:     LevelError,
		Kind:      KindDOI,
		Details:   fmt.Sprintf("doi mismatch: cited %q", cited.DOI),
		Corrected: actual.DOI,
	}}
}

// compareURL checks the cited URL. For arXiv-sourced records either the
// canonical abstract URL or the DOI-proxy form is accepted; anything
// else draws a warning recommending the canonical URL. The warning is
// classified under the venue kind for continuity with the existing
// error taxonomy.
func compareURL(cited reference.Reference, actual reference.Metadata) []Verdict {
	if actual.Source == "arxiv" && actual.ArXivID != "" {
		id := strings.ToLower(actual.ArXivID)
		canonical := "arxiv.org/abs/" + id
		proxy := "doi.org/10.48550/arxiv." + id

		u := strings.ToLower(strings.TrimSpace(cited.URL))
		if strings.Contains(u, canonical) || strings.Contains(u, proxy) {
			return nil
		}
		return []Verdict{{
			Level:     LevelWarning,
			Kind:      KindVenue,
			Details:   "arXiv reference should cite the canonical URL",
			Corrected: "https://arxiv.org/abs/" + actual.ArXivID,
		}}
	}

	if cited.URL == "" || actual.URL == "" {
		return nil
	}
	if normalizeURL(cited.URL) == normalizeURL(actual.URL) {
		return nil
	}
	return []Verdict{{
		Level:     LevelWarning,
		Kind:      KindURL,
		Details:   fmt.Sprintf("url mismatch: cited %q", cited.URL),
		Corrected: actual.URL,
	}}
}

// titleSimilarity is 1 minus the normalized edit distance of two
// already-folded titles.
func titleSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	longer := len([]rune(a))
	if n := len([]rune(b)); n > longer {
		longer = n
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longer)
}

// foldTight folds case and diacritics and collapses whitespace and
// markup for title comparison.
func foldTight(s string) string {
	t := textnorm.Fold(textnorm.StripMarkup(s))
	t = strings.Trim(t, " .,;:")
	return strings.Join(strings.Fields(t), " ")
}

// dedupeNames removes repeated names (fold-equal) from the
// authoritative list, preserving first occurrences.
func dedupeNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		key := textnorm.Fold(strings.TrimSpace(n))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, n)
	}
	return out
}

// quoteNames renders a name list for a verdict message.
func quoteNames(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = strconv.Quote(n)
	}
	return strings.Join(quoted, ", ")
}

// normalizeDOI normalizes a DOI for comparison: URL and "doi:" prefixes
// removed, lower-cased.
func normalizeDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	doi = strings.TrimPrefix(doi, "https://doi.org/")
	doi = strings.TrimPrefix(doi, "http://doi.org/")
	doi = strings.TrimPrefix(doi, "doi.org/")
	doi = strings.TrimPrefix(doi, "DOI:")
	doi = strings.TrimPrefix(doi, "doi:")
	return strings.ToLower(doi)
}

// normalizeURL normalizes a URL for comparison: scheme and trailing
// slash insensitive, lower-cased.
func normalizeURL(u string) string {
	u = strings.ToLower(strings.TrimSpace(u))
	u = strings.TrimPrefix(u, "https://")
	u = strings.TrimPrefix(u, "http://")
	u = strings.TrimPrefix(u, "www.")
	return strings.TrimRight(u, "/")
}
