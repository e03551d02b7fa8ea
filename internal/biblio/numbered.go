package biblio

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/refcheck/refcheck/internal/author"
	"github.com/refcheck/refcheck/internal/reference"
	"github.com/refcheck/refcheck/internal/textnorm"
)

var numberedStartRe = regexp.MustCompile(`(?m)^\s*\[(\d+)\]\s*`)

// trailingYearRe matches a ", 2019." style tail on a venue segment.
var trailingYearRe = regexp.MustCompile(`[,\s]*\(?(?:19|20)\d{2}\)?\.?\s*$`)

// ParseNumbered parses loosely formatted plain-text bibliographies whose
// entries begin with "[n]". Each entry is split into author list, title,
// and venue on sentence boundaries, with best-effort recovery when
// segments are missing; an entry without at least a title is dropped
// with a diagnostic.
func ParseNumbered(text string) ([]reference.Reference, []error) {
	starts := numberedStartRe.FindAllStringSubmatchIndex(text, -1)
	if starts == nil {
		return nil, nil
	}

	var refs []reference.Reference
	var errs []error

	for n, loc := range starts {
		end := len(text)
		if n+1 < len(starts) {
			end = starts[n+1][0]
		}
		label := text[loc[2]:loc[3]]
		raw := strings.TrimSpace(text[loc[0]:end])
		body := strings.TrimSpace(text[loc[1]:end])

		ref, err := buildNumberedReference(body)
		if err != nil {
			errs = append(errs, fmt.Errorf("entry [%s]: %w", label, err))
			continue
		}
		ref.RawText = raw
		refs = append(refs, ref)
	}

	return refs, errs
}

// buildNumberedReference splits one numbered entry's text into fields
// using positional and punctuation cues.
func buildNumberedReference(body string) (reference.Reference, error) {
	ref := reference.Reference{SourceFormat: reference.FormatNumbered}

	ref.Year = extractYear(body)
	extractIdentifiers(body, &ref)

	clean := textnorm.StripMarkup(strings.Join(strings.Fields(body), " "))
	segments := splitSentences(clean)

	var kept []string
	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		if seg != "" {
			kept = append(kept, seg)
		}
	}
	if len(kept) == 0 {
		return reference.Reference{}, fmt.Errorf("empty entry body")
	}

	titleIdx := 0
	if names := author.ParseList(splitAuthorSegment(kept[0])); len(names) > 0 && looksLikeAuthorList(kept[0]) {
		ref.Authors = names
		titleIdx = 1
	}
	if titleIdx >= len(kept) {
		// The whole entry was one author-looking segment; without a
		// title there is nothing to verify.
		return reference.Reference{}, fmt.Errorf("missing required field 'title'")
	}

	ref.Title = strings.TrimRight(kept[titleIdx], ".")
	if ref.Title == "" {
		return reference.Reference{}, fmt.Errorf("missing required field 'title'")
	}

	if titleIdx+1 < len(kept) {
		venue := kept[titleIdx+1]
		venue = trailingYearRe.ReplaceAllString(venue, "")
		venue = strings.TrimRight(strings.TrimSpace(venue), ".,;:")
		if !looksLikeIdentifier(venue) {
			ref.Venue = venue
		}
	}

	return ref, nil
}

var andSplitRe = regexp.MustCompile(`\s+and\s+`)

// splitAuthorSegment rewrites the comma-joined author lists of plain
// numbered entries into the " and "-joined form the author-list parser
// expects. Three comma styles occur in the wild:
//
//	"Brothers, John and Sisters, Jane"      commas belong to names
//	"B. Smith, A. Jones, and C. Lee"        commas separate names
//	"Smith, J., Jones, A., and Lee, C."     alternating Last, Initial
func splitAuthorSegment(seg string) string {
	seg = strings.TrimRight(strings.TrimSpace(seg), ".")

	// When every "and"-separated chunk holds at most one comma, the
	// commas are part of "Last, First" names; nothing to rewrite.
	simple := true
	for _, chunk := range andSplitRe.Split(seg, -1) {
		if strings.Count(chunk, ",") > 1 {
			simple = false
			break
		}
	}
	if simple {
		return seg
	}

	parts := strings.Split(seg, ",")
	for i, p := range parts {
		p = strings.TrimSpace(p)
		p = strings.TrimPrefix(p, "and ")
		parts[i] = strings.TrimSpace(p)
	}

	// Alternating "Last, F." pairs: every odd part is bare initials.
	paired := len(parts)%2 == 0
	for i := 1; i < len(parts); i += 2 {
		if !isBareInitials(parts[i]) {
			paired = false
			break
		}
	}
	if paired {
		var names []string
		for i := 0; i+1 < len(parts); i += 2 {
			names = append(names, parts[i]+", "+parts[i+1])
		}
		return strings.Join(names, " and ")
	}

	// Otherwise the commas separate complete names.
	var names []string
	for _, p := range parts {
		if p != "" {
			names = append(names, p)
		}
	}
	return strings.Join(names, " and ")
}

// isBareInitials reports whether a fragment consists only of
// abbreviated given names such as "J." or "B. M.".
func isBareInitials(s string) bool {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return false
	}
	for _, f := range fields {
		// "J." or, with its period already trimmed, "J".
		if len(f) > 2 || !isUpperByte(f[0]) || (len(f) == 2 && f[1] != '.') {
			return false
		}
	}
	return true
}

// looksLikeIdentifier filters venue candidates that are really a DOI,
// URL, or arXiv tag.
func looksLikeIdentifier(s string) bool {
	l := strings.ToLower(s)
	return strings.HasPrefix(l, "http") || strings.HasPrefix(l, "doi") ||
		strings.HasPrefix(l, "arxiv") || strings.HasPrefix(l, "10.")
}
