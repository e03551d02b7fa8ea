// Package dedup removes duplicate raw reference strings, including
// partial repeats produced when chunked extraction truncates an author
// list at a chunk boundary.
package dedup

import (
	"strings"

	"github.com/refcheck/refcheck/internal/textnorm"
)

// DefaultAuthorOverlapThreshold is the fraction of shared author name
// tokens (intersection over the smaller set) at which two references
// with incomparable titles count as duplicates. Observed heuristic, not
// a law: override it via Options when a corpus wants a different cut.
const DefaultAuthorOverlapThreshold = 0.5

// Options configures duplicate detection policy.
type Options struct {
	// AuthorOverlapThreshold replaces DefaultAuthorOverlapThreshold
	// when positive.
	AuthorOverlapThreshold float64
}

// Segments is the comparison key of one raw reference string: up to
// four '#'-delimited fields, lower-cased and trimmed. Missing trailing
// fields are empty.
type Segments struct {
	Author string
	Title  string
	Venue  string
	Year   string
}

// ParseSegments splits a raw "author#title#venue#year" string into its
// normalized comparison key.
func ParseSegments(raw string) Segments {
	parts := strings.SplitN(raw, "#", 4)
	get := func(i int) string {
		if i >= len(parts) {
			return ""
		}
		return strings.TrimSpace(strings.ToLower(parts[i]))
	}
	return Segments{
		Author: get(0),
		Title:  get(1),
		Venue:  get(2),
		Year:   get(3),
	}
}

// Deduplicate removes exact and partial repeats from a sequence of raw
// reference strings using the default options. The first occurrence of
// each duplicate group is retained, on the assumption that earlier
// chunks carry the more complete author list; relative order of
// retained references is preserved.
func Deduplicate(refs []string) []string {
	return DeduplicateWith(refs, Options{})
}

// DeduplicateWith is Deduplicate with explicit policy options.
func DeduplicateWith(refs []string, opts Options) []string {
	threshold := opts.AuthorOverlapThreshold
	if threshold <= 0 {
		threshold = DefaultAuthorOverlapThreshold
	}

	kept := make([]string, 0, len(refs))
	keptSegs := make([]Segments, 0, len(refs))

	for _, raw := range refs {
		seg := ParseSegments(raw)
		dup := false
		for i, prev := range keptSegs {
			if kept[i] == raw || isDuplicate(prev, seg, threshold) {
				dup = true
				break
			}
		}
		if !dup {
			kept = append(kept, raw)
			keptSegs = append(keptSegs, seg)
		}
	}

	return kept
}

// isDuplicate decides whether two references describe the same work.
// A shared non-empty title is authoritative regardless of author
// overlap; only when titles cannot be compared do the author-segment
// rules apply.
func isDuplicate(a, b Segments, threshold float64) bool {
	ta := normalizeTitle(a.Title)
	tb := normalizeTitle(b.Title)
	if ta != "" && tb != "" {
		return ta == tb
	}

	return authorsMatch(a.Author, b.Author, threshold)
}

// authorsMatch applies the truncation-tolerant author rules: substring
// containment either way, or a shared name-token fraction at or above
// the threshold.
func authorsMatch(a, b string, threshold float64) bool {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if a == "" || b == "" {
		return a == b && a != ""
	}
	if a == b {
		return true
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return true
	}

	return tokenOverlap(a, b) >= threshold
}

// tokenOverlap computes |tokens(a) ∩ tokens(b)| / min(|tokens|).
func tokenOverlap(a, b string) float64 {
	ta := nameTokens(a)
	tb := nameTokens(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	set := make(map[string]bool, len(ta))
	for t := range ta {
		set[t] = true
	}
	shared := 0
	for t := range tb {
		if set[t] {
			shared++
		}
	}

	smaller := len(ta)
	if len(tb) < smaller {
		smaller = len(tb)
	}
	return float64(shared) / float64(smaller)
}

// nameTokens splits an author segment into its name tokens, dropping
// punctuation and connective words.
func nameTokens(s string) map[string]bool {
	tokens := make(map[string]bool)
	for _, f := range strings.Fields(s) {
		f = strings.Trim(f, ".,;:")
		if f == "" || f == "and" || f == "et" || f == "al" {
			continue
		}
		tokens[f] = true
	}
	return tokens
}

// normalizeTitle folds a title segment for equality comparison.
func normalizeTitle(title string) string {
	t := textnorm.Fold(textnorm.StripMarkup(title))
	t = strings.Trim(t, " .,;:")
	return strings.Join(strings.Fields(t), " ")
}
