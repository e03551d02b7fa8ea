// Package author parses author-list strings from bibliography entries
// and matches cited author names against authoritative name lists.
package author

import (
	"regexp"
	"strings"

	"github.com/refcheck/refcheck/internal/reference"
	"github.com/refcheck/refcheck/internal/textnorm"
)

// andRe splits a BibTeX-style author list on the word "and". Word
// boundaries keep names like "Anderson" intact.
var andRe = regexp.MustCompile(`\s+[aA][nN][dD]\s+`)

// elisionPhrases are the markers that stand in for omitted trailing
// authors. Matching is exact against a trimmed token, never substring,
// so a surname like "Brothers" is not an elision.
var elisionPhrases = map[string]bool{
	"others":     true,
	"and others": true,
	"et al":      true,
	"et al.":     true,
	"et~al":      true,
	"et~al.":     true,
}

// ParseList parses an author-list string into ordered display names.
//
// Trailing elision markers ("et al", "and others", "others") collapse
// into the single sentinel reference.EtAl, kept only when at least one
// named author precedes them. A bare elision marker yields nil. Order
// and casing of named authors are preserved.
func ParseList(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	parts := andRe.Split(s, -1)

	var names []string
	elided := false
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if isElision(p) {
			elided = true
			continue
		}
		// "Jane Doe et al" inside a single segment: the marker rides
		// on the last name without an "and" separator.
		if name, ok := splitTrailingElision(p); ok {
			if name != "" {
				names = append(names, name)
			}
			elided = true
			continue
		}
		names = append(names, p)
	}

	if elided {
		if len(names) == 0 {
			return nil
		}
		names = append(names, reference.EtAl)
	}
	return names
}

// isElision reports whether a trimmed token is exactly an elision phrase.
// Internal whitespace is collapsed so "et  al" still counts.
func isElision(token string) bool {
	t := strings.Join(strings.Fields(strings.ToLower(token)), " ")
	return elisionPhrases[t]
}

// splitTrailingElision detects an elision phrase attached to the end of
// a name segment ("J. Doe et al.") and returns the leading name.
func splitTrailingElision(segment string) (name string, ok bool) {
	words := strings.Fields(segment)
	// Try the final two words ("et al"), then the final one ("others").
	for n := 2; n >= 1; n-- {
		if len(words) < n {
			continue
		}
		tail := strings.Join(words[len(words)-n:], " ")
		if isElision(tail) {
			head := strings.Join(words[:len(words)-n], " ")
			return strings.TrimRight(strings.TrimSpace(head), ","), true
		}
	}
	return "", false
}

// nameParts splits a display name into given and family parts.
// Supports "Last, First" and "First Last"; a single word is a family name.
func nameParts(name string) (first, last string) {
	name = strings.TrimSpace(name)
	if idx := strings.Index(name, ","); idx > 0 {
		return strings.TrimSpace(name[idx+1:]), strings.TrimSpace(name[:idx])
	}
	fields := strings.Fields(name)
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return "", fields[0]
	default:
		return strings.Join(fields[:len(fields)-1], " "), fields[len(fields)-1]
	}
}

// Match reports whether a cited author name refers to the same person
// as an authoritative name. Comparison is case- and diacritic-folded.
// Family names must match exactly; given names match on prefix or
// initial, so "J. Smith" and "Jane Smith" agree.
func Match(cited, actual string) bool {
	cf := textnorm.Fold(textnorm.StripMarkup(cited))
	af := textnorm.Fold(textnorm.StripMarkup(actual))
	if cf == af {
		return true
	}

	cFirst, cLast := nameParts(cf)
	aFirst, aLast := nameParts(af)
	if cLast == "" || cLast != aLast {
		return false
	}
	if cFirst == "" || aFirst == "" {
		return true
	}

	cFirst = strings.TrimRight(cFirst, ".")
	aFirst = strings.TrimRight(aFirst, ".")
	return strings.HasPrefix(aFirst, cFirst) || strings.HasPrefix(cFirst, aFirst)
}

// ContainsName reports whether any name in the list matches the cited name.
func ContainsName(names []string, cited string) bool {
	for _, n := range names {
		if Match(cited, n) {
			return true
		}
	}
	return false
}
