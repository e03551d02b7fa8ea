// Package biblio locates the bibliography section of a paper's text and
// parses its entries into reference records. Three entry dialects are
// supported: BibTeX key-value entries, LaTeX \bibitem lists, and plain
// numbered "[n]" lists.
package biblio

import (
	"regexp"
	"strings"
)

var (
	// Standalone section headings that open a reference list.
	headingRe = regexp.MustCompile(`(?im)^[ \t]*(?:references|bibliography|works cited)[ \t]*$`)

	// Appendix-like heading: a single capital-letter label (optionally
	// with a digit or dotted number) followed by a title-cased phrase of
	// at least two words, e.g. "C Evaluation Details". Every word after
	// the label must start uppercase so that reference titles containing
	// lowercase connectives ("A Survey of ...") do not match.
	appendixRe = regexp.MustCompile(`(?m)^[ \t]*(?:Appendix[ \t]+)?[A-Z](?:\.?\d+)?[ \t]+[A-Z][\w-]*(?:[ \t]+[A-Z][\w-]*)+[ \t]*$`)
)

// minSectionOffset is the minimum number of characters of reference
// content required before an appendix heading can end the section.
// Keeps a heading-looking fragment at the very top from producing an
// empty section.
const minSectionOffset = 10

// FindSection returns the substring of text containing only the
// reference entries: from the end of the References/Bibliography
// heading to the first appendix-like heading, or to the end of the
// document when no such heading follows. The second return value is
// false when no reference-list heading exists.
func FindSection(text string) (string, bool) {
	loc := headingRe.FindStringIndex(text)
	if loc == nil {
		return "", false
	}

	body := text[loc[1]:]
	offset := 0
	for {
		m := appendixRe.FindStringIndex(body[offset:])
		if m == nil {
			return strings.TrimSpace(body), true
		}
		if offset+m[0] >= minSectionOffset {
			return strings.TrimSpace(body[:offset+m[0]]), true
		}
		offset += m[1]
	}
}
