package biblio

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/refcheck/refcheck/internal/author"
	"github.com/refcheck/refcheck/internal/reference"
	"github.com/refcheck/refcheck/internal/textnorm"
)

var (
	// \bibitem[optional label]{key} opens an entry.
	bibitemStartRe = regexp.MustCompile(`\\bibitem(?:\[(?:[^\[\]]|\[[^\]]*\])*\])?\{([^}]*)\}`)

	// Marked venue fragment: \emph{...}, \textit{...}, or {\em ...}.
	emphRe = regexp.MustCompile(`\\(?:emph|textit)\{([^{}]*)\}|\{\\(?:em|it)\s+([^{}]*)\}`)

	endThebibliographyRe = regexp.MustCompile(`\\end\{thebibliography\}`)
)

// nameParticles are lowercase tokens allowed inside an author list.
var nameParticles = map[string]bool{
	"and": true, "et": true, "al": true, "al.": true, "others": true,
	"van": true, "von": true, "de": true, "der": true, "den": true,
	"del": true, "da": true, "la": true, "le": true, "di": true,
}

// ParseBibItems parses a LaTeX thebibliography fragment: entries opened
// by \bibitem markers, bodies running until the next marker. The usual
// \newblock separators delimit author list, title, and venue; without
// them the split falls back to sentence boundaries.
func ParseBibItems(text string) ([]reference.Reference, []error) {
	if m := endThebibliographyRe.FindStringIndex(text); m != nil {
		text = text[:m[0]]
	}

	starts := bibitemStartRe.FindAllStringSubmatchIndex(text, -1)
	if starts == nil {
		return nil, nil
	}

	var refs []reference.Reference
	var errs []error

	for n, loc := range starts {
		bodyEnd := len(text)
		if n+1 < len(starts) {
			bodyEnd = starts[n+1][0]
		}
		key := text[loc[2]:loc[3]]
		body := text[loc[1]:bodyEnd]

		ref, err := buildBibItemReference(body)
		if err != nil {
			errs = append(errs, fmt.Errorf("entry %q: %w", key, err))
			continue
		}
		ref.RawText = strings.TrimSpace(text[loc[0]:bodyEnd])
		refs = append(refs, ref)
	}

	return refs, errs
}

// buildBibItemReference extracts fields from one \bibitem body.
func buildBibItemReference(body string) (reference.Reference, error) {
	ref := reference.Reference{SourceFormat: reference.FormatBibItem}

	// Venue: the first emphasized fragment, before markup stripping
	// destroys the emphasis commands.
	if m := emphRe.FindStringSubmatch(body); m != nil {
		venue := m[1]
		if venue == "" {
			venue = m[2]
		}
		ref.Venue = textnorm.StripMarkup(venue)
	}

	ref.Year = extractYear(body)
	extractIdentifiers(body, &ref)

	blocks := splitBlocks(body)
	if len(blocks) == 0 {
		return reference.Reference{}, fmt.Errorf("empty entry body")
	}

	// First block is the author list when it looks like one; the title
	// is the next block, else the first.
	titleIdx := 0
	if names := author.ParseList(splitAuthorSegment(blocks[0])); len(names) > 0 && looksLikeAuthorList(blocks[0]) {
		ref.Authors = names
		titleIdx = 1
	}
	if titleIdx >= len(blocks) {
		return reference.Reference{}, fmt.Errorf("missing required field 'title'")
	}

	title := strings.TrimRight(strings.TrimSpace(blocks[titleIdx]), ".")
	if title == "" {
		return reference.Reference{}, fmt.Errorf("missing required field 'title'")
	}
	ref.Title = title

	return ref, nil
}

// splitBlocks splits a \bibitem body into logical blocks: on \newblock
// when present, otherwise on sentence-ending periods. Blocks are
// markup-stripped and trimmed.
func splitBlocks(body string) []string {
	var parts []string
	if strings.Contains(body, `\newblock`) {
		parts = strings.Split(body, `\newblock`)
	} else {
		parts = splitSentences(textnorm.StripMarkup(body))
	}

	blocks := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(textnorm.StripMarkup(p))
		if p != "" {
			blocks = append(blocks, p)
		}
	}
	return blocks
}

// splitSentences splits on ". " boundaries, keeping abbreviated
// initials ("J. Smith") attached to their sentence.
func splitSentences(s string) []string {
	var out []string
	start := 0
	for i := 0; i+1 < len(s); i++ {
		if s[i] != '.' || s[i+1] != ' ' {
			continue
		}
		// A single capital letter before the period is an initial.
		if i >= 1 && isUpperByte(s[i-1]) && (i < 2 || !isWordByte(s[i-2])) {
			continue
		}
		out = append(out, s[start:i+1])
		start = i + 2
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}

// looksLikeAuthorList reports whether a block reads as a name list
// rather than a title. Every token must be a capitalized name part or a
// known lowercase particle, and a list of more than one person must be
// joined by commas or "and" so that short title-cased titles do not
// pass as authors.
func looksLikeAuthorList(block string) bool {
	b := strings.TrimSpace(textnorm.StripMarkup(block))
	b = strings.TrimRight(b, ".")
	if b == "" {
		return false
	}

	tokens := strings.Fields(b)
	if len(tokens) > 40 {
		return false
	}
	for _, tok := range tokens {
		t := strings.TrimRight(tok, ",.")
		if t == "" {
			continue
		}
		if nameParticles[strings.ToLower(t)] {
			continue
		}
		r := rune(t[0])
		if r < 'A' || r > 'Z' {
			// Non-ASCII capitals (accented initials) still count.
			if t[0] < 0x80 {
				return false
			}
		}
	}

	joined := strings.Contains(b, ",") || strings.Contains(b, " and ") ||
		strings.Contains(strings.ToLower(b), " et al")
	return joined || len(tokens) <= 4
}

func isUpperByte(b byte) bool {
	return b >= 'A' && b <= 'Z'
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}
