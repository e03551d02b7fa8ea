// Package textnorm normalizes free-text bibliographic fields: it strips
// LaTeX markup artifacts, folds case and diacritics, and reduces venue
// names to a comparable core form.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// Spacing and kerning directives whose argument is itself markup:
	// \penalty0, \hspace{1em}, \kern2pt, \mskip18mu. Removed together
	// with the argument, including signed decimal dimensions and units.
	latexSpacingRe = regexp.MustCompile(`\\(?:hspace|vspace|kern|mkern|mskip|penalty|phantom)\*?\s*(?:\{[^{}]*\}|-?\d+(?:\.\d+)?\s*(?:pt|mu|em|ex|sp|bp|cm|mm|in)?)?`)

	// Any other control word: \textit, \emph, \cite. The command name is
	// removed; braced argument text survives (braces dropped separately).
	latexCommandRe = regexp.MustCompile(`\\[a-zA-Z]+\*?`)

	// Escaped specials that should keep their literal character.
	latexEscapeReplacer = strings.NewReplacer(
		`\&`, "&",
		`\%`, "%",
		`\$`, "$",
		`\#`, "#",
		`\_`, "_",
		`\{`, "{",
		`\}`, "}",
	)

	multiSpaceRe = regexp.MustCompile(`\s+`)

	// Volume/issue/page suffixes: ", 529(7587):484--489",
	// "vol. 123, pp. 456-789", "pages 1-10".
	volumePageRes = []*regexp.Regexp{
		regexp.MustCompile(`[,.;]?\s*\d+\s*\(\d+\)\s*:\s*\d+(?:\s*-{1,2}\s*\d+)?.*$`),
		regexp.MustCompile(`(?i)[,.;]?\s*vol(?:ume)?\.?\s*\d+.*$`),
		regexp.MustCompile(`(?i)[,.;]?\s*(?:pp?\.|pages?)\s*\d+(?:\s*-{1,2}\s*\d+)?.*$`),
		regexp.MustCompile(`[,.;]?\s*\d+\s*:\s*\d+(?:\s*-{1,2}\s*\d+)?\s*$`),
	}

	// "Proceedings of the" optionally followed by an organization-acronym
	// run and/or an ordinal ("ACM SIGOPS 29th", "38th").
	proceedingsRe = regexp.MustCompile(`(?i)^proceedings\s+of\s+(?:the\s+)?`)
	orgOrdinalRe  = regexp.MustCompile(`^(?:[A-Z][A-Z&/]+\s+)*\d{1,3}(?:st|nd|rd|th)\s+`)
	orgOnlyRe     = regexp.MustCompile(`^(?:[A-Z][A-Z&/]+\s+)+`)

	ordinalRe = regexp.MustCompile(`(?i)\b\d{1,3}(?:st|nd|rd|th)\b`)
)

// diacriticFolder removes combining marks after canonical decomposition.
var diacriticFolder = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// StripMarkup removes inline LaTeX control sequences and non-breaking
// space tokens from text, replacing each with a single ASCII space and
// collapsing runs of whitespace. Applying it twice yields the same
// result as applying it once.
func StripMarkup(text string) string {
	if text == "" {
		return ""
	}

	s := latexEscapeReplacer.Replace(text)
	s = latexSpacingRe.ReplaceAllString(s, " ")
	s = latexCommandRe.ReplaceAllString(s, " ")

	// Remaining backslash tokens (\,  \;  \\) and non-breaking spaces.
	var b strings.Builder
	b.Grow(len(s))
	skip := false
	for _, r := range s {
		if skip {
			skip = false
			if !unicode.IsSpace(r) && r != '~' {
				b.WriteRune(' ')
			}
			continue
		}
		switch r {
		case '\\':
			skip = true
		case '{', '}':
			// Grouping braces left behind by text commands.
		case '~', ' ':
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}

	return strings.TrimSpace(multiSpaceRe.ReplaceAllString(b.String(), " "))
}

// Fold lower-cases text and removes diacritics, for order- and
// accent-insensitive comparisons.
func Fold(text string) string {
	folded, _, err := transform.String(diacriticFolder, text)
	if err != nil {
		folded = text
	}
	return strings.ToLower(folded)
}

// NormalizeVenue reduces a venue name to its core title for display.
// A leading "Proceedings of the" phrase is removed together with any
// immediately following organization-acronym and ordinal-number run
// ("ACM SIGOPS 29th"); a bare "Proceedings of" prefix with no such run
// is removed alone, leaving the remaining title verbatim.
func NormalizeVenue(venue string) string {
	v := StripMarkup(venue)

	loc := proceedingsRe.FindStringIndex(v)
	if loc == nil {
		return v
	}
	rest := v[loc[1]:]

	if m := orgOrdinalRe.FindString(rest); m != "" {
		return strings.TrimSpace(rest[len(m):])
	}
	if m := orgOnlyRe.FindString(rest); m != "" && strings.TrimSpace(rest[len(m):]) != "" {
		return strings.TrimSpace(rest[len(m):])
	}
	return strings.TrimSpace(rest)
}

// stripVolumePages removes trailing volume/issue/page suffixes.
func stripVolumePages(venue string) string {
	v := venue
	for _, re := range volumePageRes {
		v = re.ReplaceAllString(v, "")
	}
	return strings.TrimRight(strings.TrimSpace(v), ",.;:")
}

// comparableVenue builds the canonical comparison form of a venue name.
func comparableVenue(venue string) string {
	v := NormalizeVenue(venue)
	v = stripVolumePages(v)
	v = ordinalRe.ReplaceAllString(v, " ")
	v = Fold(v)
	return strings.TrimSpace(multiSpaceRe.ReplaceAllString(v, " "))
}

// VenuesDiffer reports whether two venue names are substantially
// different. Both sides are markup-, volume/page-, and ordinal-stripped
// and case/diacritic-folded first; the venues count as the same when
// either normalized core contains the other.
func VenuesDiffer(a, b string) bool {
	na := comparableVenue(a)
	nb := comparableVenue(b)

	if na == "" || nb == "" {
		// Nothing comparable on one side; presence checks are the
		// comparison engine's job, not a venue-name difference.
		return false
	}
	if na == nb {
		return false
	}
	return !strings.Contains(na, nb) && !strings.Contains(nb, na)
}
