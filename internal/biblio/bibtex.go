package biblio

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/refcheck/refcheck/internal/author"
	"github.com/refcheck/refcheck/internal/reference"
	"github.com/refcheck/refcheck/internal/textnorm"
)

// ParseBibTeX parses BibTeX-style key-value entries. Field values may
// contain nested braces and commas; entries missing a title are dropped
// with a diagnostic.
func ParseBibTeX(text string) ([]reference.Reference, []error) {
	var refs []reference.Reference
	var errs []error

	pos := 0
	for {
		start := strings.IndexByte(text[pos:], '@')
		if start == -1 {
			break
		}
		start += pos

		entry, end, ok := scanEntry(text, start)
		if !ok {
			// Stray @ (an email address, say); skip past it.
			pos = start + 1
			continue
		}
		pos = end

		ref, err := buildBibTeXReference(entry)
		if err != nil {
			errs = append(errs, fmt.Errorf("entry %q: %w", entry.key, err))
			continue
		}
		refs = append(refs, ref)
	}

	return refs, errs
}

// bibtexEntry is one raw @type{key, ...} block.
type bibtexEntry struct {
	entryType string
	key       string
	fields    map[string]string
	raw       string
}

// scanEntry reads a full entry starting at the @ at text[start],
// returning the entry and the offset just past its closing brace.
func scanEntry(text string, start int) (bibtexEntry, int, bool) {
	i := start + 1

	// Entry type.
	typeStart := i
	for i < len(text) && isBibTeXWordByte(text[i]) {
		i++
	}
	entryType := strings.ToLower(text[typeStart:i])
	if entryType == "" {
		return bibtexEntry{}, 0, false
	}

	i = skipSpaces(text, i)
	if i >= len(text) || text[i] != '{' {
		return bibtexEntry{}, 0, false
	}
	i++ // past {

	// Citation key, up to the first comma.
	keyStart := i
	for i < len(text) && text[i] != ',' && text[i] != '}' {
		i++
	}
	if i >= len(text) {
		return bibtexEntry{}, 0, false
	}
	key := strings.TrimSpace(text[keyStart:i])
	fields := make(map[string]string)

	if text[i] == ',' {
		i++
		var done bool
		i, done = scanFields(text, i, fields)
		if !done {
			return bibtexEntry{}, 0, false
		}
	} else {
		i++ // past } of an empty entry
	}

	return bibtexEntry{
		entryType: entryType,
		key:       key,
		fields:    fields,
		raw:       text[start:i],
	}, i, true
}

// scanFields reads "name = value" pairs until the entry's closing brace.
// Values in braces may nest; commas inside braced or quoted values do
// not split fields.
func scanFields(text string, i int, fields map[string]string) (int, bool) {
	for {
		i = skipSpaces(text, i)
		if i >= len(text) {
			return i, false
		}
		if text[i] == '}' {
			return i + 1, true
		}
		if text[i] == ',' {
			i++
			continue
		}

		nameStart := i
		for i < len(text) && isBibTeXWordByte(text[i]) {
			i++
		}
		name := strings.ToLower(strings.TrimSpace(text[nameStart:i]))

		i = skipSpaces(text, i)
		if i >= len(text) || text[i] != '=' {
			return i, false
		}
		i = skipSpaces(text, i+1)
		if i >= len(text) {
			return i, false
		}

		var value string
		switch text[i] {
		case '{':
			depth := 0
			valStart := i + 1
			for ; i < len(text); i++ {
				if text[i] == '{' {
					depth++
				} else if text[i] == '}' {
					depth--
					if depth == 0 {
						break
					}
				}
			}
			if i >= len(text) {
				return i, false
			}
			value = text[valStart:i]
			i++ // past closing }
		case '"':
			valStart := i + 1
			i++
			for i < len(text) && text[i] != '"' {
				i++
			}
			if i >= len(text) {
				return i, false
			}
			value = text[valStart:i]
			i++ // past closing "
		default:
			valStart := i
			for i < len(text) && text[i] != ',' && text[i] != '}' {
				i++
			}
			value = strings.TrimSpace(text[valStart:i])
		}

		if name != "" {
			fields[name] = value
		}
	}
}

// buildBibTeXReference maps entry fields onto a reference record.
func buildBibTeXReference(e bibtexEntry) (reference.Reference, error) {
	title := textnorm.StripMarkup(stripOuterBraces(e.fields["title"]))
	if title == "" {
		return reference.Reference{}, fmt.Errorf("missing required field 'title'")
	}

	venue := e.fields["journal"]
	if venue == "" {
		venue = e.fields["booktitle"]
	}

	ref := reference.Reference{
		RawText:      e.raw,
		Title:        title,
		Authors:      author.ParseList(textnorm.StripMarkup(e.fields["author"])),
		Venue:        textnorm.StripMarkup(stripOuterBraces(venue)),
		DOI:          strings.TrimSpace(e.fields["doi"]),
		URL:          strings.TrimSpace(e.fields["url"]),
		SourceFormat: reference.FormatBibTeX,
	}

	if y, err := strconv.Atoi(strings.TrimSpace(e.fields["year"])); err == nil {
		ref.Year = y
	} else {
		ref.Year = extractYear(e.fields["year"])
	}

	if eprint := strings.TrimSpace(e.fields["eprint"]); bareArxivIDRe.MatchString(eprint) {
		ref.ArXivID = strings.SplitN(eprint, "v", 2)[0]
	}
	if ref.ArXivID == "" {
		if m := arxivIDRe.FindStringSubmatch(e.raw); m != nil {
			ref.ArXivID = m[1]
		}
	}

	return ref, nil
}

// stripOuterBraces removes the protective outer brace pair BibTeX uses
// to preserve capitalization, leaving inner braces intact.
func stripOuterBraces(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '{' && s[len(s)-1] == '}' {
		return s[1 : len(s)-1]
	}
	return s
}

func skipSpaces(text string, i int) int {
	for i < len(text) && (text[i] == ' ' || text[i] == '\t' || text[i] == '\n' || text[i] == '\r') {
		i++
	}
	return i
}

func isBibTeXWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9' || b == '_' || b == '-'
}
