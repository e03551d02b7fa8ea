// Package resolve turns a parsed reference into its authoritative
// metadata record by querying the appropriate external source: arXiv
// for arXiv-identified works, Semantic Scholar for DOIs and title
// searches.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/refcheck/refcheck/internal/arxiv"
	"github.com/refcheck/refcheck/internal/reference"
	"github.com/refcheck/refcheck/internal/s2"
	"github.com/refcheck/refcheck/internal/textnorm"
)

// ErrUnresolved indicates no source could identify the reference.
var ErrUnresolved = errors.New("reference could not be resolved")

// ArXivClient is the part of the arXiv client the resolver needs.
type ArXivClient interface {
	Paper(ctx context.Context, id string) (*arxiv.Entry, error)
}

// S2Client is the part of the Semantic Scholar client the resolver needs.
type S2Client interface {
	PaperByDOI(ctx context.Context, doi string) (*s2.Paper, error)
	SearchTitle(ctx context.Context, title string, limit int) ([]s2.Paper, error)
}

// Resolver resolves references against the configured sources. A nil
// client disables that source.
type Resolver struct {
	ArXiv ArXivClient
	S2    S2Client
}

// Resolve fetches the authoritative metadata for a reference.
// Identifier lookups are tried first (arXiv ID, then DOI); a title
// search is the last resort and only accepts a result whose title
// matches the cited one.
func (r *Resolver) Resolve(ctx context.Context, ref reference.Reference) (*reference.Metadata, error) {
	if r.ArXiv != nil && ref.ArXivID != "" {
		entry, err := r.ArXiv.Paper(ctx, ref.ArXivID)
		if err == nil {
			md := arxiv.ToMetadata(*entry)
			return &md, nil
		}
		if !errors.Is(err, arxiv.ErrNotFound) {
			return nil, fmt.Errorf("arXiv lookup %s: %w", ref.ArXivID, err)
		}
	}

	if r.S2 != nil && ref.DOI != "" {
		paper, err := r.S2.PaperByDOI(ctx, ref.DOI)
		if err == nil {
			md := s2.ToMetadata(*paper)
			return &md, nil
		}
		if !s2.IsNotFound(err) {
			return nil, fmt.Errorf("DOI lookup %s: %w", ref.DOI, err)
		}
	}

	if r.S2 != nil && ref.Title != "" {
		papers, err := r.S2.SearchTitle(ctx, ref.Title, 0)
		if err != nil {
			return nil, fmt.Errorf("title search %q: %w", ref.Title, err)
		}
		for _, p := range papers {
			if sameTitle(ref.Title, p.Title) {
				md := s2.ToMetadata(p)
				return &md, nil
			}
		}
	}

	return nil, ErrUnresolved
}

// sameTitle compares two titles after markup stripping, folding, and
// whitespace collapsing.
func sameTitle(a, b string) bool {
	return tight(a) != "" && tight(a) == tight(b)
}

func tight(s string) string {
	t := textnorm.Fold(textnorm.StripMarkup(s))
	t = strings.Trim(t, " .,;:")
	return strings.Join(strings.Fields(t), " ")
}
