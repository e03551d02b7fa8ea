package resolve

import (
	"context"
	"errors"
	"testing"

	"github.com/refcheck/refcheck/internal/arxiv"
	"github.com/refcheck/refcheck/internal/reference"
	"github.com/refcheck/refcheck/internal/s2"
)

type fakeArXiv struct {
	entry *arxiv.Entry
	err   error
	calls int
}

func (f *fakeArXiv) Paper(ctx context.Context, id string) (*arxiv.Entry, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.entry, nil
}

type fakeS2 struct {
	byDOI       *s2.Paper
	byDOIErr    error
	search      []s2.Paper
	searchErr   error
	doiCalls    int
	searchCalls int
}

func (f *fakeS2) PaperByDOI(ctx context.Context, doi string) (*s2.Paper, error) {
	f.doiCalls++
	if f.byDOIErr != nil {
		return nil, f.byDOIErr
	}
	return f.byDOI, nil
}

func (f *fakeS2) SearchTitle(ctx context.Context, title string, limit int) ([]s2.Paper, error) {
	f.searchCalls++
	return f.search, f.searchErr
}

func TestResolve_ArXivIDFirst(t *testing.T) {
	ax := &fakeArXiv{entry: &arxiv.Entry{
		ID:    "http://arxiv.org/abs/1706.03762v5",
		Title: "Attention Is All You Need",
	}}
	sc := &fakeS2{}
	r := &Resolver{ArXiv: ax, S2: sc}

	ref := reference.Reference{Title: "Attention Is All You Need", ArXivID: "1706.03762", DOI: "10.1234/x"}
	md, err := r.Resolve(context.Background(), ref)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if md.Source != "arxiv" {
		t.Errorf("Source = %q, want arxiv", md.Source)
	}
	if sc.doiCalls != 0 || sc.searchCalls != 0 {
		t.Error("Resolve() fell through to S2 despite an arXiv hit")
	}
}

func TestResolve_ArXivNotFoundFallsThrough(t *testing.T) {
	ax := &fakeArXiv{err: arxiv.ErrNotFound}
	sc := &fakeS2{byDOI: &s2.Paper{Title: "Fallback Paper", Year: 2020}}
	r := &Resolver{ArXiv: ax, S2: sc}

	ref := reference.Reference{Title: "Fallback Paper", ArXivID: "9999.00001", DOI: "10.1234/x"}
	md, err := r.Resolve(context.Background(), ref)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if md.Source != "s2" {
		t.Errorf("Source = %q, want s2", md.Source)
	}
	if ax.calls != 1 || sc.doiCalls != 1 {
		t.Errorf("calls arXiv=%d s2=%d, want 1 each", ax.calls, sc.doiCalls)
	}
}

func TestResolve_ArXivHardErrorPropagates(t *testing.T) {
	ax := &fakeArXiv{err: errors.New("connection reset")}
	r := &Resolver{ArXiv: ax, S2: &fakeS2{}}

	ref := reference.Reference{ArXivID: "1706.03762"}
	if _, err := r.Resolve(context.Background(), ref); err == nil {
		t.Error("Resolve() error = nil, want transport error propagated")
	}
}

func TestResolve_TitleSearchRequiresMatch(t *testing.T) {
	sc := &fakeS2{search: []s2.Paper{
		{Title: "A Totally Different Paper"},
		{Title: "The cited title"},
	}}
	r := &Resolver{S2: sc}

	ref := reference.Reference{Title: "The Cited Title."}
	md, err := r.Resolve(context.Background(), ref)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if md.Title != "The cited title" {
		t.Errorf("Title = %q, want the fold-matching search hit", md.Title)
	}
}

func TestResolve_TitleSearchNoMatch(t *testing.T) {
	sc := &fakeS2{search: []s2.Paper{{Title: "Unrelated Result"}}}
	r := &Resolver{S2: sc}

	ref := reference.Reference{Title: "The Cited Title"}
	_, err := r.Resolve(context.Background(), ref)
	if !errors.Is(err, ErrUnresolved) {
		t.Errorf("Resolve() error = %v, want ErrUnresolved", err)
	}
}

func TestResolve_NilClients(t *testing.T) {
	r := &Resolver{}

	ref := reference.Reference{Title: "Anything", ArXivID: "1706.03762", DOI: "10.1/x"}
	_, err := r.Resolve(context.Background(), ref)
	if !errors.Is(err, ErrUnresolved) {
		t.Errorf("Resolve() error = %v, want ErrUnresolved", err)
	}
}
