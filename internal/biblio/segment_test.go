package biblio

import (
	"strings"
	"testing"
)

func TestFindSection(t *testing.T) {
	t.Run("ends at appendix heading", func(t *testing.T) {
		text := "Intro text.\n\nReferences\n[1] A\n[2] B\n\nC Evaluation Details\nmore appendix text"

		section, ok := FindSection(text)
		if !ok {
			t.Fatal("FindSection() ok = false, want true")
		}
		if !strings.Contains(section, "[1] A") || !strings.Contains(section, "[2] B") {
			t.Errorf("section missing entries: %q", section)
		}
		if strings.Contains(section, "C Evaluation Details") {
			t.Errorf("section includes appendix heading: %q", section)
		}
		if strings.Contains(section, "more appendix text") {
			t.Errorf("section includes appendix body: %q", section)
		}
	})

	t.Run("extends to end of document", func(t *testing.T) {
		text := "Body.\n\nBibliography\n[1] First entry.\n[2] Second entry."

		section, ok := FindSection(text)
		if !ok {
			t.Fatal("FindSection() ok = false, want true")
		}
		if !strings.Contains(section, "[2] Second entry.") {
			t.Errorf("section truncated: %q", section)
		}
	})

	t.Run("heading is case insensitive", func(t *testing.T) {
		text := "Body.\n\nREFERENCES\n[1] Entry."

		if _, ok := FindSection(text); !ok {
			t.Error("FindSection() ok = false for upper-case heading")
		}
	})

	t.Run("works cited heading", func(t *testing.T) {
		text := "Body.\n\nWorks Cited\n[1] Entry."

		if _, ok := FindSection(text); !ok {
			t.Error("FindSection() ok = false for Works Cited heading")
		}
	})

	t.Run("no heading", func(t *testing.T) {
		if _, ok := FindSection("just some text with no reference list"); ok {
			t.Error("FindSection() ok = true, want false")
		}
	})

	t.Run("inline mention is not a heading", func(t *testing.T) {
		if _, ok := FindSection("see the references section below for details"); ok {
			t.Error("FindSection() matched a non-standalone heading")
		}
	})

	t.Run("appendix keyword form", func(t *testing.T) {
		text := "Body.\n\nReferences\n[1] First entry with some length.\n\nAppendix A Additional Results\ntables"

		section, ok := FindSection(text)
		if !ok {
			t.Fatal("FindSection() ok = false, want true")
		}
		if strings.Contains(section, "Additional Results") {
			t.Errorf("section includes appendix: %q", section)
		}
	})

	t.Run("reference title does not end section", func(t *testing.T) {
		// "A Survey of Methods" on its own line would look heading-like,
		// but the lowercase connective keeps it from matching.
		text := "References\n[1] J. Doe.\nA Survey of Neural Methods.\nJMLR, 2020.\n[2] Second."

		section, ok := FindSection(text)
		if !ok {
			t.Fatal("FindSection() ok = false, want true")
		}
		if !strings.Contains(section, "[2] Second.") {
			t.Errorf("section cut short at a reference title: %q", section)
		}
	})
}
