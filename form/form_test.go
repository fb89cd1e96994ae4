package form

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/electr1fy0/knotes/storage"
)

func TestNormalizeProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		in := storage.Fields{
			Title:   rapid.StringMatching(`[ \t]{0,2}[A-Za-z ]{0,8}[ \t]{0,2}`).Draw(t, "title"),
			Content: rapid.StringMatching(`[ \n]{0,2}[a-z ]{0,10}[ \n]{0,2}`).Draw(t, "content"),
			Labels:  rapid.SliceOf(rapid.StringMatching(`[ ]{0,1}[ab]{0,2}[ ]{0,1}`)).Draw(t, "labels"),
		}

		out, err := Normalize(in)
		if strings.TrimSpace(in.Title) == "" {
			if err != ErrEmptyTitle {
				t.Fatalf("expected ErrEmptyTitle, got %v", err)
			}
			return
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Title != strings.TrimSpace(in.Title) || out.Title == "" {
			t.Fatalf("bad title %q", out.Title)
		}
		if out.Content != strings.TrimSpace(in.Content) {
			t.Fatalf("bad content %q", out.Content)
		}
		seen := map[string]bool{}
		for _, l := range out.Labels {
			if l == "" || l != strings.TrimSpace(l) {
				t.Fatalf("label not trimmed: %q", l)
			}
			if seen[l] {
				t.Fatalf("duplicate label %q", l)
			}
			seen[l] = true
		}
		for _, l := range in.Labels {
			if tl := strings.TrimSpace(l); tl != "" && !seen[tl] {
				t.Fatalf("label %q lost", tl)
			}
		}
	})
}

func TestNormalizeLabelsKeepsFirstOccurrenceOrder(t *testing.T) {
	got := NormalizeLabels([]string{" Go ", "", "rust", "Go", "go", "  ", "rust"})
	assert.Equal(t, []string{"Go", "rust", "go"}, got)
}

func TestValidateNewWhitespaceTitle(t *testing.T) {
	_, err := ValidateNew(storage.NewNoteDraft{Fields: storage.Fields{Title: "  ", Content: "x"}})
	assert.ErrorIs(t, err, ErrEmptyTitle)
}

func TestValidateNewLeavesStoreUntouchedOnError(t *testing.T) {
	nb := storage.NewNotebook(nil, storage.SeedNotes())
	if d, err := ValidateNew(storage.NewNoteDraft{Fields: storage.Fields{Title: "  "}}); err == nil {
		_, _ = nb.Create(d)
	}
	assert.Equal(t, storage.SeedNotes(), nb.List())
}

func TestValidateExistingKeepsID(t *testing.T) {
	d, err := ValidateExisting(storage.ExistingNoteDraft{
		ID:     7,
		Fields: storage.Fields{Title: " t ", Content: " c ", Labels: []string{"x", " x"}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), d.ID)
	assert.Equal(t, "t", d.Title)
	assert.Equal(t, "c", d.Content)
	assert.Equal(t, []string{"x"}, d.Labels)
}

func TestAddRemoveLabel(t *testing.T) {
	labels, added := AddLabel(nil, "  design ")
	require.True(t, added)
	assert.Equal(t, []string{"design"}, labels)

	_, added = AddLabel(labels, "design")
	assert.False(t, added)
	_, added = AddLabel(labels, "   ")
	assert.False(t, added)

	labels, _ = AddLabel(labels, "css")
	orig := labels
	labels = RemoveLabel(labels, "design")
	assert.Equal(t, []string{"css"}, labels)
	assert.Equal(t, []string{"design", "css"}, orig)
}

func TestParseLabels(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, ParseLabels("[a, b, ,a]"))
	assert.Equal(t, []string{}, ParseLabels("  "))
	assert.Equal(t, []string{"a, b", "[x]"}, ParseLabels(`["a, b", " [x] ", "a, b"]`))
}

func TestFormatLabelsRoundTrip(t *testing.T) {
	for _, labels := range [][]string{
		{},
		{"CSS", "Design"},
		{"a, b", "[edge]", `say "hi"`, "c"},
	} {
		assert.Equal(t, labels, ParseLabels(FormatLabels(labels)), "labels %q", labels)
	}
	assert.Equal(t, `["CSS","Design"]`, FormatLabels([]string{"CSS", "Design"}))
}
