// Package query filters and orders note collections for display.
package query

import (
	"slices"
	"strings"

	"github.com/electr1fy0/knotes/storage"
)

// Search keeps notes whose title, content or any label contains q,
// ignoring case. An empty q returns notes unchanged.
func Search(notes []storage.Note, q string) []storage.Note {
	if q == "" {
		return notes
	}
	needle := strings.ToLower(q)
	out := make([]storage.Note, 0, len(notes))
	for _, n := range notes {
		if Matches(n, needle) {
			out = append(out, n)
		}
	}
	return out
}

// Matches reports whether n contains needle, which must already be lowercase.
func Matches(n storage.Note, needle string) bool {
	if strings.Contains(strings.ToLower(n.Title), needle) ||
		strings.Contains(strings.ToLower(n.Content), needle) {
		return true
	}
	for _, l := range n.Labels {
		if strings.Contains(strings.ToLower(l), needle) {
			return true
		}
	}
	return false
}

// SortByRecency returns a copy ordered by UpdatedAt, newest first. Equal
// timestamps keep their input order.
func SortByRecency(notes []storage.Note) []storage.Note {
	out := slices.Clone(notes)
	slices.SortStableFunc(out, func(a, b storage.Note) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
	return out
}

// Visible is what the list view shows for q.
func Visible(notes []storage.Note, q string) []storage.Note {
	return SortByRecency(Search(notes, q))
}
