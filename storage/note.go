package storage

import (
	"slices"
	"time"
)

type Note struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Labels    []string  `json:"labels"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Fields are the user-editable parts of a note.
type Fields struct {
	Title   string
	Content string
	Labels  []string
}

// NewNoteDraft is a note that has not been stored yet.
type NewNoteDraft struct {
	Fields
}

// ExistingNoteDraft carries replacement fields for a stored note.
type ExistingNoteDraft struct {
	ID int64
	Fields
}

// HasLabel reports whether the note carries label (exact match).
func (n Note) HasLabel(label string) bool {
	return slices.Contains(n.Labels, label)
}

// Clone returns a deep copy. Labels are never nil on the copy.
func (n Note) Clone() Note {
	out := n
	out.Labels = make([]string, len(n.Labels))
	copy(out.Labels, n.Labels)
	return out
}

// LabelUniverse returns every distinct label across notes, in first-seen order.
func LabelUniverse(notes []Note) []string {
	seen := make(map[string]struct{})
	labels := make([]string, 0)
	for _, n := range notes {
		for _, l := range n.Labels {
			if _, ok := seen[l]; ok {
				continue
			}
			seen[l] = struct{}{}
			labels = append(labels, l)
		}
	}
	return labels
}

func cloneNotes(notes []Note) []Note {
	out := make([]Note, len(notes))
	for i, n := range notes {
		out[i] = n.Clone()
	}
	return out
}
