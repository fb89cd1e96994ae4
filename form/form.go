// Package form validates and normalizes note drafts before they reach the
// store. The store does no validation of its own.
package form

import (
	"encoding/json"
	"errors"
	"slices"
	"strings"

	"github.com/electr1fy0/knotes/storage"
)

var ErrEmptyTitle = errors.New("title is required")

// Normalize trims title and content and cleans up labels: each label is
// trimmed, empty ones are dropped and exact duplicates collapse onto their
// first occurrence.
func Normalize(f storage.Fields) (storage.Fields, error) {
	title := strings.TrimSpace(f.Title)
	if title == "" {
		return storage.Fields{}, ErrEmptyTitle
	}
	return storage.Fields{
		Title:   title,
		Content: strings.TrimSpace(f.Content),
		Labels:  NormalizeLabels(f.Labels),
	}, nil
}

func ValidateNew(d storage.NewNoteDraft) (storage.NewNoteDraft, error) {
	f, err := Normalize(d.Fields)
	if err != nil {
		return storage.NewNoteDraft{}, err
	}
	return storage.NewNoteDraft{Fields: f}, nil
}

func ValidateExisting(d storage.ExistingNoteDraft) (storage.ExistingNoteDraft, error) {
	f, err := Normalize(d.Fields)
	if err != nil {
		return storage.ExistingNoteDraft{}, err
	}
	return storage.ExistingNoteDraft{ID: d.ID, Fields: f}, nil
}

func NormalizeLabels(labels []string) []string {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		l = strings.TrimSpace(l)
		if l == "" || slices.Contains(out, l) {
			continue
		}
		out = append(out, l)
	}
	return out
}

// AddLabel appends raw (trimmed) unless it is blank or already present.
func AddLabel(labels []string, raw string) ([]string, bool) {
	l := strings.TrimSpace(raw)
	if l == "" || slices.Contains(labels, l) {
		return labels, false
	}
	return append(slices.Clone(labels), l), true
}

func RemoveLabel(labels []string, label string) []string {
	return slices.DeleteFunc(slices.Clone(labels), func(l string) bool { return l == label })
}

// FormatLabels writes labels as a quoted list that ParseLabels reads back
// exactly, commas and brackets inside a label included.
func FormatLabels(labels []string) string {
	data, err := json.Marshal(NormalizeLabels(labels))
	if err != nil {
		return "[]"
	}
	return string(data)
}

// ParseLabels reads the editor header's label list: either a quoted list as
// written by FormatLabels or a plain comma separated one typed by hand.
func ParseLabels(s string) []string {
	s = strings.TrimSpace(s)
	var quoted []string
	if strings.HasPrefix(s, "[") && json.Unmarshal([]byte(s), &quoted) == nil {
		return NormalizeLabels(quoted)
	}
	s = strings.Trim(s, "[]")
	if s == "" {
		return []string{}
	}
	return NormalizeLabels(strings.Split(s, ","))
}
