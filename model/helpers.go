package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/electr1fy0/knotes/storage"
)

// exportNotes writes each note as markdown with a front-matter header into a
// new directory under base and returns that directory.
func exportNotes(notes []storage.Note, base string, now time.Time) (string, error) {
	dir := filepath.Join(base, fmt.Sprintf("knotes_export_%d", now.Unix()))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	for _, n := range notes {
		path := filepath.Join(dir, exportFilename(n))
		if err := os.WriteFile(path, []byte(exportDocument(n)), 0o644); err != nil {
			return "", err
		}
	}
	return dir, nil
}

func exportFilename(n storage.Note) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, strings.TrimSpace(n.Title))
	return fmt.Sprintf("%d-%s.md", n.ID, name)
}

func formatDate(t time.Time, layout string) string {
	return t.Local().Format(layout)
}

// preview is the first line of content cut to width cells.
func preview(content string, width int) string {
	line, _, _ := strings.Cut(strings.TrimSpace(content), "\n")
	return ansi.Truncate(line, max(width, 10), "…")
}

// renderChips draws labels as chips; active is the highlighted index or -1.
func renderChips(labels []string, active int) string {
	if len(labels) == 0 {
		return helpStyle.Render("none")
	}
	parts := make([]string, len(labels))
	for i, l := range labels {
		if i == active {
			parts[i] = activeChipStyle.Render(l)
		} else {
			parts[i] = chipStyle.Render(l)
		}
	}
	return strings.Join(parts, " ")
}
