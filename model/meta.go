package model

import (
	"strconv"
	"strings"
	"time"

	"github.com/electr1fy0/knotes/form"
	"github.com/electr1fy0/knotes/storage"
)

type metaField struct {
	key, value string
}

func buildFrontMatter(fields []metaField, body string) string {
	lines := []string{"---"}
	for _, f := range fields {
		lines = append(lines, f.key+": "+f.value)
	}
	lines = append(lines, "---", "", body)
	return strings.Join(lines, "\n")
}

// editDocument is what $EDITOR sees for a form.
func editDocument(f storage.Fields) string {
	return buildFrontMatter([]metaField{
		{"title", f.Title},
		{"labels", form.FormatLabels(f.Labels)},
	}, f.Content)
}

func exportDocument(n storage.Note) string {
	return buildFrontMatter([]metaField{
		{"id", strconv.FormatInt(n.ID, 10)},
		{"title", n.Title},
		{"labels", form.FormatLabels(n.Labels)},
		{"created", n.CreatedAt.UTC().Format(time.RFC3339)},
		{"updated", n.UpdatedAt.UTC().Format(time.RFC3339)},
	}, n.Content)
}

// splitFrontMatter returns the header lines and the body. ok is false when
// content has no complete header.
func splitFrontMatter(content string) (header []string, body string, ok bool) {
	trim := strings.TrimLeft(content, "\n\r\t ")
	if !strings.HasPrefix(trim, "---") {
		return nil, content, false
	}
	lines := strings.Split(trim, "\n")
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			body = strings.Join(lines[i+1:], "\n")
			return lines[1:i], strings.TrimLeft(body, "\n\r"), true
		}
	}
	return nil, content, false
}

// parseDocument reads an edited document back into fields. Keys missing from
// the header keep the values in base; without a header the whole text is
// content and a leading "# " heading becomes the title.
func parseDocument(doc string, base storage.Fields) storage.Fields {
	out := storage.Fields{Title: base.Title, Content: base.Content, Labels: base.Labels}
	header, body, ok := splitFrontMatter(doc)
	if !ok {
		out.Content = doc
		if title, rest, found := headingTitle(doc); found {
			out.Title, out.Content = title, rest
		}
		return out
	}
	out.Content = body
	for _, ln := range header {
		k, v, found := strings.Cut(ln, ":")
		if !found {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(k)) {
		case "title":
			out.Title = strings.TrimSpace(v)
		case "labels", "tags":
			out.Labels = form.ParseLabels(v)
		}
	}
	return out
}

func headingTitle(doc string) (string, string, bool) {
	lines := strings.Split(doc, "\n")
	for i, line := range lines {
		trim := strings.TrimSpace(line)
		if trim == "" {
			continue
		}
		if strings.HasPrefix(trim, "# ") {
			return strings.TrimSpace(trim[2:]), strings.Join(lines[i+1:], "\n"), true
		}
		return "", "", false
	}
	return "", "", false
}
