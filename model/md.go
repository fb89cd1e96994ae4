package model

import (
	markdown "github.com/MichaelMure/go-term-markdown"
	"github.com/charmbracelet/glamour"
)

const minRenderWidth = 40

func renderMarkdown(md string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width-4),
	)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}

func renderMarkdownToANSI(md string, width int) string {
	return string(markdown.Render(md, width-4, 4))
}

// renderNote prefers glamour and falls back to go-term-markdown.
func renderNote(md string, width int) string {
	width = max(width, minRenderWidth)
	if out, err := renderMarkdown(md, width); err == nil {
		return out
	}
	return renderMarkdownToANSI(md, width)
}
