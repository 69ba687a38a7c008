package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/x/ansi"
)

// markdownRenderer caches a glamour renderer per wrap width.
type markdownRenderer struct {
	width    int
	renderer *glamour.TermRenderer
}

func (r *markdownRenderer) render(src string, width int) []string {
	width = max(10, width)
	if r.renderer == nil || r.width != width {
		tr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return plainLines(src)
		}
		r.renderer, r.width = tr, width
	}
	out, err := r.renderer.Render(src)
	if err != nil {
		return plainLines(src)
	}
	return trimBlank(strings.Split(out, "\n"))
}

func plainLines(src string) []string {
	return trimBlank(strings.Split(strings.ReplaceAll(src, "\r\n", "\n"), "\n"))
}

// trimBlank drops leading and trailing blank lines.
func trimBlank(lines []string) []string {
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(ansi.Strip(lines[start])) == "" {
		start++
	}
	for end > start && strings.TrimSpace(ansi.Strip(lines[end-1])) == "" {
		end--
	}
	return lines[start:end]
}
