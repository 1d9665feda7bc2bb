package utils

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"

	"github.com/codeviz-ai/codeviz/analyzer/models"
	"github.com/codeviz-ai/codeviz/constants/lipgloss"
)

// RenderCodeViewer prints a file with line numbers and syntax highlighting.
// highlightLine (1-based, 0 for none) marks one line, e.g. the location of a
// complexity finding.
func RenderCodeViewer(w io.Writer, file *models.FileRecord, highlightLine int, theme string) error {
	fmt.Fprintln(w, lipgloss.BlueSky.Render(fmt.Sprintf("── %s (%d bytes) ──", file.Path, file.Size)))

	lines := strings.Split(file.Content, "\n")
	width := len(fmt.Sprint(len(lines)))

	for i, line := range lines {
		lineNo := i + 1
		gutter := fmt.Sprintf("%*d │ ", width, lineNo)

		if lineNo == highlightLine {
			fmt.Fprintln(w, lipgloss.HighlightLine.Render(gutter+line))
			continue
		}

		var buf bytes.Buffer
		if err := quick.Highlight(&buf, line, file.Extension, "terminal256", theme); err != nil {
			// Unknown language or lexer failure: fall back to plain text.
			fmt.Fprintln(w, lipgloss.Gray.Render(gutter)+line)
			continue
		}
		fmt.Fprintln(w, lipgloss.Gray.Render(gutter)+strings.TrimRight(buf.String(), "\n"))
	}

	return nil
}
