package utils

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
)

var isCodeBlock = false

// DetectLanguageFromCodeBlock returns the language tag of the last code
// fence opened in content, empty when none is open.
func DetectLanguageFromCodeBlock(content string) string {
	language := ""
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			language = strings.TrimPrefix(trimmed, "```")
		}
	}
	return language
}

// RenderAndPrintMarkdownWithContext renders streamed markdown content to the
// terminal with syntax highlighting, checking for cancellation between lines.
func RenderAndPrintMarkdownWithContext(ctx context.Context, content string, language string, theme string) error {
	lines := strings.Split(content, "\n")

	for _, line := range lines {
		select {
		case <-ctx.Done():
			fmt.Print("\n\nOutput interrupted.\n")
			return ctx.Err()
		default:
		}

		if strings.HasPrefix(line, "```") {
			isCodeBlock = !isCodeBlock
		}

		var buf bytes.Buffer
		if err := quick.Highlight(&buf, line+"\n", language, "terminal256", theme); err != nil {
			return err
		}
		fmt.Print(buf.String())
	}

	return nil
}
