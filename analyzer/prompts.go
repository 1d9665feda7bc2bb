package analyzer

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/codeviz-ai/codeviz/analyzer/models"
	"github.com/codeviz-ai/codeviz/embed_data"
)

const (
	// maxContentLength limits the content sent per file to keep requests small.
	maxContentLength = 10000
	maxFilesToSend   = 10
)

// BuildNarrativePrompt assembles the narrative request: the full file
// structure plus the contents of the most important files, rendered into the
// embedded prompt template.
func (analyzer *CodeAnalyzer) BuildNarrativePrompt(result *models.AnalysisResult) string {
	var structure strings.Builder
	for _, file := range result.Files {
		fmt.Fprintf(&structure, "- %s (%d bytes)\n", file.Path, file.Size)
	}

	var contents strings.Builder
	for _, file := range importantFiles(result.Files) {
		content := file.Content
		if len(content) > maxContentLength {
			content = content[:maxContentLength] + "... (truncated)"
		}
		fmt.Fprintf(&contents, "---\nFile: %s\n```%s\n%s\n```\n---\n\n", file.Path, file.Extension, content)
	}

	return fmt.Sprintf(string(embed_data.NarrativePrompt), strings.TrimRight(structure.String(), "\n"), contents.String())
}

// importantFiles ranks the batch for the narrative call: package.json first,
// then files under src/, then by size descending; the top entries win.
func importantFiles(files []models.FileRecord) []models.FileRecord {
	ranked := make([]models.FileRecord, len(files))
	copy(ranked, files)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if (a.Name == "package.json") != (b.Name == "package.json") {
			return a.Name == "package.json"
		}
		aSrc := strings.HasPrefix(a.Path, "src/")
		bSrc := strings.HasPrefix(b.Path, "src/")
		if aSrc != bSrc {
			return aSrc
		}
		return a.Size > b.Size
	})

	if len(ranked) > maxFilesToSend {
		ranked = ranked[:maxFilesToSend]
	}
	return ranked
}

// BuildChatPrompt assembles the system prompt for a chat turn from the
// narrative, the file structure and the session history.
func (analyzer *CodeAnalyzer) BuildChatPrompt(result *models.AnalysisResult, history []string) string {
	narrative := "No AI analysis is available yet."
	if result.Narrative != nil {
		if encoded, err := json.MarshalIndent(result.Narrative, "", "  "); err == nil {
			narrative = string(encoded)
		}
	}

	var structure strings.Builder
	for _, file := range result.Files {
		fmt.Fprintf(&structure, "- %s (%d bytes)\n", file.Path, file.Size)
	}

	historyBlock := "(no previous turns)"
	if len(history) > 0 {
		historyBlock = strings.Join(history, "\n---------\n\n")
	}

	return fmt.Sprintf(string(embed_data.ChatSystemPrompt), narrative, strings.TrimRight(structure.String(), "\n"), historyBlock)
}
