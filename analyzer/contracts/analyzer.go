package contracts

import (
	"context"

	"github.com/codeviz-ai/codeviz/analyzer/models"
)

// FileHandle is one raw file exposed by a source: a relative slash-separated
// path, a display name, a byte size and lazily readable text content.
type FileHandle interface {
	RelativePath() string
	Name() string
	Size() int64
	ReadText(ctx context.Context) (string, error)
}

// FileSource provides the batch of files to analyze.
type FileSource interface {
	Files(ctx context.Context) ([]FileHandle, error)
}

// ICodeAnalyzer runs the analysis pipeline and builds the AI prompts over
// its result.
type ICodeAnalyzer interface {
	Analyze(ctx context.Context, source FileSource) (*models.AnalysisResult, error)
	BuildNarrativePrompt(result *models.AnalysisResult) string
	BuildChatPrompt(result *models.AnalysisResult, history []string) string
	GetCacheStats() (map[string]interface{}, error)
	ClearCache() error
}
