package analyzer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeviz-ai/codeviz/analyzer/models"
	"github.com/codeviz-ai/codeviz/registry"
)

func newTestAnalyzer(registryURL string) *CodeAnalyzer {
	var resolver *registry.Resolver
	if registryURL != "" {
		resolver = registry.NewResolver(registry.NewClient(registryURL, nil))
	}
	return &CodeAnalyzer{resolver: resolver}
}

func TestAnalyze_EndToEnd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/left-pad/latest" {
			fmt.Fprint(w, `{"version": "1.3.0"}`)
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	source := &MemorySource{Batch: []*MemoryFile{
		{Path: "package.json", Content: `{"dependencies": {"left-pad": "^1.0.0", "unknown-pkg": "2.0.0"}}`},
		{Path: "src/index.ts", Content: "function main() {\n\tif (true) { return 1; }\n\treturn 0;\n}\n"},
		{Path: "README.md", Content: "# demo\n"},
	}}

	analyzer := newTestAnalyzer(server.URL)
	result, err := analyzer.Analyze(context.Background(), source)
	require.NoError(t, err)

	assert.NotEmpty(t, result.ID)
	assert.Equal(t, 3, result.TotalFiles)

	// 5 (index.ts) + 1 (package.json) + 2 (README.md) newline segments.
	assert.Equal(t, 8, result.TotalLinesOfCode)

	// json and md are resources; only ts counts.
	assert.Equal(t, models.LanguageDistribution{"ts": 1}, result.LanguageDistribution)

	// Tree: folders first, then files by name.
	require.NotNil(t, result.FileTree)
	require.Len(t, result.FileTree.Children, 3)
	assert.Equal(t, "src", result.FileTree.Children[0].Name)
	assert.Equal(t, "README.md", result.FileTree.Children[1].Name)
	assert.Equal(t, "package.json", result.FileTree.Children[2].Name)

	// Dependencies keep declaration order; the failed lookup stays empty.
	require.Len(t, result.Dependencies, 2)
	assert.Equal(t, "left-pad", result.Dependencies[0].Name)
	assert.Equal(t, "1.0.0", result.Dependencies[0].Version)
	assert.Equal(t, "1.3.0", result.Dependencies[0].LatestVersion)
	assert.Equal(t, "unknown-pkg", result.Dependencies[1].Name)
	assert.Equal(t, "", result.Dependencies[1].LatestVersion)
	assert.Empty(t, result.DevDependencies)

	// The complexity report found main.
	require.NotEmpty(t, result.Complexity)
	assert.Equal(t, "main", result.Complexity[0].FunctionName)
	assert.Equal(t, 2, result.Complexity[0].Complexity)

	// The narrative stays open until a provider call succeeds.
	assert.Nil(t, result.Narrative)
}

// Records under .git never reach the snapshot.
func TestAnalyze_ExcludesGitRecords(t *testing.T) {
	source := &MemorySource{Batch: []*MemoryFile{
		{Path: ".git/config", Content: "[core]"},
		{Path: "nested/.git/HEAD", Content: "ref"},
		{Path: "main.ts", Content: "export {}"},
	}}

	analyzer := newTestAnalyzer("")
	result, err := analyzer.Analyze(context.Background(), source)
	require.NoError(t, err)

	assert.Equal(t, 1, result.TotalFiles)
	_, found := result.FileByPath(".git/config")
	assert.False(t, found)
}

// One unreadable file degrades to empty content instead of failing the batch.
func TestAnalyze_ReadFailureDegrades(t *testing.T) {
	source := &MemorySource{Batch: []*MemoryFile{
		{Path: "good.ts", Content: "export {}"},
		{Path: "bad.ts", Err: errors.New("permission denied")},
	}}

	analyzer := newTestAnalyzer("")
	result, err := analyzer.Analyze(context.Background(), source)
	require.NoError(t, err)

	assert.Equal(t, 2, result.TotalFiles)
	bad, found := result.FileByPath("bad.ts")
	require.True(t, found)
	assert.Equal(t, "", bad.Content)
}

func TestAnalyze_NoManifest(t *testing.T) {
	source := &MemorySource{Batch: []*MemoryFile{
		{Path: "main.ts", Content: "export {}"},
	}}

	analyzer := newTestAnalyzer("")
	result, err := analyzer.Analyze(context.Background(), source)
	require.NoError(t, err)

	assert.Empty(t, result.Dependencies)
	assert.Empty(t, result.DevDependencies)
}

// An unparsable manifest degrades to empty dependency lists.
func TestAnalyze_BrokenManifest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(http.NotFound))
	defer server.Close()

	source := &MemorySource{Batch: []*MemoryFile{
		{Path: "package.json", Content: `{"dependencies": "broken"`},
	}}

	analyzer := newTestAnalyzer(server.URL)
	result, err := analyzer.Analyze(context.Background(), source)
	require.NoError(t, err)

	assert.Empty(t, result.Dependencies)
}

func TestExtensionOf(t *testing.T) {
	assert.Equal(t, "ts", ExtensionOf("index.ts"))
	assert.Equal(t, "tsx", ExtensionOf("App.TSX"))
	assert.Equal(t, "gitignore", ExtensionOf(".gitignore"))
	assert.Equal(t, "", ExtensionOf("Makefile"))
	assert.Equal(t, "", ExtensionOf("trailing."))
}

func TestBuildNarrativePrompt(t *testing.T) {
	big := make([]byte, maxContentLength+50)
	for i := range big {
		big[i] = 'x'
	}

	result := &models.AnalysisResult{Files: []models.FileRecord{
		{Name: "huge.ts", Path: "src/huge.ts", Size: int64(len(big)), Content: string(big), Extension: "ts"},
		{Name: "package.json", Path: "package.json", Size: 20, Content: `{"name": "demo"}`, Extension: "json"},
	}}

	analyzer := newTestAnalyzer("")
	prompt := analyzer.BuildNarrativePrompt(result)

	assert.Contains(t, prompt, "- src/huge.ts")
	assert.Contains(t, prompt, "- package.json (20 bytes)")
	assert.Contains(t, prompt, "... (truncated)")

	// package.json content ranks ahead of everything else.
	manifestAt := strings.Index(prompt, `{"name": "demo"}`)
	hugeAt := strings.Index(prompt, "xxxx")
	require.GreaterOrEqual(t, manifestAt, 0)
	require.GreaterOrEqual(t, hugeAt, 0)
	assert.Less(t, manifestAt, hugeAt)
}

func TestBuildChatPrompt(t *testing.T) {
	result := &models.AnalysisResult{
		Files: []models.FileRecord{{Name: "a.ts", Path: "a.ts", Size: 5}},
		Narrative: &models.NarrativeAnalysis{
			Overview: "tiny project",
		},
	}

	analyzer := newTestAnalyzer("")

	prompt := analyzer.BuildChatPrompt(result, []string{"## User\nhi\n\n## Assistant\nhello"})
	assert.Contains(t, prompt, "tiny project")
	assert.Contains(t, prompt, "- a.ts (5 bytes)")
	assert.Contains(t, prompt, "## User\nhi")

	// Without a narrative or history the placeholders appear instead.
	result.Narrative = nil
	prompt = analyzer.BuildChatPrompt(result, nil)
	assert.Contains(t, prompt, "No AI analysis is available yet.")
	assert.Contains(t, prompt, "(no previous turns)")
}
