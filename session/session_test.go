package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeviz-ai/codeviz/analyzer/models"
	"github.com/codeviz-ai/codeviz/filetree"
)

func snapshot() *models.AnalysisResult {
	files := []models.FileRecord{
		{Name: "App.tsx", Path: "src/App.tsx", Extension: "tsx", Content: "export {}"},
		{Name: "util.ts", Path: "src/util.ts", Extension: "ts", Content: "export {}"},
		{Name: "README.md", Path: "README.md", Extension: "md", Content: "# readme"},
	}
	return &models.AnalysisResult{
		Files:    files,
		FileTree: filetree.Build(files),
	}
}

func TestNew_StartsIdle(t *testing.T) {
	s := New(snapshot())

	assert.Equal(t, Idle, s.State())
	assert.Nil(t, s.SelectedFile())
	assert.Equal(t, 0, s.HighlightLine())
	assert.Equal(t, "", s.Filter())
}

func TestSelectFile_ClearsFilter(t *testing.T) {
	s := New(snapshot())

	s.ToggleFilter("ts")
	require.Equal(t, Filtered, s.State())

	ok := s.SelectFile("src/App.tsx", 12)
	require.True(t, ok)

	assert.Equal(t, Viewing, s.State())
	assert.Equal(t, "src/App.tsx", s.SelectedFile().Path)
	assert.Equal(t, 12, s.HighlightLine())
	assert.Equal(t, "", s.Filter())
}

// Selecting an unknown path is a no-op on every field.
func TestSelectFile_UnknownPath(t *testing.T) {
	s := New(snapshot())
	s.ToggleFilter("ts")

	ok := s.SelectFile("does/not/exist.ts", 1)

	assert.False(t, ok)
	assert.Equal(t, Filtered, s.State())
	assert.Equal(t, "ts", s.Filter())
	assert.Nil(t, s.SelectedFile())
}

func TestToggleFilter_ClearsSelection(t *testing.T) {
	s := New(snapshot())

	require.True(t, s.SelectFile("src/util.ts", 3))
	require.Equal(t, Viewing, s.State())

	s.ToggleFilter("ts")

	assert.Equal(t, Filtered, s.State())
	assert.Nil(t, s.SelectedFile())
	assert.Equal(t, 0, s.HighlightLine())
	assert.Equal(t, "ts", s.Filter())
}

// Toggling the active filter again deactivates it.
func TestToggleFilter_SameExtensionTogglesOff(t *testing.T) {
	s := New(snapshot())

	s.ToggleFilter("ts")
	require.Equal(t, Filtered, s.State())

	s.ToggleFilter("ts")
	assert.Equal(t, Idle, s.State())
	assert.Equal(t, "", s.Filter())
}

func TestToggleFilter_SwitchExtension(t *testing.T) {
	s := New(snapshot())

	s.ToggleFilter("ts")
	s.ToggleFilter("md")

	assert.Equal(t, Filtered, s.State())
	assert.Equal(t, "md", s.Filter())
}

func TestCloseViewer(t *testing.T) {
	s := New(snapshot())
	require.True(t, s.SelectFile("README.md", 0))

	s.CloseViewer()

	assert.Equal(t, Idle, s.State())
	assert.Nil(t, s.SelectedFile())
	assert.Equal(t, 0, s.HighlightLine())
}

func TestReset(t *testing.T) {
	s := New(snapshot())
	s.ToggleFilter("ts")

	s.Reset()

	assert.Equal(t, Idle, s.State())
	assert.Equal(t, "", s.Filter())
}

func TestTree_FollowsFilter(t *testing.T) {
	s := New(snapshot())

	// No filter: the full tree.
	assert.Same(t, s.Result().FileTree, s.Tree())

	// Active filter: only matching files survive.
	s.ToggleFilter("ts")
	tree := s.Tree()
	require.NotNil(t, tree)
	assert.Equal(t, []string{"src/util.ts"}, filetree.FilePaths(tree))

	// A filter nothing matches yields nil.
	s.ToggleFilter("go")
	assert.Nil(t, s.Tree())
}
