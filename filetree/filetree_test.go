package filetree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeviz-ai/codeviz/analyzer/models"
)

func record(path string) models.FileRecord {
	idx := -1
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			idx = i
			break
		}
	}
	return models.FileRecord{Name: path[idx+1:], Path: path}
}

// Test that building a tree and flattening it back yields exactly the input
// paths, each exactly once.
func TestBuild_RoundTrip(t *testing.T) {
	files := []models.FileRecord{
		record("src/components/App.tsx"),
		record("src/index.ts"),
		record("package.json"),
		record("src/components/Button.tsx"),
		record("README.md"),
	}

	root := Build(files)
	require.NotNil(t, root)
	assert.Equal(t, RootName, root.Name)
	assert.Equal(t, models.NodeFolder, root.Type)
	assert.Equal(t, "", root.Path)

	paths := FilePaths(root)
	assert.ElementsMatch(t, []string{
		"src/components/App.tsx",
		"src/index.ts",
		"package.json",
		"src/components/Button.tsx",
		"README.md",
	}, paths)
}

// Folders sort before files, then names ascend, on every level.
func TestBuild_SortOrder(t *testing.T) {
	files := []models.FileRecord{
		record("b.ts"),
		record("a/z.ts"),
		record("a.ts"),
	}

	root := Build(files)
	require.Len(t, root.Children, 3)

	assert.Equal(t, "a", root.Children[0].Name)
	assert.True(t, root.Children[0].IsFolder())
	assert.Equal(t, "a.ts", root.Children[1].Name)
	assert.Equal(t, "b.ts", root.Children[2].Name)
}

// Every non-root node's path is its parent path plus its name.
func TestBuild_PathInvariant(t *testing.T) {
	root := Build([]models.FileRecord{record("src/deep/nested/file.ts")})

	node := root
	expected := []struct {
		name string
		path string
	}{
		{"src", "src"},
		{"deep", "src/deep"},
		{"nested", "src/deep/nested"},
		{"file.ts", "src/deep/nested/file.ts"},
	}
	for _, step := range expected {
		require.Len(t, node.Children, 1)
		node = node.Children[0]
		assert.Equal(t, step.name, node.Name)
		assert.Equal(t, step.path, node.Path)
	}
}

// Records with empty paths are skipped; duplicate paths keep the first node.
func TestBuild_EdgeCases(t *testing.T) {
	files := []models.FileRecord{
		record(""),
		record("a.ts"),
		record("a.ts"),
	}

	root := Build(files)
	require.Len(t, root.Children, 1)
	assert.Equal(t, "a.ts", root.Children[0].Name)
}

func TestFilter_KeepsOnlyMatchingFilesAndAncestors(t *testing.T) {
	root := Build([]models.FileRecord{
		record("src/App.tsx"),
		record("src/util.ts"),
		record("docs/guide.md"),
		record("index.ts"),
	})

	filtered := Filter(root, "ts")
	require.NotNil(t, filtered)

	paths := FilePaths(filtered)
	assert.Equal(t, []string{"src/util.ts", "index.ts"}, paths)

	// The original tree is untouched.
	assert.ElementsMatch(t, []string{"src/App.tsx", "src/util.ts", "docs/guide.md", "index.ts"}, FilePaths(root))
}

func TestFilter_CaseInsensitive(t *testing.T) {
	root := Build([]models.FileRecord{record("a/UPPER.TS")})

	filtered := Filter(root, "ts")
	require.NotNil(t, filtered)
	assert.Equal(t, []string{"a/UPPER.TS"}, FilePaths(filtered))
}

// No match yields nil, never an empty folder skeleton.
func TestFilter_NoMatchReturnsNil(t *testing.T) {
	root := Build([]models.FileRecord{record("src/App.tsx")})

	assert.Nil(t, Filter(root, "go"))
	assert.Nil(t, Filter(nil, "ts"))
}

// A dotless file name has no extension and never matches a filter.
func TestFilter_DotlessName(t *testing.T) {
	root := Build([]models.FileRecord{record("Makefile")})

	assert.Nil(t, Filter(root, "makefile"))
}
