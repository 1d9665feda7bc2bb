package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_FileContentRoundTrip(t *testing.T) {
	tempDir := t.TempDir()

	cacheManager, err := NewManager(tempDir)
	require.NoError(t, err)

	testFile := filepath.Join(tempDir, "test.txt")
	testContent := []byte("test content")
	require.NoError(t, os.WriteFile(testFile, testContent, 0644))

	// Not cached initially.
	content, found := cacheManager.GetFileContent(testFile)
	assert.False(t, found)
	assert.Nil(t, content)

	require.NoError(t, cacheManager.SetFileContent(testFile, testContent))

	cachedContent, found := cacheManager.GetFileContent(testFile)
	assert.True(t, found)
	assert.Equal(t, testContent, cachedContent)
}

// Modifying the file invalidates its cache entry.
func TestManager_FileInvalidation(t *testing.T) {
	tempDir := t.TempDir()

	cacheManager, err := NewManager(tempDir)
	require.NoError(t, err)

	testFile := filepath.Join(tempDir, "test.txt")
	originalContent := []byte("original content")
	require.NoError(t, os.WriteFile(testFile, originalContent, 0644))
	require.NoError(t, cacheManager.SetFileContent(testFile, originalContent))

	_, found := cacheManager.GetFileContent(testFile)
	require.True(t, found)

	// Ensure a different modification time, then change the file.
	time.Sleep(time.Millisecond * 10)
	require.NoError(t, os.WriteFile(testFile, []byte("modified content longer"), 0644))

	cachedContent, found := cacheManager.GetFileContent(testFile)
	assert.False(t, found)
	assert.Nil(t, cachedContent)
}

func TestManager_LatestVersionRoundTrip(t *testing.T) {
	cacheManager, err := NewManager(t.TempDir())
	require.NoError(t, err)

	_, found := cacheManager.GetLatestVersion("react")
	assert.False(t, found)

	require.NoError(t, cacheManager.SetLatestVersion("react", "18.2.0"))

	version, found := cacheManager.GetLatestVersion("react")
	assert.True(t, found)
	assert.Equal(t, "18.2.0", version)
}

func TestManager_Clear(t *testing.T) {
	cacheManager, err := NewManager(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, cacheManager.SetLatestVersion("react", "18.2.0"))
	require.NoError(t, cacheManager.Clear())

	_, found := cacheManager.GetLatestVersion("react")
	assert.False(t, found)
}

func TestManager_Stats(t *testing.T) {
	cacheManager, err := NewManager(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, cacheManager.SetLatestVersion("react", "18.2.0"))

	// One hit, one miss.
	_, found := cacheManager.GetLatestVersion("react")
	require.True(t, found)
	_, found = cacheManager.GetLatestVersion("vue")
	require.False(t, found)

	stats, err := cacheManager.Stats()
	require.NoError(t, err)

	assert.Equal(t, 1, stats["cache_files"])
	assert.Equal(t, 50.0, stats["hit_rate"])
	assert.Greater(t, stats["total_size"].(int64), int64(0))
}
