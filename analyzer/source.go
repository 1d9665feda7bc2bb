package analyzer

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/codeviz-ai/codeviz/analyzer/contracts"
	"github.com/codeviz-ai/codeviz/cache"
)

// defaultIgnoredSegments are directory names the directory source never
// descends into. The pipeline itself only enforces the .git exclusion; this
// list just keeps directory scans from dredging up build output.
var defaultIgnoredSegments = map[string]struct{}{
	".git":         {},
	".svn":         {},
	".idea":        {},
	".vscode":      {},
	".cache":       {},
	"node_modules": {},
	"dist":         {},
	"out":          {},
	"bin":          {},
	"obj":          {},
}

// osFileHandle is a disk-backed file handle. Content reads go through the
// cache manager when one is configured.
type osFileHandle struct {
	absolutePath string
	relativePath string
	size         int64
	cacheManager *cache.Manager
}

func (h *osFileHandle) RelativePath() string {
	return h.relativePath
}

func (h *osFileHandle) Name() string {
	return filepath.Base(h.absolutePath)
}

func (h *osFileHandle) Size() int64 {
	return h.size
}

func (h *osFileHandle) ReadText(_ context.Context) (string, error) {
	if h.cacheManager != nil {
		if content, found := h.cacheManager.GetFileContent(h.absolutePath); found {
			return string(content), nil
		}
	}

	content, err := os.ReadFile(h.absolutePath)
	if err != nil {
		return "", err
	}

	if h.cacheManager != nil {
		// Best effort; a failed cache write never fails the read.
		_ = h.cacheManager.SetFileContent(h.absolutePath, content)
	}
	return string(content), nil
}

// DirectorySource walks a project directory and exposes its files.
type DirectorySource struct {
	Root         string
	CacheManager *cache.Manager
}

// Files walks the root and returns a handle per regular file, in walk order.
func (s *DirectorySource) Files(_ context.Context) ([]contracts.FileHandle, error) {
	var handles []contracts.FileHandle

	err := filepath.WalkDir(s.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if _, ignored := defaultIgnoredSegments[d.Name()]; ignored && path != s.Root {
				return filepath.SkipDir
			}
			return nil
		}

		relativePath, err := filepath.Rel(s.Root, path)
		if err != nil {
			return err
		}
		relativePath = strings.ReplaceAll(relativePath, "\\", "/")

		info, err := d.Info()
		if err != nil {
			return err
		}

		handles = append(handles, &osFileHandle{
			absolutePath: path,
			relativePath: relativePath,
			size:         info.Size(),
			cacheManager: s.CacheManager,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return handles, nil
}

// MemoryFile is an in-memory file for batch input and tests.
type MemoryFile struct {
	Path    string
	Content string
	// Err, when set, makes ReadText fail to exercise degraded ingestion.
	Err error
}

func (f *MemoryFile) RelativePath() string {
	return f.Path
}

func (f *MemoryFile) Name() string {
	idx := strings.LastIndex(f.Path, "/")
	return f.Path[idx+1:]
}

func (f *MemoryFile) Size() int64 {
	return int64(len(f.Content))
}

func (f *MemoryFile) ReadText(_ context.Context) (string, error) {
	if f.Err != nil {
		return "", f.Err
	}
	return f.Content, nil
}

// MemorySource serves a fixed batch of in-memory files.
type MemorySource struct {
	Batch []*MemoryFile
}

func (s *MemorySource) Files(_ context.Context) ([]contracts.FileHandle, error) {
	handles := make([]contracts.FileHandle, len(s.Batch))
	for i, f := range s.Batch {
		handles[i] = f
	}
	return handles, nil
}
