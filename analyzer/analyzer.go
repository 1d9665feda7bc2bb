// Package analyzer turns a batch of raw files into one immutable analysis
// snapshot: the file tree, language statistics, complexity findings and
// dependency freshness.
package analyzer

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/codeviz-ai/codeviz/analyzer/contracts"
	"github.com/codeviz-ai/codeviz/analyzer/models"
	"github.com/codeviz-ai/codeviz/cache"
	"github.com/codeviz-ai/codeviz/complexity"
	"github.com/codeviz-ai/codeviz/filetree"
	"github.com/codeviz-ai/codeviz/registry"
	"github.com/codeviz-ai/codeviz/stats"
)

// maxConcurrentReads bounds how many file contents are decoded at once.
const maxConcurrentReads = 16

// CodeAnalyzer handles the analysis of project files.
type CodeAnalyzer struct {
	resolver     *registry.Resolver
	cacheManager *cache.Manager
}

// NewCodeAnalyzer initializes a new CodeAnalyzer. cacheManager may be nil to
// disable caching.
func NewCodeAnalyzer(resolver *registry.Resolver, cacheManager *cache.Manager) contracts.ICodeAnalyzer {
	return &CodeAnalyzer{
		resolver:     resolver,
		cacheManager: cacheManager,
	}
}

// Analyze runs the full pipeline: ingest every file, drop .git records,
// build the tree and statistics, and resolve complexity and dependencies
// concurrently. The returned snapshot is complete except for the narrative,
// which the caller fills in when (and if) the AI call succeeds.
func (analyzer *CodeAnalyzer) Analyze(ctx context.Context, source contracts.FileSource) (*models.AnalysisResult, error) {
	handles, err := source.Files(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	allFiles := analyzer.ingest(ctx, handles)
	files := excludeGit(allFiles)

	fileTree := filetree.Build(files)

	var complexityFindings []models.ComplexityFinding
	var dependencies, devDependencies []models.DependencyInfo

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		complexityFindings = complexity.Analyze(files)
	}()
	go func() {
		defer wg.Done()
		dependencies, devDependencies = analyzer.resolveDependencies(ctx, files)
	}()
	wg.Wait()

	return &models.AnalysisResult{
		ID:                   uuid.New().String(),
		TotalFiles:           len(files),
		TotalLinesOfCode:     stats.TotalLines(files),
		LanguageDistribution: stats.Languages(files),
		FileSizes:            stats.FileSizes(files),
		FileTree:             fileTree,
		Files:                files,
		Dependencies:         dependencies,
		DevDependencies:      devDependencies,
		Complexity:           complexityFindings,
	}, nil
}

// ingest reads every handle's content concurrently and joins before
// returning; records keep input order. A read failure degrades that record
// to empty content instead of failing the batch.
func (analyzer *CodeAnalyzer) ingest(ctx context.Context, handles []contracts.FileHandle) []models.FileRecord {
	records := make([]models.FileRecord, len(handles))

	semaphore := make(chan struct{}, maxConcurrentReads)
	var wg sync.WaitGroup
	for i, handle := range handles {
		wg.Add(1)
		go func(slot int, handle contracts.FileHandle) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			content, err := handle.ReadText(ctx)
			if err != nil {
				log.Printf("Warning: could not read %s: %v", handle.RelativePath(), err)
				content = ""
			}

			name := handle.Name()
			records[slot] = models.FileRecord{
				Name:      name,
				Path:      handle.RelativePath(),
				Size:      handle.Size(),
				Content:   content,
				Extension: ExtensionOf(name),
			}
		}(i, handle)
	}
	wg.Wait()

	return records
}

// excludeGit drops records whose path contains a literal .git segment.
func excludeGit(files []models.FileRecord) []models.FileRecord {
	kept := make([]models.FileRecord, 0, len(files))
	for _, file := range files {
		if hasGitSegment(file.Path) {
			continue
		}
		kept = append(kept, file)
	}
	return kept
}

func hasGitSegment(path string) bool {
	for _, segment := range strings.Split(path, "/") {
		if segment == ".git" {
			return true
		}
	}
	return false
}

// resolveDependencies parses the manifest and resolves its two sections as
// independent concurrent groups. A missing or unparsable manifest degrades
// to empty lists.
func (analyzer *CodeAnalyzer) resolveDependencies(ctx context.Context, files []models.FileRecord) ([]models.DependencyInfo, []models.DependencyInfo) {
	var manifestContent string
	for _, file := range files {
		if file.Name == "package.json" {
			manifestContent = file.Content
			break
		}
	}
	if manifestContent == "" || analyzer.resolver == nil {
		return nil, nil
	}

	manifest, err := registry.ParseManifest(manifestContent)
	if err != nil {
		log.Printf("Warning: could not parse package.json: %v", err)
		return nil, nil
	}

	var dependencies, devDependencies []models.DependencyInfo
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		dependencies = analyzer.resolver.Resolve(ctx, manifest.Dependencies)
	}()
	go func() {
		defer wg.Done()
		devDependencies = analyzer.resolver.Resolve(ctx, manifest.DevDependencies)
	}()
	wg.Wait()

	return dependencies, devDependencies
}

// GetCacheStats reports cache statistics.
func (analyzer *CodeAnalyzer) GetCacheStats() (map[string]interface{}, error) {
	if analyzer.cacheManager == nil {
		return map[string]interface{}{"cache_enabled": false}, nil
	}
	statsMap, err := analyzer.cacheManager.Stats()
	if err != nil {
		return nil, err
	}
	statsMap["cache_enabled"] = true
	return statsMap, nil
}

// ClearCache removes every cache entry.
func (analyzer *CodeAnalyzer) ClearCache() error {
	if analyzer.cacheManager == nil {
		return nil
	}
	return analyzer.cacheManager.Clear()
}

// ExtensionOf derives the lowercased extension: the substring after the last
// dot of the name, empty when the name has no dot.
func ExtensionOf(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 || idx == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[idx+1:])
}
