// Package stats computes the aggregate numbers shown on the dashboard:
// totals, the per-language histogram and the file size ranking.
package stats

import (
	"sort"
	"strings"

	"github.com/codeviz-ai/codeviz/analyzer/models"
)

// resourceExtensions are non-code assets excluded from the language
// histogram and the size ranking.
var resourceExtensions = map[string]struct{}{
	"png": {}, "jpg": {}, "jpeg": {}, "gif": {}, "svg": {}, "ico": {}, "webp": {},
	"woff": {}, "woff2": {}, "ttf": {}, "eot": {},
	"css": {}, "scss": {}, "sass": {}, "less": {}, "html": {}, "htm": {}, "xml": {},
	"json": {}, "md": {}, "markdown": {}, "yaml": {}, "yml": {},
	"lock": {}, "zip": {}, "rar": {}, "tar": {}, "gz": {}, "pdf": {},
	"doc": {}, "docx": {}, "xls": {}, "xlsx": {}, "ppt": {}, "pptx": {},
}

// IsResource reports whether an extension belongs to the excluded asset set.
func IsResource(ext string) bool {
	_, ok := resourceExtensions[strings.ToLower(ext)]
	return ok
}

// TotalLines sums the line counts of all files. A file's line count is the
// number of segments its content splits into on "\n", so an empty file
// counts as one line and a trailing newline adds one.
func TotalLines(files []models.FileRecord) int {
	total := 0
	for _, f := range files {
		total += len(strings.Split(f.Content, "\n"))
	}
	return total
}

// Languages builds the extension histogram over non-resource files. Files
// without an extension are bucketed under "other".
func Languages(files []models.FileRecord) models.LanguageDistribution {
	dist := models.LanguageDistribution{}
	for _, f := range files {
		if IsResource(f.Extension) {
			continue
		}
		ext := f.Extension
		if ext == "" {
			ext = "other"
		}
		dist[ext]++
	}
	return dist
}

// FileSizes lists every non-resource file with its size, in input order.
func FileSizes(files []models.FileRecord) []models.FileSizeEntry {
	var entries []models.FileSizeEntry
	for _, f := range files {
		if IsResource(f.Extension) {
			continue
		}
		entries = append(entries, models.FileSizeEntry{Name: f.Name, Path: f.Path, Size: f.Size})
	}
	return entries
}

// TopBySize returns the n largest entries, descending; ties keep input order.
func TopBySize(entries []models.FileSizeEntry, n int) []models.FileSizeEntry {
	ranked := make([]models.FileSizeEntry, len(entries))
	copy(ranked, entries)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Size > ranked[j].Size
	})
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
