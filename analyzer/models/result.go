package models

// AnalysisResult is the immutable snapshot produced by one analysis run.
// The narrative is the only field mutated after construction: SetNarrative
// fills it once on success, and a failed attempt may be retried.
type AnalysisResult struct {
	ID                   string               `json:"id"`
	TotalFiles           int                  `json:"total_files"`
	TotalLinesOfCode     int                  `json:"total_lines_of_code"`
	LanguageDistribution LanguageDistribution `json:"language_distribution"`
	FileSizes            []FileSizeEntry      `json:"file_sizes"`
	FileTree             *FileTreeNode        `json:"file_tree"`
	Narrative            *NarrativeAnalysis   `json:"narrative,omitempty"`
	TokenCount           int                  `json:"token_count"`
	Files                []FileRecord         `json:"files"`
	Dependencies         []DependencyInfo     `json:"dependencies"`
	DevDependencies      []DependencyInfo     `json:"dev_dependencies"`
	Complexity           []ComplexityFinding  `json:"complexity"`
}

// SetNarrative records a successful narrative response. The first success
// wins; later calls on an already-filled result are ignored so a concurrent
// retry cannot clobber delivered data.
func (r *AnalysisResult) SetNarrative(narrative *NarrativeAnalysis, tokenCount int) {
	if r.Narrative != nil {
		return
	}
	r.Narrative = narrative
	r.TokenCount = tokenCount
}

// FileByPath looks a record up by its path.
func (r *AnalysisResult) FileByPath(path string) (FileRecord, bool) {
	for _, f := range r.Files {
		if f.Path == path {
			return f, true
		}
	}
	return FileRecord{}, false
}
