package models

// FileRecord holds one ingested file. Identity is Path; records are
// immutable once ingested.
type FileRecord struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	Size      int64  `json:"size"`
	Content   string `json:"content"`
	Extension string `json:"extension"`
}

// NodeType discriminates folder and file tree nodes.
type NodeType string

const (
	NodeFile   NodeType = "file"
	NodeFolder NodeType = "folder"
)

// FileTreeNode is one node of the hierarchical project view. The root is a
// folder with a synthetic name and an empty path; every other node's path is
// its parent path joined with its name by "/".
type FileTreeNode struct {
	Name     string          `json:"name"`
	Type     NodeType        `json:"type"`
	Path     string          `json:"path"`
	Children []*FileTreeNode `json:"children,omitempty"`
}

// IsFolder reports whether the node can carry children.
func (n *FileTreeNode) IsFolder() bool {
	return n.Type == NodeFolder
}

// LanguageDistribution maps extension (or "other") to file count.
type LanguageDistribution map[string]int

// FileSizeEntry is one file in the size ranking.
type FileSizeEntry struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// DependencyInfo is one resolved manifest dependency. LatestVersion is empty
// when the registry lookup failed or returned nothing; that is a valid
// terminal state, not an error.
type DependencyInfo struct {
	Name          string `json:"name"`
	Version       string `json:"version"`
	LatestVersion string `json:"latest_version,omitempty"`
}

// ComplexityFinding is one function-level cyclomatic complexity result.
type ComplexityFinding struct {
	FilePath     string `json:"file_path"`
	FunctionName string `json:"function_name"`
	Complexity   int    `json:"complexity"`
	Line         int    `json:"line"`
}

// CodeQuality is the quality section of the AI narrative.
type CodeQuality struct {
	Rating      string   `json:"rating"`
	Summary     string   `json:"summary"`
	Suggestions []string `json:"suggestions"`
}

// NarrativeAnalysis is the structured AI overview of the codebase.
type NarrativeAnalysis struct {
	Overview        string      `json:"overview"`
	TechStack       []string    `json:"techStack"`
	CodeQuality     CodeQuality `json:"codeQuality"`
	PotentialIssues []string    `json:"potentialIssues"`
}
