// Package session tracks the interactive view state over one analysis
// snapshot: which file is open, which line is highlighted and which
// extension filter is active. All transitions are synchronous and total.
package session

import (
	"github.com/codeviz-ai/codeviz/analyzer/models"
	"github.com/codeviz-ai/codeviz/filetree"
)

// State is the current driving view state.
type State int

const (
	// Idle: no file selected, no filter active.
	Idle State = iota
	// Filtered: an extension filter is active, no file selected.
	Filtered
	// Viewing: a file is selected, optionally with a highlighted line.
	Viewing
)

func (s State) String() string {
	switch s {
	case Filtered:
		return "filtered"
	case Viewing:
		return "viewing"
	default:
		return "idle"
	}
}

// Session binds selection, filter and highlight state to a snapshot. The
// zero line value means "no highlight".
type Session struct {
	result *models.AnalysisResult

	state         State
	selectedFile  *models.FileRecord
	highlightLine int
	filter        string
}

// New creates an idle session over result.
func New(result *models.AnalysisResult) *Session {
	return &Session{result: result, state: Idle}
}

// State returns the current state.
func (s *Session) State() State {
	return s.state
}

// Result returns the snapshot the session drives.
func (s *Session) Result() *models.AnalysisResult {
	return s.result
}

// SelectedFile returns the open file, or nil.
func (s *Session) SelectedFile() *models.FileRecord {
	return s.selectedFile
}

// HighlightLine returns the highlighted line, 0 when none.
func (s *Session) HighlightLine() int {
	return s.highlightLine
}

// Filter returns the active extension filter, empty when none.
func (s *Session) Filter() string {
	return s.filter
}

// SelectFile opens the file at path with an optional highlight line and
// clears any active filter. An unknown path leaves the session unchanged.
func (s *Session) SelectFile(path string, line int) bool {
	file, found := s.result.FileByPath(path)
	if !found {
		return false
	}

	s.selectedFile = &file
	s.highlightLine = line
	s.filter = ""
	s.state = Viewing
	return true
}

// CloseViewer closes the open file and clears the highlight line.
func (s *Session) CloseViewer() {
	s.selectedFile = nil
	s.highlightLine = 0
	s.state = Idle
}

// ToggleFilter activates the extension filter, or deactivates it when ext
// matches the active filter. Either way the selected file and highlight
// line are cleared.
func (s *Session) ToggleFilter(ext string) {
	s.selectedFile = nil
	s.highlightLine = 0

	if s.filter == ext {
		s.filter = ""
		s.state = Idle
		return
	}
	s.filter = ext
	s.state = Filtered
}

// Reset returns the session to Idle.
func (s *Session) Reset() {
	s.selectedFile = nil
	s.highlightLine = 0
	s.filter = ""
	s.state = Idle
}

// Tree returns the tree the UI should render: the filtered tree when a
// filter is active, the full tree otherwise. A nil return with an active
// filter means nothing matched.
func (s *Session) Tree() *models.FileTreeNode {
	if s.filter == "" {
		return s.result.FileTree
	}
	filtered := filetree.Filter(s.result.FileTree, s.filter)
	if filtered == nil || len(filtered.Children) == 0 {
		return nil
	}
	return filtered
}
