package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/codeviz-ai/codeviz/analyzer/models"
	"github.com/codeviz-ai/codeviz/constants/lipgloss"
	"github.com/codeviz-ai/codeviz/registry"
	"github.com/codeviz-ai/codeviz/stats"
)

// renderSummary prints the headline numbers of a finished analysis.
func renderSummary(w io.Writer, result *models.AnalysisResult) {
	summary := fmt.Sprintf("Files: %d   Lines of code: %d   Languages: %d   Complexity findings: %d",
		result.TotalFiles, result.TotalLinesOfCode, len(result.LanguageDistribution), len(result.Complexity))
	fmt.Fprintln(w, lipgloss.BoxStyle.Render(summary))
}

// renderTree prints the tree with two-space indentation per level. Folders
// carry a trailing slash.
func renderTree(w io.Writer, node *models.FileTreeNode, depth int) {
	indent := strings.Repeat("  ", depth)

	if node.IsFolder() {
		fmt.Fprintln(w, indent+lipgloss.BlueSky.Render(node.Name+"/"))
		for _, child := range node.Children {
			renderTree(w, child, depth+1)
		}
		return
	}

	fmt.Fprintln(w, indent+node.Name)
}

// renderStats prints the language histogram and the five largest files.
func renderStats(w io.Writer, result *models.AnalysisResult) {
	fmt.Fprintln(w, lipgloss.Info.Render("Language distribution:"))

	type bucket struct {
		ext   string
		count int
	}
	buckets := make([]bucket, 0, len(result.LanguageDistribution))
	for ext, count := range result.LanguageDistribution {
		buckets = append(buckets, bucket{ext, count})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].count != buckets[j].count {
			return buckets[i].count > buckets[j].count
		}
		return buckets[i].ext < buckets[j].ext
	})

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	for _, b := range buckets {
		fmt.Fprintf(tw, "  %s\t%d files\n", b.ext, b.count)
	}
	tw.Flush()

	fmt.Fprintln(w, lipgloss.Info.Render("Largest files:"))
	tw = tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	for _, entry := range stats.TopBySize(result.FileSizes, 5) {
		fmt.Fprintf(tw, "  %s\t%d bytes\n", entry.Path, entry.Size)
	}
	tw.Flush()
}

// renderDependencies prints the freshness report for dependencies and
// dev dependencies. A dependency with no resolved latest version shows "?";
// an outdated one is marked.
func renderDependencies(w io.Writer, result *models.AnalysisResult) {
	if len(result.Dependencies) == 0 && len(result.DevDependencies) == 0 {
		fmt.Fprintln(w, lipgloss.Yellow.Render("No package manifest found."))
		return
	}

	renderDependencySection(w, "Dependencies:", result.Dependencies)
	renderDependencySection(w, "Dev dependencies:", result.DevDependencies)
}

func renderDependencySection(w io.Writer, title string, deps []models.DependencyInfo) {
	if len(deps) == 0 {
		return
	}

	fmt.Fprintln(w, lipgloss.Info.Render(title))
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	for _, dep := range deps {
		latest := dep.LatestVersion
		marker := ""
		switch {
		case latest == "":
			latest = "?"
		case registry.CleanVersion(dep.Version) != latest:
			marker = "outdated"
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", dep.Name, dep.Version, latest, marker)
	}
	tw.Flush()
}

// renderComplexity prints the top findings of the complexity report,
// already ranked by descending complexity.
func renderComplexity(w io.Writer, result *models.AnalysisResult, limit int) {
	if len(result.Complexity) == 0 {
		fmt.Fprintln(w, lipgloss.Yellow.Render("No complexity findings (no analyzable JavaScript or TypeScript files)."))
		return
	}

	findings := result.Complexity
	if limit > 0 && len(findings) > limit {
		findings = findings[:limit]
	}

	fmt.Fprintln(w, lipgloss.Info.Render("Complexity hotspots:"))
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	for _, f := range findings {
		fmt.Fprintf(tw, "  %d\t%s\t%s:%d\n", f.Complexity, f.FunctionName, f.FilePath, f.Line)
	}
	tw.Flush()
	fmt.Fprintln(w, lipgloss.Gray.Render("Open a hotspot with /view <path> <line>."))
}

// renderNarrative prints the structured AI overview.
func renderNarrative(w io.Writer, narrative *models.NarrativeAnalysis) {
	var b strings.Builder

	b.WriteString(lipgloss.Info.Render("Overview") + "\n")
	b.WriteString(narrative.Overview + "\n\n")

	if len(narrative.TechStack) > 0 {
		b.WriteString(lipgloss.Info.Render("Tech stack") + "\n")
		b.WriteString(strings.Join(narrative.TechStack, ", ") + "\n\n")
	}

	b.WriteString(lipgloss.Info.Render(fmt.Sprintf("Code quality: %s", narrative.CodeQuality.Rating)) + "\n")
	b.WriteString(narrative.CodeQuality.Summary + "\n")
	for _, suggestion := range narrative.CodeQuality.Suggestions {
		b.WriteString("  - " + suggestion + "\n")
	}

	if len(narrative.PotentialIssues) > 0 {
		b.WriteString("\n" + lipgloss.Info.Render("Potential issues") + "\n")
		for _, issue := range narrative.PotentialIssues {
			b.WriteString("  - " + issue + "\n")
		}
	}

	fmt.Fprintln(w, lipgloss.BoxStyle.Render(strings.TrimRight(b.String(), "\n")))
}
