package complexity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeviz-ai/codeviz/analyzer/models"
)

func tsFile(path, content string) models.FileRecord {
	return models.FileRecord{Name: path, Path: path, Content: content, Extension: "ts"}
}

func TestAnalyze_CountsDecisionPoints(t *testing.T) {
	source := `
function simple() {
	return 1;
}

function branchy(a, b) {
	if (a) {
		return 1;
	}
	for (let i = 0; i < 10; i++) {
		while (b) {
			b--;
		}
	}
	return a && b;
}
`
	findings := Analyze([]models.FileRecord{tsFile("src/demo.ts", source)})
	require.Len(t, findings, 2)

	// Sorted by complexity descending.
	assert.Equal(t, "branchy", findings[0].FunctionName)
	assert.Equal(t, 5, findings[0].Complexity) // if + for + while + && + base
	assert.Equal(t, "simple", findings[1].FunctionName)
	assert.Equal(t, 1, findings[1].Complexity)
}

func TestAnalyze_NamesArrowAndMethodFunctions(t *testing.T) {
	source := `
const handler = (x) => x ? 1 : 2;

const obj = {
	compute: function(y) { return y || 0; }
};

class Service {
	run(z) {
		switch (z) {
		case 1:
			return "one";
		case 2:
			return "two";
		}
		return "many";
	}
}
`
	findings := Analyze([]models.FileRecord{tsFile("src/named.ts", source)})

	byName := map[string]int{}
	for _, f := range findings {
		byName[f.FunctionName] = f.Complexity
	}

	assert.Equal(t, 2, byName["handler"]) // ternary + base
	assert.Equal(t, 2, byName["compute"]) // || + base
	assert.Equal(t, 3, byName["run"])     // two switch cases + base
}

func TestAnalyze_AnonymousFallback(t *testing.T) {
	source := `[1, 2, 3].map(function(n) { return n + 1; });`

	findings := Analyze([]models.FileRecord{tsFile("src/anon.ts", source)})
	require.Len(t, findings, 1)
	assert.Equal(t, AnonymousFunction, findings[0].FunctionName)
}

// Nested functions report separately; the parent's count excludes the child's
// decisions.
func TestAnalyze_NestedFunctionsExcluded(t *testing.T) {
	source := `
function outer(a) {
	const inner = (b) => {
		if (b) { return 1; }
		return 0;
	};
	return inner(a);
}
`
	findings := Analyze([]models.FileRecord{tsFile("src/nested.ts", source)})
	require.Len(t, findings, 2)

	byName := map[string]int{}
	for _, f := range findings {
		byName[f.FunctionName] = f.Complexity
	}
	assert.Equal(t, 1, byName["outer"])
	assert.Equal(t, 2, byName["inner"])
}

func TestAnalyze_ReportsStartLine(t *testing.T) {
	source := "// header\n\nfunction onLineThree() { return 0; }\n"

	findings := Analyze([]models.FileRecord{tsFile("src/line.ts", source)})
	require.Len(t, findings, 1)
	assert.Equal(t, 3, findings[0].Line)
}

// A broken file is skipped; its siblings still report.
func TestAnalyze_SkipsUnparsableFile(t *testing.T) {
	files := []models.FileRecord{
		tsFile("src/broken.ts", "function ((((("),
		tsFile("src/fine.ts", "function ok() { return 1; }"),
	}

	findings := Analyze(files)
	require.Len(t, findings, 1)
	assert.Equal(t, "src/fine.ts", findings[0].FilePath)
}

func TestAnalyze_IgnoresUnsupportedAndEmptyFiles(t *testing.T) {
	files := []models.FileRecord{
		{Name: "main.go", Path: "main.go", Content: "package main", Extension: "go"},
		tsFile("src/empty.ts", ""),
	}

	assert.Empty(t, Analyze(files))
}
