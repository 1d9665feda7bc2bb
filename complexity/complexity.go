// Package complexity produces function-level cyclomatic complexity findings
// for JavaScript and TypeScript sources using tree-sitter.
package complexity

import (
	"log"
	"sort"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/codeviz-ai/codeviz/analyzer/models"
)

// AnonymousFunction is the reported name for functions without one.
const AnonymousFunction = "<anonymous>"

// languageFor maps a supported extension to its grammar. Extensions outside
// this set are not analyzed.
func languageFor(extension string) *sitter.Language {
	switch extension {
	case "js", "jsx":
		return javascript.GetLanguage()
	case "ts":
		return typescript.GetLanguage()
	case "tsx":
		return tsx.GetLanguage()
	default:
		return nil
	}
}

// functionNodeTypes are the AST nodes that open a new function scope.
var functionNodeTypes = map[string]struct{}{
	"function_declaration":           {},
	"function_expression":            {},
	"function":                       {},
	"generator_function":             {},
	"generator_function_declaration": {},
	"arrow_function":                 {},
	"method_definition":              {},
}

// decisionNodeTypes each add one path through a function.
var decisionNodeTypes = map[string]struct{}{
	"if_statement":       {},
	"for_statement":      {},
	"for_in_statement":   {},
	"while_statement":    {},
	"do_statement":       {},
	"switch_case":        {},
	"catch_clause":       {},
	"ternary_expression": {},
}

// Analyze maps each supported, non-empty file to its function findings and
// returns them flattened and sorted by complexity descending; ties keep the
// file-then-function discovery order. A file the parser cannot handle is
// logged and skipped without affecting its siblings.
func Analyze(files []models.FileRecord) []models.ComplexityFinding {
	var findings []models.ComplexityFinding

	for _, file := range files {
		lang := languageFor(file.Extension)
		if lang == nil || file.Content == "" {
			continue
		}
		findings = append(findings, analyzeFile(file, lang)...)
	}

	sort.SliceStable(findings, func(i, j int) bool {
		return findings[i].Complexity > findings[j].Complexity
	})
	return findings
}

func analyzeFile(file models.FileRecord, lang *sitter.Language) (findings []models.ComplexityFinding) {
	// One unparsable file must never abort the batch.
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Warning: could not analyze complexity for %s: %v", file.Path, r)
			findings = nil
		}
	}()

	source := []byte(file.Content)
	parser := sitter.NewParser()
	parser.SetLanguage(lang)

	tree := parser.Parse(nil, source)
	if tree == nil {
		log.Printf("Warning: could not analyze complexity for %s: parser returned no tree", file.Path)
		return nil
	}

	root := tree.RootNode()
	if root == nil || root.HasError() {
		log.Printf("Warning: could not analyze complexity for %s: source did not parse", file.Path)
		return nil
	}

	collectFunctions(root, source, file.Path, &findings)
	return findings
}

// collectFunctions walks the tree and emits one finding per function scope,
// in source order.
func collectFunctions(node *sitter.Node, source []byte, filePath string, findings *[]models.ComplexityFinding) {
	if _, ok := functionNodeTypes[node.Type()]; ok {
		*findings = append(*findings, models.ComplexityFinding{
			FilePath:     filePath,
			FunctionName: functionName(node, source),
			Complexity:   cyclomatic(node, source),
			Line:         int(node.StartPoint().Row) + 1,
		})
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		collectFunctions(node.Child(i), source, filePath, findings)
	}
}

// cyclomatic counts decision points in the function's own scope: one base
// path plus one per branch node or short-circuit operator. Nested function
// scopes are excluded; they produce their own findings.
func cyclomatic(fn *sitter.Node, source []byte) int {
	count := 1
	for i := 0; i < int(fn.ChildCount()); i++ {
		count += countDecisions(fn.Child(i), source)
	}
	return count
}

func countDecisions(node *sitter.Node, source []byte) int {
	if _, ok := functionNodeTypes[node.Type()]; ok {
		return 0
	}

	count := 0
	switch node.Type() {
	case "binary_expression":
		if op := node.ChildByFieldName("operator"); op != nil {
			switch op.Content(source) {
			case "&&", "||", "??":
				count++
			}
		}
	default:
		if _, ok := decisionNodeTypes[node.Type()]; ok {
			count++
		}
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		count += countDecisions(node.Child(i), source)
	}
	return count
}

// functionName recovers a display name for the function: its own name field
// when declared, the variable or property it is assigned to otherwise, and
// the anonymous marker as a last resort.
func functionName(fn *sitter.Node, source []byte) string {
	if name := fn.ChildByFieldName("name"); name != nil {
		return name.Content(source)
	}

	parent := fn.Parent()
	if parent == nil {
		return AnonymousFunction
	}

	switch parent.Type() {
	case "variable_declarator":
		if name := parent.ChildByFieldName("name"); name != nil {
			return name.Content(source)
		}
	case "pair":
		if key := parent.ChildByFieldName("key"); key != nil {
			return key.Content(source)
		}
	case "assignment_expression":
		if left := parent.ChildByFieldName("left"); left != nil {
			return left.Content(source)
		}
	}
	return AnonymousFunction
}
