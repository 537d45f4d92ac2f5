package parser

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// Function is one function or method collected from a parse tree.
type Function struct {
	Name       string
	StartLine  int
	EndLine    int
	Complexity int
}

// LengthLines returns the number of lines the function spans.
func (f Function) LengthLines() int {
	return f.EndLine - f.StartLine + 1
}

// Class is a class-like declaration (class, struct, trait, interface).
type Class struct {
	Name      string
	StartLine int
}

// Import is one import/use/include statement.
type Import struct {
	Name string
	Line int
}

// NestingEvent records entry into a construct deeper than the
// configured threshold.
type NestingEvent struct {
	Line  int
	Depth int
}

// SyntaxError describes a parse failure within a file.
type SyntaxError struct {
	Line    int
	Message string
}

// FileInfo is the immutable result of structurally analyzing one file.
// Shared read-only across analyzer goroutines once built.
type FileInfo struct {
	Language        string
	Functions       []Function
	Classes         []Class
	Imports         []Import
	BareHandlers    []int // lines of bare except handlers
	DeepNesting     []NestingEvent
	MaxNestingDepth int
	SyntaxError     *SyntaxError
}

// fileVisitor holds the mutable traversal state for a single file.
// A fresh visitor is constructed per file and never shared; all
// accumulated state moves into the returned FileInfo.
type fileVisitor struct {
	language        string
	content         []byte
	maxNestingDepth int

	functionKinds map[string]bool
	classKinds    map[string]bool
	importKinds   map[string]bool

	info  *FileInfo
	depth int
}

func newFileVisitor(language string, content []byte, maxNestingDepth int) *fileVisitor {
	return &fileVisitor{
		language:        language,
		content:         content,
		maxNestingDepth: maxNestingDepth,
		functionKinds:   functionKinds(language),
		classKinds:      classKinds(language),
		importKinds:     importKinds(language),
		info:            &FileInfo{Language: language},
	}
}

// visit walks the tree recursively, collecting declarations and
// nesting events. Function subtrees get a dedicated complexity walk.
func (v *fileVisitor) visit(node *tree_sitter.Node) {
	if node == nil {
		return
	}

	kind := node.Kind()
	line := int(node.StartPosition().Row) + 1

	switch {
	case v.functionKinds[kind]:
		v.info.Functions = append(v.info.Functions, Function{
			Name:       v.nodeName(node),
			StartLine:  line,
			EndLine:    int(node.EndPosition().Row) + 1,
			Complexity: v.complexityOf(node),
		})
	case v.classKinds[kind]:
		v.info.Classes = append(v.info.Classes, Class{
			Name:      v.nodeName(node),
			StartLine: line,
		})
	case v.importKinds[kind]:
		v.info.Imports = append(v.info.Imports, Import{
			Name: collapseWhitespace(string(v.content[node.StartByte():node.EndByte()])),
			Line: line,
		})
	}

	if kind == "except_clause" && isBareExcept(node) {
		v.info.BareHandlers = append(v.info.BareHandlers, line)
	}

	nesting := nestingKinds[kind]
	if nesting {
		v.depth++
		if v.depth > v.info.MaxNestingDepth {
			v.info.MaxNestingDepth = v.depth
		}
		if v.depth > v.maxNestingDepth {
			v.info.DeepNesting = append(v.info.DeepNesting, NestingEvent{Line: line, Depth: v.depth})
		}
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		v.visit(node.Child(i))
	}

	if nesting {
		v.depth--
	}
}

// complexityOf computes cyclomatic complexity for a function subtree:
// 1 + branch nodes + boolean operators + exception handlers + else
// clauses of try blocks.
func (v *fileVisitor) complexityOf(fn *tree_sitter.Node) int {
	complexity := 1
	v.walkComplexity(fn, fn, &complexity)
	return complexity
}

func (v *fileVisitor) walkComplexity(root, node *tree_sitter.Node, complexity *int) {
	if node == nil {
		return
	}

	kind := node.Kind()

	// Nested function definitions keep their own score.
	if node != root && v.functionKinds[kind] {
		return
	}

	switch {
	case branchKinds[kind]:
		*complexity++
	case handlerKinds[kind]:
		*complexity++
	case booleanOperatorKinds[kind]:
		*complexity++
	case kind == "binary_expression":
		if op := node.ChildByFieldName("operator"); op != nil {
			if text := op.Kind(); text == "&&" || text == "||" || text == "and" || text == "or" {
				*complexity++
			}
		}
	case kind == "else_clause":
		// Only else clauses attached to try blocks count.
		if parent := node.Parent(); parent != nil && strings.HasPrefix(parent.Kind(), "try") {
			*complexity++
		}
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		v.walkComplexity(root, node.Child(i), complexity)
	}
}

// nodeName extracts the declared name via the grammar's name field,
// falling back to the first identifier-like child.
func (v *fileVisitor) nodeName(node *tree_sitter.Node) string {
	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		return string(v.content[nameNode.StartByte():nameNode.EndByte()])
	}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "identifier", "name", "type_identifier", "field_identifier", "property_identifier":
			return string(v.content[child.StartByte():child.EndByte()])
		}
	}
	return "<anonymous>"
}

// isBareExcept reports whether a Python except clause names no
// exception type: its only named child is the handler body.
func isBareExcept(node *tree_sitter.Node) bool {
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child != nil && child.Kind() != "block" && child.Kind() != "comment" {
			return false
		}
	}
	return true
}

// firstErrorLine finds the first ERROR or MISSING node in a tree with
// errors and returns its 1-based line.
func firstErrorLine(node *tree_sitter.Node) int {
	if node == nil {
		return 1
	}
	if node.IsError() || node.IsMissing() {
		return int(node.StartPosition().Row) + 1
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child != nil && child.HasError() {
			return firstErrorLine(child)
		}
	}
	return int(node.StartPosition().Row) + 1
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
