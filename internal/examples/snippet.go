package examples

import (
	"context"
	"errors"
	"fmt"
	"os"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
)

// ErrNoSuchFunction is returned when a snippet names a function the file does
// not define.
var ErrNoSuchFunction = errors.New("function not defined")

// Snippet returns the source text of the C function definition called name
// in the file at path.
func Snippet(path, name string) (string, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return SnippetFromSource(src, name)
}

// SnippetFromSource is Snippet over an in-memory C source.
func SnippetFromSource(src []byte, name string) (string, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(c.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return "", fmt.Errorf("parse C source: %w", err)
	}
	defer tree.Close()

	if n := findFunction(tree.RootNode(), src, name); n != nil {
		return n.Content(src), nil
	}
	return "", fmt.Errorf("%w: %s", ErrNoSuchFunction, name)
}

// Functions lists the names of all function definitions in src, in source order.
func Functions(src []byte) ([]string, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(c.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse C source: %w", err)
	}
	defer tree.Close()

	var names []string
	walkDefinitions(tree.RootNode(), func(def *sitter.Node) bool {
		if n := declaredName(def.ChildByFieldName("declarator"), src); n != "" {
			names = append(names, n)
		}
		return true
	})
	return names, nil
}

func findFunction(root *sitter.Node, src []byte, name string) *sitter.Node {
	var found *sitter.Node
	walkDefinitions(root, func(def *sitter.Node) bool {
		if declaredName(def.ChildByFieldName("declarator"), src) == name {
			found = def
			return false
		}
		return true
	})
	return found
}

// walkDefinitions calls fn for every function_definition, descending into
// preprocessor blocks but not into function bodies. It stops when fn
// returns false.
func walkDefinitions(n *sitter.Node, fn func(*sitter.Node) bool) bool {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child == nil {
			continue
		}
		if child.Type() == "function_definition" {
			if !fn(child) {
				return false
			}
			continue
		}
		if !walkDefinitions(child, fn) {
			return false
		}
	}
	return true
}

// declaredName unwraps pointer, function and parenthesized declarators down
// to the identifier.
func declaredName(d *sitter.Node, src []byte) string {
	for d != nil {
		switch d.Type() {
		case "identifier":
			return d.Content(src)
		case "function_declarator", "pointer_declarator", "parenthesized_declarator", "attributed_declarator":
			next := d.ChildByFieldName("declarator")
			if next == nil && d.NamedChildCount() > 0 {
				next = d.NamedChild(0)
			}
			d = next
		default:
			return ""
		}
	}
	return ""
}
