package ingest

import (
	"fmt"
	"sync"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

// XMLWalker implements Walker with XPath over xmlquery trees.
// Compiled expressions are shared; query results are never cached.
type XMLWalker struct {
	exprs sync.Map // selector -> *xpath.Expr
}

func NewXMLWalker() *XMLWalker {
	return &XMLWalker{}
}

var defaultWalker = NewXMLWalker()

// DefaultWalker returns the process-wide walker.
func DefaultWalker() *XMLWalker {
	return defaultWalker
}

func (w *XMLWalker) compile(selector string) (*xpath.Expr, error) {
	if e, ok := w.exprs.Load(selector); ok {
		return e.(*xpath.Expr), nil
	}
	e, err := xpath.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid xpath '%s': %w", selector, err)
	}
	actual, _ := w.exprs.LoadOrStore(selector, e)
	return actual.(*xpath.Expr), nil
}

// Query implements Walker.
func (w *XMLWalker) Query(root *xmlquery.Node, selector string) ([]*xmlquery.Node, error) {
	expr, err := w.compile(selector)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, nil
	}
	return xmlquery.QuerySelectorAll(root, expr), nil
}

// First implements Walker.
func (w *XMLWalker) First(root *xmlquery.Node, selector string) (*xmlquery.Node, error) {
	expr, err := w.compile(selector)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, nil
	}
	return xmlquery.QuerySelector(root, expr), nil
}

// Attr returns the value of the named attribute on n. The boolean is false
// when n is nil or carries no such attribute, which keeps an absent attribute
// distinguishable from an empty one.
func Attr(n *xmlquery.Node, name string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Name.Local == name && a.Name.Space == "" {
			return a.Value, true
		}
		if a.Name.Space != "" && a.Name.Space+":"+a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}
