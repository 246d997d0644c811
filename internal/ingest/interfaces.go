package ingest

import "github.com/antchfx/xmlquery"

// Walker abstracts the tree-query engine used by entity views and selectors.
// It provides a single way to run a path-style selector relative to a node.
type Walker interface {
	// Query executes a selector against root and returns the matches in document order.
	// A nil root matches nothing and is not an error.
	Query(root *xmlquery.Node, selector string) ([]*xmlquery.Node, error)

	// First returns the first match of selector, or nil when nothing matches.
	First(root *xmlquery.Node, selector string) (*xmlquery.Node, error)
}

// DocumentSource loads parsed documents by path.
type DocumentSource interface {
	// Load returns the document node for path. Implementations may memoize.
	Load(path string) (*xmlquery.Node, error)
}
