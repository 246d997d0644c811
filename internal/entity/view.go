// Package entity resolves schema-declared fields against Doxygen XML nodes.
//
// A View pairs an entity kind with one node of a parsed document. Field
// access goes through Get, which looks the identifier up in the kind's
// descriptor table and dispatches on the declared access kind. Nothing is
// cached: every call re-evaluates its query against the wrapped node.
package entity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agentic-research/doxmd/api"
	"github.com/agentic-research/doxmd/internal/ingest"
	"github.com/agentic-research/doxmd/internal/schema"
	"github.com/antchfx/xmlquery"
)

// ErrUnknownField is returned when a field is requested that the view's kind
// never declared.
var ErrUnknownField = errors.New("field not declared")

// FieldError reports a failed field access on a view.
type FieldError struct {
	Kind  string
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s.%s: %v", e.Kind, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// View is a lazy, schema-typed wrapper over one node. The node may be nil,
// in which case every field resolves to an absent value.
type View struct {
	kind   *schema.Kind
	node   *xmlquery.Node
	walker ingest.Walker
}

// NewView wraps node as an entity of kind k.
func NewView(k *schema.Kind, node *xmlquery.Node) *View {
	return NewViewWithWalker(k, node, ingest.DefaultWalker())
}

// NewViewWithWalker is NewView with an explicit tree-query engine.
func NewViewWithWalker(k *schema.Kind, node *xmlquery.Node, w ingest.Walker) *View {
	return &View{kind: k, node: node, walker: w}
}

// Kind returns the view's entity kind.
func (v *View) Kind() *schema.Kind {
	return v.kind
}

// Node returns the wrapped node, nil when absent.
func (v *View) Node() *xmlquery.Node {
	return v.node
}

// Present reports whether the view wraps an actual node.
func (v *View) Present() bool {
	return v.node != nil
}

// Get resolves identifier. The result is
//
//   - string or nil for Attribute and Text fields,
//   - *View for single Child fields (never nil),
//   - []*View for repeated Child fields (never nil).
//
// Asking for an undeclared identifier returns a *FieldError wrapping
// ErrUnknownField.
func (v *View) Get(identifier string) (any, error) {
	f, ok := v.kind.Lookup(identifier)
	if !ok {
		return nil, v.fieldErr(identifier, ErrUnknownField)
	}

	switch f.Access {
	case api.Attribute:
		if s, ok := ingest.Attr(v.node, f.Source); ok {
			return s, nil
		}
		return nil, nil
	case api.Text:
		s, ok, err := v.text(f)
		if err != nil || !ok {
			return nil, err
		}
		return s, nil
	case api.Child:
		if f.Cardinality == api.Many {
			return v.many(f)
		}
		return v.one(f)
	default:
		return nil, v.fieldErr(identifier, fmt.Errorf("%w: %v", api.ErrInvalidAccessKind, f.Access))
	}
}

func (v *View) text(f schema.Field) (string, bool, error) {
	n, err := v.walker.First(v.node, f.Source)
	if err != nil {
		return "", false, v.fieldErr(f.Identifier, err)
	}
	if n == nil {
		return "", false, nil
	}
	return strings.TrimSpace(n.InnerText()), true, nil
}

func (v *View) one(f schema.Field) (*View, error) {
	n, err := v.walker.First(v.node, f.Source)
	if err != nil {
		return nil, v.fieldErr(f.Identifier, err)
	}
	return NewViewWithWalker(f.NestedKind(), n, v.walker), nil
}

func (v *View) many(f schema.Field) ([]*View, error) {
	nodes, err := v.walker.Query(v.node, f.Source)
	if err != nil {
		return nil, v.fieldErr(f.Identifier, err)
	}
	out := make([]*View, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, NewViewWithWalker(f.NestedKind(), n, v.walker))
	}
	return out, nil
}

func (v *View) fieldErr(identifier string, err error) error {
	return &FieldError{Kind: v.kind.Name(), Field: identifier, Err: err}
}

// Text resolves an Attribute or Text field. The boolean is false when the
// value is absent.
func (v *View) Text(identifier string) (string, bool, error) {
	val, err := v.Get(identifier)
	if err != nil {
		return "", false, err
	}
	switch s := val.(type) {
	case nil:
		return "", false, nil
	case string:
		return s, true, nil
	default:
		return "", false, v.fieldErr(identifier, fmt.Errorf("not a scalar field (%T)", val))
	}
}

// Scalar resolves a scalar field, returning "" when it is absent.
func (v *View) Scalar(identifier string) (string, error) {
	s, _, err := v.Text(identifier)
	return s, err
}

// One resolves a single Child field.
func (v *View) One(identifier string) (*View, error) {
	val, err := v.Get(identifier)
	if err != nil {
		return nil, err
	}
	child, ok := val.(*View)
	if !ok {
		return nil, v.fieldErr(identifier, fmt.Errorf("not a single child field (%T)", val))
	}
	return child, nil
}

// Many resolves a repeated Child field.
func (v *View) Many(identifier string) ([]*View, error) {
	val, err := v.Get(identifier)
	if err != nil {
		return nil, err
	}
	children, ok := val.([]*View)
	if !ok {
		return nil, v.fieldErr(identifier, fmt.Errorf("not a repeated child field (%T)", val))
	}
	return children, nil
}
