package api

import (
	"errors"
	"fmt"
)

// ErrInvalidAccessKind is returned when a descriptor declares an access kind
// other than Attribute, Text or Child.
var ErrInvalidAccessKind = errors.New("invalid access kind")

// AccessKind says where a field's value lives relative to the wrapped node.
type AccessKind int

const (
	// Attribute reads a named attribute of the node itself.
	Attribute AccessKind = iota + 1
	// Text evaluates a tree-query and returns the trimmed text of the first match.
	Text
	// Child evaluates a tree-query and wraps the matches in nested views.
	Child
)

// Valid reports whether k is one of the recognized access kinds.
func (k AccessKind) Valid() bool {
	return k == Attribute || k == Text || k == Child
}

func (k AccessKind) String() string {
	switch k {
	case Attribute:
		return "attribute"
	case Text:
		return "text"
	case Child:
		return "child"
	default:
		return fmt.Sprintf("AccessKind(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k AccessKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidAccessKind, int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *AccessKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "attribute":
		*k = Attribute
	case "text":
		*k = Text
	case "child":
		*k = Child
	default:
		return fmt.Errorf("%w: %q", ErrInvalidAccessKind, string(b))
	}
	return nil
}

// Cardinality controls how many nested views a Child field yields.
type Cardinality int

const (
	// Single yields exactly one nested view, even when nothing matched.
	Single Cardinality = iota
	// Many yields one nested view per match, in document order.
	Many
)

func (c Cardinality) String() string {
	if c == Many {
		return "many"
	}
	return "single"
}

// MarshalText implements encoding.TextMarshaler.
func (c Cardinality) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Cardinality) UnmarshalText(b []byte) error {
	switch string(b) {
	case "", "single":
		*c = Single
	case "many":
		*c = Many
	default:
		return fmt.Errorf("invalid cardinality %q", string(b))
	}
	return nil
}

// Descriptor declares one field of an entity kind.
type Descriptor struct {
	// Identifier is the field name consumers ask for.
	Identifier string `json:"identifier" yaml:"identifier"`
	// Access selects attribute, text or child resolution.
	Access AccessKind `json:"access" yaml:"access"`
	// Source is the attribute name or tree-query. Defaults to Identifier.
	Source string `json:"source" yaml:"source"`
	// Nested names the entity kind built for Child fields.
	Nested string `json:"nested,omitempty" yaml:"nested,omitempty"`
	// Cardinality is only meaningful for Child fields.
	Cardinality Cardinality `json:"cardinality,omitempty" yaml:"cardinality,omitempty"`
}
