// Package schema holds the descriptor registry of each entity kind.
//
// A Kind is declared once through a Builder and is immutable afterwards.
// Kinds are plain values owned by whoever declares them; there is no global
// registry shared between kinds.
package schema

import (
	"errors"
	"fmt"

	"github.com/agentic-research/doxmd/api"
)

var (
	ErrDuplicateField = errors.New("duplicate field")
	ErrMissingNested  = errors.New("child field without nested kind")
	ErrSealed         = errors.New("kind already built")
)

// Field is a declared descriptor plus the resolved nested kind for Child fields.
type Field struct {
	api.Descriptor
	nested *Kind
}

// NestedKind returns the kind instantiated for Child fields, nil otherwise.
func (f Field) NestedKind() *Kind {
	return f.nested
}

// Kind is a named, closed set of fields.
type Kind struct {
	name   string
	fields map[string]Field
	order  []string
}

// Name returns the kind's name.
func (k *Kind) Name() string {
	return k.name
}

// Lookup returns the field declared under identifier.
func (k *Kind) Lookup(identifier string) (Field, bool) {
	f, ok := k.fields[identifier]
	return f, ok
}

// Fields returns the declared fields in declaration order.
func (k *Kind) Fields() []Field {
	out := make([]Field, 0, len(k.order))
	for _, id := range k.order {
		out = append(out, k.fields[id])
	}
	return out
}

// Option adjusts a field while it is declared.
type Option func(*Field)

// Source overrides the attribute name or tree-query of a field.
func Source(src string) Option {
	return func(f *Field) { f.Source = src }
}

// Nested sets the kind built for a Child field.
func Nested(k *Kind) Option {
	return func(f *Field) {
		f.nested = k
		if k != nil {
			f.Nested = k.name
		}
	}
}

// Many marks a Child field as repeated.
func Many() Option {
	return func(f *Field) { f.Cardinality = api.Many }
}

// Builder accumulates declarations for one kind. The first failing
// declaration is kept and reported by Build; later ones are ignored.
type Builder struct {
	kind  *Kind
	err   error
	built bool
}

// NewKind starts the declaration of a kind.
func NewKind(name string) *Builder {
	return &Builder{kind: &Kind{name: name, fields: make(map[string]Field)}}
}

// Declare registers a field under identifier.
func (b *Builder) Declare(identifier string, access api.AccessKind, opts ...Option) *Builder {
	if b.err != nil {
		return b
	}
	if b.built {
		b.err = fmt.Errorf("%s.%s: %w", b.kind.name, identifier, ErrSealed)
		return b
	}
	if !access.Valid() {
		b.err = fmt.Errorf("%s.%s: %w: %d", b.kind.name, identifier, api.ErrInvalidAccessKind, int(access))
		return b
	}
	if _, dup := b.kind.fields[identifier]; dup {
		b.err = fmt.Errorf("%s.%s: %w", b.kind.name, identifier, ErrDuplicateField)
		return b
	}

	f := Field{Descriptor: api.Descriptor{Identifier: identifier, Access: access}}
	for _, opt := range opts {
		opt(&f)
	}
	if f.Source == "" {
		f.Source = identifier
	}
	if access == api.Child && f.nested == nil {
		b.err = fmt.Errorf("%s.%s: %w", b.kind.name, identifier, ErrMissingNested)
		return b
	}
	if access != api.Child {
		f.Nested, f.nested, f.Cardinality = "", nil, api.Single
	}

	b.kind.fields[identifier] = f
	b.kind.order = append(b.kind.order, identifier)
	return b
}

// Attribute declares an Attribute field.
func (b *Builder) Attribute(identifier string, opts ...Option) *Builder {
	return b.Declare(identifier, api.Attribute, opts...)
}

// Text declares a Text field.
func (b *Builder) Text(identifier string, opts ...Option) *Builder {
	return b.Declare(identifier, api.Text, opts...)
}

// One declares a single Child field of kind k.
func (b *Builder) One(identifier string, k *Kind, opts ...Option) *Builder {
	return b.Declare(identifier, api.Child, append([]Option{Nested(k)}, opts...)...)
}

// List declares a repeated Child field of kind k.
func (b *Builder) List(identifier string, k *Kind, opts ...Option) *Builder {
	return b.Declare(identifier, api.Child, append([]Option{Nested(k), Many()}, opts...)...)
}

// Build seals the kind. Further declarations on b fail.
func (b *Builder) Build() (*Kind, error) {
	if b.err != nil {
		return nil, b.err
	}
	b.built = true
	return b.kind, nil
}

// MustBuild is like Build but panics on a declaration error. It is meant for
// package-level kind tables so that schema mistakes stop the program at load.
func (b *Builder) MustBuild() *Kind {
	k, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("schema: %v", err))
	}
	return k
}
