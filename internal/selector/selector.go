// Package selector produces the top-level entity sequences of a Doxygen
// output directory: the functions, enums and structs documented by one
// compound file.
package selector

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/agentic-research/doxmd/internal/entity"
	"github.com/agentic-research/doxmd/internal/ingest"
	"github.com/agentic-research/doxmd/internal/schema"
)

const (
	functionsQuery  = "/doxygen/compounddef/sectiondef[@kind='func']/memberdef"
	enumsQuery      = "/doxygen/compounddef/sectiondef[@kind='enum']/memberdef"
	innerclassQuery = "/doxygen/compounddef/innerclass"
	compoundQuery   = "/doxygen/compounddef"

	// DefaultRefSuffix turns an innerclass refid into its sibling file name.
	DefaultRefSuffix = ".xml"
)

var (
	// ErrMissingReference means a struct referenced by the root document
	// could not be resolved. It aborts the whole selection.
	ErrMissingReference = errors.New("unresolved compound reference")
	// ErrUnknownSelection is returned by Select for names other than
	// functions, enums and structs.
	ErrUnknownSelection = errors.New("unknown selection")
)

// Selector runs the fixed queries against one root document.
type Selector struct {
	path     string
	docs     ingest.DocumentSource
	walker   ingest.Walker
	typedefs []string
	suffix   string
	logger   *slog.Logger
}

// Option configures a Selector.
type Option func(*Selector)

// WithTypedefs overrides the struct names classified as typedefs.
func WithTypedefs(names []string) Option {
	return func(s *Selector) { s.typedefs = names }
}

// WithRefSuffix overrides the suffix appended to innerclass refids.
func WithRefSuffix(suffix string) Option {
	return func(s *Selector) { s.suffix = suffix }
}

// WithLogger sets the logger used for selection diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(s *Selector) { s.logger = l }
}

// New creates a selector over the document at path, loaded through docs.
func New(docs ingest.DocumentSource, path string, opts ...Option) *Selector {
	s := &Selector{
		path:   path,
		docs:   docs,
		walker: ingest.DefaultWalker(),
		suffix: DefaultRefSuffix,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the root document path.
func (s *Selector) Path() string {
	return s.path
}

// SelectFunctions returns one Function view per documented function.
func (s *Selector) SelectFunctions() ([]*entity.View, error) {
	return s.selectRoot(functionsQuery, entity.Function)
}

// SelectEnums returns one Enum view per documented enum.
func (s *Selector) SelectEnums() ([]*entity.View, error) {
	return s.selectRoot(enumsQuery, entity.Enum)
}

func (s *Selector) selectRoot(query string, k *schema.Kind) ([]*entity.View, error) {
	doc, err := s.docs.Load(s.path)
	if err != nil {
		return nil, err
	}
	nodes, err := s.walker.Query(doc, query)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", k.Name(), err)
	}
	views := make([]*entity.View, 0, len(nodes))
	for _, n := range nodes {
		views = append(views, entity.NewViewWithWalker(k, n, s.walker))
	}
	s.logger.Debug("selected", "kind", k.Name(), "count", len(views), "path", s.path)
	return views, nil
}

// SelectStructs resolves every innerclass reference of the root document to
// the compounddef of its sibling file, in reference order. Any unresolvable
// reference fails the whole call.
func (s *Selector) SelectStructs() ([]*entity.Struct, error) {
	doc, err := s.docs.Load(s.path)
	if err != nil {
		return nil, err
	}
	refs, err := s.walker.Query(doc, innerclassQuery)
	if err != nil {
		return nil, fmt.Errorf("select structs: %w", err)
	}

	dir := filepath.Dir(s.path)
	structs := make([]*entity.Struct, 0, len(refs))
	for _, ref := range refs {
		refid, _ := ingest.Attr(ref, "refid")
		if refid == "" {
			return nil, fmt.Errorf("%w: innerclass without refid in %s", ErrMissingReference, s.path)
		}
		inner := filepath.Join(dir, refid+s.suffix)

		innerDoc, err := s.docs.Load(inner)
		if err != nil {
			return nil, fmt.Errorf("%w: %s (%s): %w", ErrMissingReference, refid, inner, err)
		}
		compound, err := s.walker.First(innerDoc, compoundQuery)
		if err != nil {
			return nil, fmt.Errorf("select struct %s: %w", refid, err)
		}
		if compound == nil {
			return nil, fmt.Errorf("%w: %s (%s): no compounddef", ErrMissingReference, refid, inner)
		}
		structs = append(structs, entity.NewStruct(compound, s.typedefs))
	}
	s.logger.Debug("selected", "kind", entity.StructKind.Name(), "count", len(structs), "path", s.path)
	return structs, nil
}

// Select dispatches by name so templates can ask for a sequence without
// knowing the Go method: "functions", "enums" or "structs".
func (s *Selector) Select(name string) (any, error) {
	switch name {
	case "functions":
		return s.SelectFunctions()
	case "enums":
		return s.SelectEnums()
	case "structs":
		return s.SelectStructs()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSelection, name)
	}
}
