// Package render executes documentation templates against the entities of a
// Doxygen document.
package render

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/agentic-research/doxmd/internal/entity"
	"github.com/agentic-research/doxmd/internal/examples"
	"github.com/agentic-research/doxmd/internal/selector"
)

// Options configures a Renderer.
type Options struct {
	// GitHub switches templates to GitHub-flavoured output.
	GitHub bool
	// Examples maps example keys (see examples.Key) to file paths.
	Examples map[string]string
	Logger   *slog.Logger
}

// Context is the template's dot.
type Context struct {
	*selector.Selector
	GitHub   bool
	Examples map[string]string
}

// Renderer holds a parsed template bound to one selector.
type Renderer struct {
	tmpl   *template.Template
	ctx    *Context
	logger *slog.Logger
}

// New parses text as the template called name.
func New(name, text string, sel *selector.Selector, opts Options) (*Renderer, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ctx := &Context{Selector: sel, GitHub: opts.GitHub, Examples: opts.Examples}
	if ctx.Examples == nil {
		ctx.Examples = map[string]string{}
	}

	tmpl, err := template.New(name).Funcs(funcs(ctx)).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}
	return &Renderer{tmpl: tmpl, ctx: ctx, logger: logger}, nil
}

// NewFromFile parses the template at path.
func NewFromFile(path string, sel *selector.Selector, opts Options) (*Renderer, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}
	return New(filepath.Base(path), string(text), sel, opts)
}

// Execute renders into w. Any error, including a field that the view's kind
// never declared, aborts execution.
func (r *Renderer) Execute(w io.Writer) error {
	if err := r.tmpl.Execute(w, r.ctx); err != nil {
		return fmt.Errorf("render %s: %w", r.tmpl.Name(), err)
	}
	return nil
}

// RenderFile renders into path. The file is replaced atomically and only
// once rendering succeeded, so a failed run never leaves partial output.
func (r *Renderer) RenderFile(path string) error {
	var buf bytes.Buffer
	if err := r.Execute(&buf); err != nil {
		return err
	}
	if err := writeFileAtomic(path, buf.Bytes()); err != nil {
		return err
	}
	r.logger.Info("rendered", "template", r.tmpl.Name(), "output", path, "bytes", buf.Len())
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".doxmd-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName) // best-effort cleanup
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName) // best-effort cleanup
		return fmt.Errorf("close temp: %w", err)
	}
	_ = os.Chmod(tmpName, 0o644)

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName) // best-effort cleanup
		return fmt.Errorf("rename temp to %s: %w", path, err)
	}
	return nil
}

func funcs(ctx *Context) template.FuncMap {
	return template.FuncMap{
		"select": func(name string) (any, error) {
			if ctx.Selector == nil {
				return nil, fmt.Errorf("select %s: no document", name)
			}
			return ctx.Select(name)
		},
		"get": get,
		"github": func() bool {
			return ctx.GitHub
		},
		"example": func(key string) (string, error) {
			p, ok := ctx.Examples[key]
			if !ok {
				return "", fmt.Errorf("no example %q", key)
			}
			return p, nil
		},
		"include": func(path string) (string, error) {
			b, err := os.ReadFile(path)
			if err != nil {
				return "", err
			}
			return string(b), nil
		},
		"snippet": examples.Snippet,
		"trim":    strings.TrimSpace,
		"join": func(sep string, items []string) string {
			return strings.Join(items, sep)
		},
		"default": func(def, v any) any {
			switch x := v.(type) {
			case nil:
				return def
			case string:
				if x == "" {
					return def
				}
			}
			return v
		},
	}
}

// get is Get for templates that hold a view in a variable or pipeline.
func get(v any, field string) (any, error) {
	switch x := v.(type) {
	case *entity.View:
		return x.Get(field)
	case *entity.Struct:
		return x.Get(field)
	default:
		return nil, fmt.Errorf("get %s: not an entity view (%T)", field, v)
	}
}
