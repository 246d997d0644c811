package ingest

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/antchfx/xmlquery"
	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
)

// ErrDocument wraps every failure to open or parse an input document.
var ErrDocument = errors.New("document unavailable")

// Loader parses XML documents from a billy.Filesystem and keeps each one for
// its own lifetime. A path is read at most once; documents are treated as
// immutable for the duration of a generation run.
type Loader struct {
	fs     billy.Filesystem
	logger *slog.Logger

	mu   sync.Mutex
	docs map[string]*xmlquery.Node
}

// NewLoader creates a loader reading from fs. A nil logger uses slog.Default().
func NewLoader(fs billy.Filesystem, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		fs:     fs,
		logger: logger,
		docs:   make(map[string]*xmlquery.Node),
	}
}

// NewDirLoader creates a loader rooted at an OS directory.
func NewDirLoader(dir string, logger *slog.Logger) *Loader {
	return NewLoader(osfs.New(dir), logger)
}

// Load implements DocumentSource.
func (l *Loader) Load(path string) (*xmlquery.Node, error) {
	key := filepath.Clean(path)

	l.mu.Lock()
	defer l.mu.Unlock()

	if doc, ok := l.docs[key]; ok {
		return doc, nil
	}

	f, err := l.fs.Open(key)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrDocument, key, err)
	}
	defer func() { _ = f.Close() }() // read-only

	doc, err := xmlquery.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", ErrDocument, key, err)
	}

	l.docs[key] = doc
	l.logger.Debug("loaded document", "path", key)
	return doc, nil
}

// Loaded reports how many distinct documents have been parsed.
func (l *Loader) Loaded() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.docs)
}
