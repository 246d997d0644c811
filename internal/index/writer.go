// Package index stores selected entities in a SQLite database so generated
// reference documentation can be queried without re-reading the XML.
package index

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/ohler55/ojg/oj"
	_ "modernc.org/sqlite"

	"github.com/agentic-research/doxmd/internal/entity"
	"github.com/agentic-research/doxmd/internal/selector"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS entities (
	id TEXT PRIMARY KEY,
	kind TEXT NOT NULL,
	name TEXT,
	parent_id TEXT,
	file TEXT,
	line INTEGER,
	brief TEXT,
	record JSON
);
`

// Writer inserts entities inside a single transaction. Nothing is visible to
// other connections until Close commits.
type Writer struct {
	db     *sql.DB
	tx     *sql.Tx
	stmt   *sql.Stmt
	count  int
	logger *slog.Logger
	mu     sync.Mutex
}

// NewWriter opens (or creates) the database at dbPath.
func NewWriter(dbPath string, logger *slog.Logger) (*Writer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}

	if _, err := db.Exec("PRAGMA journal_mode = MEMORY"); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	w := &Writer{db: db, logger: logger}
	if w.tx, err = db.Begin(); err != nil {
		_ = db.Close()
		return nil, err
	}
	w.stmt, err = w.tx.Prepare(`
		INSERT OR REPLACE INTO entities (id, kind, name, parent_id, file, line, brief, record)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		_ = w.tx.Rollback()
		_ = db.Close()
		return nil, err
	}
	return w, nil
}

// Add exports v and stores it under parentID (empty for top-level entities).
// Members and enum values are stored as their own rows pointing back at v.
func (w *Writer) Add(v *entity.View, parentID string) error {
	record, err := entity.Export(v)
	if err != nil {
		return err
	}
	return w.add(v, record, parentID)
}

// AddStruct is Add for struct views, recording the typedef flag.
func (w *Writer) AddStruct(s *entity.Struct) error {
	record, err := entity.ExportStruct(s)
	if err != nil {
		return err
	}
	return w.add(s.View, record, "")
}

func (w *Writer) add(v *entity.View, record map[string]any, parentID string) error {
	id, _ := record["id"].(string)
	if id == "" {
		return fmt.Errorf("index %s: entity without id", v.Kind().Name())
	}

	var file, line any
	if loc, ok := record["location"].(map[string]any); ok {
		file = loc["file"]
		if s, ok := loc["line"].(string); ok {
			if n, err := strconv.Atoi(s); err == nil {
				line = n
			}
		}
	}
	var parent any
	if parentID != "" {
		parent = parentID
	}

	w.mu.Lock()
	_, err := w.stmt.Exec(id, v.Kind().Name(), record["name"], parent, file, line, record["briefdescription"],
		oj.JSON(record, &oj.Options{Sort: true}))
	if err == nil {
		w.count++
	}
	w.mu.Unlock()
	if err != nil {
		return fmt.Errorf("index %s %s: %w", v.Kind().Name(), id, err)
	}

	for _, field := range []string{"member", "enumvalue"} {
		if _, declared := v.Kind().Lookup(field); !declared {
			continue
		}
		children, err := v.Many(field)
		if err != nil {
			return err
		}
		for _, c := range children {
			if err := w.Add(c, id); err != nil {
				return err
			}
		}
	}
	return nil
}

// AddSelection indexes every function, enum and struct of sel.
func (w *Writer) AddSelection(sel *selector.Selector) error {
	fns, err := sel.SelectFunctions()
	if err != nil {
		return err
	}
	enums, err := sel.SelectEnums()
	if err != nil {
		return err
	}
	structs, err := sel.SelectStructs()
	if err != nil {
		return err
	}

	for _, v := range append(fns, enums...) {
		if err := w.Add(v, ""); err != nil {
			return err
		}
	}
	for _, s := range structs {
		if err := w.AddStruct(s); err != nil {
			return err
		}
	}
	return nil
}

// Count returns the number of rows written so far.
func (w *Writer) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

// Close commits the transaction and closes the database.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	_ = w.stmt.Close()
	if err := w.tx.Commit(); err != nil {
		_ = w.db.Close()
		return fmt.Errorf("commit: %w", err)
	}
	if _, err := w.db.Exec(`CREATE INDEX IF NOT EXISTS idx_kind_name ON entities(kind, name)`); err != nil {
		w.logger.Warn("index creation failed", "err", err)
	}
	w.logger.Debug("index written", "rows", w.count)
	return w.db.Close()
}

// Abort rolls back everything written by w.
func (w *Writer) Abort() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	_ = w.stmt.Close()
	_ = w.tx.Rollback()
	return w.db.Close()
}
