package cmd

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/agentic-research/doxmd/internal/config"
	"github.com/agentic-research/doxmd/internal/ingest"
	"github.com/agentic-research/doxmd/internal/selector"
)

// newSelector opens the root document of c with a fresh loader, so each
// generation run sees the files as they are on disk now.
func newSelector(c *config.Config) (*selector.Selector, error) {
	if c.Input == "" {
		return nil, fmt.Errorf("no input document (pass one or set input in %s)", config.DefaultFile)
	}
	abs, err := filepath.Abs(c.Input)
	if err != nil {
		return nil, fmt.Errorf("resolving input: %w", err)
	}
	loader := ingest.NewDirLoader(filepath.Dir(abs), slog.Default())
	return selector.New(loader, filepath.Base(abs),
		selector.WithTypedefs(c.Typedefs),
		selector.WithRefSuffix(c.RefSuffix),
		selector.WithLogger(slog.Default()),
	), nil
}

// mergeInput applies a positional input argument over the loaded config.
func mergeInput(args []string) {
	if len(args) > 0 {
		cfg.Merge(&config.Config{Input: args[0]})
	}
}
