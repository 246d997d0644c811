// Package examples exposes example source files to documentation templates.
package examples

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Example is one discovered example source.
type Example struct {
	// Key is "<basename>_<ext>", e.g. "getopts_c" for getopts.c.
	Key string
	// Path is the file path, joined onto the discovery directory.
	Path string
}

// Key derives the template key of an example file name.
func Key(name string) string {
	base := filepath.Base(name)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if ext == "" {
		return stem
	}
	return stem + "_" + strings.TrimPrefix(ext, ".")
}

// Discover returns the files under dir matching pattern, sorted by path.
// Two files mapping to the same key are an error.
func Discover(dir, pattern string) ([]Example, error) {
	if dir == "" {
		return nil, nil
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid example pattern %q", pattern)
	}

	matches, err := doublestar.Glob(os.DirFS(dir), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob %s in %s: %w", pattern, dir, err)
	}
	sort.Strings(matches)

	seen := make(map[string]string, len(matches))
	out := make([]Example, 0, len(matches))
	for _, m := range matches {
		k := Key(m)
		if prev, dup := seen[k]; dup {
			return nil, fmt.Errorf("examples %s and %s share key %q", prev, m, k)
		}
		seen[k] = m
		out = append(out, Example{Key: k, Path: filepath.Join(dir, filepath.FromSlash(m))})
	}
	return out, nil
}

// Index maps example keys to paths.
func Index(examples []Example) map[string]string {
	idx := make(map[string]string, len(examples))
	for _, e := range examples {
		idx[e.Key] = e.Path
	}
	return idx
}
