// Package source resolves deck-file arguments into readable inputs.
package source

import (
	"fmt"
	"path/filepath"
	"sort"
)

// Stdin is the argument that selects standard input.
const Stdin = "-"

// ExpandGlobs expands file paths and glob patterns into a sorted,
// deduplicated list. A pattern that matches nothing is kept as a literal
// path so the caller reports it as missing. Stdin passes through unchanged.
func ExpandGlobs(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var result []string

	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			result = append(result, p)
		}
	}

	for _, pattern := range patterns {
		if pattern == Stdin {
			add(pattern)
			continue
		}

		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			add(pattern)
			continue
		}
		for _, m := range matches {
			add(m)
		}
	}

	sort.Strings(result)
	return result, nil
}
