package config

import (
	"fmt"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// Stdin is the argument that stands for standard input.
const Stdin = "-"

// ExpandGlobs expands file paths and glob patterns into a sorted unique
// list. Patterns may use "**" to cross directories. The Stdin marker is
// passed through unchanged and kept first.
func ExpandGlobs(patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("no file patterns provided")
	}

	files := make([]string, 0)
	seen := make(map[string]struct{})
	stdin := false

	for _, pattern := range patterns {
		if pattern == Stdin {
			stdin = true
			continue
		}

		if hasGlobMeta(pattern) {
			matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
			if err != nil {
				return nil, err
			}
			if len(matches) == 0 {
				return nil, fmt.Errorf("no matches for pattern %q", pattern)
			}
			for _, match := range matches {
				if _, ok := seen[match]; ok {
					continue
				}
				seen[match] = struct{}{}
				files = append(files, match)
			}
			continue
		}

		if _, err := os.Stat(pattern); err != nil {
			return nil, err
		}
		if _, ok := seen[pattern]; ok {
			continue
		}
		seen[pattern] = struct{}{}
		files = append(files, pattern)
	}

	sort.Strings(files)
	if stdin {
		files = append([]string{Stdin}, files...)
	}
	return files, nil
}

func hasGlobMeta(s string) bool {
	for _, c := range s {
		switch c {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}
