package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

type pending struct {
	dir   string
	depth int
}

// Discover lists files under root whose name ends in one of exts
// (case-insensitive, without the leading dot). The root is depth 0; a
// subdirectory is entered only while its depth stays below limit, so a limit
// of 1 lists the root's immediate children. Paths are returned sorted.
func Discover(root string, limit int, exts []string) ([]string, error) {
	if limit < 1 {
		limit = 1
	}
	suffixes := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			suffixes = append(suffixes, "."+ext)
		}
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat games directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("games directory %q is not a directory", root)
	}

	var found []string
	stack := []pending{{dir: root, depth: 0}}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := os.ReadDir(current.dir)
		if err != nil {
			if current.dir == root {
				return nil, fmt.Errorf("read games directory: %w", err)
			}
			// Unreadable subdirectories are skipped.
			continue
		}
		for _, entry := range entries {
			path := filepath.Join(current.dir, entry.Name())
			if entry.IsDir() {
				if current.depth+1 < limit {
					stack = append(stack, pending{dir: path, depth: current.depth + 1})
				}
				continue
			}
			if hasSuffix(entry.Name(), suffixes) {
				found = append(found, path)
			}
		}
	}
	sort.Strings(found)
	return found, nil
}

func hasSuffix(name string, suffixes []string) bool {
	lower := strings.ToLower(name)
	for _, suffix := range suffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}
