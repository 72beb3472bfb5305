// Package source discovers the input files a compilation will parse: the
// serial, I/O-bound first phase of the compiler pipeline. It walks each
// configured source directory with
// internal/fsutil.FindFilesByExtensionSkipping, pruning excluded
// directories (node_modules, dist, target, .git) before the walk ever
// reads their contents, and returns the remaining paths sorted
// lexicographically for deterministic, order-stable output.
package source

import (
	"path/filepath"
	"sort"

	"github.com/arc-lang/arc/internal/fsutil"
)

// Extension is the only source file suffix v1 recognizes.
const Extension = ".ts"

// Discover walks sourceDirs for files ending in Extension, pruning any
// directory whose name matches one of the exclude glob patterns, and
// returns the remaining paths deduplicated and sorted lexicographically.
func Discover(sourceDirs []string, exclude []string) ([]string, error) {
	skipDir := func(name string) bool {
		for _, pattern := range exclude {
			if ok, _ := filepath.Match(pattern, name); ok {
				return true
			}
		}
		return false
	}

	seen := make(map[string]bool)
	var files []string

	for _, dir := range sourceDirs {
		found, err := fsutil.FindFilesByExtensionSkipping(dir, Extension, skipDir)
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			if seen[f] {
				continue
			}
			seen[f] = true
			files = append(files, f)
		}
	}

	sort.Strings(files)
	return files, nil
}
