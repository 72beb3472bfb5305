// Package fsutil provides file system utility functions used by Arc's
// source discovery phase.
package fsutil

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// FindFilesByExtension recursively searches the given root path for all files ending
// with the specified extension. It returns a slice of their full paths.
func FindFilesByExtension(rootPath string, extension string) ([]string, error) {
	return FindFilesByExtensionSkipping(rootPath, extension, nil)
}

// FindFilesByExtensionSkipping behaves like FindFilesByExtension, but
// never descends into a directory for which skipDir returns true —
// letting a caller prune excluded trees (node_modules, .git, vendored
// build output) without ever reading their file names.
func FindFilesByExtensionSkipping(rootPath, extension string, skipDir func(name string) bool) ([]string, error) {
	if extension == "" {
		panic("extension must not be empty")
	}

	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != rootPath && skipDir != nil && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(d.Name(), extension) {
			files = append(files, path)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return files, nil
}
