// Package pathutil converts between the absolute paths used
// internally and the relative, slash-separated paths shown to users
// and stored on issues.
package pathutil

import (
	"path/filepath"
	"strings"
)

// ToRelative converts an absolute path to one relative to rootDir.
// Falls back to the input when conversion fails, the path is already
// relative, or the file lives outside the root.
func ToRelative(absPath, rootDir string) string {
	if absPath == "" || rootDir == "" {
		return absPath
	}
	if !filepath.IsAbs(absPath) {
		return absPath
	}

	rel, err := filepath.Rel(filepath.Clean(rootDir), filepath.Clean(absPath))
	if err != nil || strings.HasPrefix(rel, "..") {
		return absPath
	}
	return filepath.ToSlash(rel)
}

// ToAbsolute resolves a relative path against rootDir. Absolute paths
// pass through unchanged.
func ToAbsolute(relPath, rootDir string) string {
	if relPath == "" || filepath.IsAbs(relPath) {
		return relPath
	}
	return filepath.Join(rootDir, filepath.FromSlash(relPath))
}
