package discovery

import (
	"path/filepath"
	"strings"
)

// extensionLanguages maps file extensions to the language name used
// throughout the pipeline. Languages without a structural parser are
// still discovered; analyzers fall back to text heuristics for them.
var extensionLanguages = map[string]string{
	".py":    "python",
	".js":    "javascript",
	".jsx":   "javascript",
	".mjs":   "javascript",
	".ts":    "typescript",
	".tsx":   "typescript",
	".java":  "java",
	".go":    "go",
	".rs":    "rust",
	".c":     "cpp",
	".cc":    "cpp",
	".cxx":   "cpp",
	".cpp":   "cpp",
	".h":     "cpp",
	".hpp":   "cpp",
	".cs":    "csharp",
	".php":   "php",
	".phtml": "php",
	".zig":   "zig",
	".rb":    "ruby",
	".kt":    "kotlin",
	".swift": "swift",
}

// binaryExtensions lists extensions skipped without reading content.
// Fast-path filter; no magic-number sniffing needed for the analyzer
// use case since unknown extensions are already excluded.
var binaryExtensions = map[string]bool{
	".exe": true, ".dll": true, ".so": true, ".dylib": true, ".a": true,
	".o": true, ".obj": true, ".bin": true, ".png": true, ".jpg": true,
	".jpeg": true, ".gif": true, ".ico": true, ".pdf": true, ".zip": true,
	".tar": true, ".gz": true, ".jar": true, ".class": true, ".pyc": true,
	".wasm": true, ".db": true, ".sqlite": true,
}

// LanguageForPath returns the pipeline language for a file path, or
// empty string if the extension is not recognized.
func LanguageForPath(path string) string {
	return extensionLanguages[strings.ToLower(filepath.Ext(path))]
}

// IsBinaryPath reports whether the extension marks a binary artifact.
func IsBinaryPath(path string) bool {
	return binaryExtensions[strings.ToLower(filepath.Ext(path))]
}
