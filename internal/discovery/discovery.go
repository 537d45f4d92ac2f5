// Package discovery walks a project tree and materializes the
// immutable source-file set the analyzers share.
package discovery

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"

	"github.com/codehawk/codehawk/internal/config"
	cherrors "github.com/codehawk/codehawk/internal/errors"
	"github.com/codehawk/codehawk/internal/types"
	"github.com/codehawk/codehawk/pkg/pathutil"
)

// Discoverer finds candidate source files under a root path.
type Discoverer struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewDiscoverer creates a discoverer for the given configuration.
func NewDiscoverer(cfg *config.Config, logger *zap.Logger) *Discoverer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Discoverer{cfg: cfg, logger: logger}
}

// Discover walks root and returns the ordered list of candidate file
// paths. It fails only if the root path does not exist; unreadable
// entries below the root are skipped.
func (d *Discoverer) Discover(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, cherrors.NewPreparationError("discover", fmt.Errorf("root path %s: %w", root, err))
	}
	if !info.IsDir() {
		return nil, cherrors.NewPreparationError("discover", fmt.Errorf("root path %s is not a directory", root))
	}

	var paths []string
	walkErr := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable directory entries do not abort discovery.
			d.logger.Warn("skipping unreadable entry", zap.String("path", path), zap.Error(err))
			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if entry.IsDir() {
			if path != root && d.shouldSkipDir(entry.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		// WalkDir does not descend into symlinked directories; skip
		// symlinked files too so loops and out-of-tree targets are
		// never followed.
		if entry.Type()&fs.ModeSymlink != 0 {
			return nil
		}

		if d.shouldSkipFile(root, path, entry) {
			return nil
		}

		paths = append(paths, path)
		return nil
	})
	if walkErr != nil {
		return nil, cherrors.NewPreparationError("discover", walkErr)
	}

	sort.Strings(paths)
	return paths, nil
}

// LoadFiles reads the discovered paths into immutable SourceFile
// values. Individual read failures are logged and skipped.
func (d *Discoverer) LoadFiles(root string, paths []string) []types.SourceFile {
	files := make([]types.SourceFile, 0, len(paths))
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			readErr := cherrors.New(cherrors.ErrorTypeFileRead, "read", err).WithFile(path)
			d.logger.Warn("skipping unreadable file", zap.Error(readErr))
			continue
		}

		text := string(content)
		files = append(files, types.SourceFile{
			Path:      path,
			RelPath:   pathutil.ToRelative(path, root),
			Language:  LanguageForPath(path),
			Content:   text,
			LineCount: countLines(text),
		})
	}
	return files
}

func (d *Discoverer) shouldSkipDir(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	for _, ignored := range d.cfg.Discovery.IgnoreDirs {
		if name == ignored {
			return true
		}
	}
	return false
}

func (d *Discoverer) shouldSkipFile(root, path string, entry fs.DirEntry) bool {
	name := entry.Name()
	if strings.HasPrefix(name, ".") {
		return true
	}
	if IsBinaryPath(path) {
		return true
	}
	if LanguageForPath(path) == "" {
		return true
	}

	if info, err := entry.Info(); err == nil && info.Size() > d.cfg.Discovery.MaxFileSize {
		d.logger.Debug("skipping oversized file",
			zap.String("path", path), zap.Int64("size", info.Size()))
		return true
	}

	if len(d.cfg.Discovery.Exclude) > 0 {
		rel := pathutil.ToRelative(path, root)
		for _, pattern := range d.cfg.Discovery.Exclude {
			matched, err := doublestar.Match(pattern, rel)
			if err != nil {
				d.logger.Warn("invalid exclude pattern",
					zap.String("pattern", pattern), zap.Error(err))
				continue
			}
			if matched {
				return true
			}
		}
	}

	return false
}

func countLines(content string) int {
	if content == "" {
		return 0
	}
	n := strings.Count(content, "\n")
	if !strings.HasSuffix(content, "\n") {
		n++
	}
	return n
}
