package config

import (
	"os"
	"path/filepath"

	"github.com/codehawk/codehawk/internal/types"
)

// Default threshold constants. These exact values define the default
// analysis behavior and are kept as named constants so overrides in
// configuration are explicit rather than magic literals.
const (
	DefaultMinDuplicateBlockLines = 6
	DefaultMinDuplicateLines      = 10
	DefaultMaxNestingDepth        = 3
	DefaultComplexityHigh         = 10
	DefaultComplexityMedium       = 6
	DefaultMaxFileSize            = 10 * 1024 * 1024
)

// Analyzers toggles each analyzer on or off. All enabled by default.
type Analyzers struct {
	Structure     bool // structural/AST analysis (syntax errors, nesting, bare handlers)
	Security      bool
	Performance   bool
	Complexity    bool
	Duplication   bool
	Documentation bool
	Tests         bool
	Dependencies  bool
}

// Thresholds holds the numeric knobs of the analyzers.
type Thresholds struct {
	MinDuplicateBlockLines int // blocks shorter than this are never candidates
	MinDuplicateLines      int // duplicate groups must span at least this many lines
	MaxNestingDepth        int // deeper nesting is reported
	ComplexityHigh         int // per-function complexity above this is high severity
	ComplexityMedium       int // above this (up to high) is medium severity
}

// Discovery controls the file walk.
type Discovery struct {
	IgnoreDirs  []string // directory basenames skipped entirely
	Exclude     []string // doublestar glob patterns, matched against relative paths
	MaxFileSize int64    // larger files are skipped
}

// Config is the full analysis configuration, corresponding to one run.
type Config struct {
	Root            string
	Analyzers       Analyzers
	Thresholds      Thresholds
	Discovery       Discovery
	SeverityWeights map[types.Severity]float64
	PatternFiles    []string // optional TOML rule files layered over built-ins
}

// Default returns the configuration used when no file or overrides are
// present: every analyzer enabled, documented default thresholds.
func Default() *Config {
	return &Config{
		Analyzers: Analyzers{
			Structure:     true,
			Security:      true,
			Performance:   true,
			Complexity:    true,
			Duplication:   true,
			Documentation: true,
			Tests:         true,
			Dependencies:  true,
		},
		Thresholds: Thresholds{
			MinDuplicateBlockLines: DefaultMinDuplicateBlockLines,
			MinDuplicateLines:      DefaultMinDuplicateLines,
			MaxNestingDepth:        DefaultMaxNestingDepth,
			ComplexityHigh:         DefaultComplexityHigh,
			ComplexityMedium:       DefaultComplexityMedium,
		},
		Discovery: Discovery{
			IgnoreDirs:  []string{"__pycache__", "venv", "env", "node_modules", "build", "dist"},
			MaxFileSize: DefaultMaxFileSize,
		},
		SeverityWeights: copyWeights(types.DefaultSeverityWeights),
	}
}

// Load builds the configuration for projectRoot: defaults, overlaid
// with .codehawk.kdl if one exists in the root.
func Load(projectRoot string) (*Config, error) {
	cfg := Default()

	absRoot, err := filepath.Abs(projectRoot)
	if err == nil {
		cfg.Root = absRoot
	} else {
		cfg.Root = projectRoot
	}

	kdlPath := filepath.Join(cfg.Root, ".codehawk.kdl")
	if _, err := os.Stat(kdlPath); err == nil {
		if err := applyKDL(cfg, kdlPath); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// LoadFile builds the configuration for projectRoot from an explicit
// KDL file, bypassing the default .codehawk.kdl lookup. The file must
// exist.
func LoadFile(projectRoot, configPath string) (*Config, error) {
	cfg := Default()

	absRoot, err := filepath.Abs(projectRoot)
	if err == nil {
		cfg.Root = absRoot
	} else {
		cfg.Root = projectRoot
	}

	if err := applyKDL(cfg, configPath); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Weight returns the score penalty for a severity, falling back to the
// documented defaults when the configured map lacks the level.
func (c *Config) Weight(s types.Severity) float64 {
	if w, ok := c.SeverityWeights[s]; ok {
		return w
	}
	return types.DefaultSeverityWeights[s]
}

// EnabledCount returns how many analyzers are switched on.
func (c *Config) EnabledCount() int {
	n := 0
	for _, on := range []bool{
		c.Analyzers.Structure, c.Analyzers.Security, c.Analyzers.Performance,
		c.Analyzers.Complexity, c.Analyzers.Duplication, c.Analyzers.Documentation,
		c.Analyzers.Tests, c.Analyzers.Dependencies,
	} {
		if on {
			n++
		}
	}
	return n
}

func copyWeights(src map[types.Severity]float64) map[types.Severity]float64 {
	dst := make(map[types.Severity]float64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
