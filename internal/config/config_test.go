package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cherrors "github.com/codehawk/codehawk/internal/errors"
	"github.com/codehawk/codehawk/internal/types"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.True(t, cfg.Analyzers.Structure)
	assert.True(t, cfg.Analyzers.Duplication)
	assert.Equal(t, 8, cfg.EnabledCount())
	assert.Equal(t, DefaultMinDuplicateBlockLines, cfg.Thresholds.MinDuplicateBlockLines)
	assert.Equal(t, DefaultMinDuplicateLines, cfg.Thresholds.MinDuplicateLines)
	assert.Equal(t, DefaultMaxNestingDepth, cfg.Thresholds.MaxNestingDepth)
	assert.Equal(t, 10.0, cfg.Weight(types.SeverityCritical))
	assert.Equal(t, 0.5, cfg.Weight(types.SeverityInfo))
	assert.Contains(t, cfg.Discovery.IgnoreDirs, "node_modules")
	assert.Contains(t, cfg.Discovery.IgnoreDirs, "__pycache__")
}

func TestValidate_RejectsOutOfRange(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative duplicate block lines", func(c *Config) { c.Thresholds.MinDuplicateBlockLines = -1 }},
		{"zero duplicate lines", func(c *Config) { c.Thresholds.MinDuplicateLines = 0 }},
		{"negative nesting depth", func(c *Config) { c.Thresholds.MaxNestingDepth = -3 }},
		{"zero complexity high", func(c *Config) { c.Thresholds.ComplexityHigh = 0 }},
		{"medium above high", func(c *Config) { c.Thresholds.ComplexityMedium = 20 }},
		{"negative max file size", func(c *Config) { c.Discovery.MaxFileSize = -5 }},
		{"negative severity weight", func(c *Config) { c.SeverityWeights[types.SeverityHigh] = -1 }},
		{"unknown severity", func(c *Config) { c.SeverityWeights[types.Severity("urgent")] = 1 }},
		{"empty root", func(c *Config) { c.Root = "" }},
		{"all analyzers off", func(c *Config) { c.Analyzers = Analyzers{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Root = "/tmp/project"
			tt.mutate(cfg)

			err := Validate(cfg)
			require.Error(t, err)

			var ae *cherrors.AnalysisError
			require.ErrorAs(t, err, &ae)
			assert.Equal(t, cherrors.ErrorTypeConfig, ae.Type)
			assert.True(t, ae.IsFatal())
		})
	}
}

func TestValidate_AcceptsDefaults(t *testing.T) {
	cfg := Default()
	cfg.Root = "/tmp/project"
	assert.NoError(t, Validate(cfg))
}

func TestLoad_AppliesKDLOverrides(t *testing.T) {
	dir := t.TempDir()
	kdl := `
analyzers {
    duplication false
    tests false
}
thresholds {
    min_duplicate_lines 20
    complexity_high 15
}
discovery {
    ignore "vendor"
    exclude "**/generated/**"
}
severity_weights {
    high 7.5
}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".codehawk.kdl"), []byte(kdl), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.False(t, cfg.Analyzers.Duplication)
	assert.False(t, cfg.Analyzers.Tests)
	assert.True(t, cfg.Analyzers.Security, "unmentioned analyzers stay enabled")
	assert.Equal(t, 20, cfg.Thresholds.MinDuplicateLines)
	assert.Equal(t, 15, cfg.Thresholds.ComplexityHigh)
	assert.Equal(t, DefaultMaxNestingDepth, cfg.Thresholds.MaxNestingDepth, "unmentioned thresholds keep defaults")
	assert.Contains(t, cfg.Discovery.IgnoreDirs, "vendor")
	assert.Contains(t, cfg.Discovery.Exclude, "**/generated/**")
	assert.Equal(t, 7.5, cfg.Weight(types.SeverityHigh))
	assert.Equal(t, 10.0, cfg.Weight(types.SeverityCritical))
}

func TestLoad_NoConfigFile(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Root)
	assert.Equal(t, 8, cfg.EnabledCount())
}

func TestLoadFile_ExplicitPath(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(t.TempDir(), "ci.kdl")
	require.NoError(t, os.WriteFile(path, []byte("thresholds {\n    max_nesting_depth 5\n}\n"), 0644))

	cfg, err := LoadFile(root, path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Thresholds.MaxNestingDepth)
	assert.Equal(t, root, cfg.Root)

	_, err = LoadFile(root, filepath.Join(root, "absent.kdl"))
	assert.Error(t, err)
}

func TestLoad_MalformedKDL(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".codehawk.kdl"), []byte(`analyzers { unterminated`), 0644))

	_, err := Load(dir)
	assert.Error(t, err)
}
