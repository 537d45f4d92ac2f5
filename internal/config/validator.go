package config

import (
	"errors"
	"fmt"

	cherrors "github.com/codehawk/codehawk/internal/errors"
)

// Validate rejects out-of-range configuration before any analyzer runs.
// A validation failure is fatal at call time.
func Validate(cfg *Config) error {
	if cfg == nil {
		return cherrors.NewConfigError("config", errors.New("configuration is nil"))
	}

	if cfg.Root == "" {
		return cherrors.NewConfigError("root", errors.New("project root cannot be empty"))
	}

	t := cfg.Thresholds
	if t.MinDuplicateBlockLines <= 0 {
		return cherrors.NewConfigError("min_duplicate_block_lines",
			fmt.Errorf("must be positive, got %d", t.MinDuplicateBlockLines))
	}
	if t.MinDuplicateLines <= 0 {
		return cherrors.NewConfigError("min_duplicate_lines",
			fmt.Errorf("must be positive, got %d", t.MinDuplicateLines))
	}
	if t.MaxNestingDepth <= 0 {
		return cherrors.NewConfigError("max_nesting_depth",
			fmt.Errorf("must be positive, got %d", t.MaxNestingDepth))
	}
	if t.ComplexityHigh <= 0 || t.ComplexityMedium <= 0 {
		return cherrors.NewConfigError("complexity_thresholds",
			fmt.Errorf("must be positive, got high=%d medium=%d", t.ComplexityHigh, t.ComplexityMedium))
	}
	if t.ComplexityMedium > t.ComplexityHigh {
		return cherrors.NewConfigError("complexity_thresholds",
			fmt.Errorf("medium threshold %d exceeds high threshold %d", t.ComplexityMedium, t.ComplexityHigh))
	}

	if cfg.Discovery.MaxFileSize <= 0 {
		return cherrors.NewConfigError("max_file_size",
			fmt.Errorf("must be positive, got %d", cfg.Discovery.MaxFileSize))
	}

	for sev, w := range cfg.SeverityWeights {
		if !sev.Valid() {
			return cherrors.NewConfigError("severity_weights",
				fmt.Errorf("unknown severity %q", sev))
		}
		if w < 0 {
			return cherrors.NewConfigError("severity_weights",
				fmt.Errorf("weight for %s must be non-negative, got %v", sev, w))
		}
	}

	if cfg.EnabledCount() == 0 {
		return cherrors.NewConfigError("analyzers", errors.New("no analyzers enabled"))
	}

	return nil
}
