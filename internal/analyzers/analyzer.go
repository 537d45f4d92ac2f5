// Package analyzers contains the individual analysis passes. Every
// analyzer consumes the same immutable Target and produces an
// independent AnalyzerResult; failures never cross analyzer borders.
package analyzers

import (
	"context"

	"go.uber.org/zap"

	"github.com/codehawk/codehawk/internal/config"
	"github.com/codehawk/codehawk/internal/parser"
	"github.com/codehawk/codehawk/internal/patterns"
	"github.com/codehawk/codehawk/internal/types"
)

// Analyzer is one analysis pass over the shared file set.
type Analyzer interface {
	Name() string
	Analyze(ctx context.Context, target *Target) (*types.AnalyzerResult, error)
}

// Target is the read-only input shared by all analyzer goroutines.
// Files and Config are never mutated during a run; Parser caches parse
// results internally behind its own lock.
type Target struct {
	Files   []types.SourceFile
	Parser  *parser.Manager
	Scanner *patterns.Scanner
	Config  *config.Config
	Logger  *zap.Logger
}

// Enabled assembles the analyzer set selected by the configuration.
func Enabled(cfg *config.Config) []Analyzer {
	var list []Analyzer
	if cfg.Analyzers.Structure {
		list = append(list, &StructureAnalyzer{})
	}
	if cfg.Analyzers.Security {
		list = append(list, &SecurityAnalyzer{})
	}
	if cfg.Analyzers.Performance {
		list = append(list, &PerformanceAnalyzer{})
	}
	if cfg.Analyzers.Complexity {
		list = append(list, &ComplexityAnalyzer{})
	}
	if cfg.Analyzers.Duplication {
		list = append(list, &DuplicationAnalyzer{})
	}
	if cfg.Analyzers.Documentation {
		list = append(list, &DocumentationAnalyzer{})
	}
	if cfg.Analyzers.Tests {
		list = append(list, &TestAnalyzer{})
	}
	if cfg.Analyzers.Dependencies {
		list = append(list, &DependencyAnalyzer{})
	}
	return list
}

// newResult initializes an AnalyzerResult covering the target's files.
func newResult(name string, target *Target) *types.AnalyzerResult {
	languages := make([]string, 0, 4)
	seen := make(map[string]bool)
	lines := 0
	for _, f := range target.Files {
		lines += f.LineCount
		if f.Language != "" && !seen[f.Language] {
			seen[f.Language] = true
			languages = append(languages, f.Language)
		}
	}
	return &types.AnalyzerResult{
		Analyzer:      name,
		Success:       true,
		Issues:        []types.Issue{},
		Metrics:       make(map[string]float64),
		FilesAnalyzed: len(target.Files),
		LinesAnalyzed: lines,
		Languages:     types.JoinLanguages(languages),
	}
}

// checkContext returns the context error, if any; analyzers call it
// between files so cancellation is observed promptly.
func checkContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
