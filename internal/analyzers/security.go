package analyzers

import (
	"context"

	"github.com/codehawk/codehawk/internal/patterns"
	"github.com/codehawk/codehawk/internal/types"
)

// SecurityAnalyzer matches the security rule table against raw file
// content. Text-based and best-effort: false positives and negatives
// are expected and reflected in per-rule confidence values.
type SecurityAnalyzer struct{}

func (a *SecurityAnalyzer) Name() string { return "security" }

func (a *SecurityAnalyzer) Analyze(ctx context.Context, target *Target) (*types.AnalyzerResult, error) {
	result := newResult(a.Name(), target)

	for _, file := range target.Files {
		if err := checkContext(ctx); err != nil {
			return nil, err
		}
		result.Issues = append(result.Issues, target.Scanner.Scan(file, patterns.CategorySecurity)...)
	}

	result.Metrics["security_findings"] = float64(len(result.Issues))
	return result, nil
}

// PerformanceAnalyzer matches the performance rule table against raw
// file content. Same engine as security scanning, different category.
type PerformanceAnalyzer struct{}

func (a *PerformanceAnalyzer) Name() string { return "performance" }

func (a *PerformanceAnalyzer) Analyze(ctx context.Context, target *Target) (*types.AnalyzerResult, error) {
	result := newResult(a.Name(), target)

	for _, file := range target.Files {
		if err := checkContext(ctx); err != nil {
			return nil, err
		}
		result.Issues = append(result.Issues, target.Scanner.Scan(file, patterns.CategoryPerformance)...)
	}

	result.Metrics["performance_findings"] = float64(len(result.Issues))
	return result, nil
}
