package orchestrator

import (
	"fmt"
	"sort"

	"github.com/codehawk/codehawk/internal/types"
)

// adviceByType maps issue types to remediation guidance used when
// ranking recommendations. Types without an entry fall back to a
// generic message.
var adviceByType = map[string]string{
	"syntax_error":    "Fix files that fail to parse; they are invisible to structural analysis",
	"bare_except":     "Replace bare exception handlers with specific exception types",
	"deep_nesting":    "Flatten deeply nested control flow with early returns or extracted functions",
	"high_complexity": "Break up high-complexity functions along their branching structure",
	"duplicate_block": "Extract duplicated blocks into shared functions",
	"no_tests":        "Add a test suite, starting with the most complex modules",
	"low_test_ratio":  "Grow the test suite alongside new code",
	"low_doc_coverage": "Document public functions in low-coverage files",
	"missing_manifest": "Pin dependencies in a manifest file",
}

const maxRecommendations = 5

// recommend ranks issue types by severity-weighted count and emits
// actionable guidance for the worst offenders. Deterministic: ties
// break on type name.
func recommend(issues []types.Issue, results map[string]*types.AnalyzerResult) []string {
	if len(issues) == 0 {
		if anyFailed(results) {
			return []string{"Re-run analysis: one or more analyzers failed to complete"}
		}
		return []string{"No issues found; keep the current quality bar"}
	}

	type bucket struct {
		issueType string
		count     int
		weight    float64
	}
	buckets := make(map[string]*bucket)
	for _, issue := range issues {
		b, ok := buckets[issue.Type]
		if !ok {
			b = &bucket{issueType: issue.Type}
			buckets[issue.Type] = b
		}
		b.count++
		b.weight += types.DefaultSeverityWeights[issue.Severity]
	}

	ranked := make([]*bucket, 0, len(buckets))
	for _, b := range buckets {
		ranked = append(ranked, b)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].weight != ranked[j].weight {
			return ranked[i].weight > ranked[j].weight
		}
		return ranked[i].issueType < ranked[j].issueType
	})

	var recommendations []string
	for _, b := range ranked {
		if len(recommendations) >= maxRecommendations {
			break
		}
		advice, ok := adviceByType[b.issueType]
		if !ok {
			advice = fmt.Sprintf("Review the %s findings", b.issueType)
		}
		recommendations = append(recommendations, fmt.Sprintf("%s (%d finding(s))", advice, b.count))
	}

	if anyFailed(results) {
		recommendations = append(recommendations, "Re-run analysis: one or more analyzers failed to complete")
	}

	return recommendations
}

func anyFailed(results map[string]*types.AnalyzerResult) bool {
	for _, res := range results {
		if res != nil && !res.Success {
			return true
		}
	}
	return false
}
