package analyzers

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/hbollon/go-edlib"

	"github.com/codehawk/codehawk/internal/types"
)

// Test classification is structural: filename patterns and text
// counting, not executable coverage.
var testFilePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(^|/)test_[^/]+\.py$`),
	regexp.MustCompile(`_test\.py$`),
	regexp.MustCompile(`\.(test|spec)\.[jt]sx?$`),
	regexp.MustCompile(`_test\.go$`),
	regexp.MustCompile(`Tests?\.java$`),
	regexp.MustCompile(`_test\.rb$`),
	regexp.MustCompile(`_spec\.rb$`),
	regexp.MustCompile(`(^|/)(tests?|__tests__|spec)/`),
}

var testFunctionPatterns = map[string]*regexp.Regexp{
	"python":     regexp.MustCompile(`(?m)^\s*(async\s+)?def test_\w+`),
	"go":         regexp.MustCompile(`(?m)^func (Test|Benchmark|Fuzz)\w+`),
	"javascript": regexp.MustCompile(`(?m)^\s*(it|test)\s*\(`),
	"typescript": regexp.MustCompile(`(?m)^\s*(it|test)\s*\(`),
	"java":       regexp.MustCompile(`(?m)^\s*@Test\b`),
	"ruby":       regexp.MustCompile(`(?m)^\s*(it\s+['"]|def test_)`),
}

var assertionPattern = regexp.MustCompile(`(?m)\b(assert\w*[.( ]|expect\s*\(|require\.\w+\(|t\.(Error|Fatal|Errorf|Fatalf)\()`)

// matchSimilarity is the edlib similarity above which a test file is
// considered to cover a source file of nearly the same base name.
const matchSimilarity = 0.8

// TestAnalyzer measures test presence: source/test file ratio, test
// function and assertion counts, and a structural coverage estimate.
type TestAnalyzer struct{}

func (a *TestAnalyzer) Name() string { return "tests" }

func (a *TestAnalyzer) Analyze(ctx context.Context, target *Target) (*types.AnalyzerResult, error) {
	result := newResult(a.Name(), target)

	var sources, tests []types.SourceFile
	for _, file := range target.Files {
		if err := checkContext(ctx); err != nil {
			return nil, err
		}
		if isTestFile(file.RelPath) {
			tests = append(tests, file)
		} else {
			sources = append(sources, file)
		}
	}

	testFunctions := 0
	assertions := 0
	for _, file := range tests {
		if pattern := testFunctionPatterns[file.Language]; pattern != nil {
			testFunctions += len(pattern.FindAllString(file.Content, -1))
		}
		assertions += len(assertionPattern.FindAllString(file.Content, -1))
	}

	pairedSources := a.pairedSourceCount(sources, tests)

	result.Metrics["source_files"] = float64(len(sources))
	result.Metrics["test_files"] = float64(len(tests))
	result.Metrics["test_functions"] = float64(testFunctions)
	result.Metrics["assertions"] = float64(assertions)
	result.Metrics["sources_with_tests"] = float64(pairedSources)

	if len(sources) == 0 {
		return result, nil
	}

	ratio := float64(len(tests)) / float64(len(sources))
	result.Metrics["test_ratio"] = ratio

	// Structural proxy, not executable coverage: file ratio plus test
	// function density, capped at 100.
	density := float64(testFunctions) / (3 * float64(len(sources)))
	if density > 1 {
		density = 1
	}
	estimated := 60*minFloat(ratio, 1) + 40*density
	result.Metrics["estimated_coverage_pct"] = estimated

	switch {
	case len(tests) == 0:
		result.Issues = append(result.Issues, types.Issue{
			Type:           "no_tests",
			Severity:       types.SeverityHigh,
			Title:          "No test files found",
			Description:    fmt.Sprintf("%d source files have no accompanying tests", len(sources)),
			FilePath:       sources[0].RelPath,
			LineStart:      1,
			LineEnd:        1,
			Confidence:     0.9,
			Recommendation: "Add a test suite; start with the most complex modules",
		})
	case ratio < 0.3:
		result.Issues = append(result.Issues, types.Issue{
			Type:           "low_test_ratio",
			Severity:       types.SeverityMedium,
			Title:          "Low test-to-source ratio",
			Description:    fmt.Sprintf("%d test files for %d source files (ratio %.2f)", len(tests), len(sources), ratio),
			FilePath:       tests[0].RelPath,
			LineStart:      1,
			LineEnd:        1,
			Confidence:     0.7,
			Recommendation: "Grow the test suite alongside new code",
		})
	}

	return result, nil
}

// pairedSourceCount matches source files to test files by base-name
// similarity: test_user.py covers user.py even when they live in
// different directories.
func (a *TestAnalyzer) pairedSourceCount(sources, tests []types.SourceFile) int {
	if len(tests) == 0 {
		return 0
	}

	testNames := make([]string, 0, len(tests))
	for _, file := range tests {
		testNames = append(testNames, normalizeTestName(file.RelPath))
	}

	paired := 0
	for _, source := range sources {
		base := baseName(source.RelPath)
		for _, name := range testNames {
			if name == base {
				paired++
				break
			}
			score, err := edlib.StringsSimilarity(base, name, edlib.Levenshtein)
			if err == nil && score >= matchSimilarity {
				paired++
				break
			}
		}
	}
	return paired
}

func isTestFile(relPath string) bool {
	for _, pattern := range testFilePatterns {
		if pattern.MatchString(relPath) {
			return true
		}
	}
	return false
}

// normalizeTestName strips test markers from a test file's base name
// so it can be compared against source base names.
func normalizeTestName(relPath string) string {
	base := baseName(relPath)
	base = strings.TrimPrefix(base, "test_")
	base = strings.TrimSuffix(base, "_test")
	base = strings.TrimSuffix(base, ".test")
	base = strings.TrimSuffix(base, ".spec")
	base = strings.TrimSuffix(base, "_spec")
	base = strings.TrimSuffix(base, "Test")
	return base
}

func baseName(relPath string) string {
	base := filepath.Base(relPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
