package analyzers

import (
	"context"
	"fmt"
	"regexp"

	"github.com/codehawk/codehawk/internal/parser"
	"github.com/codehawk/codehawk/internal/types"
)

// decisionKeywords estimates complexity for languages without a
// structural parser by counting decision-point keywords.
var decisionKeywords = regexp.MustCompile(`\b(if|elsif|elif|else if|for|while|until|when|case|rescue|catch|except)\b|&&|\|\|`)

// ComplexityAnalyzer computes cyclomatic complexity and a
// maintainability index from parser output, with a keyword-counting
// estimate for languages lacking a parser.
type ComplexityAnalyzer struct{}

func (a *ComplexityAnalyzer) Name() string { return "complexity" }

// Maintainability index: a simplified comparative score, not the SEI
// formula. Clamped to [0, 171].
func maintainabilityIndex(linesPerFunction, avgComplexity, functionsPerFile float64) float64 {
	mi := 171 - 5.2*linesPerFunction - 0.23*avgComplexity - 16.2*functionsPerFile
	if mi < 0 {
		return 0
	}
	return mi
}

func (a *ComplexityAnalyzer) Analyze(ctx context.Context, target *Target) (*types.AnalyzerResult, error) {
	result := newResult(a.Name(), target)
	t := target.Config.Thresholds

	totalComplexity := 0
	maxComplexity := 0
	maxNesting := 0
	functionCount := 0
	miSum := 0.0
	miFiles := 0

	estimatedDecisions := 0
	estimatedFiles := 0

	for _, file := range target.Files {
		if err := checkContext(ctx); err != nil {
			return nil, err
		}

		if !parser.Supported(file.Language) {
			// Estimate only; explicitly labeled as such in the metrics.
			estimatedDecisions += len(decisionKeywords.FindAllString(file.Content, -1))
			estimatedFiles++
			continue
		}

		info, err := target.Parser.Analyze(file.Path, file.Language, file.Content)
		if err != nil || info == nil || info.SyntaxError != nil {
			continue
		}

		if info.MaxNestingDepth > maxNesting {
			maxNesting = info.MaxNestingDepth
		}

		fileComplexity := 0
		fileLines := 0
		for _, fn := range info.Functions {
			functionCount++
			fileComplexity += fn.Complexity
			fileLines += fn.LengthLines()
			totalComplexity += fn.Complexity
			if fn.Complexity > maxComplexity {
				maxComplexity = fn.Complexity
			}

			switch {
			case fn.Complexity > t.ComplexityHigh:
				result.Issues = append(result.Issues, complexityIssue(file, fn, types.SeverityHigh, t.ComplexityHigh))
			case fn.Complexity >= t.ComplexityMedium:
				result.Issues = append(result.Issues, complexityIssue(file, fn, types.SeverityMedium, t.ComplexityMedium))
			}
		}

		if n := len(info.Functions); n > 0 {
			avg := float64(fileComplexity) / float64(n)
			miSum += maintainabilityIndex(float64(fileLines)/float64(n), avg, float64(n))
			miFiles++
		}
	}

	if functionCount > 0 {
		result.Metrics["avg_cyclomatic_complexity"] = float64(totalComplexity) / float64(functionCount)
		result.Metrics["max_cyclomatic_complexity"] = float64(maxComplexity)
		result.Metrics["functions_measured"] = float64(functionCount)
	}
	if miFiles > 0 {
		result.Metrics["maintainability_index"] = miSum / float64(miFiles)
	}
	result.Metrics["max_nesting_depth"] = float64(maxNesting)
	if estimatedFiles > 0 {
		result.Metrics["estimated_complexity"] = float64(estimatedDecisions) / float64(estimatedFiles)
		result.Metrics["estimated_files"] = float64(estimatedFiles)
	}

	return result, nil
}

func complexityIssue(file types.SourceFile, fn parser.Function, severity types.Severity, threshold int) types.Issue {
	return types.Issue{
		Type:     "high_complexity",
		Severity: severity,
		Title:    fmt.Sprintf("Function %s has cyclomatic complexity %d", fn.Name, fn.Complexity),
		Description: fmt.Sprintf("Complexity %d exceeds the threshold of %d; the function has more independent paths than can be reasonably tested",
			fn.Complexity, threshold),
		FilePath:       file.RelPath,
		LineStart:      fn.StartLine,
		LineEnd:        fn.EndLine,
		Confidence:     0.9,
		Recommendation: "Split the function along its branching structure",
		Metadata: map[string]string{
			"function":   fn.Name,
			"complexity": fmt.Sprintf("%d", fn.Complexity),
		},
	}
}
