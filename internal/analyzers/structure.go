package analyzers

import (
	"context"
	"fmt"

	"github.com/codehawk/codehawk/internal/parser"
	"github.com/codehawk/codehawk/internal/types"
)

// StructureAnalyzer runs the structural parser over every parseable
// file and reports syntax errors, bare exception handlers, and
// deep-nesting events.
type StructureAnalyzer struct{}

func (a *StructureAnalyzer) Name() string { return "structure" }

func (a *StructureAnalyzer) Analyze(ctx context.Context, target *Target) (*types.AnalyzerResult, error) {
	result := newResult(a.Name(), target)

	functions := 0
	classes := 0
	parseFailures := 0
	maxNesting := 0

	for _, file := range target.Files {
		if err := checkContext(ctx); err != nil {
			return nil, err
		}
		if !parser.Supported(file.Language) {
			continue
		}

		info, err := target.Parser.Analyze(file.Path, file.Language, file.Content)
		if err != nil || info == nil {
			continue
		}

		if info.SyntaxError != nil {
			parseFailures++
			result.Issues = append(result.Issues, types.Issue{
				Type:           "syntax_error",
				Severity:       types.SeverityCritical,
				Title:          "File fails to parse",
				Description:    fmt.Sprintf("%s at line %d", info.SyntaxError.Message, info.SyntaxError.Line),
				FilePath:       file.RelPath,
				LineStart:      info.SyntaxError.Line,
				LineEnd:        info.SyntaxError.Line,
				Confidence:     1.0,
				Recommendation: "Fix the syntax error; the file is excluded from structural metrics until it parses",
			})
			continue
		}

		functions += len(info.Functions)
		classes += len(info.Classes)
		if info.MaxNestingDepth > maxNesting {
			maxNesting = info.MaxNestingDepth
		}

		for _, line := range info.BareHandlers {
			result.Issues = append(result.Issues, types.Issue{
				Type:           "bare_except",
				Severity:       types.SeverityHigh,
				Title:          "Bare exception handler",
				Description:    "except: without an exception type swallows every error, including KeyboardInterrupt and SystemExit",
				FilePath:       file.RelPath,
				LineStart:      line,
				LineEnd:        line,
				Confidence:     1.0,
				Recommendation: "Catch the specific exception types the handler can deal with",
			})
		}

		for _, event := range info.DeepNesting {
			result.Issues = append(result.Issues, types.Issue{
				Type:        "deep_nesting",
				Severity:    types.SeverityMedium,
				Title:       "Deeply nested control flow",
				Description: fmt.Sprintf("Nesting depth %d exceeds the configured maximum of %d", event.Depth, target.Config.Thresholds.MaxNestingDepth),
				FilePath:    file.RelPath,
				LineStart:   event.Line,
				LineEnd:     event.Line,
				Confidence:  0.8,
				Recommendation: "Extract the inner block into a function or use early returns",
				Metadata:       map[string]string{"depth": fmt.Sprintf("%d", event.Depth)},
			})
		}
	}

	result.Metrics["functions_total"] = float64(functions)
	result.Metrics["classes_total"] = float64(classes)
	result.Metrics["parse_failures"] = float64(parseFailures)
	result.Metrics["max_nesting_depth"] = float64(maxNesting)
	return result, nil
}
