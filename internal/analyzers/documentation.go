package analyzers

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/codehawk/codehawk/internal/parser"
	"github.com/codehawk/codehawk/internal/types"
)

// Heuristics for languages without a structural parser: function
// signatures vs doc-comment blocks.
var (
	signatureHeuristic  = regexp.MustCompile(`(?m)^\s*(def |fn |fun |sub |function\b|public \w+ \w+\s*\()`)
	docCommentHeuristic = regexp.MustCompile(`(?m)^\s*(///|/\*\*|##|#'|"""|''')`)
)

// DocumentationAnalyzer measures doc coverage: the share of functions
// carrying a leading doc comment or docstring.
type DocumentationAnalyzer struct{}

func (a *DocumentationAnalyzer) Name() string { return "documentation" }

const lowCoverageThreshold = 50.0

func (a *DocumentationAnalyzer) Analyze(ctx context.Context, target *Target) (*types.AnalyzerResult, error) {
	result := newResult(a.Name(), target)

	documented := 0
	undocumented := 0

	for _, file := range target.Files {
		if err := checkContext(ctx); err != nil {
			return nil, err
		}

		if !parser.Supported(file.Language) {
			// Signature-vs-comment-block comparison, metric only.
			sigs := len(signatureHeuristic.FindAllString(file.Content, -1))
			docs := len(docCommentHeuristic.FindAllString(file.Content, -1))
			if docs > sigs {
				docs = sigs
			}
			documented += docs
			undocumented += sigs - docs
			continue
		}

		info, err := target.Parser.Analyze(file.Path, file.Language, file.Content)
		if err != nil || info == nil || info.SyntaxError != nil {
			continue
		}

		lines := strings.Split(file.Content, "\n")
		fileDocumented := 0
		for _, fn := range info.Functions {
			if hasDoc(file.Language, lines, fn) {
				fileDocumented++
			}
		}
		documented += fileDocumented
		undocumented += len(info.Functions) - fileDocumented

		if n := len(info.Functions); n >= 5 {
			coverage := 100 * float64(fileDocumented) / float64(n)
			if coverage < lowCoverageThreshold {
				result.Issues = append(result.Issues, types.Issue{
					Type:     "low_doc_coverage",
					Severity: types.SeverityLow,
					Title:    "Low documentation coverage",
					Description: fmt.Sprintf("%d of %d functions lack a doc comment (%.0f%% coverage)",
						n-fileDocumented, n, coverage),
					FilePath:       file.RelPath,
					LineStart:      1,
					LineEnd:        1,
					Confidence:     0.8,
					Recommendation: "Document the public functions first",
					Metadata:       map[string]string{"coverage_pct": fmt.Sprintf("%.0f", coverage)},
				})
			}
		}
	}

	total := documented + undocumented
	if total > 0 {
		result.Metrics["doc_coverage_pct"] = 100 * float64(documented) / float64(total)
	}
	result.Metrics["documented_functions"] = float64(documented)
	result.Metrics["undocumented_functions"] = float64(undocumented)
	return result, nil
}

// hasDoc checks for a docstring (Python: first lines of the body) or a
// leading comment on the line above the declaration.
func hasDoc(language string, lines []string, fn parser.Function) bool {
	if language == "python" {
		// The docstring opens within the first lines after the def
		// line; scan a short window to allow multi-line signatures.
		for i := fn.StartLine; i < fn.StartLine+4 && i < len(lines); i++ {
			trimmed := strings.TrimSpace(lines[i])
			if strings.HasPrefix(trimmed, `"""`) || strings.HasPrefix(trimmed, "'''") ||
				strings.HasPrefix(trimmed, `r"""`) || strings.HasPrefix(trimmed, `f"""`) {
				return true
			}
		}
		return false
	}

	idx := fn.StartLine - 2 // line above the declaration, 0-based
	if idx < 0 || idx >= len(lines) {
		return false
	}
	trimmed := strings.TrimSpace(lines[idx])
	return strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "*") ||
		strings.HasPrefix(trimmed, "*/") || strings.HasPrefix(trimmed, "/*") ||
		strings.HasPrefix(trimmed, "#")
}
