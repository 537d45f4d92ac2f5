package analyzers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codehawk/codehawk/internal/types"
)

func TestDocumentation_PythonDocstrings(t *testing.T) {
	source := `def documented(a):
    """Adds one."""
    return a + 1

def bare(a):
    return a - 1
`
	target := newTarget(nil, srcFile("m.py", "python", source))

	result, err := (&DocumentationAnalyzer{}).Analyze(context.Background(), target)
	require.NoError(t, err)

	assert.Equal(t, 1.0, result.Metrics["documented_functions"])
	assert.Equal(t, 1.0, result.Metrics["undocumented_functions"])
	assert.Equal(t, 50.0, result.Metrics["doc_coverage_pct"])
	assert.Empty(t, result.Issues, "files under five functions never get a coverage issue")
}

func TestDocumentation_GoLeadingComments(t *testing.T) {
	source := `package m

// Add returns a plus b.
func Add(a, b int) int {
	return a + b
}

func sub(a, b int) int {
	return a - b
}
`
	target := newTarget(nil, srcFile("m.go", "go", source))

	result, err := (&DocumentationAnalyzer{}).Analyze(context.Background(), target)
	require.NoError(t, err)

	assert.Equal(t, 1.0, result.Metrics["documented_functions"])
	assert.Equal(t, 1.0, result.Metrics["undocumented_functions"])
}

func TestDocumentation_LowCoverageIssue(t *testing.T) {
	source := `def a(x):
    """doc"""
    return x

def b(x):
    return x

def c(x):
    return x

def d(x):
    return x

def e(x):
    return x
`
	target := newTarget(nil, srcFile("svc.py", "python", source))

	result, err := (&DocumentationAnalyzer{}).Analyze(context.Background(), target)
	require.NoError(t, err)

	require.Len(t, result.Issues, 1)
	issue := result.Issues[0]
	assert.Equal(t, "low_doc_coverage", issue.Type)
	assert.Equal(t, types.SeverityLow, issue.Severity)
	assert.Equal(t, "svc.py", issue.FilePath)
	assert.Equal(t, "20", issue.Metadata["coverage_pct"])
}

func TestDocumentation_HeuristicForUnparsedLanguages(t *testing.T) {
	ruby := `## Greets the user.
def greet(name)
  puts name
end

def silent(name)
end
`
	target := newTarget(nil, srcFile("greet.rb", "ruby", ruby))

	result, err := (&DocumentationAnalyzer{}).Analyze(context.Background(), target)
	require.NoError(t, err)

	assert.Equal(t, 1.0, result.Metrics["documented_functions"])
	assert.Equal(t, 1.0, result.Metrics["undocumented_functions"])
}
