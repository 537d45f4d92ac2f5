package analyzers

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codehawk/codehawk/internal/types"
)

// pyFunctionWithBranches builds a function whose complexity is exactly
// 1 + branches.
func pyFunctionWithBranches(name string, branches int) string {
	var b strings.Builder
	b.WriteString("def " + name + "(x):\n")
	b.WriteString("    total = 0\n")
	for i := 0; i < branches; i++ {
		b.WriteString("    if x > " + string(rune('0'+i%10)) + ":\n")
		b.WriteString("        total += 1\n")
	}
	b.WriteString("    return total\n")
	return b.String()
}

func TestComplexity_ThresholdSeverities(t *testing.T) {
	target := newTarget(nil,
		srcFile("hot.py", "python", pyFunctionWithBranches("hot", 11)),
		srcFile("warm.py", "python", pyFunctionWithBranches("warm", 6)),
		srcFile("cool.py", "python", pyFunctionWithBranches("cool", 2)),
	)

	result, err := (&ComplexityAnalyzer{}).Analyze(context.Background(), target)
	require.NoError(t, err)

	require.Len(t, result.Issues, 2)
	bySeverity := map[types.Severity]types.Issue{}
	for _, issue := range result.Issues {
		assert.Equal(t, "high_complexity", issue.Type)
		bySeverity[issue.Severity] = issue
	}

	high := bySeverity[types.SeverityHigh]
	assert.Equal(t, "hot.py", high.FilePath)
	assert.Equal(t, "12", high.Metadata["complexity"])
	assert.Equal(t, "hot", high.Metadata["function"])

	medium := bySeverity[types.SeverityMedium]
	assert.Equal(t, "warm.py", medium.FilePath)
	assert.Equal(t, "7", medium.Metadata["complexity"])

	assert.Equal(t, 3.0, result.Metrics["functions_measured"])
	assert.Equal(t, 12.0, result.Metrics["max_cyclomatic_complexity"])
	assert.InDelta(t, (12.0+7.0+3.0)/3.0, result.Metrics["avg_cyclomatic_complexity"], 1e-9)
}

func TestComplexity_AtHighThresholdIsMedium(t *testing.T) {
	// Complexity exactly at the high threshold stays medium; only
	// strictly-above crosses.
	target := newTarget(nil, srcFile("edge.py", "python", pyFunctionWithBranches("edge", 9)))

	result, err := (&ComplexityAnalyzer{}).Analyze(context.Background(), target)
	require.NoError(t, err)

	require.Len(t, result.Issues, 1)
	assert.Equal(t, types.SeverityMedium, result.Issues[0].Severity)
	assert.Equal(t, "10", result.Issues[0].Metadata["complexity"])
}

func TestComplexity_MaintainabilityIndex(t *testing.T) {
	assert.Equal(t, 171.0, maintainabilityIndex(0, 0, 0))
	assert.Equal(t, 0.0, maintainabilityIndex(100, 50, 20), "clamped at zero")

	mi := maintainabilityIndex(10, 3, 2)
	assert.InDelta(t, 171-5.2*10-0.23*3-16.2*2, mi, 1e-9)
}

func TestComplexity_EstimatesUnparsedLanguages(t *testing.T) {
	ruby := `def greet(name)
  if name && name.length > 0
    puts "hi"
  elsif name
    puts "?"
  end
end
`
	target := newTarget(nil, srcFile("greet.rb", "ruby", ruby))

	result, err := (&ComplexityAnalyzer{}).Analyze(context.Background(), target)
	require.NoError(t, err)

	assert.Empty(t, result.Issues, "estimates never produce issues")
	assert.Equal(t, 1.0, result.Metrics["estimated_files"])
	assert.Greater(t, result.Metrics["estimated_complexity"], 0.0)
	_, measured := result.Metrics["functions_measured"]
	assert.False(t, measured)
}

func TestComplexity_SkipsUnparseableFiles(t *testing.T) {
	target := newTarget(nil, srcFile("broken.py", "python", "def broken(:\n    return\n"))

	result, err := (&ComplexityAnalyzer{}).Analyze(context.Background(), target)
	require.NoError(t, err)
	assert.Empty(t, result.Issues)
	assert.Equal(t, 0.0, result.Metrics["max_nesting_depth"])
}
